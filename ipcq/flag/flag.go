// Copyright 2025 The hostipc Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package flag wraps the standard flag package so the rest of ipcq deals
// with a single flag type, including the places that need to read a flag's
// typed value back out of a parsed FlagSet.
package flag

import (
	"flag"
)

// FlagSet is an alias for flag.FlagSet.
type FlagSet = flag.FlagSet

// Flag is an alias for flag.Flag.
type Flag = flag.Flag

// Value is an alias for flag.Value.
type Value = flag.Value

// ErrorHandling is an alias for flag.ErrorHandling.
type ErrorHandling = flag.ErrorHandling

// ContinueOnError is an alias for flag.ContinueOnError.
const ContinueOnError = flag.ContinueOnError

// NewFlagSet is an alias for flag.NewFlagSet.
var NewFlagSet = flag.NewFlagSet

// Aliases for the functions on the default command-line FlagSet.
var (
	Bool   = flag.Bool
	Int    = flag.Int
	Lookup = flag.Lookup
	Parse  = flag.Parse
	String = flag.String
	Uint   = flag.Uint
)

// CommandLine is the default command-line FlagSet.
var CommandLine = flag.CommandLine

// Get reads the typed value out of a flag. Every flag registered through
// this package satisfies flag.Getter.
func Get(v Value) any {
	return v.(flag.Getter).Get()
}
