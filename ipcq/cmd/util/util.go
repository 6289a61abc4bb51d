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

// Package util groups functions used by commands to report errors.
package util

import (
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/hostipc/hostipc/pkg/log"
)

// ErrorLogger is where user-visible errors are written in addition to the
// log, for the case where the log does not already reach the user's
// terminal. It is set once during startup, before any command executes.
var ErrorLogger io.Writer

// Errorf logs an error to the log and to ErrorLogger, and returns
// ExitFailure for convenience with subcommands.Command.Execute
// implementations.
func Errorf(format string, args ...any) subcommands.ExitStatus {
	log.Warningf(format, args...)
	if ErrorLogger != nil {
		fmt.Fprintf(ErrorLogger, format+"\n", args...)
	}
	return subcommands.ExitFailure
}

// Fatalf logs an error like Errorf and exits the process.
func Fatalf(format string, args ...any) {
	Errorf(format, args...)
	// Return an error that is unlikely to be used by the application.
	os.Exit(128)
}
