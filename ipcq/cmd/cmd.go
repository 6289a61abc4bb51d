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

// Package cmd holds implementations of the ipcq commands.
package cmd

import (
	"strings"
)

// queueName canonicalizes a user-supplied queue name by adding the leading
// '/' when it is missing. Everything else about the name, including the
// no-further-slashes rule, is validated by the mq package before any kernel
// call is made.
func queueName(arg string) string {
	if strings.HasPrefix(arg, "/") {
		return arg
	}
	return "/" + arg
}
