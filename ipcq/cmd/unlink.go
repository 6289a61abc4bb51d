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

package cmd

import (
	"context"

	"github.com/google/subcommands"

	"github.com/hostipc/hostipc/ipcq/cmd/util"
	"github.com/hostipc/hostipc/ipcq/flag"
	"github.com/hostipc/hostipc/pkg/log"
	"github.com/hostipc/hostipc/pkg/mq"
)

// Unlink implements subcommands.Command for the "unlink" command.
type Unlink struct{}

// Name implements subcommands.Command.Name.
func (*Unlink) Name() string {
	return "unlink"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Unlink) Synopsis() string {
	return "remove a queue name from the system"
}

// Usage implements subcommands.Command.Usage.
func (*Unlink) Usage() string {
	return `unlink <name>

Unlink removes the queue name <name> from the system. Processes that hold
the queue open keep using it; the queue itself is destroyed once the last
handle closes.

`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*Unlink) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Unlink) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	name := queueName(f.Arg(0))

	if err := mq.Unlink(name); err != nil {
		return util.Errorf("unlinking queue %q: %v", name, err)
	}
	log.Debugf("Unlinked queue %q", name)
	return subcommands.ExitSuccess
}
