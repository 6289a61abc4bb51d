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
	"encoding/json"
	"os"

	"github.com/google/subcommands"

	"github.com/hostipc/hostipc/ipcq/cmd/util"
	"github.com/hostipc/hostipc/ipcq/flag"
	"github.com/hostipc/hostipc/pkg/log"
	"github.com/hostipc/hostipc/pkg/mq"
)

// queueStat is the JSON object printed by the "stat" command.
type queueStat struct {
	Name    string `json:"name"`
	Depth   int64  `json:"depth"`
	MaxMsg  int64  `json:"maxMsg"`
	MsgSize int64  `json:"msgSize"`
}

// Stat implements subcommands.Command for the "stat" command.
type Stat struct{}

// Name implements subcommands.Command.Name.
func (*Stat) Name() string {
	return "stat"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Stat) Synopsis() string {
	return "print the depth and limits of a queue"
}

// Usage implements subcommands.Command.Usage.
func (*Stat) Usage() string {
	return `stat <name>

Stat prints the current depth and the limits of the queue named <name> as a
single JSON object on stdout.

`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*Stat) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Stat) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	name := queueName(f.Arg(0))

	q, err := mq.Open(name)
	if err != nil {
		return util.Errorf("opening queue %q: %v", name, err)
	}
	defer q.Close()

	attr, err := q.Attr()
	if err != nil {
		return util.Errorf("reading attributes of %q: %v", name, err)
	}
	st := queueStat{
		Name:    q.Name(),
		Depth:   attr.CurMsgs,
		MaxMsg:  attr.MaxMsg,
		MsgSize: attr.MsgSize,
	}
	log.Debugf("Stat of queue %q: %+v", name, st)

	if err := json.NewEncoder(os.Stdout).Encode(st); err != nil {
		return util.Errorf("encoding %+v: %v", st, err)
	}
	return subcommands.ExitSuccess
}
