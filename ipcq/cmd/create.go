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
	"github.com/hostipc/hostipc/ipcq/config"
	"github.com/hostipc/hostipc/ipcq/flag"
	"github.com/hostipc/hostipc/pkg/log"
	"github.com/hostipc/hostipc/pkg/mq"
)

// Create implements subcommands.Command for the "create" command.
type Create struct {
	exclusive bool
	maxMsg    int
	msgSize   int
	mode      string
}

// Name implements subcommands.Command.Name.
func (*Create) Name() string {
	return "create"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Create) Synopsis() string {
	return "create a message queue"
}

// Usage implements subcommands.Command.Usage.
func (*Create) Usage() string {
	return `create [flags] <name>

Create registers a message queue under <name>. Queue names consist of one
leading '/' followed by characters that contain no further '/'; a missing
leading '/' is added. Unless -exclusive is given, an existing queue of the
same name is attached instead and keeps its original limits.

OPTIONS:
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (c *Create) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.exclusive, "exclusive", false, "fail if the queue already exists instead of attaching to it")
	f.IntVar(&c.maxMsg, "maxmsg", -1, "maximum number of queued messages; the global -maxmsg applies when unset")
	f.IntVar(&c.msgSize, "msgsize", -1, "maximum message size in bytes; the global -msgsize applies when unset")
	f.StringVar(&c.mode, "mode", "", "octal permission bits; the global -mode applies when unset")
}

// Execute implements subcommands.Command.Execute.
func (c *Create) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)
	name := queueName(f.Arg(0))

	maxMsg := conf.MaxMsg
	if c.maxMsg >= 0 {
		maxMsg = c.maxMsg
	}
	msgSize := conf.MsgSize
	if c.msgSize >= 0 {
		msgSize = c.msgSize
	}
	mode := conf.Mode
	if c.mode != "" {
		if err := mode.Set(c.mode); err != nil {
			return util.Errorf("%v", err)
		}
	}

	var q *mq.Queue
	var err error
	if c.exclusive {
		q, err = mq.CreateExclusive(name, maxMsg, msgSize, mode.OSFileMode())
	} else {
		q, err = mq.Create(name, maxMsg, msgSize, mode.OSFileMode())
	}
	if err != nil {
		return util.Errorf("creating queue %q: %v", name, err)
	}
	defer q.Close()

	if q.Created() {
		log.Debugf("Created queue %q, maxmsg=%d, msgsize=%d, mode=%v", name, maxMsg, msgSize, mode.OSFileMode())
	} else {
		gotMaxMsg, gotMsgSize := q.Capacity()
		log.Debugf("Attached to existing queue %q, maxmsg=%d, msgsize=%d", name, gotMaxMsg, gotMsgSize)
	}
	return subcommands.ExitSuccess
}
