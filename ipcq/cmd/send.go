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

// Send implements subcommands.Command for the "send" command.
type Send struct {
	priority uint
	create   bool
	nonblock bool
}

// Name implements subcommands.Command.Name.
func (*Send) Name() string {
	return "send"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Send) Synopsis() string {
	return "send a message to a queue"
}

// Usage implements subcommands.Command.Usage.
func (*Send) Usage() string {
	return `send [flags] <name> <message>

Send enqueues <message> on the queue named <name>. When the queue is full
the command waits for space, unless -nonblock makes it fail immediately
instead.

OPTIONS:
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (s *Send) SetFlags(f *flag.FlagSet) {
	f.UintVar(&s.priority, "priority", mq.DefaultPriority, "priority of the message; higher priorities are received first")
	f.BoolVar(&s.create, "create", false, "create the queue with the global limits if it does not exist")
	f.BoolVar(&s.nonblock, "nonblock", false, "fail instead of waiting when the queue is full")
}

// Execute implements subcommands.Command.Execute.
func (s *Send) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)
	name := queueName(f.Arg(0))
	payload := []byte(f.Arg(1))

	var q *mq.Queue
	var err error
	if s.create {
		q, err = mq.Create(name, conf.MaxMsg, conf.MsgSize, conf.Mode.OSFileMode())
	} else {
		q, err = mq.Open(name)
	}
	if err != nil {
		return util.Errorf("opening queue %q: %v", name, err)
	}
	defer q.Close()

	if s.nonblock {
		q.SetBlocking(false)
	}
	if err := q.SendPriority(payload, uint32(s.priority)); err != nil {
		return util.Errorf("sending %d bytes to %q: %v", len(payload), name, err)
	}
	log.Debugf("Sent %d bytes to %q with priority %d", len(payload), name, s.priority)
	return subcommands.ExitSuccess
}
