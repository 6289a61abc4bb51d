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
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/hostipc/hostipc/ipcq/cmd/util"
	"github.com/hostipc/hostipc/ipcq/flag"
	"github.com/hostipc/hostipc/pkg/ipcerr"
	"github.com/hostipc/hostipc/pkg/log"
	"github.com/hostipc/hostipc/pkg/mq"
)

// Recv implements subcommands.Command for the "recv" command.
type Recv struct {
	nonblock     bool
	follow       bool
	showPriority bool
}

// Name implements subcommands.Command.Name.
func (*Recv) Name() string {
	return "recv"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Recv) Synopsis() string {
	return "receive a message from a queue"
}

// Usage implements subcommands.Command.Usage.
func (*Recv) Usage() string {
	return `recv [flags] <name>

Recv takes the highest priority message off the queue named <name> and
prints its payload to stdout. When the queue is empty the command waits for
a message, unless -nonblock makes it fail immediately instead. With -follow
it keeps printing messages as they arrive; combining -follow with -nonblock
drains the queue and exits once it is empty.

OPTIONS:
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (r *Recv) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.nonblock, "nonblock", false, "fail instead of waiting when the queue is empty")
	f.BoolVar(&r.follow, "follow", false, "keep receiving messages instead of stopping after one")
	f.BoolVar(&r.showPriority, "show-priority", false, "prefix each payload with its priority")
}

// Execute implements subcommands.Command.Execute.
func (r *Recv) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
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

	if r.nonblock {
		q.SetBlocking(false)
	}

	// A fast producer in follow mode would otherwise flood the log.
	rl := log.BasicRateLimitedLogger(time.Second)
	for {
		b, prio, err := q.ReceiveBytes()
		if r.follow && err == ipcerr.ErrQueueEmpty {
			// Drained. Only reachable in non-blocking mode.
			return subcommands.ExitSuccess
		}
		if err != nil {
			return util.Errorf("receiving from %q: %v", name, err)
		}
		rl.Debugf("Received %d bytes from %q with priority %d", len(b), name, prio)

		if r.showPriority {
			fmt.Fprintf(os.Stdout, "%d %s\n", prio, b)
		} else {
			fmt.Fprintf(os.Stdout, "%s\n", b)
		}
		if !r.follow {
			return subcommands.ExitSuccess
		}
	}
}
