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

// Package pipe provides unidirectional byte-stream channels built on Linux's
// pipe2(2) syscall.
//
// A pipe is created as a connected pair of ends: the write end only sends
// and the read end only receives. The pair has no name, so sharing it with
// another process means passing an already-open descriptor, for example
// through File on either end.
//
// The kernel descriptors stay permanently non-blocking. Blocking behavior
// is emulated per end over poll, so SetBlocking never mutates descriptor
// state that a child process might share.
package pipe

import (
	"os"
	"sync/atomic"

	"github.com/hostipc/hostipc/pkg/fd"
	"github.com/hostipc/hostipc/pkg/ipcerr"
)

// end is the state common to both pipe ends.
type end struct {
	file *fd.FD

	// blocking selects how I/O behaves when the kernel buffer cannot make
	// progress. It affects only operations through this end.
	blocking atomic.Bool
}

// SetBlocking switches the end between blocking and non-blocking mode. The
// other end of the pipe is unaffected.
func (e *end) SetBlocking(blocking bool) {
	e.blocking.Store(blocking)
}

// FD returns the underlying file descriptor, for example to register it with
// a poller. The descriptor remains owned by the end; closing it directly
// breaks the abstraction.
func (e *end) FD() int {
	return e.file.FD()
}

// File returns an os.File over a fresh duplicate of the end's descriptor,
// for handing to a child process. The end keeps ownership of its own
// descriptor; the caller owns the returned file.
func (e *end) File() (*os.File, error) {
	f, err := e.file.File()
	if err != nil {
		return nil, ipcerr.FromError(err)
	}
	return f, nil
}

// Close releases the end's descriptor. Only the first call releases; later
// calls return an error. Closing the last write end is what turns reads on
// the other side into end-of-stream.
func (e *end) Close() error {
	if err := e.file.Close(); err != nil {
		return ipcerr.FromError(err)
	}
	return nil
}

// WriteEnd is the sending side of a pipe.
type WriteEnd struct {
	end
}

// ReadEnd is the receiving side of a pipe.
type ReadEnd struct {
	end
}
