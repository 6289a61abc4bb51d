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

// Package eventfd provides 64-bit event counters built on Linux's
// eventfd(2) syscall.
//
// A counter operates in one of two modes, fixed at creation. Additive
// counters accumulate produced values and surrender the whole total to the
// next read, which resets them to zero. Semaphore counters hand out a single
// unit per read. Both modes share a ceiling of MaxUint64-1; a production
// that would push the counter past it does not go through.
//
// The kernel descriptor stays permanently non-blocking. Blocking behavior
// belongs to the handle: a blocking operation that cannot make progress
// parks the calling thread in poll until the counter changes, so SetBlocking
// is a handle-local bit flip and never a descriptor mutation.
package eventfd

import (
	"sync/atomic"

	"github.com/hostipc/hostipc/pkg/fd"
	"github.com/hostipc/hostipc/pkg/ipcerr"
)

// Flags configures a counter at creation.
type Flags int

const (
	// Semaphore selects semaphore mode: each read consumes and returns a
	// single unit instead of the accumulated total.
	Semaphore Flags = 1 << iota

	// NonBlock starts the handle in non-blocking mode, as if
	// SetBlocking(false) were called on it immediately.
	NonBlock

	// CloseOnExec closes the descriptor across exec. Leave it unset when
	// the counter is shared with a child process.
	CloseOnExec
)

// Eventfd is a handle to an event counter. Handles are safe for concurrent
// use; the kernel serializes counter updates.
type Eventfd struct {
	file      *fd.FD
	semaphore bool

	// blocking selects how Read and Write behave when the counter cannot
	// make progress. It affects only operations through this handle.
	blocking atomic.Bool
}

// Semaphore reports whether the counter hands out one unit per read.
func (ev *Eventfd) Semaphore() bool {
	return ev.semaphore
}

// SetBlocking switches the handle between blocking and non-blocking mode.
// The kernel descriptor is untouched; only operations through this handle
// observe the change.
func (ev *Eventfd) SetBlocking(blocking bool) {
	ev.blocking.Store(blocking)
}

// FD returns the underlying file descriptor, for example to register it with
// a poller. The descriptor remains owned by the handle; closing it directly
// breaks the abstraction.
func (ev *Eventfd) FD() int {
	return ev.file.FD()
}

// Close releases the descriptor. Only the first call releases; later calls
// return an error.
func (ev *Eventfd) Close() error {
	if err := ev.file.Close(); err != nil {
		return ipcerr.FromError(err)
	}
	return nil
}
