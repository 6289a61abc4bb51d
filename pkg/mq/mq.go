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

// Package mq wraps Linux POSIX message queues (mq_overview(7)).
//
// A Queue is an exclusive handle to a kernel message queue descriptor. The
// descriptor is kept non-blocking at the kernel level; blocking mode is a
// per-handle property implemented by waiting for readiness and retrying, so
// a blocked Send or Receive parks the calling thread in ppoll(2) rather than
// inside the mq syscall. The kernel owns message ordering: messages dequeue
// highest priority first, FIFO within a priority, and the wrapper never
// buffers or reorders.
//
// Queue names use the portable form "/name": a leading slash, at least one
// character after it, and no further slashes. Names are validated locally
// before any kernel call.
package mq

import (
	"strings"
	"sync/atomic"

	"github.com/hostipc/hostipc/pkg/fd"
	"github.com/hostipc/hostipc/pkg/ipcerr"
)

// Queue limits. Sources: include/linux/ipc_namespace.h and
// include/uapi/linux/mqueue.h.
const (
	// DefaultMaxMsg is the default maximum number of queued messages.
	DefaultMaxMsg = 10

	// DefaultMsgSize is the default maximum message size in bytes.
	DefaultMsgSize = 8192

	// HardMaxMsg is the ceiling on a queue's message count limit.
	HardMaxMsg = 65536

	// HardMaxMsgSize is the ceiling on a queue's message size limit.
	HardMaxMsgSize = 16 * 1024 * 1024

	// PrioMax bounds message priorities: valid priorities are in
	// [0, PrioMax).
	PrioMax = 32768

	// nameMax is NAME_MAX, the length limit on a single registry entry.
	nameMax = 255
)

// DefaultPriority is the priority used by Send.
const DefaultPriority = 0

// DefaultMode is the permission mode queues are created with unless the
// caller picks another.
const DefaultMode = 0o660

// Attr describes a queue, mirroring struct mq_attr.
type Attr struct {
	// Flags is zero or unix.O_NONBLOCK, reflecting the handle's blocking
	// mode. The kernel descriptor itself is always non-blocking.
	Flags int64

	// MaxMsg is the maximum number of messages the queue holds.
	MaxMsg int64

	// MsgSize is the maximum size of a single message in bytes.
	MsgSize int64

	// CurMsgs is the number of messages currently queued. It is a
	// snapshot: concurrent senders and receivers may change it before the
	// caller acts on it.
	CurMsgs int64
}

// Queue is an exclusive handle to a named POSIX message queue.
type Queue struct {
	file *fd.FD

	// name is the queue's portable name, including the leading slash.
	name string

	// maxMsg and msgSize are the queue's limits, fixed at creation time
	// and read back from the kernel when attaching.
	maxMsg  int
	msgSize int

	// created records whether this handle created the named queue rather
	// than attaching to an existing one.
	created bool

	blocking atomic.Bool
}

// Name returns the queue's name, including the leading slash.
func (q *Queue) Name() string {
	return q.name
}

// Capacity returns the queue's limits: the maximum number of queued messages
// and the maximum message size in bytes. Both are fixed for the queue's
// lifetime.
func (q *Queue) Capacity() (maxMsg, msgSize int) {
	return q.maxMsg, q.msgSize
}

// Created reports whether this handle created the named queue, as opposed to
// attaching to one that already existed.
func (q *Queue) Created() bool {
	return q.created
}

// SetBlocking switches the handle between blocking and non-blocking modes.
// It affects subsequent Send and Receive calls only; operations already in
// flight keep the mode they started with.
func (q *Queue) SetBlocking(block bool) {
	q.blocking.Store(block)
}

// FD returns the queue's descriptor so external poll loops can watch for
// readiness. The queue retains ownership; callers must not close it.
func (q *Queue) FD() int {
	return q.file.FD()
}

// Close releases the queue descriptor. Closing does not remove the named
// queue; see Unlink. Close returns an error on every call after the first:
// the descriptor is released exactly once.
func (q *Queue) Close() error {
	if err := q.file.Close(); err != nil {
		return ipcerr.FromError(err)
	}
	return nil
}

// checkName validates the queue name shape locally so misuse fails the same
// way everywhere, before any kernel call.
func checkName(name string) error {
	if len(name) < 2 || name[0] != '/' {
		return ipcerr.ErrInvalidName
	}
	// The part after the slash is a single registry entry name.
	if len(name)-1 > nameMax {
		return ipcerr.ErrInvalidName
	}
	if strings.ContainsAny(name[1:], "/\x00") {
		return ipcerr.ErrInvalidName
	}
	return nil
}
