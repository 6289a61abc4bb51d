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

//go:build linux
// +build linux

package mq

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/hostipc/hostipc/pkg/cleanup"
	"github.com/hostipc/hostipc/pkg/fd"
	"github.com/hostipc/hostipc/pkg/ipcerr"
)

// Create opens the named queue for reading and writing, creating it with the
// given limits and permission mode if it does not exist. When the name is
// already registered the existing queue is attached and the requested limits
// are ignored; Created reports which happened.
func Create(name string, maxMsg, msgSize int, perm os.FileMode) (*Queue, error) {
	return CreateWithFlags(name, unix.O_RDWR, perm, maxMsg, msgSize)
}

// CreateExclusive is like Create, but fails with ErrAlreadyExists instead of
// attaching when the name is already registered.
func CreateExclusive(name string, maxMsg, msgSize int, perm os.FileMode) (*Queue, error) {
	return CreateWithFlags(name, unix.O_RDWR|unix.O_EXCL, perm, maxMsg, msgSize)
}

// CreateWithFlags creates or opens the named queue with explicit unix.O_*
// flags. O_CREAT is implied. Without O_EXCL, creation and attach race
// kernel-atomically: whichever happens, the returned handle reports it via
// Created and carries the queue's actual limits.
func CreateWithFlags(name string, flags int, perm os.FileMode, maxMsg, msgSize int) (*Queue, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if maxMsg < 1 || maxMsg > HardMaxMsg || msgSize < 1 || msgSize > HardMaxMsgSize {
		return nil, ipcerr.ErrInvalidLimit
	}
	attr := mqAttr{
		MaxMsg:  int64(maxMsg),
		MsgSize: int64(msgSize),
	}

	if flags&unix.O_EXCL != 0 {
		q, errno := open(name, flags|unix.O_CREAT, uint32(perm.Perm()), &attr)
		if errno != 0 {
			return nil, createError(errno)
		}
		q.created = true
		return q, nil
	}

	// Try exclusive creation first so the handle knows whether it created
	// the queue. An attach that loses a race with Unlink retries.
	for {
		q, errno := open(name, flags|unix.O_CREAT|unix.O_EXCL, uint32(perm.Perm()), &attr)
		if errno == 0 {
			q.created = true
			return q, nil
		}
		if errno != unix.EEXIST {
			return nil, createError(errno)
		}

		q, errno = open(name, flags&^(unix.O_CREAT|unix.O_EXCL), 0, nil)
		if errno == 0 {
			return q, nil
		}
		if errno != unix.ENOENT {
			return nil, openError(errno)
		}
	}
}

// Open opens an existing named queue for reading and writing.
func Open(name string) (*Queue, error) {
	return OpenWithFlags(name, unix.O_RDWR)
}

// OpenWithFlags opens an existing named queue with explicit unix.O_* flags,
// typically to restrict the handle to one direction (O_RDONLY, O_WRONLY).
// Creation flags are ignored.
func OpenWithFlags(name string, flags int) (*Queue, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	q, errno := open(name, flags&^(unix.O_CREAT|unix.O_EXCL), 0, nil)
	if errno != 0 {
		return nil, openError(errno)
	}
	return q, nil
}

// open performs the mq_open call and builds the handle. The kernel
// descriptor is opened non-blocking regardless of the handle mode; O_NONBLOCK
// in flags selects the handle's initial mode instead.
func open(name string, flags int, mode uint32, attr *mqAttr) (*Queue, unix.Errno) {
	// The raw syscall takes the name without its leading slash.
	mqd, errno := mqOpen(name[1:], flags|unix.O_NONBLOCK, mode, attr)
	if errno != 0 {
		return nil, errno
	}
	cu := cleanup.Make(func() { unix.Close(mqd) })
	defer cu.Clean()

	// Read the queue's actual limits; an attached queue's limits can
	// differ from any requested ones.
	var got mqAttr
	if errno := mqGetAttr(mqd, &got); errno != 0 {
		return nil, errno
	}

	q := &Queue{
		file:    fd.New(mqd),
		name:    name,
		maxMsg:  int(got.MaxMsg),
		msgSize: int(got.MsgSize),
	}
	q.blocking.Store(flags&unix.O_NONBLOCK == 0)
	cu.Release()
	return q, 0
}

func createError(errno unix.Errno) error {
	switch errno {
	case unix.EINVAL:
		// The limits passed local validation but exceed a system-wide
		// ceiling (fs.mqueue.msg_max, fs.mqueue.msgsize_max).
		return ipcerr.ErrInvalidLimit
	default:
		return ipcerr.FromUnix(errno)
	}
}

func openError(errno unix.Errno) error {
	switch errno {
	case unix.EINVAL:
		return ipcerr.ErrInvalidName
	default:
		return ipcerr.FromUnix(errno)
	}
}

// Send enqueues b with the default priority. See SendPriority.
func (q *Queue) Send(b []byte) error {
	return q.SendPriority(b, DefaultPriority)
}

// SendPriority enqueues b with the given priority. Messages with higher
// priorities dequeue first; equal priorities dequeue in arrival order.
//
// When the queue is full a blocking handle waits for room and a non-blocking
// one fails with ErrQueueFull. Oversized messages fail with
// ErrMessageTooLarge without changing the queue.
func (q *Queue) SendPriority(b []byte, prio uint32) error {
	if len(b) > q.msgSize {
		return ipcerr.ErrMessageTooLarge
	}
	if prio >= PrioMax {
		return ipcerr.ErrInvalidValue
	}
	for {
		errno := mqTimedSend(q.file.FD(), b, prio)
		switch errno {
		case 0:
			return nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			if !q.blocking.Load() {
				return ipcerr.ErrQueueFull
			}
			if err := fd.Wait(q.file.FD(), fd.EventOut); err != nil {
				return ipcerr.FromError(err)
			}
		case unix.EMSGSIZE:
			return ipcerr.ErrMessageTooLarge
		case unix.EINVAL:
			return ipcerr.ErrInvalidValue
		default:
			return ipcerr.FromUnix(errno)
		}
	}
}

// Receive dequeues the next message into buf, returning its length and
// priority. buf must be at least MsgSize bytes (a kernel rule, surfaced as
// ErrMessageTooLarge), so a single buffer sized once fits every message.
//
// When the queue is empty a blocking handle waits for a message and a
// non-blocking one fails with ErrQueueEmpty.
func (q *Queue) Receive(buf []byte) (int, uint32, error) {
	for {
		n, prio, errno := mqTimedReceive(q.file.FD(), buf)
		switch errno {
		case 0:
			return n, prio, nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			if !q.blocking.Load() {
				return 0, 0, ipcerr.ErrQueueEmpty
			}
			if err := fd.Wait(q.file.FD(), fd.EventIn); err != nil {
				return 0, 0, ipcerr.FromError(err)
			}
		case unix.EMSGSIZE:
			return 0, 0, ipcerr.ErrMessageTooLarge
		default:
			return 0, 0, ipcerr.FromUnix(errno)
		}
	}
}

// ReceiveBytes dequeues the next message into a fresh buffer, returning the
// payload truncated to its length, along with its priority.
func (q *Queue) ReceiveBytes() ([]byte, uint32, error) {
	buf := make([]byte, q.msgSize)
	n, prio, err := q.Receive(buf)
	if err != nil {
		return nil, 0, err
	}
	return buf[:n], prio, nil
}

// Attr returns the queue's attributes. Flags reflects the handle's blocking
// mode; the remaining fields come from the kernel, with CurMsgs a snapshot
// that concurrent senders and receivers may immediately outdate.
func (q *Queue) Attr() (Attr, error) {
	var raw mqAttr
	if errno := mqGetAttr(q.file.FD(), &raw); errno != 0 {
		return Attr{}, ipcerr.FromUnix(errno)
	}
	attr := Attr{
		MaxMsg:  raw.MaxMsg,
		MsgSize: raw.MsgSize,
		CurMsgs: raw.CurMsgs,
	}
	if !q.blocking.Load() {
		attr.Flags = unix.O_NONBLOCK
	}
	return attr, nil
}

// Depth returns the number of messages currently queued.
func (q *Queue) Depth() (int, error) {
	attr, err := q.Attr()
	if err != nil {
		return 0, err
	}
	return int(attr.CurMsgs), nil
}

// Unlink removes name from the system queue registry. Existing handles keep
// working; the kernel destroys the queue once the last one closes. The name
// becomes immediately available for re-creation.
func Unlink(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if errno := mqUnlink(name[1:]); errno != 0 {
		return ipcerr.FromUnix(errno)
	}
	return nil
}
