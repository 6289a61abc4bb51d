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

// Package ipcerr holds the standardized error definitions for hostipc.
//
// Errors are exported as *Error pointers so that call sites can compare them
// directly (err == ipcerr.ErrQueueFull), comparable in cost to unix.Errno
// constants. Conditions the kernel reports through an errno are translated at
// the call site that knows the operation; FromUnix provides the default
// translation for everything the call site does not override.
package ipcerr

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Kind classifies an Error independently of the errno that produced it.
type Kind int

// Kinds of errors, one per failure class an IPC operation can report.
const (
	System Kind = iota
	InvalidName
	InvalidLimit
	InvalidValue
	AlreadyExists
	NotFound
	PermissionDenied
	MessageTooLarge
	QueueFull
	QueueEmpty
	Overflow
	WouldBlock
	BrokenPipe
	ResourceExhausted
	Unsupported
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case System:
		return "System"
	case InvalidName:
		return "InvalidName"
	case InvalidLimit:
		return "InvalidLimit"
	case InvalidValue:
		return "InvalidValue"
	case AlreadyExists:
		return "AlreadyExists"
	case NotFound:
		return "NotFound"
	case PermissionDenied:
		return "PermissionDenied"
	case MessageTooLarge:
		return "MessageTooLarge"
	case QueueFull:
		return "QueueFull"
	case QueueEmpty:
		return "QueueEmpty"
	case Overflow:
		return "Overflow"
	case WouldBlock:
		return "WouldBlock"
	case BrokenPipe:
		return "BrokenPipe"
	case ResourceExhausted:
		return "ResourceExhausted"
	case Unsupported:
		return "Unsupported"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Error represents an IPC failure with a classification, the errno that
// produced it (zero for failures detected before any kernel call), and a
// descriptive message.
type Error struct {
	kind    Kind
	errno   unix.Errno
	message string
}

// New creates a new *Error.
func New(kind Kind, errno unix.Errno, message string) *Error {
	return &Error{
		kind:    kind,
		errno:   errno,
		message: message,
	}
}

// Error implements error.Error.
func (e *Error) Error() string { return e.message }

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// Errno returns the underlying errno, or zero if the error was raised locally.
func (e *Error) Errno() unix.Errno { return e.errno }

// The canonical errors. The errno carried by each sentinel is representative;
// operations that can fail the same way through several errnos (for example
// ResourceExhausted via EMFILE, ENFILE, ENOMEM or ENOSPC) still return the
// sentinel so callers compare a single value.
var (
	ErrInvalidName       = New(InvalidName, unix.EINVAL, "invalid queue name")
	ErrInvalidLimit      = New(InvalidLimit, unix.EINVAL, "invalid queue limits")
	ErrInvalidValue      = New(InvalidValue, unix.EINVAL, "invalid value")
	ErrAlreadyExists     = New(AlreadyExists, unix.EEXIST, "object already exists")
	ErrNotFound          = New(NotFound, unix.ENOENT, "no such object")
	ErrPermissionDenied  = New(PermissionDenied, unix.EACCES, "permission denied")
	ErrMessageTooLarge   = New(MessageTooLarge, unix.EMSGSIZE, "message too large for queue")
	ErrQueueFull         = New(QueueFull, unix.EAGAIN, "queue is full")
	ErrQueueEmpty        = New(QueueEmpty, unix.EAGAIN, "queue is empty")
	ErrOverflow          = New(Overflow, unix.EAGAIN, "counter overflow")
	ErrWouldBlock        = New(WouldBlock, unix.EAGAIN, "operation would block")
	ErrBrokenPipe        = New(BrokenPipe, unix.EPIPE, "broken pipe")
	ErrResourceExhausted = New(ResourceExhausted, unix.ENOSPC, "resource exhausted")
	ErrUnsupported       = New(Unsupported, unix.ENOSYS, "not supported on this platform")
)

// FromUnix translates an errno into the default *Error for it. Call sites
// override the context-dependent cases (EAGAIN on a full queue is QueueFull,
// on an empty one QueueEmpty) before falling back to this table.
func FromUnix(errno unix.Errno) *Error {
	switch errno {
	case 0:
		return nil
	case unix.ENOENT:
		return ErrNotFound
	case unix.EACCES, unix.EPERM:
		return ErrPermissionDenied
	case unix.EEXIST:
		return ErrAlreadyExists
	case unix.EMSGSIZE:
		return ErrMessageTooLarge
	case unix.EAGAIN:
		return ErrWouldBlock
	case unix.EPIPE:
		return ErrBrokenPipe
	case unix.EMFILE, unix.ENFILE, unix.ENOMEM, unix.ENOSPC:
		return ErrResourceExhausted
	case unix.ENOSYS:
		return ErrUnsupported
	default:
		return New(System, errno, fmt.Sprintf("system error: %v", errno))
	}
}

// FromError translates an arbitrary error into an *Error. Values that
// already are *Error pass through, unix.Errno values go through FromUnix,
// and anything else is wrapped as a System error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	if errno, ok := err.(unix.Errno); ok {
		return FromUnix(errno)
	}
	return New(System, 0, err.Error())
}

// Equals compares an *Error to a given error. It matches on identity or,
// for two *Error values, on equal kind and errno, so a System error built by
// one call site compares equal to one built by another for the same errno.
func Equals(e *Error, err error) bool {
	if err == nil {
		return e == nil
	}
	if e == err {
		return true
	}
	other, ok := err.(*Error)
	if !ok || e == nil {
		return false
	}
	return e.kind == other.kind && e.errno == other.errno
}
