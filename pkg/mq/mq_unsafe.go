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
	"unsafe"

	"golang.org/x/sys/unix"
)

// mqAttr is the syscall form of struct mq_attr. The tail is ignored on input
// and zeroed on output. Source: include/uapi/linux/mqueue.h.
type mqAttr struct {
	Flags   int64
	MaxMsg  int64
	MsgSize int64
	CurMsgs int64
	_       [4]int64
}

// mqOpen calls mq_open(2) with the registry entry name, i.e. the queue name
// without its leading slash. attr may be nil when no creation limits apply.
func mqOpen(name string, flags int, mode uint32, attr *mqAttr) (int, unix.Errno) {
	p, err := unix.BytePtrFromString(name)
	if err != nil {
		return -1, unix.EINVAL
	}
	mqd, _, errno := unix.Syscall6(unix.SYS_MQ_OPEN,
		uintptr(unsafe.Pointer(p)),
		uintptr(flags),
		uintptr(mode),
		uintptr(unsafe.Pointer(attr)),
		0, 0)
	if errno != 0 {
		return -1, errno
	}
	return int(mqd), 0
}

// mqUnlink calls mq_unlink(2) with the registry entry name.
func mqUnlink(name string) unix.Errno {
	p, err := unix.BytePtrFromString(name)
	if err != nil {
		return unix.EINVAL
	}
	_, _, errno := unix.Syscall(unix.SYS_MQ_UNLINK,
		uintptr(unsafe.Pointer(p)),
		0, 0)
	return errno
}

// mqTimedSend calls mq_timedsend(2) without a timeout. The descriptor is
// non-blocking, so a full queue reports EAGAIN immediately.
func mqTimedSend(mqd int, b []byte, prio uint32) unix.Errno {
	var ptr unsafe.Pointer
	if len(b) > 0 {
		ptr = unsafe.Pointer(&b[0])
	}
	_, _, errno := unix.RawSyscall6(unix.SYS_MQ_TIMEDSEND,
		uintptr(mqd),
		uintptr(ptr),
		uintptr(len(b)),
		uintptr(prio),
		0 /* no timeout */, 0)
	return errno
}

// mqTimedReceive calls mq_timedreceive(2) without a timeout. The descriptor
// is non-blocking, so an empty queue reports EAGAIN immediately.
func mqTimedReceive(mqd int, b []byte) (int, uint32, unix.Errno) {
	var ptr unsafe.Pointer
	if len(b) > 0 {
		ptr = unsafe.Pointer(&b[0])
	}
	var prio uint32
	n, _, errno := unix.RawSyscall6(unix.SYS_MQ_TIMEDRECEIVE,
		uintptr(mqd),
		uintptr(ptr),
		uintptr(len(b)),
		uintptr(unsafe.Pointer(&prio)),
		0 /* no timeout */, 0)
	if errno != 0 {
		return 0, 0, errno
	}
	return int(n), prio, 0
}

// mqGetAttr calls mq_getsetattr(2) with no new attributes, filling attr with
// the queue's current ones.
func mqGetAttr(mqd int, attr *mqAttr) unix.Errno {
	_, _, errno := unix.RawSyscall(unix.SYS_MQ_GETSETATTR,
		uintptr(mqd),
		0, /* no new attr */
		uintptr(unsafe.Pointer(attr)))
	return errno
}
