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

package fd

import (
	"golang.org/x/sys/unix"
)

// Events is a bitmask of I/O readiness events. The meaning is the same as
// the event bits in the poll(2) syscall.
type Events int16

// Events a caller can wait for. Error and hangup conditions are always
// reported, whether requested or not.
const (
	EventIn  Events = unix.POLLIN
	EventOut Events = unix.POLLOUT
	EventErr Events = unix.POLLERR
	EventHUp Events = unix.POLLHUP
)

// Readiness polls fd without blocking and returns the events currently
// pending, masked to events plus any error or hangup condition.
func Readiness(fd int, events Events) (Events, error) {
	pfd := [1]unix.PollFd{{
		Fd:     int32(fd),
		Events: int16(events),
	}}
	var zero unix.Timespec
	for {
		n, err := unix.Ppoll(pfd[:], &zero, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, nil
		}
		return Events(pfd[0].Revents), nil
	}
}

// Wait blocks the calling thread until fd is ready for one of events, or an
// error or hangup condition is pending. Callers retry their non-blocking
// operation after Wait returns; hangups and errors surface through that
// retry, not through Wait.
func Wait(fd int, events Events) error {
	pfd := [1]unix.PollFd{{
		Fd:     int32(fd),
		Events: int16(events),
	}}
	for {
		if _, err := unix.Ppoll(pfd[:], nil, nil); err != nil {
			if err == unix.EINTR {
				continue
			}
			return err
		}
		return nil
	}
}
