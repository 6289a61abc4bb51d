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

package eventfd

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/sys/unix"

	"github.com/hostipc/hostipc/pkg/fd"
	"github.com/hostipc/hostipc/pkg/ipcerr"
)

const sizeofUint64 = 8

// Create returns a new event counter holding initval. An initval of
// MaxUint64 exceeds the counter ceiling and fails with ErrInvalidValue.
func Create(initval uint64, flags Flags) (*Eventfd, error) {
	if initval == math.MaxUint64 {
		return nil, ipcerr.ErrInvalidValue
	}

	// Blocking is emulated over poll, so the descriptor itself is always
	// non-blocking.
	sysFlags := unix.EFD_NONBLOCK
	if flags&Semaphore != 0 {
		sysFlags |= unix.EFD_SEMAPHORE
	}
	if flags&CloseOnExec != 0 {
		sysFlags |= unix.EFD_CLOEXEC
	}

	// The syscall takes a 32-bit initial value; larger counters are
	// established with a follow-up add against the fresh descriptor.
	sysInitval := initval
	if sysInitval > math.MaxUint32 {
		sysInitval = 0
	}

	efd, _, errno := unix.RawSyscall(unix.SYS_EVENTFD2, uintptr(sysInitval), uintptr(sysFlags), 0)
	if errno != 0 {
		return nil, ipcerr.FromUnix(errno)
	}

	ev := &Eventfd{
		file:      fd.New(int(efd)),
		semaphore: flags&Semaphore != 0,
	}
	ev.blocking.Store(flags&NonBlock == 0)

	if sysInitval != initval {
		if err := ev.add(initval); err != nil {
			ev.Close()
			return nil, err
		}
	}
	return ev, nil
}

// Wrap adopts an eventfd descriptor created elsewhere, for example one
// received over a socket from another process. The counting mode of a
// descriptor cannot be queried, so the caller states whether the counter is
// a semaphore. The descriptor is switched to non-blocking mode; blocking
// behavior is available through the handle, which starts blocking.
func Wrap(rawfd int, semaphore bool) *Eventfd {
	unix.SetNonblock(rawfd, true)
	ev := &Eventfd{
		file:      fd.New(rawfd),
		semaphore: semaphore,
	}
	ev.blocking.Store(true)
	return ev
}

// Dup copies the handle, calling dup(2) on the underlying descriptor. The
// copy observes the same kernel counter and inherits the handle's current
// blocking mode.
func (ev *Eventfd) Dup() (*Eventfd, error) {
	nfd, err := unix.Dup(ev.file.FD())
	if err != nil {
		return nil, ipcerr.FromError(err)
	}
	dup := &Eventfd{
		file:      fd.New(nfd),
		semaphore: ev.semaphore,
	}
	dup.blocking.Store(ev.blocking.Load())
	return dup, nil
}

// Notify increments the counter by one, waking a blocked reader. It is valid
// in both counting modes.
func (ev *Eventfd) Notify() error {
	return ev.Write(1)
}

// Write adds val to the counter. In semaphore mode the only legal production
// is a single unit, so any val other than 1 fails with ErrInvalidValue. A
// val that would push the counter past its ceiling of MaxUint64-1 fails with
// ErrOverflow in non-blocking mode and waits for readers to make room in
// blocking mode; the counter is unchanged on failure.
func (ev *Eventfd) Write(val uint64) error {
	if val == math.MaxUint64 {
		return ipcerr.ErrInvalidValue
	}
	if ev.semaphore && val != 1 {
		return ipcerr.ErrInvalidValue
	}
	return ev.add(val)
}

func (ev *Eventfd) add(val uint64) error {
	var buf [sizeofUint64]byte
	binary.NativeEndian.PutUint64(buf[:], val)
	for {
		n, err := nonBlockingWrite(ev.file.FD(), buf[:])
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			// The write would overflow the counter.
			if !ev.blocking.Load() {
				return ipcerr.ErrOverflow
			}
			if err := fd.Wait(ev.file.FD(), fd.EventOut); err != nil {
				return ipcerr.FromError(err)
			}
			continue
		}
		if err != nil {
			return ipcerr.FromError(err)
		}
		if n != sizeofUint64 {
			panic(fmt.Sprintf("bad write to eventfd: got %d bytes, wanted %d", n, sizeofUint64))
		}
		return nil
	}
}

// Read consumes the counter. Additive handles return the accumulated total
// and reset the counter to zero, or return zero immediately when nothing has
// been produced; they never block. Semaphore handles consume and return a
// single unit, blocking while the counter is zero, or failing with
// ErrWouldBlock in non-blocking mode.
func (ev *Eventfd) Read() (uint64, error) {
	var buf [sizeofUint64]byte
	for {
		n, err := nonBlockingRead(ev.file.FD(), buf[:])
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			if !ev.semaphore {
				return 0, nil
			}
			if !ev.blocking.Load() {
				return 0, ipcerr.ErrWouldBlock
			}
			if err := fd.Wait(ev.file.FD(), fd.EventIn); err != nil {
				return 0, ipcerr.FromError(err)
			}
			continue
		}
		if err != nil {
			return 0, ipcerr.FromError(err)
		}
		if n != sizeofUint64 {
			panic(fmt.Sprintf("short read from eventfd: got %d bytes, wanted %d", n, sizeofUint64))
		}
		return binary.NativeEndian.Uint64(buf[:]), nil
	}
}
