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

package pipe

import (
	"io"

	"golang.org/x/sys/unix"

	"github.com/hostipc/hostipc/pkg/fd"
	"github.com/hostipc/hostipc/pkg/ipcerr"
)

// New creates a connected pipe pair. Both ends start in blocking mode with
// close-on-exec set; use File to hand an end to a child process. Creation
// fails only when the system is out of descriptors or kernel memory, which
// is reported as ErrResourceExhausted.
func New() (*WriteEnd, *ReadEnd, error) {
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		return nil, nil, ipcerr.FromError(err)
	}

	w := &WriteEnd{end{file: fd.New(p[1])}}
	w.blocking.Store(true)
	r := &ReadEnd{end{file: fd.New(p[0])}}
	r.blocking.Store(true)
	return w, r, nil
}

// Write sends b into the pipe and returns how many bytes went through.
// Partial progress is normal for a pipe and is not an error; callers that
// need the whole buffer delivered call again with the remainder. A full
// kernel buffer fails with ErrWouldBlock in non-blocking mode and parks the
// calling thread in blocking mode. Writing after the read end closed fails
// with ErrBrokenPipe.
func (w *WriteEnd) Write(b []byte) (int, error) {
	for {
		n, err := unix.Write(w.file.FD(), b)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			if !w.blocking.Load() {
				return 0, ipcerr.ErrWouldBlock
			}
			if err := fd.Wait(w.file.FD(), fd.EventOut); err != nil {
				return 0, ipcerr.FromError(err)
			}
			continue
		}
		if err == unix.EPIPE {
			return 0, ipcerr.ErrBrokenPipe
		}
		if err != nil {
			return 0, ipcerr.FromError(err)
		}
		return n, nil
	}
}

// Read fills b from the pipe and returns how many bytes it copied. io.EOF
// means the write end is closed and the stream is drained. An empty pipe
// fails with ErrWouldBlock in non-blocking mode and parks the calling
// thread in blocking mode.
func (r *ReadEnd) Read(b []byte) (int, error) {
	for {
		n, err := unix.Read(r.file.FD(), b)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			if !r.blocking.Load() {
				return 0, ipcerr.ErrWouldBlock
			}
			if err := fd.Wait(r.file.FD(), fd.EventIn); err != nil {
				return 0, ipcerr.FromError(err)
			}
			continue
		}
		if err != nil {
			return 0, ipcerr.FromError(err)
		}
		if n == 0 && len(b) > 0 {
			return 0, io.EOF
		}
		return n, nil
	}
}
