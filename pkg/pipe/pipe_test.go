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
	"bytes"
	"io"
	"os"
	"testing"
	"time"

	"github.com/hostipc/hostipc/pkg/ipcerr"
)

func newPipe(t *testing.T) (*WriteEnd, *ReadEnd) {
	t.Helper()
	w, r, err := New()
	if err != nil {
		t.Fatalf("New() got err %v wanted nil", err)
	}
	t.Cleanup(func() {
		w.Close()
		r.Close()
	})
	return w, r
}

func TestRoundTrip(t *testing.T) {
	w, r := newPipe(t)

	want := []byte("across the pipe in one piece")
	if n, err := w.Write(want); err != nil || n != len(want) {
		t.Fatalf("Write = (%d, %v), wanted (%d, nil)", n, err, len(want))
	}

	buf := make([]byte, 2*len(want))
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("Read got err %v wanted nil", err)
	}
	if !bytes.Equal(buf[:n], want) {
		t.Errorf("Read = %q, wanted %q", buf[:n], want)
	}
}

func TestEndOfStream(t *testing.T) {
	w, r := newPipe(t)

	if _, err := w.Write([]byte("tail")); err != nil {
		t.Fatalf("Write got err %v wanted nil", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close got err %v wanted nil", err)
	}

	// Buffered bytes are still delivered after the writer is gone.
	buf := make([]byte, 16)
	n, err := r.Read(buf)
	if err != nil || string(buf[:n]) != "tail" {
		t.Fatalf("Read = (%q, %v), wanted (\"tail\", nil)", buf[:n], err)
	}
	if n, err := r.Read(buf); err != io.EOF || n != 0 {
		t.Fatalf("Read at end of stream = (%d, %v), wanted (0, io.EOF)", n, err)
	}
}

func TestBrokenPipe(t *testing.T) {
	w, r := newPipe(t)

	if err := r.Close(); err != nil {
		t.Fatalf("Close got err %v wanted nil", err)
	}
	if _, err := w.Write([]byte("nobody listening")); err != ipcerr.ErrBrokenPipe {
		t.Fatalf("Write after reader close got err %v wanted ErrBrokenPipe", err)
	}
}

func TestNonBlockingEmptyRead(t *testing.T) {
	_, r := newPipe(t)
	r.SetBlocking(false)

	if _, err := r.Read(make([]byte, 8)); err != ipcerr.ErrWouldBlock {
		t.Fatalf("Read on an empty pipe got err %v wanted ErrWouldBlock", err)
	}
}

func TestPartialWritesAccounted(t *testing.T) {
	w, r := newPipe(t)
	w.SetBlocking(false)
	r.SetBlocking(false)

	// Fill the pipe with writes larger than PIPE_BUF so the kernel is free
	// to take only part of a buffer. Everything it reported as written must
	// come back out, byte for byte.
	chunk := make([]byte, 64<<10)
	var wrote int
	for {
		n, err := w.Write(chunk)
		wrote += n
		if err == ipcerr.ErrWouldBlock {
			break
		}
		if err != nil {
			t.Fatalf("Write got err %v wanted nil", err)
		}
		if wrote > 8<<20 {
			t.Fatal("pipe never filled")
		}
	}
	if wrote == 0 {
		t.Fatal("no bytes fit into a fresh pipe")
	}

	var read int
	buf := make([]byte, 64<<10)
	for {
		n, err := r.Read(buf)
		read += n
		if err == ipcerr.ErrWouldBlock {
			break
		}
		if err != nil {
			t.Fatalf("Read got err %v wanted nil", err)
		}
	}
	if read != wrote {
		t.Errorf("read %d bytes back, wanted the %d written", read, wrote)
	}
}

func TestBlockedReadUnblocks(t *testing.T) {
	w, r := newPipe(t)

	type result struct {
		payload []byte
		err     error
	}
	resCh := make(chan result, 1)
	go func() {
		buf := make([]byte, 16)
		n, err := r.Read(buf)
		resCh <- result{buf[:n], err}
	}()

	select {
	case res := <-resCh:
		t.Fatalf("blocking read returned (%q, %v) before a write", res.payload, res.err)
	case <-time.After(100 * time.Millisecond):
	}

	if _, err := w.Write([]byte("wake")); err != nil {
		t.Fatalf("Write got err %v wanted nil", err)
	}
	select {
	case res := <-resCh:
		if res.err != nil || string(res.payload) != "wake" {
			t.Fatalf("blocking read got (%q, %v) wanted (\"wake\", nil)", res.payload, res.err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("blocking read did not wake after a write")
	}
}

func TestBlockedWriteUnblocks(t *testing.T) {
	w, r := newPipe(t)

	// Fill the pipe so the next write has to wait for the reader.
	w.SetBlocking(false)
	chunk := make([]byte, 4096)
	for {
		if _, err := w.Write(chunk); err == ipcerr.ErrWouldBlock {
			break
		} else if err != nil {
			t.Fatalf("Write got err %v wanted nil", err)
		}
	}
	w.SetBlocking(true)

	errCh := make(chan error, 1)
	go func() {
		_, err := w.Write([]byte("x"))
		errCh <- err
	}()

	select {
	case err := <-errCh:
		t.Fatalf("blocking write returned %v before room was made", err)
	case <-time.After(100 * time.Millisecond):
	}

	// Drain enough for the parked write to go through.
	buf := make([]byte, 64<<10)
	if _, err := r.Read(buf); err != nil {
		t.Fatalf("Read got err %v wanted nil", err)
	}
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("blocking write got err %v wanted nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("blocking write did not wake after room was made")
	}
}

func TestFileDup(t *testing.T) {
	_, r := newPipe(t)

	f, err := r.File()
	if err != nil {
		t.Fatalf("File() got err %v wanted nil", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		t.Fatalf("Stat got err %v wanted nil", err)
	}
	if fi.Mode()&os.ModeNamedPipe == 0 {
		t.Errorf("File() mode = %v, wanted a pipe", fi.Mode())
	}

	// The duplicate lives on after the end is closed.
	if err := r.Close(); err != nil {
		t.Fatalf("Close got err %v wanted nil", err)
	}
	if _, err := f.Stat(); err != nil {
		t.Errorf("Stat after closing the end got err %v wanted nil", err)
	}
}

func TestCloseExactlyOnce(t *testing.T) {
	w, r, err := New()
	if err != nil {
		t.Fatalf("New() got err %v wanted nil", err)
	}
	defer r.Close()

	if err := w.Close(); err != nil {
		t.Fatalf("first Close got err %v wanted nil", err)
	}
	if err := w.Close(); err == nil {
		t.Error("second Close got nil wanted err")
	}
}
