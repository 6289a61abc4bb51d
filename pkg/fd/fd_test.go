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
	"io"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func pipePair(t *testing.T) (*FD, *FD) {
	t.Helper()
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC); err != nil {
		t.Fatalf("Pipe2 got err %v wanted nil", err)
	}
	return New(fds[0]), New(fds[1])
}

func TestCloseExactlyOnce(t *testing.T) {
	r, w := pipePair(t)
	defer w.Close()

	if r.FD() < 0 {
		t.Fatalf("FD() = %d, wanted a valid descriptor", r.FD())
	}
	if err := r.Close(); err != nil {
		t.Fatalf("first Close got err %v wanted nil", err)
	}
	if err := r.Close(); err == nil {
		t.Error("second Close got nil wanted err")
	}
	if got := r.FD(); got != -1 {
		t.Errorf("FD() after Close = %d, wanted -1", got)
	}
}

func TestRelease(t *testing.T) {
	r, w := pipePair(t)
	defer w.Close()

	raw := r.Release()
	if raw < 0 {
		t.Fatalf("Release() = %d, wanted a valid descriptor", raw)
	}
	if got := r.FD(); got != -1 {
		t.Errorf("FD() after Release = %d, wanted -1", got)
	}
	// The descriptor now belongs to us.
	if err := unix.Close(raw); err != nil {
		t.Errorf("closing released descriptor got err %v wanted nil", err)
	}
	if err := r.Close(); err == nil {
		t.Error("Close after Release got nil wanted err")
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	r, w := pipePair(t)
	defer r.Close()
	defer w.Close()

	want := []byte("host ipc")
	if n, err := w.Write(want); n != len(want) || err != nil {
		t.Fatalf("Write got (%d, %v) wanted (%d, nil)", n, err, len(want))
	}
	got := make([]byte, len(want))
	if n, err := io.ReadFull(r, got); n != len(want) || err != nil {
		t.Fatalf("Read got (%d, %v) wanted (%d, nil)", n, err, len(want))
	}
	if string(got) != string(want) {
		t.Errorf("read %q, wanted %q", got, want)
	}
}

func TestReadEOF(t *testing.T) {
	r, w := pipePair(t)
	defer r.Close()

	if err := w.Close(); err != nil {
		t.Fatalf("Close got err %v wanted nil", err)
	}
	buf := make([]byte, 8)
	if n, err := r.Read(buf); n != 0 || err != io.EOF {
		t.Errorf("Read after writer close got (%d, %v) wanted (0, EOF)", n, err)
	}
}

func TestFileDup(t *testing.T) {
	r, w := pipePair(t)
	defer r.Close()
	defer w.Close()

	file, err := w.File()
	if err != nil {
		t.Fatalf("File got err %v wanted nil", err)
	}
	defer file.Close()

	// The dup writes into the same pipe.
	if _, err := file.Write([]byte{0x2a}); err != nil {
		t.Fatalf("Write via dup got err %v wanted nil", err)
	}
	buf := make([]byte, 1)
	if n, err := r.Read(buf); n != 1 || err != nil {
		t.Fatalf("Read got (%d, %v) wanted (1, nil)", n, err)
	}
	if buf[0] != 0x2a {
		t.Errorf("read byte %#x, wanted 0x2a", buf[0])
	}
}

func TestNewFromFile(t *testing.T) {
	r, w := pipePair(t)
	defer r.Close()
	defer w.Close()

	file, err := w.File()
	if err != nil {
		t.Fatalf("File got err %v wanted nil", err)
	}
	dup, err := NewFromFile(file)
	if err != nil {
		t.Fatalf("NewFromFile got err %v wanted nil", err)
	}
	// The intermediate file can go away; the dup stands alone.
	if err := file.Close(); err != nil {
		t.Fatalf("Close got err %v wanted nil", err)
	}
	if _, err := dup.Write([]byte{0x55}); err != nil {
		t.Fatalf("Write got err %v wanted nil", err)
	}
	buf := make([]byte, 1)
	if n, err := r.Read(buf); n != 1 || err != nil || buf[0] != 0x55 {
		t.Fatalf("Read got (%d, %v, %#x) wanted (1, nil, 0x55)", n, err, buf[0])
	}
	if err := dup.Close(); err != nil {
		t.Errorf("Close got err %v wanted nil", err)
	}
}

func TestReadiness(t *testing.T) {
	r, w := pipePair(t)
	defer r.Close()
	defer w.Close()

	if got, err := Readiness(w.FD(), EventOut); err != nil || got&EventOut == 0 {
		t.Errorf("Readiness(writer, EventOut) got (%#x, %v) wanted EventOut set", got, err)
	}
	if got, err := Readiness(r.FD(), EventIn); err != nil || got&EventIn != 0 {
		t.Errorf("Readiness(reader, EventIn) on empty pipe got (%#x, %v) wanted EventIn clear", got, err)
	}

	if _, err := w.Write([]byte{1}); err != nil {
		t.Fatalf("Write got err %v wanted nil", err)
	}
	if got, err := Readiness(r.FD(), EventIn); err != nil || got&EventIn == 0 {
		t.Errorf("Readiness(reader, EventIn) got (%#x, %v) wanted EventIn set", got, err)
	}
}

func TestWaitUnblocks(t *testing.T) {
	r, w := pipePair(t)
	defer r.Close()
	defer w.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- Wait(r.FD(), EventIn)
	}()

	select {
	case err := <-errCh:
		t.Fatalf("Wait returned %v before any data was written", err)
	case <-time.After(100 * time.Millisecond):
	}

	if _, err := w.Write([]byte{1}); err != nil {
		t.Fatalf("Write got err %v wanted nil", err)
	}
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Wait got err %v wanted nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return after data was written")
	}
}

func TestWaitSeesHangup(t *testing.T) {
	r, w := pipePair(t)
	defer r.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- Wait(r.FD(), EventIn)
	}()
	time.Sleep(50 * time.Millisecond)
	if err := w.Close(); err != nil {
		t.Fatalf("Close got err %v wanted nil", err)
	}
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Wait got err %v wanted nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return after writer hangup")
	}
}
