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

package ipcerr

import (
	"errors"
	"testing"

	"golang.org/x/sys/unix"
)

var errTest = errors.New("unclassified failure")

func TestSentinels(t *testing.T) {
	for _, tc := range []struct {
		err   *Error
		kind  Kind
		errno unix.Errno
	}{
		{ErrInvalidName, InvalidName, unix.EINVAL},
		{ErrInvalidLimit, InvalidLimit, unix.EINVAL},
		{ErrInvalidValue, InvalidValue, unix.EINVAL},
		{ErrAlreadyExists, AlreadyExists, unix.EEXIST},
		{ErrNotFound, NotFound, unix.ENOENT},
		{ErrPermissionDenied, PermissionDenied, unix.EACCES},
		{ErrMessageTooLarge, MessageTooLarge, unix.EMSGSIZE},
		{ErrQueueFull, QueueFull, unix.EAGAIN},
		{ErrQueueEmpty, QueueEmpty, unix.EAGAIN},
		{ErrOverflow, Overflow, unix.EAGAIN},
		{ErrWouldBlock, WouldBlock, unix.EAGAIN},
		{ErrBrokenPipe, BrokenPipe, unix.EPIPE},
		{ErrResourceExhausted, ResourceExhausted, unix.ENOSPC},
		{ErrUnsupported, Unsupported, unix.ENOSYS},
	} {
		t.Run(tc.kind.String(), func(t *testing.T) {
			if got := tc.err.Kind(); got != tc.kind {
				t.Errorf("Kind() = %v, want %v", got, tc.kind)
			}
			if got := tc.err.Errno(); got != tc.errno {
				t.Errorf("Errno() = %v, want %v", got, tc.errno)
			}
			if tc.err.Error() == "" {
				t.Error("Error() returned an empty message")
			}
		})
	}
}

func TestFromUnix(t *testing.T) {
	for _, tc := range []struct {
		errno unix.Errno
		want  *Error
	}{
		{unix.ENOENT, ErrNotFound},
		{unix.EACCES, ErrPermissionDenied},
		{unix.EPERM, ErrPermissionDenied},
		{unix.EEXIST, ErrAlreadyExists},
		{unix.EMSGSIZE, ErrMessageTooLarge},
		{unix.EAGAIN, ErrWouldBlock},
		{unix.EPIPE, ErrBrokenPipe},
		{unix.EMFILE, ErrResourceExhausted},
		{unix.ENFILE, ErrResourceExhausted},
		{unix.ENOMEM, ErrResourceExhausted},
		{unix.ENOSPC, ErrResourceExhausted},
		{unix.ENOSYS, ErrUnsupported},
	} {
		if got := FromUnix(tc.errno); got != tc.want {
			t.Errorf("FromUnix(%v) = %v, want %v", tc.errno, got, tc.want)
		}
	}
}

func TestFromUnixZero(t *testing.T) {
	if got := FromUnix(0); got != nil {
		t.Errorf("FromUnix(0) = %v, want nil", got)
	}
}

func TestFromUnixUnknown(t *testing.T) {
	got := FromUnix(unix.EIO)
	if got == nil {
		t.Fatal("FromUnix(EIO) = nil, want System error")
	}
	if got.Kind() != System {
		t.Errorf("FromUnix(EIO).Kind() = %v, want %v", got.Kind(), System)
	}
	if got.Errno() != unix.EIO {
		t.Errorf("FromUnix(EIO).Errno() = %v, want %v", got.Errno(), unix.EIO)
	}
}

func TestFromError(t *testing.T) {
	if got := FromError(nil); got != nil {
		t.Errorf("FromError(nil) = %v, want nil", got)
	}
	if got := FromError(ErrQueueFull); got != ErrQueueFull {
		t.Errorf("FromError(ErrQueueFull) = %v, want pass-through", got)
	}
	if got := FromError(unix.ENOENT); got != ErrNotFound {
		t.Errorf("FromError(ENOENT) = %v, want ErrNotFound", got)
	}
	got := FromError(errTest)
	if got == nil || got.Kind() != System {
		t.Errorf("FromError(foreign) = %v, want System error", got)
	}
	if got.Error() != errTest.Error() {
		t.Errorf("FromError(foreign).Error() = %q, want %q", got.Error(), errTest.Error())
	}
}

func TestEquals(t *testing.T) {
	for _, tc := range []struct {
		name string
		e    *Error
		err  error
		want bool
	}{
		{"identity", ErrQueueFull, ErrQueueFull, true},
		{"same errno different kind", ErrQueueFull, ErrQueueEmpty, false},
		{"system same errno", FromUnix(unix.EIO), FromUnix(unix.EIO), true},
		{"system different errno", FromUnix(unix.EIO), FromUnix(unix.EBUSY), false},
		{"nil error", ErrNotFound, nil, false},
		{"both nil", nil, nil, true},
		{"foreign error type", ErrNotFound, unix.ENOENT, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := Equals(tc.e, tc.err); got != tc.want {
				t.Errorf("Equals(%v, %v) = %t, want %t", tc.e, tc.err, got, tc.want)
			}
		})
	}
}
