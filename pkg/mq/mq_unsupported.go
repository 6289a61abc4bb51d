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

//go:build !linux
// +build !linux

package mq

import (
	"os"

	"github.com/hostipc/hostipc/pkg/ipcerr"
)

// POSIX message queues are only wrapped on Linux. Every operation on other
// platforms fails with ErrUnsupported.

// Create is not supported on this platform.
func Create(name string, maxMsg, msgSize int, perm os.FileMode) (*Queue, error) {
	return nil, ipcerr.ErrUnsupported
}

// CreateExclusive is not supported on this platform.
func CreateExclusive(name string, maxMsg, msgSize int, perm os.FileMode) (*Queue, error) {
	return nil, ipcerr.ErrUnsupported
}

// CreateWithFlags is not supported on this platform.
func CreateWithFlags(name string, flags int, perm os.FileMode, maxMsg, msgSize int) (*Queue, error) {
	return nil, ipcerr.ErrUnsupported
}

// Open is not supported on this platform.
func Open(name string) (*Queue, error) {
	return nil, ipcerr.ErrUnsupported
}

// OpenWithFlags is not supported on this platform.
func OpenWithFlags(name string, flags int) (*Queue, error) {
	return nil, ipcerr.ErrUnsupported
}

// Unlink is not supported on this platform.
func Unlink(name string) error {
	return ipcerr.ErrUnsupported
}

// Send is not supported on this platform.
func (q *Queue) Send(b []byte) error {
	return ipcerr.ErrUnsupported
}

// SendPriority is not supported on this platform.
func (q *Queue) SendPriority(b []byte, prio uint32) error {
	return ipcerr.ErrUnsupported
}

// Receive is not supported on this platform.
func (q *Queue) Receive(buf []byte) (int, uint32, error) {
	return 0, 0, ipcerr.ErrUnsupported
}

// ReceiveBytes is not supported on this platform.
func (q *Queue) ReceiveBytes() ([]byte, uint32, error) {
	return nil, 0, ipcerr.ErrUnsupported
}

// Attr is not supported on this platform.
func (q *Queue) Attr() (Attr, error) {
	return Attr{}, ipcerr.ErrUnsupported
}

// Depth is not supported on this platform.
func (q *Queue) Depth() (int, error) {
	return 0, ipcerr.ErrUnsupported
}
