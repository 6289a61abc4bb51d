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

package eventfd

import (
	"github.com/hostipc/hostipc/pkg/fd"
	"github.com/hostipc/hostipc/pkg/ipcerr"
)

// Create returns ErrUnsupported.
func Create(initval uint64, flags Flags) (*Eventfd, error) {
	return nil, ipcerr.ErrUnsupported
}

// Wrap adopts rawfd so that Close still releases it, but every counter
// operation on the handle fails with ErrUnsupported.
func Wrap(rawfd int, semaphore bool) *Eventfd {
	return &Eventfd{
		file:      fd.New(rawfd),
		semaphore: semaphore,
	}
}

// Dup returns ErrUnsupported.
func (ev *Eventfd) Dup() (*Eventfd, error) {
	return nil, ipcerr.ErrUnsupported
}

// Notify returns ErrUnsupported.
func (ev *Eventfd) Notify() error {
	return ipcerr.ErrUnsupported
}

// Write returns ErrUnsupported.
func (ev *Eventfd) Write(val uint64) error {
	return ipcerr.ErrUnsupported
}

// Read returns ErrUnsupported.
func (ev *Eventfd) Read() (uint64, error) {
	return 0, ipcerr.ErrUnsupported
}
