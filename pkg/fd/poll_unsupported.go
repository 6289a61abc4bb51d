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

package fd

import (
	"github.com/hostipc/hostipc/pkg/ipcerr"
)

// Events is a bitmask of I/O readiness events. The meaning is the same as
// the event bits in the poll(2) syscall.
type Events int16

// Events a caller can wait for.
const (
	EventIn  Events = 0x01
	EventOut Events = 0x04
	EventErr Events = 0x08
	EventHUp Events = 0x10
)

// Readiness is not supported on this platform.
func Readiness(fd int, events Events) (Events, error) {
	return 0, ipcerr.ErrUnsupported
}

// Wait is not supported on this platform.
func Wait(fd int, events Events) error {
	return ipcerr.ErrUnsupported
}
