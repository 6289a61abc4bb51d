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

package pipe

import (
	"github.com/hostipc/hostipc/pkg/ipcerr"
)

// New returns ErrUnsupported.
func New() (*WriteEnd, *ReadEnd, error) {
	return nil, nil, ipcerr.ErrUnsupported
}

// Write returns ErrUnsupported.
func (w *WriteEnd) Write(b []byte) (int, error) {
	return 0, ipcerr.ErrUnsupported
}

// Read returns ErrUnsupported.
func (r *ReadEnd) Read(b []byte) (int, error) {
	return 0, ipcerr.ErrUnsupported
}
