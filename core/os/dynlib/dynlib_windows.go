// Copyright (C) 2018 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// +build windows

package dynlib

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// Open opens the shared library at path. The path is converted to UTF-16
// before being handed to the loader. An empty path returns the current
// process pseudo library.
func Open(path string) (*Library, error) {
	if path == "" {
		handle, err := windows.GetModuleHandle(nil)
		if err != nil {
			return nil, errors.Wrap(err, "GetModuleHandle")
		}
		return &Library{handle: uintptr(handle), process: true}, nil
	}
	handle, err := windows.LoadLibraryEx(path, 0, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "LoadLibrary %s", path)
	}
	return &Library{handle: uintptr(handle)}, nil
}

// Symbol resolves the exported symbol with the given name and returns its
// address.
func (l *Library) Symbol(name string) (uintptr, error) {
	addr, err := windows.GetProcAddress(windows.Handle(l.handle), name)
	if err != nil {
		return 0, errors.Wrapf(err, "GetProcAddress %s", name)
	}
	return addr, nil
}

// Close unloads the library. Closing the current process pseudo library is a
// no-op.
func (l *Library) Close() error {
	if l.process || l.handle == 0 {
		return nil
	}
	if err := windows.FreeLibrary(windows.Handle(l.handle)); err != nil {
		return errors.Wrap(err, "FreeLibrary")
	}
	l.handle = 0
	return nil
}
