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

// +build !windows

package dynlib

// #cgo CFLAGS: -D_GNU_SOURCE
// #cgo linux LDFLAGS: -ldl
// #include <dlfcn.h>
// #include <stdlib.h>
import "C"

import (
	"strings"
	"unsafe"

	"github.com/pkg/errors"
)

func lastError(fallback string) error {
	msg := C.dlerror()
	if msg == nil {
		return errors.New(fallback)
	}
	return errors.New(strings.TrimRight(C.GoString(msg), "\n"))
}

// Open opens the shared library at path with immediate symbol binding.
// An empty path returns the current process pseudo library.
func Open(path string) (*Library, error) {
	if path == "" {
		return &Library{handle: uintptr(C.RTLD_DEFAULT), process: true}, nil
	}
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	handle := C.dlopen(cpath, C.RTLD_NOW)
	if handle == nil {
		return nil, lastError("dlopen failed for " + path)
	}
	return &Library{handle: uintptr(handle)}, nil
}

// Symbol resolves the exported symbol with the given name and returns its
// address.
func (l *Library) Symbol(name string) (uintptr, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	C.dlerror() // clear any stale error
	addr := C.dlsym(unsafe.Pointer(l.handle), cname)
	if addr == nil {
		return 0, lastError("symbol " + name + " not found")
	}
	return uintptr(addr), nil
}

// Close unloads the library. Closing the current process pseudo library is a
// no-op.
func (l *Library) Close() error {
	if l.process || l.handle == 0 {
		return nil
	}
	if C.dlclose(unsafe.Pointer(l.handle)) != 0 {
		return lastError("dlclose failed")
	}
	l.handle = 0
	return nil
}
