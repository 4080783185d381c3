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

package ffi

import (
	"context"
	"sync/atomic"

	"github.com/google/dynffi/core/log"
	"github.com/google/dynffi/core/memory/arena"
	"github.com/google/dynffi/core/os/dynlib"
)

const (
	// callStackSize is the native stack each loaded library carries for its
	// calls. Call frames are carved from its top; callee frames grow down
	// into the remainder.
	callStackSize = 1 << 20
	// tmpSize is the per-library temporary allocator used for string copies
	// made while packing arguments. It is reset after every call.
	tmpSize = 256 << 10
)

// Signature declares the native type of a function to be resolved.
type Signature struct {
	// Return is the return type. It may be the void type.
	Return *TypeInfo
	// Params are the parameter types, in declared order.
	Params []*TypeInfo
}

// libraryData is the per-library state shared by every function resolved
// from one Load call: the OS handle, the native call stack and the
// temporary allocator. One call may be in flight at a time.
type libraryData struct {
	lib   *dynlib.Library
	arena *arena.Arena
	stack []byte
	base  uintptr
	tmp   *arena.Bump
	busy  int32
	refs  int32
}

func newLibraryData(lib *dynlib.Library) (*libraryData, error) {
	a := arena.New()
	ptr := a.Allocate(callStackSize, 16)
	if ptr == nil {
		a.Dispose()
		return nil, loadFailure(nil, "cannot allocate the %d byte call stack", callStackSize)
	}
	return &libraryData{
		lib:   lib,
		arena: a,
		stack: arena.Bytes(ptr, callStackSize),
		base:  uintptr(ptr),
		tmp:   arena.NewBump(a, tmpSize),
	}, nil
}

// tryLock acquires the library's single call lease without blocking.
func (l *libraryData) tryLock() bool {
	return atomic.CompareAndSwapInt32(&l.busy, 0, 1)
}

func (l *libraryData) unlock() {
	atomic.StoreInt32(&l.busy, 0)
}

// release drops one function's reference. The last release closes the OS
// handle and frees the native memory.
func (l *libraryData) release() {
	if atomic.AddInt32(&l.refs, -1) > 0 {
		return
	}
	l.lib.Close()
	l.arena.Dispose()
}

// Load opens the shared library at path and resolves each named signature
// into a callable function. An empty path resolves against the symbols
// already visible in the current process.
//
// Loading is all or nothing: if any symbol is missing or any signature
// cannot be carried by the host calling convention, nothing is returned
// and the library is closed again.
func (r *Registry) Load(ctx context.Context, path string, sigs map[string]Signature) (map[string]*Function, error) {
	for name, sig := range sigs {
		if err := checkSignature(name, sig); err != nil {
			return nil, err
		}
	}

	lib, err := dynlib.Open(path)
	if err != nil {
		return nil, loadFailure(err, "cannot open library %q", path)
	}
	data, err := newLibraryData(lib)
	if err != nil {
		lib.Close()
		return nil, err
	}

	fns := map[string]*Function{}
	for name, sig := range sigs {
		addr, err := lib.Symbol(name)
		if err != nil {
			lib.Close()
			data.arena.Dispose()
			return nil, loadFailure(err, "cannot resolve symbol %q in %q", name, path)
		}
		f := &Function{
			Name:   name,
			Ret:    ParameterInfo{Type: sig.Return},
			Params: make([]ParameterInfo, len(sig.Params)),
			addr:   addr,
			lib:    data,
		}
		for i, p := range sig.Params {
			f.Params[i] = ParameterInfo{Type: p}
		}
		if err := hostBackend.Analyse(f); err != nil {
			lib.Close()
			data.arena.Dispose()
			return nil, err
		}
		log.D(ctx, "resolved %v at %#x", f, addr)
		fns[name] = f
	}
	atomic.StoreInt32(&data.refs, int32(len(fns)))
	return fns, nil
}

// checkSignature rejects signatures no convention can carry: void or
// incomplete parameters and incomplete returns.
func checkSignature(name string, sig Signature) error {
	if sig.Return == nil {
		return typeMismatch("%s: missing return type", name)
	}
	if sig.Return.incomplete {
		return typeMismatch("%s: return type %q is incomplete", name, sig.Return.Name)
	}
	for i, p := range sig.Params {
		switch {
		case p == nil:
			return typeMismatch("%s: parameter %d has no type", name, i)
		case p.Kind == Void:
			return typeMismatch("%s: parameter %d may not be void", name, i)
		case p.incomplete:
			return typeMismatch("%s: parameter %d uses incomplete type %q", name, i, p.Name)
		}
	}
	return nil
}

// BindAddress resolves a signature against a function address that is
// already known, without a symbol lookup. The returned function carries
// its own call stack and lease, against the current process pseudo
// library.
func (r *Registry) BindAddress(ctx context.Context, name string, addr uintptr, sig Signature) (*Function, error) {
	if err := checkSignature(name, sig); err != nil {
		return nil, err
	}
	if addr == 0 {
		return nil, loadFailure(nil, "%s: null function address", name)
	}
	lib, err := dynlib.Open("")
	if err != nil {
		return nil, loadFailure(err, "cannot reference the current process")
	}
	data, err := newLibraryData(lib)
	if err != nil {
		lib.Close()
		return nil, err
	}
	f := &Function{
		Name:   name,
		Ret:    ParameterInfo{Type: sig.Return},
		Params: make([]ParameterInfo, len(sig.Params)),
		addr:   addr,
		lib:    data,
	}
	for i, p := range sig.Params {
		f.Params[i] = ParameterInfo{Type: p}
	}
	if err := hostBackend.Analyse(f); err != nil {
		data.arena.Dispose()
		return nil, err
	}
	atomic.StoreInt32(&data.refs, 1)
	log.D(ctx, "bound %v at %#x", f, addr)
	return f, nil
}
