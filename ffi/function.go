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
	"strings"
)

// ParameterInfo is a parameter or return type together with the register
// classification the host calling convention assigns to it. It is computed
// once when the function is analysed.
type ParameterInfo struct {
	// Type is the declared type of the parameter.
	Type *TypeInfo
	// GPRCount is the number of integer registers the parameter consumes.
	GPRCount int
	// VecCount is the number of floating point registers the parameter
	// consumes.
	VecCount int
	// GPRFirst is set for System V aggregates carried in registers whose
	// first eightbyte is of the integer class. It decides the register order
	// when an aggregate spans one integer and one floating register.
	GPRFirst bool
	// HFA is set for AArch64 homogeneous float aggregates.
	HFA bool
	// Regular is set for Microsoft x64 types of size 1, 2, 4 or 8 that fit
	// one argument slot directly.
	Regular bool
}

// onStack returns true if the parameter spilled entirely to the overflow
// stack area.
func (p *ParameterInfo) onStack() bool { return p.GPRCount == 0 && p.VecCount == 0 }

// Function is a resolved native function and the calling plan for it.
type Function struct {
	// Name is the symbol name the function was resolved from.
	Name string
	// Ret is the classification of the return type.
	Ret ParameterInfo
	// Params are the classifications of the parameters, in declared order.
	Params []ParameterInfo
	// ArgsSize is the exact upper bound of overflow stack bytes a call may
	// use, including the Microsoft x64 shadow area.
	ArgsSize int
	// ScratchSize is the bytes of per-call storage needed for aggregate
	// copies passed by hidden pointer.
	ScratchSize int
	// UseVec selects the trampoline variant that also loads the floating
	// point register file.
	UseVec bool
	// RetByPointer is set when the return value is written through a hidden
	// pointer into caller storage.
	RetByPointer bool

	addr uintptr
	lib  *libraryData
}

// Addr returns the resolved address of the native function.
func (f *Function) Addr() uintptr { return f.addr }

// String returns a printable rendering of the signature.
func (f *Function) String() string {
	b := &strings.Builder{}
	b.WriteString(f.Ret.Type.Name)
	b.WriteString(" ")
	b.WriteString(f.Name)
	b.WriteString("(")
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Type.Name)
	}
	b.WriteString(")")
	return b.String()
}

// Call marshals args, invokes the native function and unmarshals its result.
//
// The library's call stack and temporary allocator are borrowed for the
// duration of the call. A second call against the same library while this
// one is in flight fails fast with ErrBusy.
func (f *Function) Call(ctx context.Context, args []Value) (Value, error) {
	if len(args) != len(f.Params) {
		return Null(), typeMismatch("%s: expected %d arguments, got %d", f.Name, len(f.Params), len(args))
	}
	if !f.lib.tryLock() {
		return Null(), ErrBusy
	}
	defer f.lib.unlock()
	defer f.lib.tmp.Reset()
	return hostBackend.Call(ctx, f, args)
}

// Close releases the function's reference on its library. The library is
// unloaded when the last function loaded from it is closed.
func (f *Function) Close() {
	if f.lib != nil {
		f.lib.release()
		f.lib = nil
	}
}
