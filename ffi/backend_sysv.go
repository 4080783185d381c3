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

// +build amd64,!windows

package ffi

import (
	"context"

	"github.com/google/dynffi/ffi/call"
)

var hostBackend Backend = sysvBackend{}

type sysvBackend struct{}

func (sysvBackend) Analyse(f *Function) error { return analyseSysV(f) }

func (sysvBackend) Call(ctx context.Context, f *Function, args []Value) (Value, error) {
	fr, err := newFrame(f, f.lib.stack, f.lib.base, regFileSysV)
	if err != nil {
		return Null(), err
	}
	if err := fr.packSysV(args, f.lib.tmp); err != nil {
		return Null(), err
	}
	fr.dump(ctx)
	regs := call.Invoke(sysvReturnClass(f), f.UseVec, f.addr, fr.addr(fr.sp))
	return dispatchReturn(fr, regs)
}

// sysvReturnClass picks the trampoline variant whose declared return type
// occupies exactly the registers the return value travels in.
func sysvReturnClass(f *Function) call.Class {
	ret := &f.Ret
	switch {
	case ret.Type.Kind == Record && !f.RetByPointer:
		switch {
		case ret.VecCount == 0:
			return call.Int
		case ret.GPRCount == 0:
			return call.FloatPair
		case ret.GPRFirst:
			return call.IntFloat
		default:
			return call.FloatInt
		}
	case ret.Type.Kind == Float32:
		return call.Float
	case ret.Type.Kind == Float64:
		return call.FloatPair
	default:
		return call.Int
	}
}
