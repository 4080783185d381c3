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

// +build amd64,windows

package ffi

import (
	"context"

	"github.com/google/dynffi/ffi/call"
)

var hostBackend Backend = win64Backend{}

type win64Backend struct{}

func (win64Backend) Analyse(f *Function) error { return analyseWin64(f) }

func (win64Backend) Call(ctx context.Context, f *Function, args []Value) (Value, error) {
	fr, err := newFrame(f, f.lib.stack, f.lib.base, regFileWin64)
	if err != nil {
		return Null(), err
	}
	if err := fr.packWin64(args, f.lib.tmp); err != nil {
		return Null(), err
	}
	fr.dump(ctx)
	regs := call.Invoke(win64ReturnClass(f), f.UseVec, f.addr, fr.addr(fr.sp))
	return dispatchReturn(fr, regs)
}

// win64ReturnClass picks the trampoline variant whose declared return type
// occupies the register the return value travels in. Regular aggregates
// come back packed in RAX.
func win64ReturnClass(f *Function) call.Class {
	switch f.Ret.Type.Kind {
	case Float32:
		return call.Float
	case Float64:
		return call.Double
	default:
		return call.Int
	}
}
