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

// +build arm64

package ffi

import (
	"context"

	"github.com/google/dynffi/ffi/call"
)

var hostBackend Backend = aapcs64Backend{}

type aapcs64Backend struct{}

func (aapcs64Backend) Analyse(f *Function) error { return analyseAAPCS64(f) }

func (aapcs64Backend) Call(ctx context.Context, f *Function, args []Value) (Value, error) {
	fr, err := newFrame(f, f.lib.stack, f.lib.base, regFileAAPCS)
	if err != nil {
		return Null(), err
	}
	if err := fr.packAAPCS64(args, f.lib.tmp); err != nil {
		return Null(), err
	}
	fr.dump(ctx)
	regs := call.Invoke(aapcs64ReturnClass(f), f.UseVec, f.addr, fr.addr(fr.sp))
	return dispatchReturn(fr, regs)
}

// aapcs64ReturnClass picks the trampoline variant whose declared return
// type occupies the registers the return value travels in. HFAs come back
// one member per vector register.
func aapcs64ReturnClass(f *Function) call.Class {
	ret := &f.Ret
	switch {
	case ret.HFA:
		return call.Quad
	case ret.Type.Kind == Float32:
		return call.Float
	case ret.Type.Kind == Float64:
		return call.Quad
	default:
		return call.Int
	}
}
