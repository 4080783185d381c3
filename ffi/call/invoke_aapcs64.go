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

package call

/*
#include <stdint.h>

typedef struct { uint64_t r0, r1; } fwdGG;
typedef struct { double d0, d1, d2, d3; } fwdQuad;

extern fwdGG   dynffi_forward_gg(uintptr_t fn, uintptr_t sp);
extern float   dynffi_forward_f(uintptr_t fn, uintptr_t sp);
extern fwdQuad dynffi_forward_dddd(uintptr_t fn, uintptr_t sp);
extern fwdGG   dynffi_forward_xgg(uintptr_t fn, uintptr_t sp);
extern float   dynffi_forward_xf(uintptr_t fn, uintptr_t sp);
extern fwdQuad dynffi_forward_xdddd(uintptr_t fn, uintptr_t sp);
*/
import "C"

import "math"

// Invoke hands the prepared stack at sp to the native function at target
// and captures the AArch64 return registers the class selects. vec picks
// the variant that also loads the vector register file.
func Invoke(class Class, vec bool, target, sp uintptr) Regs {
	fn, st := C.uintptr_t(target), C.uintptr_t(sp)
	var r Regs
	switch class {
	case Float:
		var f C.float
		if vec {
			f = C.dynffi_forward_xf(fn, st)
		} else {
			f = C.dynffi_forward_f(fn, st)
		}
		r.F32, r.HasF32 = math.Float32bits(float32(f)), true
	case Double, FloatPair, Quad:
		var ret C.fwdQuad
		if vec {
			ret = C.dynffi_forward_xdddd(fn, st)
		} else {
			ret = C.dynffi_forward_dddd(fn, st)
		}
		r.Vec[0] = math.Float64bits(float64(ret.d0))
		r.Vec[1] = math.Float64bits(float64(ret.d1))
		r.Vec[2] = math.Float64bits(float64(ret.d2))
		r.Vec[3] = math.Float64bits(float64(ret.d3))
	default:
		var ret C.fwdGG
		if vec {
			ret = C.dynffi_forward_xgg(fn, st)
		} else {
			ret = C.dynffi_forward_gg(fn, st)
		}
		r.GPR[0] = uint64(ret.r0)
		r.GPR[1] = uint64(ret.r1)
	}
	return r
}
