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

package call

/*
#include <stdint.h>

extern uint64_t dynffi_forward_g(uintptr_t fn, uintptr_t sp);
extern float    dynffi_forward_f(uintptr_t fn, uintptr_t sp);
extern double   dynffi_forward_d(uintptr_t fn, uintptr_t sp);
extern uint64_t dynffi_forward_xg(uintptr_t fn, uintptr_t sp);
extern float    dynffi_forward_xf(uintptr_t fn, uintptr_t sp);
extern double   dynffi_forward_xd(uintptr_t fn, uintptr_t sp);
*/
import "C"

import "math"

// Invoke hands the prepared stack at sp to the native function at target
// and captures the Microsoft x64 return register the class selects. vec
// picks the variant that also mirrors the argument slots into XMM0..XMM3.
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
	case Double:
		var d C.double
		if vec {
			d = C.dynffi_forward_xd(fn, st)
		} else {
			d = C.dynffi_forward_d(fn, st)
		}
		r.Vec[0] = math.Float64bits(float64(d))
	default:
		var g C.uint64_t
		if vec {
			g = C.dynffi_forward_xg(fn, st)
		} else {
			g = C.dynffi_forward_g(fn, st)
		}
		r.GPR[0] = uint64(g)
	}
	return r
}
