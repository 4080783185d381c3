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

package call

/*
#include <stdint.h>

typedef struct { uint64_t r0, r1; } fwdII;
typedef struct { double   d0, d1; } fwdDD;
typedef struct { uint64_t r0; double   d1; } fwdID;
typedef struct { double   d0; uint64_t r1; } fwdDI;

extern fwdII dynffi_forward_ii(uintptr_t fn, uintptr_t sp);
extern fwdDD dynffi_forward_dd(uintptr_t fn, uintptr_t sp);
extern fwdID dynffi_forward_id(uintptr_t fn, uintptr_t sp);
extern fwdDI dynffi_forward_di(uintptr_t fn, uintptr_t sp);
extern float dynffi_forward_f(uintptr_t fn, uintptr_t sp);
extern fwdII dynffi_forward_xii(uintptr_t fn, uintptr_t sp);
extern fwdDD dynffi_forward_xdd(uintptr_t fn, uintptr_t sp);
extern fwdID dynffi_forward_xid(uintptr_t fn, uintptr_t sp);
extern fwdDI dynffi_forward_xdi(uintptr_t fn, uintptr_t sp);
extern float dynffi_forward_xf(uintptr_t fn, uintptr_t sp);
*/
import "C"

import "math"

// Invoke hands the prepared stack at sp to the native function at target
// and captures the System V return registers the class selects. vec picks
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
		var ret C.fwdDD
		if vec {
			ret = C.dynffi_forward_xdd(fn, st)
		} else {
			ret = C.dynffi_forward_dd(fn, st)
		}
		r.Vec[0] = math.Float64bits(float64(ret.d0))
		r.Vec[1] = math.Float64bits(float64(ret.d1))
	case IntFloat:
		var ret C.fwdID
		if vec {
			ret = C.dynffi_forward_xid(fn, st)
		} else {
			ret = C.dynffi_forward_id(fn, st)
		}
		r.GPR[0] = uint64(ret.r0)
		r.Vec[0] = math.Float64bits(float64(ret.d1))
	case FloatInt:
		var ret C.fwdDI
		if vec {
			ret = C.dynffi_forward_xdi(fn, st)
		} else {
			ret = C.dynffi_forward_di(fn, st)
		}
		r.Vec[0] = math.Float64bits(float64(ret.d0))
		r.GPR[0] = uint64(ret.r1)
	default:
		var ret C.fwdII
		if vec {
			ret = C.dynffi_forward_xii(fn, st)
		} else {
			ret = C.dynffi_forward_ii(fn, st)
		}
		r.GPR[0] = uint64(ret.r0)
		r.GPR[1] = uint64(ret.r1)
	}
	return r
}
