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

const (
	aapcsGPRBudget = 8
	aapcsVecBudget = 8
)

// isHFA returns true if t is a homogeneous floating point aggregate: a
// record of one to four members that all have the same Float32 or Float64
// type.
func isHFA(t *TypeInfo) bool {
	if t.Kind != Record || len(t.Members) == 0 || len(t.Members) > 4 {
		return false
	}
	first := t.Members[0].Type
	if !first.Kind.IsFloat() {
		return false
	}
	for _, m := range t.Members[1:] {
		if m.Type != first {
			return false
		}
	}
	return true
}

// analyseAAPCS64 classifies a function against the AArch64 AAPCS calling
// convention.
//
// HFAs occupy one vector register per member. Other aggregates up to 16
// bytes occupy one integer register per started eightbyte. Larger
// aggregates are copied into the scratch area and passed by pointer.
// Oversized return values are written through a hidden pointer supplied in
// X8, which lives in register file slot 8 and does not consume an argument
// register. Register consumption is atomic: a parameter that does not fit
// entirely in the remaining registers spills whole to the stack.
func analyseAAPCS64(f *Function) error {
	gpr, vec := aapcsGPRBudget, aapcsVecBudget

	ret := &f.Ret
	switch {
	case ret.Type.Kind == Void:
	case ret.Type.Kind == Record:
		if isHFA(ret.Type) {
			ret.HFA = true
			ret.VecCount = len(ret.Type.Members)
		} else if ret.Type.Size <= 16 {
			ret.GPRCount = (ret.Type.Size + 7) / 8
		} else {
			f.RetByPointer = true
		}
	case ret.Type.Kind.IsFloat():
		ret.VecCount = 1
	default:
		ret.GPRCount = 1
	}

	args := 0
	for i := range f.Params {
		p := &f.Params[i]
		t := p.Type
		switch {
		case isHFA(t):
			if need := len(t.Members); vec >= need {
				p.HFA = true
				p.VecCount = need
				vec -= need
				f.UseVec = true
			}
		case t.Kind.IsFloat():
			if vec >= 1 {
				p.VecCount = 1
				vec--
				f.UseVec = true
			}
		case t.Kind == Record && t.Size <= 16:
			if need := (t.Size + 7) / 8; gpr >= need {
				p.GPRCount = need
				gpr -= need
			}
		case t.Kind == Record:
			f.ScratchSize += alignUp(t.Size, 16)
			if gpr >= 1 {
				p.GPRCount = 1
				gpr--
			}
		default:
			if gpr >= 1 {
				p.GPRCount = 1
				gpr--
			}
		}
		if p.onStack() {
			size := t.Size
			if t.Kind == Record && t.Size > 16 && !isHFA(t) {
				size = 8 // pointer to the scratch copy
			}
			args += alignUp(size, 8)
		}
	}

	f.ArgsSize = args
	return nil
}
