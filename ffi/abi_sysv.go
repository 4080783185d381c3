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
	sysvGPRBudget = 6
	sysvVecBudget = 8
)

type eightbyteClass int

const (
	classSSE eightbyteClass = iota
	classInt
)

// eightbytes computes the simplified System V classification of an
// aggregate of at most 16 bytes: each 8 byte region is SSE if every leaf
// member that touches it is a float, otherwise integer. Nested unions, bit
// fields and packed layouts are outside this model.
func eightbytes(t *TypeInfo) []eightbyteClass {
	classes := make([]eightbyteClass, (t.Size+7)/8)
	markLeaves(t, 0, classes)
	return classes
}

func markLeaves(t *TypeInfo, base int, classes []eightbyteClass) {
	if t.Kind == Record {
		offset := 0
		for _, m := range t.Members {
			offset = alignUp(offset, m.Type.Align)
			markLeaves(m.Type, base+offset, classes)
			offset += m.Type.Size
		}
		return
	}
	if t.Kind.IsFloat() {
		return
	}
	for i := base / 8; i <= (base+t.Size-1)/8; i++ {
		classes[i] = classInt
	}
}

func countClasses(classes []eightbyteClass) (gpr, vec int) {
	for _, c := range classes {
		if c == classInt {
			gpr++
		} else {
			vec++
		}
	}
	return gpr, vec
}

// analyseSysV classifies a function against the System V AMD64 calling
// convention.
//
// Integer arguments use the six integer argument registers, floats the
// eight XMM registers. Aggregates up to 16 bytes are split into eightbytes
// and carried in the matching register classes; larger aggregates go to the
// stack. Aggregates over 16 bytes return through a hidden pointer which
// consumes the first integer register. Register consumption is atomic: a
// parameter that does not fit entirely in the remaining registers spills
// whole to the stack.
func analyseSysV(f *Function) error {
	gpr, vec := sysvGPRBudget, sysvVecBudget

	ret := &f.Ret
	switch {
	case ret.Type.Kind == Void:
	case ret.Type.Kind == Record:
		if ret.Type.Size > 16 {
			f.RetByPointer = true
			gpr--
		} else {
			classes := eightbytes(ret.Type)
			ret.GPRCount, ret.VecCount = countClasses(classes)
			ret.GPRFirst = classes[0] == classInt
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
		case t.Kind.IsFloat():
			f.UseVec = true
			if vec >= 1 {
				p.VecCount = 1
				vec--
			}
		case t.Kind == Record:
			f.UseVec = true
			if t.Size <= 16 {
				classes := eightbytes(t)
				needGPR, needVec := countClasses(classes)
				if gpr >= needGPR && vec >= needVec {
					p.GPRCount, p.VecCount = needGPR, needVec
					p.GPRFirst = classes[0] == classInt
					gpr -= needGPR
					vec -= needVec
				}
			}
		default:
			if gpr >= 1 {
				p.GPRCount = 1
				gpr--
			}
		}
		if p.onStack() {
			args += alignUp(t.Size, 8)
		}
	}

	f.ArgsSize = args
	return nil
}
