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

// analyseWin64 classifies a function against the Microsoft x64 calling
// convention.
//
// Every parameter occupies exactly one 8 byte argument slot. Types whose
// size is 1, 2, 4 or 8 are regular and travel in the slot directly; any
// other aggregate is copied into the per-call scratch area and passed by
// pointer. The first four slots double as the register and shadow space
// copies, so ArgsSize always covers at least four slots. An irregular
// return value is written through a hidden pointer passed in the first
// slot.
func analyseWin64(f *Function) error {
	ret := &f.Ret
	switch {
	case ret.Type.Kind == Void:
	case ret.Type.Kind == Record:
		ret.Regular = ret.Type.IsRegular()
		if !ret.Regular {
			f.RetByPointer = true
		}
	default:
		ret.Regular = true
	}

	slots := len(f.Params)
	if f.RetByPointer {
		slots++
	}

	for i := range f.Params {
		p := &f.Params[i]
		switch {
		case p.Type.Kind == Record:
			p.Regular = p.Type.IsRegular()
			if !p.Regular {
				f.ScratchSize += alignUp(p.Type.Size, 16)
			}
			f.UseVec = true
		case p.Type.Kind.IsFloat():
			p.Regular = true
			f.UseVec = true
		default:
			p.Regular = true
		}
	}

	if slots < 4 {
		slots = 4
	}
	f.ArgsSize = alignUp(8*slots, 16)
	return nil
}
