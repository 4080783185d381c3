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
	"encoding/binary"

	"github.com/google/dynffi/ffi/call"
)

// returnBytesSysV reassembles a register-returned System V aggregate into
// its in-memory layout, pulling each eightbyte from the integer or vector
// stream in classification order.
func returnBytesSysV(t *TypeInfo, regs call.Regs) []byte {
	buf := make([]byte, alignUp(t.Size, 8))
	gi, vi := 0, 0
	for ei, c := range eightbytes(t) {
		var bits uint64
		if c == classInt {
			bits = regs.GPR[gi]
			gi++
		} else {
			bits = regs.Vec[vi]
			vi++
		}
		binary.LittleEndian.PutUint64(buf[ei*8:], bits)
	}
	return buf[:t.Size]
}

// returnBytesAAPCS reassembles a register-returned AArch64 aggregate. HFA
// members come back one per vector register, everything else up to 16
// bytes in X0 and X1.
func returnBytesAAPCS(t *TypeInfo, ret *ParameterInfo, regs call.Regs) []byte {
	if ret.HFA {
		member := t.Members[0].Type
		buf := make([]byte, t.Size)
		for k := 0; k < len(t.Members); k++ {
			var chunk [8]byte
			binary.LittleEndian.PutUint64(chunk[:], regs.Vec[k])
			copy(buf[k*member.Size:], chunk[:member.Size])
		}
		return buf
	}
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[0:], regs.GPR[0])
	binary.LittleEndian.PutUint64(buf[8:], regs.GPR[1])
	return buf[:t.Size]
}

// returnBytesWin64 reassembles a regular Microsoft x64 aggregate from the
// low bytes of RAX.
func returnBytesWin64(t *TypeInfo, regs call.Regs) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], regs.GPR[0])
	return buf[:t.Size]
}

// scalarReturnBytes extracts the scalar return pattern: floats from the
// vector side, everything else from the first integer register.
func scalarReturnBytes(t *TypeInfo, regs call.Regs) []byte {
	var buf [8]byte
	switch {
	case t.Kind == Float32:
		if regs.HasF32 {
			binary.LittleEndian.PutUint32(buf[:4], regs.F32)
		} else {
			binary.LittleEndian.PutUint64(buf[:], regs.Vec[0])
		}
	case t.Kind == Float64:
		binary.LittleEndian.PutUint64(buf[:], regs.Vec[0])
	default:
		binary.LittleEndian.PutUint64(buf[:], regs.GPR[0])
	}
	return buf[:t.Size]
}

// recordReturnBytes picks where the returned record's bytes live: the
// hidden return buffer when the call used one, otherwise the registers
// reassembled per the host convention.
func recordReturnBytes(fr *frame, regs call.Regs) []byte {
	if b := fr.retBytes(); b != nil {
		return b
	}
	fn := fr.fn
	switch {
	case fr.layout == regFileSysV:
		return returnBytesSysV(fn.Ret.Type, regs)
	case fr.layout == regFileAAPCS:
		return returnBytesAAPCS(fn.Ret.Type, &fn.Ret, regs)
	default:
		return returnBytesWin64(fn.Ret.Type, regs)
	}
}

// dispatchReturn converts the captured return state into a managed value.
func dispatchReturn(fr *frame, regs call.Regs) (Value, error) {
	t := fr.fn.Ret.Type
	switch t.Kind {
	case Void:
		return Null(), nil
	case Record:
		return popRecord(recordReturnBytes(fr, regs), t)
	default:
		return popScalar(scalarReturnBytes(t, regs), t)
	}
}
