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
	"context"
	"fmt"

	"github.com/google/dynffi/core/log"
	"github.com/google/dynffi/core/memory/arena"
)

// PoisonFrames makes the frame builder zero the whole prepared region
// before packing so that stale bytes from earlier calls can never reach a
// register load. Tests enable it to check that packing writes exactly the
// bytes the plan claims.
var PoisonFrames = false

// regFileLayout describes where the trampoline expects the register file
// image relative to the stack pointer it is handed.
type regFileLayout struct {
	// size is the number of bytes between the handed-off stack pointer and
	// the overflow area.
	size int
	// gpr is the offset of integer register slot 0.
	gpr int
	// vec is the offset of floating point register slot 0.
	vec int
}

var (
	// System V: six integer slots, then eight XMM slots, then overflow.
	regFileSysV = regFileLayout{size: (6 + 8) * 8, gpr: 0, vec: 6 * 8}
	// AArch64: seven pad slots, X0..X7 and X8, eight vector slots, then
	// overflow. The pad keeps the handed-off pointer 16 byte aligned.
	regFileAAPCS = regFileLayout{size: (7 + 9 + 8) * 8, gpr: 7 * 8, vec: (7 + 9) * 8}
	// Microsoft x64: the first four argument slots double as the register
	// and shadow space copies, so there is no separate image.
	regFileWin64 = regFileLayout{size: 0, gpr: 0, vec: 0}
)

// frame is one invocation's working area, carved from the top of the
// library call stack into return buffer, scratch, overflow and register
// file regions, all 16 byte aligned.
type frame struct {
	fn     *Function
	layout regFileLayout
	buf    []byte
	base   uintptr

	sp       int // handed to the trampoline
	overflow int
	scratch  int
	retBuf   int // -1 when the return is not by hidden pointer
	top      int

	gprNext, vecNext         int
	overflowNext, scratchNext int
}

// newFrame carves the call regions for one invocation of fn out of stack.
// base is the native address of stack[0]; both ends of stack are 16 byte
// aligned.
func newFrame(fn *Function, stack []byte, base uintptr, layout regFileLayout) (*frame, error) {
	top := len(stack)
	fr := &frame{fn: fn, layout: layout, buf: stack, base: base, retBuf: -1, top: top}

	if fn.RetByPointer {
		top -= alignUp(fn.Ret.Type.Size, 16)
		fr.retBuf = top
	}
	top -= alignUp(fn.ScratchSize, 16)
	fr.scratch = top
	top -= alignUp(fn.ArgsSize, 16)
	fr.overflow = top
	top -= layout.size
	fr.sp = top

	if fr.sp < 0 {
		return nil, unsupported("%s: call frame exceeds the %d byte call stack", fn.Name, len(stack))
	}
	if PoisonFrames {
		for i := fr.sp; i < fr.top; i++ {
			fr.buf[i] = 0
		}
	}
	return fr, nil
}

func (fr *frame) addr(offset int) uintptr { return fr.base + uintptr(offset) }

func (fr *frame) gprSlot(i int) []byte {
	off := fr.sp + fr.layout.gpr + i*8
	return fr.buf[off : off+8]
}

func (fr *frame) vecSlot(i int) []byte {
	off := fr.sp + fr.layout.vec + i*8
	return fr.buf[off : off+8]
}

// overflowBytes reserves size bytes in the overflow area, 8 byte aligned,
// advancing by whole stack slots.
func (fr *frame) overflowBytes(size int) []byte {
	off := fr.overflow + alignUp(fr.overflowNext, 8)
	fr.overflowNext = alignUp(fr.overflowNext, 8) + alignUp(size, 8)
	return fr.buf[off : off+size]
}

// scratchBytes reserves size bytes in the scratch area, 16 byte aligned,
// and returns the slice together with its native address.
func (fr *frame) scratchBytes(size int) ([]byte, uintptr) {
	off := fr.scratch + alignUp(fr.scratchNext, 16)
	fr.scratchNext = alignUp(fr.scratchNext, 16) + alignUp(size, 16)
	return fr.buf[off : off+size], fr.addr(off)
}

// pushScalarSlot writes a scalar argument as a full 8 byte register slot:
// integers are widened to 64 bits with their natural extension, floats keep
// their IEEE bits in the low lanes.
func pushScalarSlot(dst []byte, t *TypeInfo, v Value, tmp *arena.Bump, at string) error {
	for i := range dst {
		dst[i] = 0
	}
	if err := pushScalar(dst[:t.Size], t, v, tmp, at); err != nil {
		return err
	}
	if t.Kind.IsSigned() && t.Size < 8 && dst[t.Size-1]&0x80 != 0 {
		for i := t.Size; i < 8; i++ {
			dst[i] = 0xff
		}
	}
	return nil
}

// packSysV fills the System V register file image and overflow area from
// the managed arguments.
func (fr *frame) packSysV(args []Value, tmp *arena.Bump) error {
	fn := fr.fn
	if fn.RetByPointer {
		putInt(fr.gprSlot(0), uint64(fr.addr(fr.retBuf)), 8)
		fr.gprNext = 1
	}
	for i := range fn.Params {
		p := &fn.Params[i]
		t := p.Type
		at := fmt.Sprintf("%s argument %d", fn.Name, i)
		switch {
		case t.Kind == Record && !p.onStack():
			var packed [16]byte
			if err := pushRecord(packed[:t.Size], t, args[i], tmp, at); err != nil {
				return err
			}
			for ei, c := range eightbytes(t) {
				chunk := packed[ei*8 : ei*8+8]
				if c == classInt {
					copy(fr.gprSlot(fr.gprNext), chunk)
					fr.gprNext++
				} else {
					copy(fr.vecSlot(fr.vecNext), chunk)
					fr.vecNext++
				}
			}
		case p.VecCount > 0:
			if err := pushScalarSlot(fr.vecSlot(fr.vecNext), t, args[i], tmp, at); err != nil {
				return err
			}
			fr.vecNext++
		case p.GPRCount > 0:
			if err := pushScalarSlot(fr.gprSlot(fr.gprNext), t, args[i], tmp, at); err != nil {
				return err
			}
			fr.gprNext++
		case t.Kind == Record:
			if err := pushRecord(fr.overflowBytes(t.Size), t, args[i], tmp, at); err != nil {
				return err
			}
		default:
			dst := fr.overflowBytes(8)
			if err := pushScalarSlot(dst, t, args[i], tmp, at); err != nil {
				return err
			}
		}
	}
	return nil
}

// packWin64 fills the Microsoft x64 argument slots. Irregular aggregates
// are copied into the scratch area and passed by pointer.
func (fr *frame) packWin64(args []Value, tmp *arena.Bump) error {
	fn := fr.fn
	slot := func(i int) []byte {
		off := fr.sp + i*8
		return fr.buf[off : off+8]
	}
	next := 0
	if fn.RetByPointer {
		putInt(slot(0), uint64(fr.addr(fr.retBuf)), 8)
		next = 1
	}
	for i := range fn.Params {
		p := &fn.Params[i]
		t := p.Type
		at := fmt.Sprintf("%s argument %d", fn.Name, i)
		dst := slot(next)
		switch {
		case t.Kind == Record && p.Regular:
			var packed [8]byte
			if err := pushRecord(packed[:t.Size], t, args[i], tmp, at); err != nil {
				return err
			}
			copy(dst, packed[:])
		case t.Kind == Record:
			copyBuf, addr := fr.scratchBytes(t.Size)
			if err := pushRecord(copyBuf, t, args[i], tmp, at); err != nil {
				return err
			}
			putInt(dst, uint64(addr), 8)
		default:
			if err := pushScalarSlot(dst, t, args[i], tmp, at); err != nil {
				return err
			}
		}
		next++
	}
	return nil
}

// packAAPCS64 fills the AArch64 register file image and overflow area.
// HFAs spread one member per vector slot; oversized aggregates are copied
// to scratch and passed by pointer; the hidden return pointer lives in the
// X8 slot.
func (fr *frame) packAAPCS64(args []Value, tmp *arena.Bump) error {
	fn := fr.fn
	if fn.RetByPointer {
		putInt(fr.gprSlot(8), uint64(fr.addr(fr.retBuf)), 8)
	}
	for i := range fn.Params {
		p := &fn.Params[i]
		t := p.Type
		at := fmt.Sprintf("%s argument %d", fn.Name, i)
		switch {
		case isHFA(t):
			if p.VecCount > 0 {
				var packed [32]byte
				if err := pushRecord(packed[:t.Size], t, args[i], tmp, at); err != nil {
					return err
				}
				member := t.Members[0].Type
				for k := 0; k < len(t.Members); k++ {
					dst := fr.vecSlot(fr.vecNext + k)
					for b := range dst {
						dst[b] = 0
					}
					copy(dst, packed[k*member.Size:(k+1)*member.Size])
				}
				fr.vecNext += len(t.Members)
			} else {
				if err := pushRecord(fr.overflowBytes(t.Size), t, args[i], tmp, at); err != nil {
					return err
				}
			}
		case t.Kind == Record && t.Size > 16:
			copyBuf, addr := fr.scratchBytes(t.Size)
			if err := pushRecord(copyBuf, t, args[i], tmp, at); err != nil {
				return err
			}
			if p.GPRCount > 0 {
				putInt(fr.gprSlot(fr.gprNext), uint64(addr), 8)
				fr.gprNext++
			} else {
				putInt(fr.overflowBytes(8), uint64(addr), 8)
			}
		case t.Kind == Record:
			if p.GPRCount > 0 {
				var packed [16]byte
				if err := pushRecord(packed[:t.Size], t, args[i], tmp, at); err != nil {
					return err
				}
				for k := 0; k < p.GPRCount; k++ {
					copy(fr.gprSlot(fr.gprNext), packed[k*8:k*8+8])
					fr.gprNext++
				}
			} else {
				if err := pushRecord(fr.overflowBytes(t.Size), t, args[i], tmp, at); err != nil {
					return err
				}
			}
		case p.VecCount > 0:
			if err := pushScalarSlot(fr.vecSlot(fr.vecNext), t, args[i], tmp, at); err != nil {
				return err
			}
			fr.vecNext++
		case p.GPRCount > 0:
			if err := pushScalarSlot(fr.gprSlot(fr.gprNext), t, args[i], tmp, at); err != nil {
				return err
			}
			fr.gprNext++
		default:
			dst := fr.overflowBytes(8)
			if err := pushScalarSlot(dst, t, args[i], tmp, at); err != nil {
				return err
			}
		}
	}
	return nil
}

// retBytes returns the hidden return buffer region, or nil when the return
// travels in registers.
func (fr *frame) retBytes() []byte {
	if fr.retBuf < 0 {
		return nil
	}
	return fr.buf[fr.retBuf : fr.retBuf+fr.fn.Ret.Type.Size]
}

// DumpFrame logs a memory region as hex rows at debug severity.
func DumpFrame(ctx context.Context, label string, base uintptr, data []byte) {
	if log.GetSeverity(ctx) > log.Debug {
		return
	}
	l := log.From(ctx)
	l.D("%s (%d bytes at %#x)", label, len(data), base)
	for row := 0; row < len(data); row += 16 {
		end := row + 16
		if end > len(data) {
			end = len(data)
		}
		line := ""
		for _, b := range data[row:end] {
			line += fmt.Sprintf("%02x ", b)
		}
		l.D("  %#08x  %s", base+uintptr(row), line)
	}
}

// dump logs the prepared register file and overflow regions.
func (fr *frame) dump(ctx context.Context) {
	DumpFrame(ctx, "register file", fr.addr(fr.sp), fr.buf[fr.sp:fr.overflow])
	DumpFrame(ctx, "overflow", fr.addr(fr.overflow), fr.buf[fr.overflow:fr.overflow+fr.fn.ArgsSize])
}
