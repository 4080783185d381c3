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
	"math"
	"math/big"
	"unsafe"

	"github.com/google/dynffi/core/memory/arena"
)

// putInt writes the low size bytes of bits into dst, little-endian.
func putInt(dst []byte, bits uint64, size int) {
	for i := 0; i < size; i++ {
		dst[i] = byte(bits >> (8 * i))
	}
}

// getInt reads size little-endian bytes from src as an unsigned pattern.
func getInt(src []byte, size int) uint64 {
	bits := uint64(0)
	for i := 0; i < size; i++ {
		bits |= uint64(src[i]) << (8 * i)
	}
	return bits
}

// signExtend widens the low size bytes of bits to a signed 64 bit value.
func signExtend(bits uint64, size int) int64 {
	shift := 64 - 8*size
	return int64(bits<<shift) >> shift
}

// copyCString copies s into tmp as a nul-terminated byte sequence and
// returns its native address.
func copyCString(tmp *arena.Bump, s string) (uintptr, error) {
	addr := tmp.Alloc(len(s)+1, 1)
	if addr == 0 {
		return 0, unsupported("out of temporary string memory (%d bytes)", len(s)+1)
	}
	buf := arena.Bytes(unsafe.Pointer(addr), len(s)+1)
	copy(buf, s)
	buf[len(s)] = 0
	return addr, nil
}

// goCString reads the nul-terminated byte sequence at addr as a string.
func goCString(addr uintptr) string {
	if addr == 0 {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Pointer(addr + uintptr(n))) != 0 {
		n++
	}
	return string(arena.Bytes(unsafe.Pointer(addr), n))
}

// pushScalar serialises a single non-record value into dst according to t.
func pushScalar(dst []byte, t *TypeInfo, v Value, tmp *arena.Bump, at string) error {
	switch {
	case t.Kind == Bool:
		b, ok := v.Bool()
		if !ok {
			return typeMismatch("%s: expected bool, got %s", at, v.Kind())
		}
		if b {
			dst[0] = 1
		} else {
			dst[0] = 0
		}
	case t.Kind.IsInteger():
		i, ok := v.Int()
		if !ok {
			return typeMismatch("%s: expected number or bigint, got %s", at, v.Kind())
		}
		putInt(dst, uint64(i), t.Size)
	case t.Kind == Float32:
		f, ok := v.Float()
		if !ok {
			return typeMismatch("%s: expected number, got %s", at, v.Kind())
		}
		binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(f)))
	case t.Kind == Float64:
		f, ok := v.Float()
		if !ok {
			return typeMismatch("%s: expected number, got %s", at, v.Kind())
		}
		binary.LittleEndian.PutUint64(dst, math.Float64bits(f))
	case t.Kind == String:
		if v.IsNull() {
			putInt(dst, 0, 8)
			break
		}
		s, ok := v.Text()
		if !ok {
			return typeMismatch("%s: expected string, got %s", at, v.Kind())
		}
		addr, err := copyCString(tmp, s)
		if err != nil {
			return err
		}
		putInt(dst, uint64(addr), 8)
	case t.Kind == Pointer:
		x, ok := v.Pointer()
		if !ok {
			return typeMismatch("%s: expected external pointer, got %s", at, v.Kind())
		}
		if x.Addr != 0 && x.Tag != t.Ref {
			got := "untagged"
			if x.Tag != nil {
				got = x.Tag.Name
			}
			return typeMismatch("%s: pointer tag %s does not match %s", at, got, t.Ref.Name)
		}
		putInt(dst, uint64(x.Addr), 8)
	default:
		return unsupported("%s: cannot marshal %s", at, t.Name)
	}
	return nil
}

// pushRecord serialises a record value into dst member by member, stepping
// and aligning the write position to each member type.
func pushRecord(dst []byte, t *TypeInfo, v Value, tmp *arena.Bump, at string) error {
	obj, ok := v.Object()
	if !ok {
		return typeMismatch("%s: expected object for record %s, got %s", at, t.Name, v.Kind())
	}
	offset := 0
	for _, m := range t.Members {
		offset = alignUp(offset, m.Type.Align)
		fv, ok := obj.Get(m.Name)
		if !ok {
			return typeMismatch("%s: record %s is missing member %q", at, t.Name, m.Name)
		}
		field := dst[offset : offset+m.Type.Size]
		if m.Type.Kind == Record {
			if err := pushRecord(field, m.Type, fv, tmp, at+"."+m.Name); err != nil {
				return err
			}
		} else {
			if err := pushScalar(field, m.Type, fv, tmp, at+"."+m.Name); err != nil {
				return err
			}
		}
		offset += m.Type.Size
	}
	return nil
}

// popScalar deserialises a single non-record value from src according to t.
// Integers up to 32 bits become numbers; 64 bit integers become big
// integers so the value is exact.
func popScalar(src []byte, t *TypeInfo) (Value, error) {
	switch {
	case t.Kind == Bool:
		return Boolean(src[0] != 0), nil
	case t.Kind == Int64:
		return BigInt(big.NewInt(int64(getInt(src, 8)))), nil
	case t.Kind == UInt64:
		return BigInt(new(big.Int).SetUint64(getInt(src, 8))), nil
	case t.Kind.IsInteger():
		bits := getInt(src, t.Size)
		if t.Kind.IsSigned() {
			return Number(float64(signExtend(bits, t.Size))), nil
		}
		return Number(float64(bits)), nil
	case t.Kind == Float32:
		return Number(float64(math.Float32frombits(binary.LittleEndian.Uint32(src)))), nil
	case t.Kind == Float64:
		return Number(math.Float64frombits(binary.LittleEndian.Uint64(src))), nil
	case t.Kind == String:
		addr := uintptr(getInt(src, 8))
		if addr == 0 {
			return Null(), nil
		}
		return Str(goCString(addr)), nil
	case t.Kind == Pointer:
		addr := uintptr(getInt(src, 8))
		if addr == 0 {
			return Null(), nil
		}
		return ExternalOf(addr, t.Ref), nil
	default:
		return Null(), unsupported("cannot unmarshal %s", t.Name)
	}
}

// popRecord deserialises a record value from src, the mirror of pushRecord.
func popRecord(src []byte, t *TypeInfo) (Value, error) {
	obj := NewObject()
	offset := 0
	for _, m := range t.Members {
		offset = alignUp(offset, m.Type.Align)
		field := src[offset : offset+m.Type.Size]
		var v Value
		var err error
		if m.Type.Kind == Record {
			v, err = popRecord(field, m.Type)
		} else {
			v, err = popScalar(field, m.Type)
		}
		if err != nil {
			return Null(), err
		}
		obj.Set(m.Name, v)
		offset += m.Type.Size
	}
	return ObjectOf(obj), nil
}
