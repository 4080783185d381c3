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

package ffi_test

import (
	"context"
	"testing"

	"github.com/google/dynffi/core/assert"
	"github.com/google/dynffi/core/log"
	"github.com/google/dynffi/ffi"
	"github.com/google/dynffi/ffi/internal/testnative"
)

// nativeReg returns a registry holding the record types the compiled test
// functions traffic in.
func nativeReg(t *testing.T) *ffi.Registry {
	reg := ffi.NewRegistry()
	f32, _ := reg.Lookup("float")
	f64, _ := reg.Lookup("double")
	i32, _ := reg.Lookup("int32")
	i64, _ := reg.Lookup("int64")
	mustDefine := func(name string, members []ffi.Member) {
		if _, err := reg.DefineRecord(name, members); err != nil {
			t.Fatalf("define %s: %v", name, err)
		}
	}
	mustDefine("vec2", []ffi.Member{{"x", f64}, {"y", f64}})
	mustDefine("vec3", []ffi.Member{{"x", f64}, {"y", f64}, {"z", f64}})
	mustDefine("mix", []ffi.Member{{"a", i32}, {"b", f32}})
	mustDefine("block", []ffi.Member{{"a", i64}, {"b", i64}, {"c", i64}, {"d", i64}})
	return reg
}

func ty(t *testing.T, reg *ffi.Registry, name string) *ffi.TypeInfo {
	ti, err := reg.Lookup(name)
	if err != nil {
		t.Fatalf("lookup %s: %v", name, err)
	}
	return ti
}

// bindNative resolves a signature against one of the compiled test
// functions. Hosts whose calling convention is not implemented skip.
func bindNative(ctx context.Context, t *testing.T, reg *ffi.Registry, name string,
	addr uintptr, ret *ffi.TypeInfo, params ...*ffi.TypeInfo) *ffi.Function {

	f, err := reg.BindAddress(ctx, name, addr, ffi.Signature{Return: ret, Params: params})
	if err != nil {
		if ffi.IsUnsupported(err) {
			t.Skipf("host calling convention not supported: %v", err)
		}
		t.Fatalf("bind %s: %v", name, err)
	}
	t.Cleanup(f.Close)
	return f
}

func callNative(ctx context.Context, t *testing.T, f *ffi.Function, args ...ffi.Value) ffi.Value {
	v, err := f.Call(ctx, args)
	if err != nil {
		t.Fatalf("call %v: %v", f, err)
	}
	return v
}

func member(t *testing.T, v ffi.Value, name string) ffi.Value {
	o, ok := v.Object()
	if !ok {
		t.Fatalf("result is %v, not an object", v.Kind())
	}
	m, ok := o.Get(name)
	if !ok {
		t.Fatalf("result %v has no member %q", v, name)
	}
	return m
}

func intOf(t *testing.T, v ffi.Value) int64 {
	i, ok := v.Int()
	if !ok {
		t.Fatalf("result %v is not numeric", v)
	}
	return i
}

func floatOf(t *testing.T, v ffi.Value) float64 {
	f, ok := v.Float()
	if !ok {
		t.Fatalf("result %v is not numeric", v)
	}
	return f
}

func TestCallScalars(t *testing.T) {
	ctx := log.Testing(t)
	reg := nativeReg(t)
	i32 := ty(t, reg, "int32")
	f32 := ty(t, reg, "float")
	f64 := ty(t, reg, "double")

	add := bindNative(ctx, t, reg, "tn_add32", testnative.Add32, i32, i32, i32)
	got := callNative(ctx, t, add, ffi.Number(2), ffi.Number(3))
	assert.For(ctx, "add").ThatInteger(intOf(t, got)).Equals(5)

	got = callNative(ctx, t, add, ffi.Number(-7), ffi.Number(2))
	assert.For(ctx, "negative add").ThatInteger(intOf(t, got)).Equals(-5)

	lerp := bindNative(ctx, t, reg, "tn_lerp", testnative.Lerp, f64, f64, f64, f32)
	got = callNative(ctx, t, lerp, ffi.Number(0), ffi.Number(10), ffi.Number(0.25))
	assert.For(ctx, "lerp").ThatFloat(floatOf(t, got)).Equals(2.5)

	halve := bindNative(ctx, t, reg, "tn_halve", testnative.Halve, f32, f32)
	got = callNative(ctx, t, halve, ffi.Number(5))
	assert.For(ctx, "halve").ThatFloat(floatOf(t, got)).Equals(2.5)
}

func TestCallBooleans(t *testing.T) {
	ctx := log.Testing(t)
	reg := nativeReg(t)
	b := ty(t, reg, "bool")

	flip := bindNative(ctx, t, reg, "tn_flip", testnative.Flip, b, b)
	got, ok := callNative(ctx, t, flip, ffi.Boolean(false)).Bool()
	assert.For(ctx, "is bool").ThatBoolean(ok).IsTrue()
	assert.For(ctx, "flip false").ThatBoolean(got).IsTrue()

	got, _ = callNative(ctx, t, flip, ffi.Boolean(true)).Bool()
	assert.For(ctx, "flip true").ThatBoolean(got).IsFalse()
}

func TestCallOverflowArguments(t *testing.T) {
	ctx := log.Testing(t)
	reg := nativeReg(t)
	i64 := ty(t, reg, "int64")

	// Eight integer arguments run past the register budget on every x86-64
	// convention, so the tail travels on the stack.
	sum := bindNative(ctx, t, reg, "tn_sum8", testnative.Sum8,
		i64, i64, i64, i64, i64, i64, i64, i64, i64)
	args := make([]ffi.Value, 8)
	for i := range args {
		args[i] = ffi.Number(float64(i + 1))
	}
	got := callNative(ctx, t, sum, args...)
	assert.For(ctx, "sum").ThatInteger(intOf(t, got)).Equals(36)
}

func TestCallRecordArguments(t *testing.T) {
	ctx := log.Testing(t)
	reg := nativeReg(t)
	f64 := ty(t, reg, "double")
	vec2 := ty(t, reg, "vec2")

	a := ffi.ObjectOf(ffi.NewObject().Set("x", ffi.Number(1)).Set("y", ffi.Number(2)))
	b := ffi.ObjectOf(ffi.NewObject().Set("x", ffi.Number(3)).Set("y", ffi.Number(4)))

	dot := bindNative(ctx, t, reg, "tn_dot", testnative.Dot, f64, vec2, vec2)
	got := callNative(ctx, t, dot, a, b)
	assert.For(ctx, "dot").ThatFloat(floatOf(t, got)).Equals(11)
}

func TestCallRecordReturns(t *testing.T) {
	ctx := log.Testing(t)
	reg := nativeReg(t)
	vec2 := ty(t, reg, "vec2")

	a := ffi.ObjectOf(ffi.NewObject().Set("x", ffi.Number(1)).Set("y", ffi.Number(2)))
	b := ffi.ObjectOf(ffi.NewObject().Set("x", ffi.Number(3)).Set("y", ffi.Number(4)))

	vadd := bindNative(ctx, t, reg, "tn_vadd", testnative.VAdd, vec2, vec2, vec2)
	got := callNative(ctx, t, vadd, a, b)
	assert.For(ctx, "x").ThatFloat(floatOf(t, member(t, got, "x"))).Equals(4)
	assert.For(ctx, "y").ThatFloat(floatOf(t, member(t, got, "y"))).Equals(6)
}

func TestCallHiddenPointerReturn(t *testing.T) {
	ctx := log.Testing(t)
	reg := nativeReg(t)
	vec3 := ty(t, reg, "vec3")

	// 24 bytes of doubles come back through caller storage on x86-64 and
	// in three vector registers on AArch64.
	x := ffi.ObjectOf(ffi.NewObject().
		Set("x", ffi.Number(1)).Set("y", ffi.Number(0)).Set("z", ffi.Number(0)))
	y := ffi.ObjectOf(ffi.NewObject().
		Set("x", ffi.Number(0)).Set("y", ffi.Number(1)).Set("z", ffi.Number(0)))

	cross := bindNative(ctx, t, reg, "tn_cross", testnative.Cross, vec3, vec3, vec3)
	got := callNative(ctx, t, cross, x, y)
	assert.For(ctx, "x").ThatFloat(floatOf(t, member(t, got, "x"))).Equals(0)
	assert.For(ctx, "y").ThatFloat(floatOf(t, member(t, got, "y"))).Equals(0)
	assert.For(ctx, "z").ThatFloat(floatOf(t, member(t, got, "z"))).Equals(1)
}

func TestCallMixedRecordReturn(t *testing.T) {
	ctx := log.Testing(t)
	reg := nativeReg(t)
	i32 := ty(t, reg, "int32")
	f32 := ty(t, reg, "float")
	mix := ty(t, reg, "mix")

	mk := bindNative(ctx, t, reg, "tn_mix_make", testnative.MixMake, mix, i32, f32)
	got := callNative(ctx, t, mk, ffi.Number(7), ffi.Number(1.5))
	assert.For(ctx, "a").ThatInteger(intOf(t, member(t, got, "a"))).Equals(7)
	assert.For(ctx, "b").ThatFloat(floatOf(t, member(t, got, "b"))).Equals(1.5)
}

func TestCallLargeRecords(t *testing.T) {
	ctx := log.Testing(t)
	reg := nativeReg(t)
	i64 := ty(t, reg, "int64")
	block := ty(t, reg, "block")

	fill := bindNative(ctx, t, reg, "tn_block_fill", testnative.BlockFill, block, i64)
	got := callNative(ctx, t, fill, ffi.Number(3))
	for i, name := range []string{"a", "b", "c", "d"} {
		assert.For(ctx, "member %s", name).
			ThatInteger(intOf(t, member(t, got, name))).Equals(int64(3 * (i + 1)))
	}

	sum := bindNative(ctx, t, reg, "tn_block_sum", testnative.BlockSum, i64, block)
	got = callNative(ctx, t, sum, ffi.ObjectOf(ffi.NewObject().
		Set("a", ffi.Number(1)).Set("b", ffi.Number(2)).
		Set("c", ffi.Number(3)).Set("d", ffi.Number(4))))
	assert.For(ctx, "sum").ThatInteger(intOf(t, got)).Equals(10)
}

func TestCallStrings(t *testing.T) {
	ctx := log.Testing(t)
	reg := nativeReg(t)
	str := ty(t, reg, "string")
	u64 := ty(t, reg, "uint64")

	strlen := bindNative(ctx, t, reg, "tn_strlen", testnative.Strlen, u64, str)
	got := callNative(ctx, t, strlen, ffi.Str("dynamic"))
	assert.For(ctx, "strlen").ThatInteger(intOf(t, got)).Equals(7)

	got = callNative(ctx, t, strlen, ffi.Null())
	assert.For(ctx, "null strlen").ThatInteger(intOf(t, got)).Equals(0)

	greet := bindNative(ctx, t, reg, "tn_greet", testnative.Greet, str, str)
	got = callNative(ctx, t, greet, ffi.Str("moon"))
	text, ok := got.Text()
	assert.For(ctx, "is string").ThatBoolean(ok).IsTrue()
	assert.For(ctx, "greet").ThatString(text).Equals("hello moon")
}

func TestCallPointers(t *testing.T) {
	ctx := log.Testing(t)
	reg := nativeReg(t)
	i32 := ty(t, reg, "int32")
	p32 := reg.PointerTo(i32)

	self := bindNative(ctx, t, reg, "tn_self", testnative.Self, p32, p32)

	got := callNative(ctx, t, self, ffi.ExternalOf(testnative.Cell, i32))
	ext, ok := got.Pointer()
	assert.For(ctx, "is pointer").ThatBoolean(ok).IsTrue()
	assert.For(ctx, "round trip").That(ext.Addr).Equals(testnative.Cell)
	assert.For(ctx, "pointee").That(ext.Tag).Equals(i32)

	// A null argument passes through and comes back as the null value.
	got = callNative(ctx, t, self, ffi.Null())
	assert.For(ctx, "null through").ThatBoolean(got.IsNull()).IsTrue()

	// A pointer tagged with the wrong pointee type is refused up front.
	f64 := ty(t, reg, "double")
	_, err := self.Call(ctx, []ffi.Value{ffi.ExternalOf(testnative.Cell, f64)})
	assert.For(ctx, "wrong tag").ThatBoolean(ffi.IsTypeMismatch(err)).IsTrue()
}

func TestCallVoidReturn(t *testing.T) {
	ctx := log.Testing(t)
	reg := nativeReg(t)
	void := ty(t, reg, "void")
	i32 := ty(t, reg, "int32")

	store := bindNative(ctx, t, reg, "tn_store", testnative.Store, void, i32)
	fetch := bindNative(ctx, t, reg, "tn_fetch", testnative.Fetch, i32)

	got := callNative(ctx, t, store, ffi.Number(41))
	assert.For(ctx, "void result").ThatBoolean(got.IsNull()).IsTrue()

	got = callNative(ctx, t, fetch)
	assert.For(ctx, "stored").ThatInteger(intOf(t, got)).Equals(41)
}

func TestCallArgumentChecks(t *testing.T) {
	ctx := log.Testing(t)
	reg := nativeReg(t)
	i32 := ty(t, reg, "int32")

	add := bindNative(ctx, t, reg, "tn_add32", testnative.Add32, i32, i32, i32)

	_, err := add.Call(ctx, []ffi.Value{ffi.Number(1)})
	assert.For(ctx, "arity").ThatBoolean(ffi.IsTypeMismatch(err)).IsTrue()

	_, err = add.Call(ctx, []ffi.Value{ffi.Str("one"), ffi.Number(2)})
	assert.For(ctx, "kind").ThatBoolean(ffi.IsTypeMismatch(err)).IsTrue()
}
