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
	"testing"

	"github.com/google/dynffi/core/assert"
	"github.com/google/dynffi/core/log"
	"github.com/google/dynffi/ffi"
)

func TestBuiltinTypes(t *testing.T) {
	ctx := log.Testing(t)
	reg := ffi.NewRegistry()
	for _, test := range []struct {
		name string
		kind ffi.Kind
		size int
	}{
		{"void", ffi.Void, 0},
		{"bool", ffi.Bool, 1},
		{"char", ffi.Int8, 1},
		{"short", ffi.Int16, 2},
		{"int", ffi.Int32, 4},
		{"uint", ffi.UInt32, 4},
		{"int64", ffi.Int64, 8},
		{"uint64", ffi.UInt64, 8},
		{"float", ffi.Float32, 4},
		{"double", ffi.Float64, 8},
		{"string", ffi.String, 8},
	} {
		ty, err := reg.Lookup(test.name)
		assert.For(ctx, "Lookup(%s)", test.name).ThatError(err).Succeeded()
		assert.For(ctx, "%s kind", test.name).That(ty.Kind).Equals(test.kind)
		assert.For(ctx, "%s size", test.name).ThatInteger(ty.Size).Equals(int64(test.size))
	}
	_, err := reg.Lookup("quaternion")
	assert.For(ctx, "unknown").ThatBoolean(ffi.IsTypeMismatch(err)).IsTrue()
}

func TestRecordLayout(t *testing.T) {
	ctx := log.Testing(t)
	reg := ffi.NewRegistry()
	i8, _ := reg.Lookup("int8")
	i32, _ := reg.Lookup("int32")
	mixed, err := reg.DefineRecord("mixed", []ffi.Member{
		{Name: "a", Type: i8},
		{Name: "b", Type: i32},
		{Name: "c", Type: i8},
	})
	assert.For(ctx, "define").ThatError(err).Succeeded()
	assert.For(ctx, "size").ThatInteger(mixed.Size).Equals(12)
	assert.For(ctx, "align").ThatInteger(mixed.Align).Equals(4)
	assert.For(ctx, "offset a").ThatInteger(mixed.FieldOffset(0)).Equals(0)
	assert.For(ctx, "offset b").ThatInteger(mixed.FieldOffset(1)).Equals(4)
	assert.For(ctx, "offset c").ThatInteger(mixed.FieldOffset(2)).Equals(8)
}

func TestNestedRecordLayout(t *testing.T) {
	ctx := log.Testing(t)
	reg := ffi.NewRegistry()
	f64, _ := reg.Lookup("double")
	i8, _ := reg.Lookup("int8")
	vec2, err := reg.DefineRecord("vec2", []ffi.Member{
		{Name: "x", Type: f64},
		{Name: "y", Type: f64},
	})
	assert.For(ctx, "vec2").ThatError(err).Succeeded()
	assert.For(ctx, "vec2 size").ThatInteger(vec2.Size).Equals(16)

	tagged, err := reg.DefineRecord("tagged", []ffi.Member{
		{Name: "tag", Type: i8},
		{Name: "v", Type: vec2},
	})
	assert.For(ctx, "tagged").ThatError(err).Succeeded()
	assert.For(ctx, "tagged size").ThatInteger(tagged.Size).Equals(24)
	assert.For(ctx, "tagged align").ThatInteger(tagged.Align).Equals(8)
	assert.For(ctx, "v offset").ThatInteger(tagged.FieldOffset(1)).Equals(8)
}

func TestSelfReferentialRecord(t *testing.T) {
	ctx := log.Testing(t)
	reg := ffi.NewRegistry()
	i32, _ := reg.Lookup("int32")
	node, err := reg.Declare("node")
	assert.For(ctx, "declare").ThatError(err).Succeeded()
	err = reg.Complete(node, []ffi.Member{
		{Name: "value", Type: i32},
		{Name: "next", Type: reg.PointerTo(node)},
	})
	assert.For(ctx, "complete").ThatError(err).Succeeded()
	assert.For(ctx, "size").ThatInteger(node.Size).Equals(16)
	assert.For(ctx, "next ref").That(node.Members[1].Type.Ref).Equals(node)
}

func TestBadRecords(t *testing.T) {
	ctx := log.Testing(t)
	reg := ffi.NewRegistry()
	void, _ := reg.Lookup("void")
	i32, _ := reg.Lookup("int32")

	_, err := reg.DefineRecord("empty", nil)
	assert.For(ctx, "empty").ThatBoolean(ffi.IsTypeMismatch(err)).IsTrue()

	_, err = reg.DefineRecord("voidfield", []ffi.Member{{Name: "v", Type: void}})
	assert.For(ctx, "void member").ThatBoolean(ffi.IsTypeMismatch(err)).IsTrue()

	open, _ := reg.Declare("open")
	_, err = reg.DefineRecord("holder", []ffi.Member{{Name: "o", Type: open}})
	assert.For(ctx, "incomplete member").ThatBoolean(ffi.IsTypeMismatch(err)).IsTrue()

	_, err = reg.DefineRecord("open", []ffi.Member{{Name: "v", Type: i32}})
	assert.For(ctx, "duplicate").ThatBoolean(ffi.IsTypeMismatch(err)).IsTrue()
}

func TestPointerNaming(t *testing.T) {
	ctx := log.Testing(t)
	reg := ffi.NewRegistry()
	i32, _ := reg.Lookup("int32")
	p := reg.PointerTo(i32)
	assert.For(ctx, "name").ThatString(p.Name).Equals("int32 *")
	assert.For(ctx, "cached").That(reg.PointerTo(i32)).Equals(p)
	pp := reg.PointerTo(p)
	assert.For(ctx, "double name").ThatString(pp.Name).Equals("int32 **")
	assert.For(ctx, "ref").That(pp.Ref).Equals(p)
	looked, err := reg.Lookup("int32 *")
	assert.For(ctx, "lookup").ThatError(err).Succeeded()
	assert.For(ctx, "same").That(looked).Equals(p)
}
