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
	"testing"

	"github.com/google/dynffi/core/assert"
	"github.com/google/dynffi/core/log"
)

func TestWin64RegularTypes(t *testing.T) {
	ctx := log.Testing(t)
	reg := testReg(t)
	void := lookup(reg, "void")

	f := sig(void, lookup(reg, "int32"), lookup(reg, "double"), lookup(reg, "mixed8"))
	assert.For(ctx, "analyse").ThatError(analyseWin64(f)).Succeeded()
	assert.For(ctx, "int regular").ThatBoolean(f.Params[0].Regular).IsTrue()
	assert.For(ctx, "double regular").ThatBoolean(f.Params[1].Regular).IsTrue()
	assert.For(ctx, "mixed8 regular").ThatBoolean(f.Params[2].Regular).IsTrue()
	assert.For(ctx, "no scratch").ThatInteger(f.ScratchSize).Equals(0)
	assert.For(ctx, "vec").ThatBoolean(f.UseVec).IsTrue()
}

func TestWin64IrregularAggregates(t *testing.T) {
	ctx := log.Testing(t)
	reg := testReg(t)
	void := lookup(reg, "void")
	i8, _ := reg.Lookup("int8")
	odd, _ := reg.DefineRecord("odd", []Member{{"a", i8}, {"b", i8}, {"c", i8}})

	f := sig(void, lookup(reg, "vec2"), odd)
	assert.For(ctx, "analyse").ThatError(analyseWin64(f)).Succeeded()
	assert.For(ctx, "vec2 irregular").ThatBoolean(f.Params[0].Regular).IsFalse()
	assert.For(ctx, "odd irregular").ThatBoolean(f.Params[1].Regular).IsFalse()
	assert.For(ctx, "scratch").ThatInteger(f.ScratchSize).Equals(32)
}

func TestWin64ShadowSpace(t *testing.T) {
	ctx := log.Testing(t)
	reg := testReg(t)
	void := lookup(reg, "void")
	i32 := lookup(reg, "int32")

	// Even a single argument reserves the four slot shadow area.
	f := sig(void, i32)
	assert.For(ctx, "analyse one").ThatError(analyseWin64(f)).Succeeded()
	assert.For(ctx, "minimum").ThatInteger(f.ArgsSize).Equals(32)

	f = sig(void, i32, i32, i32, i32, i32, i32)
	assert.For(ctx, "analyse six").ThatError(analyseWin64(f)).Succeeded()
	assert.For(ctx, "six slots").ThatInteger(f.ArgsSize).Equals(48)
}

func TestWin64Returns(t *testing.T) {
	ctx := log.Testing(t)
	reg := testReg(t)
	i32 := lookup(reg, "int32")

	f := sig(lookup(reg, "mixed8"))
	assert.For(ctx, "analyse mixed8").ThatError(analyseWin64(f)).Succeeded()
	assert.For(ctx, "regular ret").ThatBoolean(f.Ret.Regular).IsTrue()
	assert.For(ctx, "direct").ThatBoolean(f.RetByPointer).IsFalse()

	// An irregular return takes the first slot as a hidden pointer, so
	// five slots are needed for four parameters.
	f = sig(lookup(reg, "vec2"), i32, i32, i32, i32)
	assert.For(ctx, "analyse vec2").ThatError(analyseWin64(f)).Succeeded()
	assert.For(ctx, "hidden").ThatBoolean(f.RetByPointer).IsTrue()
	assert.For(ctx, "five slots").ThatInteger(f.ArgsSize).Equals(48)
}
