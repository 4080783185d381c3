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
	"math/big"
	"testing"

	"github.com/google/dynffi/core/assert"
	"github.com/google/dynffi/core/log"
	"github.com/google/dynffi/ffi"
)

func TestValueCoercion(t *testing.T) {
	ctx := log.Testing(t)

	i, ok := ffi.Number(3.9).Int()
	assert.For(ctx, "truncate ok").ThatBoolean(ok).IsTrue()
	assert.For(ctx, "truncate").ThatInteger(i).Equals(3)

	i, _ = ffi.Number(-3.9).Int()
	assert.For(ctx, "truncate negative").ThatInteger(i).Equals(-3)

	big65 := new(big.Int).Lsh(big.NewInt(1), 64)
	big65.Add(big65, big.NewInt(5))
	i, ok = ffi.BigInt(big65).Int()
	assert.For(ctx, "low bits ok").ThatBoolean(ok).IsTrue()
	assert.For(ctx, "low bits").ThatInteger(i).Equals(5)

	f, ok := ffi.BigInt(big.NewInt(1 << 20)).Float()
	assert.For(ctx, "bigint float ok").ThatBoolean(ok).IsTrue()
	assert.For(ctx, "bigint float").ThatFloat(f).Equals(1 << 20)

	_, ok = ffi.Str("7").Int()
	assert.For(ctx, "string is not a number").ThatBoolean(ok).IsFalse()
}

func TestNullIsANullPointer(t *testing.T) {
	ctx := log.Testing(t)
	x, ok := ffi.Null().Pointer()
	assert.For(ctx, "accepted").ThatBoolean(ok).IsTrue()
	assert.For(ctx, "addr").That(x.Addr).Equals(uintptr(0))
	assert.For(ctx, "tag").That(x.Tag).IsNil()

	_, ok = ffi.Number(1).Pointer()
	assert.For(ctx, "number rejected").ThatBoolean(ok).IsFalse()
}

func TestObjectOrder(t *testing.T) {
	ctx := log.Testing(t)
	obj := ffi.NewObject()
	obj.Set("z", ffi.Number(1))
	obj.Set("a", ffi.Number(2))
	obj.Set("z", ffi.Number(3))
	assert.For(ctx, "names").ThatSlice(obj.Names()).DeepEquals([]string{"z", "a"})
	v, ok := obj.Get("z")
	assert.For(ctx, "get ok").ThatBoolean(ok).IsTrue()
	f, _ := v.Float()
	assert.For(ctx, "overwritten").ThatFloat(f).Equals(3)
	assert.For(ctx, "len").ThatInteger(obj.Len()).Equals(2)
}
