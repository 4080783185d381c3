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

func TestCallLease(t *testing.T) {
	ctx := log.Testing(t)
	l := &libraryData{}

	assert.For(ctx, "first").ThatBoolean(l.tryLock()).IsTrue()
	assert.For(ctx, "held").ThatBoolean(l.tryLock()).IsFalse()
	l.unlock()
	assert.For(ctx, "released").ThatBoolean(l.tryLock()).IsTrue()
}

func TestSignatureChecks(t *testing.T) {
	ctx := log.Testing(t)
	reg := testReg(t)
	void := lookup(reg, "void")
	i32 := lookup(reg, "int32")
	pending, _ := reg.Declare("pending")

	err := checkSignature("f", Signature{Params: []*TypeInfo{i32}})
	assert.For(ctx, "no return").ThatBoolean(IsTypeMismatch(err)).IsTrue()

	err = checkSignature("f", Signature{Return: pending})
	assert.For(ctx, "incomplete return").ThatBoolean(IsTypeMismatch(err)).IsTrue()

	err = checkSignature("f", Signature{Return: i32, Params: []*TypeInfo{nil}})
	assert.For(ctx, "nil param").ThatBoolean(IsTypeMismatch(err)).IsTrue()

	err = checkSignature("f", Signature{Return: i32, Params: []*TypeInfo{void}})
	assert.For(ctx, "void param").ThatBoolean(IsTypeMismatch(err)).IsTrue()

	err = checkSignature("f", Signature{Return: i32, Params: []*TypeInfo{pending}})
	assert.For(ctx, "incomplete param").ThatBoolean(IsTypeMismatch(err)).IsTrue()

	err = checkSignature("f", Signature{Return: void, Params: []*TypeInfo{i32}})
	assert.For(ctx, "void return ok").ThatError(err).Succeeded()
}

func TestLoadFailures(t *testing.T) {
	ctx := log.Testing(t)
	reg := testReg(t)
	void := lookup(reg, "void")
	i32 := lookup(reg, "int32")

	// Signatures are rejected before the library is touched, so a bad
	// signature against a bad path reports the signature.
	_, err := reg.Load(ctx, "/no/such/library.so", map[string]Signature{
		"f": {Return: i32, Params: []*TypeInfo{void}},
	})
	assert.For(ctx, "signature first").ThatBoolean(IsTypeMismatch(err)).IsTrue()

	_, err = reg.Load(ctx, "/no/such/library.so", map[string]Signature{
		"f": {Return: void},
	})
	assert.For(ctx, "missing library").ThatBoolean(IsLoadFailure(err)).IsTrue()

	// The current process certainly does not export this symbol.
	_, err = reg.Load(ctx, "", map[string]Signature{
		"dynffi_no_such_symbol_": {Return: void},
	})
	assert.For(ctx, "missing symbol").ThatBoolean(IsLoadFailure(err)).IsTrue()
}

func TestBindAddressChecks(t *testing.T) {
	ctx := log.Testing(t)
	reg := testReg(t)
	void := lookup(reg, "void")

	_, err := reg.BindAddress(ctx, "f", 0, Signature{Return: void})
	assert.For(ctx, "null address").ThatBoolean(IsLoadFailure(err)).IsTrue()
}

func TestFunctionClose(t *testing.T) {
	ctx := log.Testing(t)
	l := &libraryData{refs: 2}
	f := &Function{Name: "f", lib: l}

	// Close drops the reference once; the second function still holds the
	// library open.
	f.Close()
	assert.For(ctx, "released").That(f.lib).IsNil()
	assert.For(ctx, "refs").ThatInteger(l.refs).Equals(1)

	// Closing again is harmless.
	f.Close()
	assert.For(ctx, "still one ref").ThatInteger(l.refs).Equals(1)
}
