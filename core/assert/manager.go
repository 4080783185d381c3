// Copyright (C) 2017 Google Inc.
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

// Package assert provides a fluent assertion library for tests.
//
// Assertions are started with For, which takes the logging context so that
// failures are reported through the test's log handler:
//
//	assert.For(ctx, "Add(%v)", in).That(got).Equals(want)
package assert

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/dynffi/core/log"
)

// Output matches the logging methods assertions report through.
// *testing.T implements it, as does the context based adapter used by For.
type Output interface {
	Log(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
}

// Manager is the root of the fluent interface.
// It wraps an Output to construct assertions from.
type Manager struct {
	out Output
}

// To returns a Manager that reports failures to out.
func To(out Output) Manager { return Manager{out: out} }

// For returns an Assertion that reports through the log handler bound to ctx
// with the formatted name as the failure prefix.
func For(ctx context.Context, name string, args ...interface{}) *Assertion {
	a := To(ctxOutput{ctx}).assert()
	if len(args) > 0 {
		name = fmt.Sprintf(name, args...)
	}
	a.Println(name)
	return a
}

func (m Manager) assert() *Assertion {
	return &Assertion{level: Error, out: &bytes.Buffer{}, to: m.out}
}

// That begins an assertion on an arbitrary value.
func (m Manager) That(value interface{}) OnValue { return m.assert().That(value) }

type ctxOutput struct{ ctx context.Context }

func (c ctxOutput) Log(args ...interface{}) { log.From(c.ctx).I("%s", fmt.Sprint(args...)) }
func (c ctxOutput) Error(args ...interface{}) {
	log.From(c.ctx).E("%s", fmt.Sprint(args...))
}
func (c ctxOutput) Fatal(args ...interface{}) {
	log.From(c.ctx).F("%s", true, fmt.Sprint(args...))
}
