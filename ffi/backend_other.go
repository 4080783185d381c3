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

// +build !amd64,!arm64

package ffi

import "context"

var hostBackend Backend = noBackend{}

type noBackend struct{}

func (noBackend) Analyse(f *Function) error {
	return unsupported("no calling convention support on this platform")
}

func (noBackend) Call(ctx context.Context, f *Function, args []Value) (Value, error) {
	return Null(), unsupported("no calling convention support on this platform")
}
