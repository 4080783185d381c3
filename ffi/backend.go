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

import "context"

// Backend classifies functions against one calling convention and carries
// out calls through it. Exactly one backend is compiled in per host.
type Backend interface {
	// Analyse computes the register classification and frame sizes of f.
	Analyse(f *Function) error
	// Call packs args into a call frame, invokes f and unpacks the result.
	Call(ctx context.Context, f *Function, args []Value) (Value, error)
}
