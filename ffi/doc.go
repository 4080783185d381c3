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

// Package ffi calls arbitrary functions exported by native shared libraries.
//
// Function signatures are described at runtime with type descriptors held in
// a Registry. Load resolves the named symbols of a shared library, analyses
// each signature against the host calling convention, and returns callables
// that marshal managed values into the exact register and stack layout the
// native function expects, invoke it, and unmarshal the result.
//
// Three calling conventions are supported: System V AMD64, Microsoft x64 and
// AArch64 AAPCS. The classification logic is portable pure code; only the
// final register hand-off is platform assembly, in the call subpackage.
package ffi
