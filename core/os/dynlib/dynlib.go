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

// Package dynlib loads shared libraries and resolves their exported symbols.
//
// An empty path opens a pseudo library bound to the current process. The
// pseudo library resolves symbols already linked into the process and is
// never unloaded.
package dynlib

// Library is an opened shared library.
type Library struct {
	handle  uintptr
	process bool
}

// IsProcess returns true if the library is the current process pseudo
// library.
func (l *Library) IsProcess() bool { return l.process }

// Handle returns the OS handle of the library.
func (l *Library) Handle() uintptr { return l.handle }
