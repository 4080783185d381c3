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

// Package fault provides a simple error type for constant error values.
package fault

// Const is the type of a constant error.
// It is used for declaring sentinel errors that can be tested against with
// errors.Cause, and that can be declared as constants rather than variables.
type Const string

// Error implements error to return the string form of the constant.
func (e Const) Error() string { return string(e) }
