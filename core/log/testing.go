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

package log

import "context"

// TestDelegate is the subset of testing.TB used by Testing.
type TestDelegate interface {
	Log(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
}

// Testing returns a context with a handler that routes all messages to the
// test delegate t. Error and fatal messages fail the test. The severity
// filter is lowered to Debug so tests see everything.
func Testing(t TestDelegate) context.Context {
	ctx := context.Background()
	ctx = PutHandler(ctx, NewHandler(func(m *Message) {
		switch {
		case m.Severity >= Fatal:
			t.Fatal(m.String())
		case m.Severity >= Error:
			t.Error(m.String())
		default:
			t.Log(m.String())
		}
	}, nil))
	return PutSeverity(ctx, Debug)
}
