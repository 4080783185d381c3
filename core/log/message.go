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

import (
	"bytes"
	"fmt"
	"time"
)

// Message is a single log entry on its way to a Handler.
type Message struct {
	// Text is the formatted message body.
	Text string
	// Time is the instant the message was logged.
	Time time.Time
	// Severity is the importance of the message.
	Severity Severity
	// Tag is the optional tag bound to the context the message was logged
	// with.
	Tag string
	// Process is the name of the process that created the message.
	Process string
	// StopProcess is set when the message indicates the process should stop.
	StopProcess bool
	// Values holds the key value pairs bound to the logging context.
	Values []Value
}

// Value is a single key value pair attached to a Message.
type Value struct {
	Name  string
	Value interface{}
}

// String returns the message in a single line human readable form.
func (m *Message) String() string {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "%s: ", m.Severity.Short())
	if m.Tag != "" {
		fmt.Fprintf(buf, "[%s] ", m.Tag)
	}
	buf.WriteString(m.Text)
	for _, v := range m.Values {
		fmt.Fprintf(buf, " %s=%v", v.Name, v.Value)
	}
	return buf.String()
}
