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
	"fmt"
	"io"
	"os"
	"sync"
)

// Handler is the interface to an object that receives fully formed log
// messages. Handlers must be safe to call from multiple goroutines.
type Handler interface {
	Handle(*Message)
	Close()
}

type handler struct {
	handle func(*Message)
	close  func()
}

func (h *handler) Handle(m *Message) { h.handle(m) }
func (h *handler) Close() {
	if h.close != nil {
		h.close()
	}
}

// NewHandler returns a Handler that invokes handle for each message and close
// when the handler is closed. close may be nil.
func NewHandler(handle func(*Message), close func()) Handler {
	return &handler{handle: handle, close: close}
}

// Writer returns a Handler that writes each message as a single line to out.
// The handler serializes writes.
func Writer(out io.Writer) Handler {
	mutex := &sync.Mutex{}
	return NewHandler(func(m *Message) {
		mutex.Lock()
		defer mutex.Unlock()
		fmt.Fprintln(out, m.String())
	}, nil)
}

// Std returns a Handler that writes errors to stderr and everything else to
// stdout.
func Std() Handler {
	mutex := &sync.Mutex{}
	return NewHandler(func(m *Message) {
		mutex.Lock()
		defer mutex.Unlock()
		if m.Severity >= Error {
			fmt.Fprintln(os.Stderr, m.String())
		} else {
			fmt.Fprintln(os.Stdout, m.String())
		}
	}, nil)
}
