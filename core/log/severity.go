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
	"strings"
)

// Severity defines the importance of a log message.
type Severity int32

const (
	// Verbose is the lowest severity, used for messages that are only
	// interesting when tracing odd behaviour.
	Verbose Severity = iota
	// Debug is used for messages that help diagnosing problems.
	Debug
	// Info is the default severity for informational messages.
	Info
	// Warning is used for recoverable issues.
	Warning
	// Error is used for failures the program can continue past.
	Error
	// Fatal is used for failures that end the program.
	Fatal
)

// Short returns the single character form of the severity.
func (s Severity) Short() string {
	switch s {
	case Verbose:
		return "V"
	case Debug:
		return "D"
	case Info:
		return "I"
	case Warning:
		return "W"
	case Error:
		return "E"
	case Fatal:
		return "F"
	default:
		return "?"
	}
}

func (s Severity) String() string {
	switch s {
	case Verbose:
		return "Verbose"
	case Debug:
		return "Debug"
	case Info:
		return "Info"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	case Fatal:
		return "Fatal"
	default:
		return fmt.Sprintf("Severity(%d)", int32(s))
	}
}

// Choose allows Severity to be used as a command line flag.
func (s *Severity) Choose(v interface{}) { *s = v.(Severity) }

// Set implements flag.Value, accepting the long or short severity names.
func (s *Severity) Set(v string) error {
	for _, c := range []Severity{Verbose, Debug, Info, Warning, Error, Fatal} {
		if strings.EqualFold(v, c.String()) || strings.EqualFold(v, c.Short()) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", v)
}
