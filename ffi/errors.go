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

import (
	"fmt"

	"github.com/google/dynffi/core/fault"
	"github.com/pkg/errors"
)

// ErrBusy is returned when a call is attempted while another call on the
// same library is still in flight.
const ErrBusy = fault.Const("library call already in flight")

// TypeMismatchError reports a managed value or type name that does not fit
// what a signature or record expects. The call is never attempted.
type TypeMismatchError struct {
	Detail string
}

func (e *TypeMismatchError) Error() string { return "type mismatch: " + e.Detail }

// LoadError reports a shared library or symbol that could not be resolved.
type LoadError struct {
	Detail string
	Cause  error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return "load failure: " + e.Detail + ": " + e.Cause.Error()
	}
	return "load failure: " + e.Detail
}

// UnsupportedError reports a signature that needs a feature the host calling
// convention backend does not implement.
type UnsupportedError struct {
	Detail string
}

func (e *UnsupportedError) Error() string { return "unsupported: " + e.Detail }

func typeMismatch(format string, args ...interface{}) error {
	return &TypeMismatchError{Detail: fmt.Sprintf(format, args...)}
}

func loadFailure(cause error, format string, args ...interface{}) error {
	return &LoadError{Detail: fmt.Sprintf(format, args...), Cause: cause}
}

func unsupported(format string, args ...interface{}) error {
	return &UnsupportedError{Detail: fmt.Sprintf(format, args...)}
}

// IsTypeMismatch returns true if the root cause of err is a
// TypeMismatchError.
func IsTypeMismatch(err error) bool {
	_, ok := errors.Cause(err).(*TypeMismatchError)
	return ok
}

// IsLoadFailure returns true if the root cause of err is a LoadError.
func IsLoadFailure(err error) bool {
	_, ok := errors.Cause(err).(*LoadError)
	return ok
}

// IsUnsupported returns true if the root cause of err is an
// UnsupportedError.
func IsUnsupported(err error) bool {
	_, ok := errors.Cause(err).(*UnsupportedError)
	return ok
}
