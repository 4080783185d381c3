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

// Kind is the closed set of primitive type categories.
type Kind int

const (
	// Void is the absent type. It may only describe a function return.
	Void Kind = iota
	// Bool is a single byte holding 0 or 1.
	Bool
	// Int8 is a signed 8 bit integer.
	Int8
	// UInt8 is an unsigned 8 bit integer.
	UInt8
	// Int16 is a signed 16 bit integer.
	Int16
	// UInt16 is an unsigned 16 bit integer.
	UInt16
	// Int32 is a signed 32 bit integer.
	Int32
	// UInt32 is an unsigned 32 bit integer.
	UInt32
	// Int64 is a signed 64 bit integer.
	Int64
	// UInt64 is an unsigned 64 bit integer.
	UInt64
	// Float32 is an IEEE 754 single precision float.
	Float32
	// Float64 is an IEEE 754 double precision float.
	Float64
	// String is a pointer to a nul-terminated UTF-8 byte sequence.
	String
	// Record is an aggregate of named, ordered members.
	Record
	// Pointer is a native pointer to a described pointee type.
	Pointer
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case UInt8:
		return "uint8"
	case Int16:
		return "int16"
	case UInt16:
		return "uint16"
	case Int32:
		return "int32"
	case UInt32:
		return "uint32"
	case Int64:
		return "int64"
	case UInt64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case String:
		return "string"
	case Record:
		return "record"
	case Pointer:
		return "pointer"
	default:
		return "invalid"
	}
}

// IsInteger returns true for the signed and unsigned integer kinds.
func (k Kind) IsInteger() bool { return k >= Int8 && k <= UInt64 }

// IsSigned returns true for the signed integer kinds.
func (k Kind) IsSigned() bool {
	switch k {
	case Int8, Int16, Int32, Int64:
		return true
	default:
		return false
	}
}

// IsFloat returns true for the floating point kinds.
func (k Kind) IsFloat() bool { return k == Float32 || k == Float64 }
