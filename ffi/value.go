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
	"math/big"
	"strings"
)

// ValueKind identifies which variant a Value holds.
type ValueKind int

const (
	// KindNull is the absent value.
	KindNull ValueKind = iota
	// KindBool is a boolean.
	KindBool
	// KindNumber is a float64 number.
	KindNumber
	// KindBigInt is an arbitrary precision integer.
	KindBigInt
	// KindStr is a string.
	KindStr
	// KindObject is an ordered field map used for record values.
	KindObject
	// KindExternal is a raw native pointer carrying a pointee type tag.
	KindExternal
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindBigInt:
		return "bigint"
	case KindStr:
		return "string"
	case KindObject:
		return "object"
	case KindExternal:
		return "external"
	default:
		return "invalid"
	}
}

// External is a raw native pointer with the TypeInfo of its pointee.
// A zero External stands for a native null pointer.
type External struct {
	Addr uintptr
	Tag  *TypeInfo
}

// Value is the closed sum of managed value variants the marshaller accepts
// and produces.
type Value struct {
	kind ValueKind
	b    bool
	n    float64
	i    *big.Int
	s    string
	o    *Object
	x    External
}

// Null returns the absent value.
func Null() Value { return Value{kind: KindNull} }

// Boolean returns a boolean value.
func Boolean(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a number value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// BigInt returns an arbitrary precision integer value.
func BigInt(i *big.Int) Value { return Value{kind: KindBigInt, i: i} }

// Str returns a string value.
func Str(s string) Value { return Value{kind: KindStr, s: s} }

// ObjectOf returns a record value holding the given object.
func ObjectOf(o *Object) Value { return Value{kind: KindObject, o: o} }

// ExternalOf returns a native pointer value tagged with its pointee type.
func ExternalOf(addr uintptr, tag *TypeInfo) Value {
	return Value{kind: KindExternal, x: External{Addr: addr, Tag: tag}}
}

// Kind returns which variant the value holds.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull returns true for the absent value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean variant.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Float returns the numeric value. BigInts are converted, possibly losing
// precision.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.n, true
	case KindBigInt:
		f, _ := new(big.Float).SetInt(v.i).Float64()
		return f, true
	default:
		return 0, false
	}
}

// Int returns the value as a 64 bit integer pattern. Numbers are truncated
// towards zero; big integers contribute their low 64 bits.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindNumber:
		return int64(v.n), true
	case KindBigInt:
		if v.i.IsInt64() {
			return v.i.Int64(), true
		}
		if v.i.IsUint64() {
			return int64(v.i.Uint64()), true
		}
		low := new(big.Int).Mod(v.i, new(big.Int).Lsh(big.NewInt(1), 64))
		return int64(low.Uint64()), true
	default:
		return 0, false
	}
}

// String returns the string variant, or a printable description of the
// value for diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprint(v.b)
	case KindNumber:
		return fmt.Sprint(v.n)
	case KindBigInt:
		return v.i.String()
	case KindStr:
		return v.s
	case KindObject:
		return v.o.String()
	case KindExternal:
		if v.x.Tag != nil {
			return fmt.Sprintf("<%s @ %#x>", v.x.Tag.Name, v.x.Addr)
		}
		return fmt.Sprintf("<external @ %#x>", v.x.Addr)
	default:
		return "invalid"
	}
}

// Text returns the string variant.
func (v Value) Text() (string, bool) { return v.s, v.kind == KindStr }

// Object returns the record variant.
func (v Value) Object() (*Object, bool) { return v.o, v.kind == KindObject }

// Pointer returns the external variant. The null value is accepted as a
// native null pointer.
func (v Value) Pointer() (External, bool) {
	switch v.kind {
	case KindExternal:
		return v.x, true
	case KindNull:
		return External{}, true
	default:
		return External{}, false
	}
}

// Object is an ordered map from field name to value.
type Object struct {
	names  []string
	fields map[string]Value
}

// NewObject returns a new, empty object.
func NewObject() *Object {
	return &Object{fields: map[string]Value{}}
}

// Set assigns the value of the named field, appending the name to the field
// order on first assignment.
func (o *Object) Set(name string, v Value) *Object {
	if _, ok := o.fields[name]; !ok {
		o.names = append(o.names, name)
	}
	o.fields[name] = v
	return o
}

// Get returns the value of the named field.
func (o *Object) Get(name string) (Value, bool) {
	v, ok := o.fields[name]
	return v, ok
}

// Names returns the field names in insertion order.
func (o *Object) Names() []string { return o.names }

// Len returns the number of fields.
func (o *Object) Len() int { return len(o.names) }

func (o *Object) String() string {
	b := &strings.Builder{}
	b.WriteString("{")
	for i, n := range o.names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%s: %s", n, o.fields[n].String())
	}
	b.WriteString("}")
	return b.String()
}
