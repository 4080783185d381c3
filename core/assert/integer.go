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

package assert

import (
	"fmt"
	"reflect"
)

// OnInteger is the result of calling ThatInteger on an Assertion.
// It provides numeric assertion tests.
type OnInteger struct {
	*Assertion
	value int64
}

// ThatInteger returns an OnInteger for integer based assertions.
// The value may be any signed or unsigned integer type.
func (a *Assertion) ThatInteger(value interface{}) OnInteger {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return OnInteger{Assertion: a, value: v.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return OnInteger{Assertion: a, value: int64(v.Uint())}
	default:
		a.Fatal(fmt.Sprintf("ThatInteger used with %T", value))
		return OnInteger{Assertion: a}
	}
}

// Equals asserts that the supplied integer equals the expected integer.
func (o OnInteger) Equals(expect int64) bool {
	return o.Compare(o.value, "==", expect).Test(o.value == expect)
}

// NotEquals asserts that the supplied integer does not equal the test integer.
func (o OnInteger) NotEquals(test int64) bool {
	return o.Compare(o.value, "!=", test).Test(o.value != test)
}

// IsAtLeast asserts that the integer is at least the supplied minimum.
func (o OnInteger) IsAtLeast(min int64) bool {
	return o.Compare(o.value, ">=", min).Test(o.value >= min)
}

// IsAtMost asserts that the integer is at most the supplied maximum.
func (o OnInteger) IsAtMost(max int64) bool {
	return o.Compare(o.value, "<=", max).Test(o.value <= max)
}

// IsBetween asserts that the integer lies within the given inclusive range.
func (o OnInteger) IsBetween(min, max int64) bool {
	return o.Compare(o.value, "in", fmt.Sprintf("[%d..%d]", min, max)).
		Test(o.value >= min && o.value <= max)
}
