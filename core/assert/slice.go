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

// OnSlice is the result of calling ThatSlice on an Assertion.
// It provides assertion tests that are specific to slices and arrays.
type OnSlice struct {
	*Assertion
	slice reflect.Value
}

// ThatSlice returns an OnSlice for slice based assertions.
func (a *Assertion) ThatSlice(slice interface{}) OnSlice {
	v := reflect.ValueOf(slice)
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.String:
	default:
		a.Fatal(fmt.Sprintf("ThatSlice used with %T", slice))
	}
	return OnSlice{Assertion: a, slice: v}
}

// IsEmpty asserts that the slice has no values.
func (o OnSlice) IsEmpty() bool {
	return o.Compare(o.slice.Len(), "==", 0).Test(o.slice.Len() == 0)
}

// IsNotEmpty asserts that the slice has at least one value.
func (o OnSlice) IsNotEmpty() bool {
	return o.Compare(o.slice.Len(), ">", 0).Test(o.slice.Len() > 0)
}

// IsLength asserts that the slice has exactly the specified number of values.
func (o OnSlice) IsLength(length int) bool {
	return o.Compare(o.slice.Len(), "length ==", length).Test(o.slice.Len() == length)
}

// Equals asserts the array or slice matches expected, deeply.
func (o OnSlice) Equals(expected interface{}) bool {
	return o.TestDeepEqual(o.slice.Interface(), expected)
}

// DeepEquals asserts the array or slice matches expected using a deep
// comparison.
func (o OnSlice) DeepEquals(expected interface{}) bool {
	return o.TestDeepEqual(o.slice.Interface(), expected)
}
