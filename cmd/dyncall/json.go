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

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/dynffi/ffi"
)

// parseRecordValue decodes a JSON object literal into the managed object
// a record parameter expects.
func parseRecordValue(t *ffi.TypeInfo, raw string) (ffi.Value, error) {
	var decoded interface{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return ffi.Null(), fmt.Errorf("%q is not a JSON value for record %s: %v", raw, t.Name, err)
	}
	return valueOf(decoded), nil
}

// valueOf maps a decoded JSON value onto the managed value model. Member
// names are matched by the marshaller, so object field order does not
// matter here.
func valueOf(v interface{}) ffi.Value {
	switch v := v.(type) {
	case bool:
		return ffi.Boolean(v)
	case float64:
		return ffi.Number(v)
	case string:
		return ffi.Str(v)
	case map[string]interface{}:
		obj := ffi.NewObject()
		for name, field := range v {
			obj.Set(name, valueOf(field))
		}
		return ffi.ObjectOf(obj)
	default:
		return ffi.Null()
	}
}

// render formats a call result for stdout: records as JSON with their
// members in declared order, everything else as a plain literal.
func render(v ffi.Value) string {
	switch v.Kind() {
	case ffi.KindObject:
		obj, _ := v.Object()
		b := &strings.Builder{}
		b.WriteString("{")
		for i, name := range obj.Names() {
			if i > 0 {
				b.WriteString(",")
			}
			key, _ := json.Marshal(name)
			b.Write(key)
			b.WriteString(":")
			field, _ := obj.Get(name)
			b.WriteString(render(field))
		}
		b.WriteString("}")
		return b.String()
	case ffi.KindStr:
		s, _ := v.Text()
		quoted, _ := json.Marshal(s)
		return string(quoted)
	default:
		return v.String()
	}
}
