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

import "github.com/puzpuzpuz/xsync"

// Member is a single named field of a record type.
type Member struct {
	Name string
	Type *TypeInfo
}

// TypeInfo describes a native type. TypeInfos are created by a Registry and
// are immutable once registered; they are always handled by pointer so a
// record may refer to itself through a pointer member.
type TypeInfo struct {
	// Name is the stable textual identifier of the type.
	Name string
	// Kind is the primitive category of the type.
	Kind Kind
	// Size is the byte width of the type. Void is 0.
	Size int
	// Align is the alignment of the type in bytes. Void is 0.
	Align int
	// Members is the ordered field list of a record type.
	Members []Member
	// Ref is the pointee type of a pointer type.
	Ref *TypeInfo

	// incomplete marks a declared record whose layout is not yet known.
	incomplete bool
}

// FieldOffset returns the byte offset of member i.
// Offsets are not stored; they are recomputed by stepping over the preceding
// members and aligning to each member's alignment.
func (t *TypeInfo) FieldOffset(i int) int {
	offset := 0
	for j := 0; j <= i; j++ {
		m := t.Members[j]
		offset = alignUp(offset, m.Type.Align)
		if j < i {
			offset += m.Type.Size
		}
	}
	return offset
}

// IsRegular returns true if the type fits a single Microsoft x64 argument
// slot, that is its size is 1, 2, 4 or 8 bytes.
func (t *TypeInfo) IsRegular() bool {
	switch t.Size {
	case 1, 2, 4, 8:
		return true
	default:
		return false
	}
}

// allFloat returns true if every leaf member of the type is a floating point
// kind.
func (t *TypeInfo) allFloat() bool {
	if t.Kind == Record {
		for _, m := range t.Members {
			if !m.Type.allFloat() {
				return false
			}
		}
		return len(t.Members) > 0
	}
	return t.Kind.IsFloat()
}

func alignUp(v, align int) int {
	return (v + align - 1) &^ (align - 1)
}

// Registry holds every registered type of a process, indexed by name.
// Registration is rare and lookups are hot, so the index is a concurrent
// map; TypeInfos themselves are read-only after registration.
type Registry struct {
	types *xsync.MapOf[string, *TypeInfo]
}

// NewRegistry returns a Registry populated with the built-in primitive
// types: void, bool, the sized integers with their C style aliases (char,
// uchar, short, ushort, int, uint), the floats (with float and double
// aliases) and string.
func NewRegistry() *Registry {
	r := &Registry{types: xsync.NewMapOf[*TypeInfo]()}
	for _, p := range []struct {
		name string
		kind Kind
		size int
	}{
		{"void", Void, 0},
		{"bool", Bool, 1},
		{"int8", Int8, 1},
		{"uint8", UInt8, 1},
		{"char", Int8, 1},
		{"uchar", UInt8, 1},
		{"int16", Int16, 2},
		{"uint16", UInt16, 2},
		{"short", Int16, 2},
		{"ushort", UInt16, 2},
		{"int32", Int32, 4},
		{"uint32", UInt32, 4},
		{"int", Int32, 4},
		{"uint", UInt32, 4},
		{"int64", Int64, 8},
		{"uint64", UInt64, 8},
		{"float32", Float32, 4},
		{"float64", Float64, 8},
		{"float", Float32, 4},
		{"double", Float64, 8},
		{"string", String, 8},
	} {
		align := p.size
		if p.kind == Void {
			align = 0
		}
		r.types.Store(p.name, &TypeInfo{
			Name:  p.name,
			Kind:  p.kind,
			Size:  p.size,
			Align: align,
		})
	}
	return r
}

// Lookup returns the registered type with the given name.
func (r *Registry) Lookup(name string) (*TypeInfo, error) {
	t, ok := r.types.Load(name)
	if !ok {
		return nil, typeMismatch("unknown type name %q", name)
	}
	return t, nil
}

// Declare registers an empty record type under name so that members of the
// record may refer to it through pointers before its layout is known.
// The returned type must be completed with Complete before it is used as a
// member, parameter or return type.
func (r *Registry) Declare(name string) (*TypeInfo, error) {
	t := &TypeInfo{Name: name, Kind: Record, incomplete: true}
	if _, loaded := r.types.LoadOrStore(name, t); loaded {
		return nil, typeMismatch("duplicate type name %q", name)
	}
	return t, nil
}

// Complete fills in the layout of a record previously created with Declare.
// The record size is the sum of the member sizes with inter-member alignment
// padding, rounded up to the record alignment, which is the maximum member
// alignment.
func (r *Registry) Complete(t *TypeInfo, members []Member) error {
	if !t.incomplete {
		return typeMismatch("type %q is already complete", t.Name)
	}
	if len(members) == 0 {
		return typeMismatch("record %q has no members", t.Name)
	}
	size, align := 0, 1
	for _, m := range members {
		if m.Type == nil {
			return typeMismatch("record %q member %q has no type", t.Name, m.Name)
		}
		if m.Type.Kind == Void {
			return typeMismatch("record %q member %q may not be void", t.Name, m.Name)
		}
		if m.Type.incomplete {
			return typeMismatch("record %q member %q uses incomplete type %q", t.Name, m.Name, m.Type.Name)
		}
		size = alignUp(size, m.Type.Align) + m.Type.Size
		if m.Type.Align > align {
			align = m.Type.Align
		}
	}
	t.Members = append([]Member{}, members...)
	t.Size = alignUp(size, align)
	t.Align = align
	t.incomplete = false
	return nil
}

// DefineRecord registers a new record type with the given ordered members.
func (r *Registry) DefineRecord(name string, members []Member) (*TypeInfo, error) {
	t, err := r.Declare(name)
	if err != nil {
		return nil, err
	}
	if err := r.Complete(t, members); err != nil {
		r.types.Delete(name)
		return nil, err
	}
	return t, nil
}

// PointerTo returns the pointer-to-t type, registering it on first use.
// The pointer name is the pointee name followed by " *", with no extra space
// when the pointee is itself a pointer.
func (r *Registry) PointerTo(t *TypeInfo) *TypeInfo {
	name := t.Name + " *"
	if t.Kind == Pointer {
		name = t.Name + "*"
	}
	p := &TypeInfo{Name: name, Kind: Pointer, Size: 8, Align: 8, Ref: t}
	actual, _ := r.types.LoadOrStore(name, p)
	return actual
}
