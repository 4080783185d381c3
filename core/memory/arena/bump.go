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

package arena

import (
	"fmt"
	"unsafe"
)

// Bump is a bump allocator carving allocations out of a single native block.
// It hands out addresses front to back and releases them all with Reset.
// Bump is not safe for concurrent use.
type Bump struct {
	arena *Arena
	base  uintptr
	size  uintptr
	next  uintptr
}

// NewBump allocates a native block of the given size from a and returns a
// bump allocator over it.
func NewBump(a *Arena, size int) *Bump {
	base := uintptr(a.Allocate(size, 16))
	return &Bump{arena: a, base: base, size: uintptr(size), next: base}
}

// Alloc returns the address of a fresh block of the given size and alignment,
// or 0 if the allocator is exhausted.
func (b *Bump) Alloc(size, alignment int) uintptr {
	addr := (b.next + uintptr(alignment) - 1) &^ uintptr(alignment-1)
	if addr+uintptr(size) > b.base+b.size {
		return 0
	}
	b.next = addr + uintptr(size)
	return addr
}

// Used returns the number of bytes consumed since the last Reset.
func (b *Bump) Used() int { return int(b.next - b.base) }

// Reset releases every allocation made since the allocator was created or
// last reset.
func (b *Bump) Reset() { b.next = b.base }

// Release frees the underlying native block.
// The allocator must not be used afterwards.
func (b *Bump) Release() {
	if b.base != 0 {
		b.arena.Free(unsafe.Pointer(b.base))
		b.base, b.next, b.size = 0, 0, 0
	}
}

// String returns a description of the allocator state.
func (b *Bump) String() string {
	return fmt.Sprintf("bump{used: %d, capacity: %d}", b.Used(), b.size)
}
