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

// Package arena provides native memory allocation.
//
// All memory returned by an Arena lives on the C heap, never on the Go heap,
// so addresses handed to native code stay valid and are invisible to the Go
// garbage collector.
package arena

// #include <stdlib.h>
// #include <string.h>
import "C"

import (
	"fmt"
	"sync"
	"unsafe"
)

// Arena is a pool of native memory allocations.
// Every block allocated from an Arena is freed when the Arena is disposed.
type Arena struct {
	mutex sync.Mutex
	// aligned address to raw malloc address
	blocks map[uintptr]unsafe.Pointer
}

// New constructs a new, empty arena.
func New() *Arena {
	return &Arena{blocks: map[uintptr]unsafe.Pointer{}}
}

// Allocate returns a pointer to a new native memory block of the given size
// and alignment. The block is zero initialized.
func (a *Arena) Allocate(size, alignment int) unsafe.Pointer {
	if size < 0 || alignment <= 0 || alignment&(alignment-1) != 0 {
		panic(fmt.Errorf("arena: bad allocation size %d alignment %d", size, alignment))
	}
	raw := C.calloc(1, C.size_t(size+alignment))
	if raw == nil {
		panic(fmt.Errorf("arena: out of native memory allocating %d bytes", size))
	}
	aligned := (uintptr(raw) + uintptr(alignment) - 1) &^ uintptr(alignment-1)

	a.mutex.Lock()
	a.blocks[aligned] = raw
	a.mutex.Unlock()

	return unsafe.Pointer(aligned)
}

// Free releases the block at ptr, which must have come from Allocate on this
// arena.
func (a *Arena) Free(ptr unsafe.Pointer) {
	a.mutex.Lock()
	raw, ok := a.blocks[uintptr(ptr)]
	delete(a.blocks, uintptr(ptr))
	a.mutex.Unlock()

	if !ok {
		panic(fmt.Errorf("arena: free of unowned pointer %p", ptr))
	}
	C.free(raw)
}

// Owns returns true if ptr was allocated from this arena and is still live.
func (a *Arena) Owns(ptr unsafe.Pointer) bool {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	_, ok := a.blocks[uintptr(ptr)]
	return ok
}

// Count returns the number of live allocations in the arena.
func (a *Arena) Count() int {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return len(a.blocks)
}

// Dispose frees every block still owned by the arena.
// The arena must not be used after it is disposed.
func (a *Arena) Dispose() {
	a.mutex.Lock()
	blocks := a.blocks
	a.blocks = nil
	a.mutex.Unlock()

	for _, raw := range blocks {
		C.free(raw)
	}
}

// Bytes returns the native memory block at ptr as a byte slice of the given
// length. The slice aliases native memory and must not outlive the block.
func Bytes(ptr unsafe.Pointer, size int) []byte {
	return unsafe.Slice((*byte)(ptr), size)
}

// Memset fills size bytes at ptr with the byte b.
func Memset(ptr unsafe.Pointer, b byte, size int) {
	C.memset(ptr, C.int(b), C.size_t(size))
}
