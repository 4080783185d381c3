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

// Package call holds the assembly trampolines that hand a prepared
// register file and argument stack to a native function.
//
// A trampoline receives the target address and a pointer into the
// prepared call stack. It switches the machine stack pointer to that
// buffer, loads the argument registers from the register file image at
// its base, advances past the image so the overflow area becomes the
// in-place stack arguments, and calls the target. The return registers
// flow back untouched: each trampoline variant declares the C return
// type that occupies exactly those registers.
package call

// Regs is the return register state captured after a native call.
type Regs struct {
	// GPR holds the integer return registers.
	GPR [2]uint64
	// Vec holds the low 64 bit lanes of the vector return registers.
	Vec [4]uint64
	// F32 is the bit pattern of a float32 return. Set apart from Vec
	// because only the low lane of the register is meaningful.
	F32 uint32
	// HasF32 reports whether F32 was captured.
	HasF32 bool
}

// Class selects the trampoline variant by the register bundle the return
// value can occupy.
type Class int

const (
	// Int captures the integer return registers.
	Int Class = iota
	// Float captures a single float32.
	Float
	// Double captures a single float64.
	Double
	// FloatPair captures the first two vector registers.
	FloatPair
	// IntFloat captures an integer eightbyte followed by a vector one.
	IntFloat
	// FloatInt captures a vector eightbyte followed by an integer one.
	FloatInt
	// Quad captures the first four vector registers.
	Quad
)
