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

// Package testnative compiles a small set of C functions and exposes
// their addresses, so call tests have native code to run against without
// needing a shared library on disk.
package testnative

/*
#include <stdbool.h>
#include <stdint.h>
#include <stdio.h>
#include <string.h>

typedef struct { double x, y; } tn_vec2;
typedef struct { double x, y, z; } tn_vec3;
typedef struct { int32_t a; float b; } tn_mix;
typedef struct { int64_t a, b, c, d; } tn_block;

static int32_t tn_add32(int32_t a, int32_t b) { return a + b; }

static int64_t tn_sum8(int64_t a, int64_t b, int64_t c, int64_t d,
                       int64_t e, int64_t f, int64_t g, int64_t h) {
	return a + b + c + d + e + f + g + h;
}

static double tn_lerp(double a, double b, float t) { return a + (b - a) * t; }

static float tn_halve(float v) { return v / 2; }

static bool tn_flip(bool b) { return !b; }

static tn_vec2 tn_vadd(tn_vec2 a, tn_vec2 b) {
	tn_vec2 r = { a.x + b.x, a.y + b.y };
	return r;
}

static double tn_dot(tn_vec2 a, tn_vec2 b) { return a.x * b.x + a.y * b.y; }

static tn_vec3 tn_cross(tn_vec3 a, tn_vec3 b) {
	tn_vec3 r = {
		a.y * b.z - a.z * b.y,
		a.z * b.x - a.x * b.z,
		a.x * b.y - a.y * b.x,
	};
	return r;
}

static tn_mix tn_mix_make(int32_t a, float b) {
	tn_mix r = { a, b };
	return r;
}

static tn_block tn_block_fill(int64_t seed) {
	tn_block r = { seed, seed * 2, seed * 3, seed * 4 };
	return r;
}

static int64_t tn_block_sum(tn_block b) { return b.a + b.b + b.c + b.d; }

static uint64_t tn_strlen(const char *s) { return s ? strlen(s) : 0; }

static const char *tn_greet(const char *name) {
	static char buf[64];
	snprintf(buf, sizeof(buf), "hello %s", name ? name : "nobody");
	return buf;
}

static void *tn_self(void *p) { return p; }

static int32_t tn_cell;
static void tn_store(int32_t v) { tn_cell = v; }
static int32_t tn_fetch(void) { return tn_cell; }

void *tn_p_add32      = (void*)tn_add32;
void *tn_p_sum8       = (void*)tn_sum8;
void *tn_p_lerp       = (void*)tn_lerp;
void *tn_p_halve      = (void*)tn_halve;
void *tn_p_flip       = (void*)tn_flip;
void *tn_p_vadd       = (void*)tn_vadd;
void *tn_p_dot        = (void*)tn_dot;
void *tn_p_cross      = (void*)tn_cross;
void *tn_p_mix_make   = (void*)tn_mix_make;
void *tn_p_block_fill = (void*)tn_block_fill;
void *tn_p_block_sum  = (void*)tn_block_sum;
void *tn_p_strlen     = (void*)tn_strlen;
void *tn_p_greet      = (void*)tn_greet;
void *tn_p_self       = (void*)tn_self;
void *tn_p_store      = (void*)tn_store;
void *tn_p_fetch      = (void*)tn_fetch;
void *tn_p_cell       = (void*)&tn_cell;
*/
import "C"

// Addresses of the compiled test functions.
var (
	Add32     = uintptr(C.tn_p_add32)
	Sum8      = uintptr(C.tn_p_sum8)
	Lerp      = uintptr(C.tn_p_lerp)
	Halve     = uintptr(C.tn_p_halve)
	Flip      = uintptr(C.tn_p_flip)
	VAdd      = uintptr(C.tn_p_vadd)
	Dot       = uintptr(C.tn_p_dot)
	Cross     = uintptr(C.tn_p_cross)
	MixMake   = uintptr(C.tn_p_mix_make)
	BlockFill = uintptr(C.tn_p_block_fill)
	BlockSum  = uintptr(C.tn_p_block_sum)
	Strlen    = uintptr(C.tn_p_strlen)
	Greet     = uintptr(C.tn_p_greet)
	Self      = uintptr(C.tn_p_self)
	Store     = uintptr(C.tn_p_store)
	Fetch     = uintptr(C.tn_p_fetch)
	Cell      = uintptr(C.tn_p_cell)
)
