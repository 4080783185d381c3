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

package log

import "context"

type handlerKeyTy string
type severityKeyTy string
type tagKeyTy string
type processKeyTy string
type valuesKeyTy string

const (
	handlerKey  handlerKeyTy  = "log.handlerKey"
	severityKey severityKeyTy = "log.severityKey"
	tagKey      tagKeyTy      = "log.tagKey"
	processKey  processKeyTy  = "log.processKey"
	valuesKey   valuesKeyTy   = "log.valuesKey"
)

// PutHandler returns a new context with the Handler assigned to w.
func PutHandler(ctx context.Context, w Handler) context.Context {
	return context.WithValue(ctx, handlerKey, w)
}

// GetHandler returns the Handler bound to ctx, or nil.
func GetHandler(ctx context.Context) Handler {
	out, _ := ctx.Value(handlerKey).(Handler)
	return out
}

// PutSeverity returns a new context with the minimum shown severity set to s.
func PutSeverity(ctx context.Context, s Severity) context.Context {
	return context.WithValue(ctx, severityKey, s)
}

// GetSeverity returns the minimum shown severity bound to ctx.
// The default is Info.
func GetSeverity(ctx context.Context) Severity {
	if s, ok := ctx.Value(severityKey).(Severity); ok {
		return s
	}
	return Info
}

// PutTag returns a new context with the tag assigned to t.
func PutTag(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, tagKey, t)
}

// GetTag returns the tag bound to ctx, or an empty string.
func GetTag(ctx context.Context) string {
	out, _ := ctx.Value(tagKey).(string)
	return out
}

// PutProcess returns a new context with the process name assigned to p.
func PutProcess(ctx context.Context, p string) context.Context {
	return context.WithValue(ctx, processKey, p)
}

// GetProcess returns the process name bound to ctx, or an empty string.
func GetProcess(ctx context.Context) string {
	out, _ := ctx.Value(processKey).(string)
	return out
}

type values struct {
	parent *values
	name   string
	value  interface{}
}

func getValues(ctx context.Context) *values {
	out, _ := ctx.Value(valuesKey).(*values)
	return out
}

// V is a map of name to value pairs that can be bound to a context.
type V map[string]interface{}

// Bind returns a new context with all the values in v attached.
func (v V) Bind(ctx context.Context) context.Context {
	vals := getValues(ctx)
	for name, value := range v {
		vals = &values{parent: vals, name: name, value: value}
	}
	return context.WithValue(ctx, valuesKey, vals)
}
