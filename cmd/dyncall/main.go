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

// The dyncall command loads a shared library and calls one exported
// function with the arguments given on the command line.
//
//	dyncall -lib libm.so.6 -sig "double hypot(double, double)" 3 4
//	dyncall -type "Vec2{x:double,y:double}" -lib ./geo.so \
//	        -sig "double norm(Vec2)" '{"x":3,"y":4}'
package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/google/dynffi/core/app"
	"github.com/google/dynffi/ffi"
)

var (
	libPath = flag.String("lib", "", "path of the shared library, empty for the current process")
	sig     = flag.String("sig", "", "signature of the function, e.g. 'double hypot(double, double)'")
	types   typeList
)

type typeList []string

func (l *typeList) String() string { return strings.Join(*l, " ") }
func (l *typeList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func init() {
	flag.Var(&types, "type", "record type declaration, e.g. 'Vec2{x:double,y:double}', repeatable")
}

func main() {
	app.ShortHelp = "Dyncall loads a shared library and calls one function from it."
	app.ShortUsage = "<argument>..."
	app.Run(run)
}

func run(ctx context.Context) error {
	if *sig == "" {
		app.Usage(ctx, "A -sig signature is required.")
		return nil
	}
	reg := ffi.NewRegistry()
	if err := declareTypes(reg, types); err != nil {
		return err
	}
	name, fsig, err := parseSignature(reg, *sig)
	if err != nil {
		return err
	}
	raw := flag.Args()
	if len(raw) != len(fsig.Params) {
		app.Usage(ctx, "%s takes %d arguments, got %d.", name, len(fsig.Params), len(raw))
		return nil
	}
	args := make([]ffi.Value, len(raw))
	for i, r := range raw {
		if args[i], err = parseValue(fsig.Params[i], r); err != nil {
			return err
		}
	}

	fns, err := reg.Load(ctx, *libPath, map[string]ffi.Signature{name: fsig})
	if err != nil {
		return err
	}
	fn := fns[name]
	defer fn.Close()

	res, err := fn.Call(ctx, args)
	if err != nil {
		return err
	}
	if fsig.Return.Kind != ffi.Void {
		fmt.Fprintln(os.Stdout, render(res))
	}
	return nil
}

// declareTypes registers the record types named on the command line. All
// names are declared before any layout is completed so records may point
// at themselves and at each other.
func declareTypes(reg *ffi.Registry, decls []string) error {
	type pending struct {
		t    *ffi.TypeInfo
		body string
	}
	ps := make([]pending, 0, len(decls))
	for _, d := range decls {
		open, close := strings.Index(d, "{"), strings.LastIndex(d, "}")
		if open < 0 || close < open {
			return fmt.Errorf("malformed type declaration %q", d)
		}
		t, err := reg.Declare(strings.TrimSpace(d[:open]))
		if err != nil {
			return err
		}
		ps = append(ps, pending{t, d[open+1 : close]})
	}
	for _, p := range ps {
		members := []ffi.Member{}
		for _, field := range strings.Split(p.body, ",") {
			if strings.TrimSpace(field) == "" {
				continue
			}
			kv := strings.SplitN(field, ":", 2)
			if len(kv) != 2 {
				return fmt.Errorf("malformed member %q in type %q", field, p.t.Name)
			}
			mt, err := resolveType(reg, kv[1])
			if err != nil {
				return err
			}
			members = append(members, ffi.Member{Name: strings.TrimSpace(kv[0]), Type: mt})
		}
		if err := reg.Complete(p.t, members); err != nil {
			return err
		}
	}
	return nil
}

// parseSignature splits "ret name(a, b)" into the symbol name and its
// resolved signature.
func parseSignature(reg *ffi.Registry, s string) (string, ffi.Signature, error) {
	open, close := strings.Index(s, "("), strings.LastIndex(s, ")")
	if open < 0 || close < open {
		return "", ffi.Signature{}, fmt.Errorf("malformed signature %q", s)
	}
	head := strings.TrimSpace(s[:open])
	split := strings.LastIndexAny(head, " \t*")
	if split < 0 {
		return "", ffi.Signature{}, fmt.Errorf("signature %q is missing a return type", s)
	}
	name := strings.TrimSpace(head[split+1:])
	ret, err := resolveType(reg, head[:split+1])
	if err != nil {
		return "", ffi.Signature{}, err
	}
	fsig := ffi.Signature{Return: ret}
	if inner := strings.TrimSpace(s[open+1 : close]); inner != "" && inner != "void" {
		for _, p := range strings.Split(inner, ",") {
			t, err := resolveType(reg, p)
			if err != nil {
				return "", ffi.Signature{}, err
			}
			fsig.Params = append(fsig.Params, t)
		}
	}
	return name, fsig, nil
}

// resolveType looks up a type name, unwrapping trailing '*' into pointer
// types.
func resolveType(reg *ffi.Registry, s string) (*ffi.TypeInfo, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "*") {
		inner, err := resolveType(reg, s[:len(s)-1])
		if err != nil {
			return nil, err
		}
		return reg.PointerTo(inner), nil
	}
	return reg.Lookup(s)
}

// parseValue converts one command line argument to the managed value the
// parameter type expects.
func parseValue(t *ffi.TypeInfo, raw string) (ffi.Value, error) {
	switch {
	case raw == "null":
		return ffi.Null(), nil
	case t.Kind == ffi.Record:
		return parseRecordValue(t, raw)
	case t.Kind == ffi.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return ffi.Null(), fmt.Errorf("%q is not a bool", raw)
		}
		return ffi.Boolean(b), nil
	case t.Kind == ffi.String:
		return ffi.Str(raw), nil
	case t.Kind == ffi.Pointer:
		addr, err := strconv.ParseUint(raw, 0, 64)
		if err != nil {
			return ffi.Null(), fmt.Errorf("%q is not an address", raw)
		}
		return ffi.ExternalOf(uintptr(addr), t.Ref), nil
	case t.Kind.IsInteger():
		i, ok := new(big.Int).SetString(raw, 0)
		if !ok {
			return ffi.Null(), fmt.Errorf("%q is not an integer", raw)
		}
		return ffi.BigInt(i), nil
	default:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ffi.Null(), fmt.Errorf("%q is not a number", raw)
		}
		return ffi.Number(f), nil
	}
}
