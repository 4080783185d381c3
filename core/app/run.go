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

// Package app provides the minimal harness command line tools are built on.
//
// A main package declares its flags, sets the usage strings and hands its
// main task to Run:
//
//	func main() {
//		app.ShortHelp = "frob frobs the input"
//		app.Run(run)
//	}
//
//	func run(ctx context.Context) error { ... }
package app

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/dynffi/core/log"
)

var (
	// Name is the full name of the application.
	Name string
	// ShortHelp should be set to add a help message to the usage text.
	ShortHelp = ""
	// ShortUsage is usage text for the additional non-flag arguments.
	ShortUsage = ""
	// UsageFooter is printed at the bottom of the usage text.
	UsageFooter = ""
	// ExitFuncForTesting can be set to change the behaviour on exit.
	// It defaults to os.Exit.
	ExitFuncForTesting = os.Exit

	logSeverity = log.Info
)

// Task is the signature of the main entry point given to Run.
type Task func(ctx context.Context) error

// ExitCode can be returned through a panic to exit with the given code.
type ExitCode int

func init() {
	Name = filepath.Base(os.Args[0])
	flag.Var(&logSeverity, "log-level", "the severity level of messages to log")
}

// Usage prints the usage message, preceded by the formatted message if one is
// given.
func Usage(ctx context.Context, message string, args ...interface{}) {
	if message != "" {
		fmt.Fprintf(os.Stderr, message, args...)
		fmt.Fprintln(os.Stderr)
	}
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] %s\n", Name, ShortUsage)
	if ShortHelp != "" {
		fmt.Fprintln(os.Stderr, ShortHelp)
	}
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
	if UsageFooter != "" {
		fmt.Fprintln(os.Stderr, UsageFooter)
	}
}

// Run performs all the work needed to start up an application.
// It parses the command line arguments, builds the primary logging context,
// runs the provided task and exits with a non-zero code on failure.
func Run(main Task) {
	defer func() {
		switch cause := recover().(type) {
		case nil:
		case ExitCode:
			ExitFuncForTesting(int(cause))
		default:
			panic(cause)
		}
	}()

	flag.CommandLine.Usage = func() { Usage(context.Background(), "") }
	flag.Parse()

	handler := log.Std()
	defer handler.Close()

	ctx := context.Background()
	ctx = log.PutProcess(ctx, Name)
	ctx = log.PutHandler(ctx, handler)
	ctx = log.PutSeverity(ctx, logSeverity)

	if err := main(ctx); err != nil {
		log.E(ctx, "%s failed\nError: %v", Name, err)
		panic(ExitCode(1))
	}
}
