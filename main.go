// Copyright 2023 The jot Authors
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
	"context"
	"fmt"
	"os"

	goerrors "github.com/go-errors/errors"
	"github.com/jotdev/jot/internal/errors/resolver"
	"github.com/jotdev/jot/internal/util/cmdutil"
	"github.com/jotdev/jot/run"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func main() {
	// Handle all setup in the runMain function so os.Exit doesn't interfere
	// with defer.
	os.Exit(runMain())
}

// runMain does the initial setup in order to run jot. It returns the exit
// code for the application.
func runMain() (exit int) {
	ctx := context.Background()

	// Enable commandline flags for klog.
	// logging will help in collecting debugging information from users
	klog.InitFlags(nil)

	cmd := run.GetMain(ctx)

	// A panic below this point carries its stack into the error handling.
	defer func() {
		if r := recover(); r != nil {
			exit = handleErr(cmd, goerrors.Wrap(r, 2))
		}
	}()

	if err := cmd.Execute(); err != nil {
		return handleErr(cmd, err)
	}
	return 0
}

// handleErr takes care of printing an error message for a given error.
func handleErr(cmd *cobra.Command, err error) int {
	if ge, ok := err.(*goerrors.Error); ok && cmdutil.PrintErrorStacktrace() {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s", ge.Stack())
	}

	// Attempt to resolve the error into a message suitable for the user.
	if rr, found := resolver.ResolveError(err); found {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s \n", rr.Message)
		return rr.ExitCode
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v \n", err)
	return 1
}
