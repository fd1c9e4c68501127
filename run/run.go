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

// Package run builds the jot root command.
package run

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"

	"github.com/jotdev/jot/commands"
	"github.com/jotdev/jot/internal/printer"
	"github.com/jotdev/jot/internal/util/cmdutil"
	"github.com/spf13/cobra"
)

// version is stamped by the release build via ldflags.
var version = "unknown"

func GetMain(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jot",
		Short: "Publish Jupyter notebooks as a Jekyll blog",
		Long: `jot drives a Jekyll blog written in Jupyter notebooks. It converts
notebooks into posts, publishes staged posts and images, reconciles the
published tree with git after renames, and builds, serves and verifies
the generated site.`,
		SilenceUsage: true,
		// We handle all errors in main after return from cobra so we can
		// adjust the error message coming from libraries
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := cmd.Flags().GetBool("help")
			if err != nil {
				return err
			}
			if h {
				return cmd.Help()
			}
			return cmd.Usage()
		},
	}

	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	cmd.PersistentFlags().String("dir", "",
		"workspace directory (defaults to the current directory)")

	// wire the global printer
	pr := printer.New(cmd.OutOrStdout(), cmd.ErrOrStderr())

	// create context with associated printer
	ctx = printer.WithContext(ctx, pr)

	// help and documentation
	cmd.InitDefaultHelpCmd()
	cmd.AddCommand(commands.GetJotCommands(ctx, "jot", version)...)

	// enable stack traces
	cmd.PersistentFlags().BoolVar(&cmdutil.StackOnError, "stack-trace", false,
		"Print a stack-trace on failure")

	if _, err := exec.LookPath("git"); err != nil {
		fmt.Fprintf(os.Stderr, "jot requires that `git` is installed and on the PATH")
		os.Exit(1)
	}

	hideFlags(cmd)
	return cmd
}

// hideFlags hides any cobra flags that are unlikely to be used by
// bloggers.
func hideFlags(cmd *cobra.Command) {
	flags := []string{
		// Flags related to logging
		"add_dir_header",
		"alsologtostderr",
		"log_backtrace_at",
		"log_dir",
		"log_file",
		"log_file_max_size",
		"logtostderr",
		"one_output",
		"skip_headers",
		"skip_log_headers",
		"stack-trace",
		"stderrthreshold",
		"vmodule",
	}
	for _, f := range flags {
		_ = cmd.PersistentFlags().MarkHidden(f)
	}

	// We need to recurse into subcommands otherwise flags aren't hidden on leaf commands
	for _, child := range cmd.Commands() {
		hideFlags(child)
	}
}
