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

// Package cmdconfig contains the config command
package cmdconfig

import (
	"context"

	"github.com/jotdev/jot/internal/config"
	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/printer"
	"github.com/jotdev/jot/internal/util/cmdutil"
	"github.com/spf13/cobra"
)

// NewRunner returns a command runner
func NewRunner(ctx context.Context, parent string) *Runner {
	r := &Runner{ctx: ctx}
	c := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved workflow configuration",
		Long: `Print the workflow configuration resolved from the git checkout and
the JOT_* environment overrides, one "<key>: <value>" line per entry.
Scripts parse this output, so names and order are stable.`,
		Example: `  # show the resolved configuration
  jot config`,
		RunE:    r.runE,
		PreRunE: r.preRunE,
	}
	cmdutil.FixDocs("jot", parent, c)
	r.Command = c
	return r
}

func NewCommand(ctx context.Context, parent string) *cobra.Command {
	return NewRunner(ctx, parent).Command
}

// Runner contains the run function
type Runner struct {
	ctx     context.Context
	Command *cobra.Command

	// Dir is the workspace root. Resolved from the --dir flag when
	// empty.
	Dir string
}

func (r *Runner) preRunE(c *cobra.Command, _ []string) error {
	if r.Dir == "" {
		r.Dir = cmdutil.WorkspaceDir(c)
	}
	return nil
}

func (r *Runner) runE(_ *cobra.Command, _ []string) error {
	const op errors.Op = "cmdconfig.runE"
	cfg, err := config.Resolve(r.ctx, r.Dir)
	if err != nil {
		return errors.E(op, err)
	}
	pr := printer.FromContextOrDie(r.ctx)
	for _, f := range cfg.Fields() {
		pr.Printf("%s: %s\n", f.Key, f.Value)
	}
	return nil
}
