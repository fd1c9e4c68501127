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

package cmdsite

import (
	"context"
	"fmt"
	"strings"

	"github.com/jotdev/jot/internal/blog"
	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/printer"
	"github.com/jotdev/jot/internal/site"
	"github.com/jotdev/jot/internal/types"
	"github.com/jotdev/jot/internal/util/cmdutil"
	"github.com/spf13/cobra"
)

// NewLintRunner returns a command runner
func NewLintRunner(ctx context.Context, parent string) *LintRunner {
	r := &LintRunner{ctx: ctx}
	c := &cobra.Command{
		Use:   "lint",
		Short: "Lint the site configuration",
		Long: `Check _config.yml for missing keys and malformed values. Missing
optional keys are warnings; anything the site cannot render without is
an error.`,
		Example: `  # lint the configuration
  jot site lint`,
		RunE:    r.runE,
		PreRunE: r.preRunE,
	}
	cmdutil.FixDocs("jot", parent, c)
	r.Command = c
	return r
}

// LintRunner contains the run function
type LintRunner struct {
	ctx     context.Context
	Command *cobra.Command

	// Dir is the workspace root. Resolved from the --dir flag when
	// empty.
	Dir string
}

func (r *LintRunner) preRunE(c *cobra.Command, _ []string) error {
	if r.Dir == "" {
		r.Dir = cmdutil.WorkspaceDir(c)
	}
	return nil
}

func (r *LintRunner) runE(_ *cobra.Command, _ []string) error {
	const op errors.Op = "cmdsite.lint"
	pr := printer.FromContextOrDie(r.ctx)
	w, err := blog.OpenWorkspace(r.Dir)
	if err != nil {
		return errors.E(op, err)
	}
	result, err := site.LintConfigFile(w.ConfigPath())
	if err != nil {
		return errors.E(op, err)
	}
	for _, warning := range result.Warnings {
		pr.OptPrintf(printer.NewOpt().Stderr(), "[Warn] %s\n", warning)
	}
	if !result.Clean() {
		return errors.E(op, types.UniquePath(w.ConfigPath()), errors.Config,
			fmt.Errorf("%s", strings.Join(result.Errors, "; ")))
	}
	pr.Printf("%s is valid.\n", blog.ConfigFile)
	return nil
}
