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
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jotdev/jot/internal/blog"
	"github.com/jotdev/jot/internal/browser"
	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/printer"
	"github.com/jotdev/jot/internal/site"
	"github.com/jotdev/jot/internal/util/cmdutil"
	"github.com/spf13/cobra"
)

// defaultURL is where a locally running jekyll server answers.
const defaultURL = "http://127.0.0.1:4000"

// NewVerifyRunner returns a command runner
func NewVerifyRunner(ctx context.Context, parent string) *VerifyRunner {
	r := &VerifyRunner{ctx: ctx}
	c := &cobra.Command{
		Use:   "verify",
		Short: "Verify a served site against the workspace",
		Long: `Fetch pages from a served build and check them against the workspace
and its configuration: the homepage, every published post with its
social metadata, images, social links and the contact page. Results
render as a table; any failed check makes the command fail.`,
		Example: `  # verify a site served at the default address
  jot site verify

  # serve _site for the duration of the checks
  jot site verify --serve

  # also render pages in a headless browser
  jot site verify --serve --browser`,
		RunE:    r.runE,
		PreRunE: r.preRunE,
	}
	c.Flags().StringVar(&r.URL, "url", defaultURL, "base URL of the served site")
	c.Flags().BoolVar(&r.Serve, "serve", false,
		"serve the built _site directory for the duration of the checks")
	c.Flags().BoolVar(&r.Browser, "browser", false,
		"additionally render the pages in a headless browser")
	cmdutil.FixDocs("jot", parent, c)
	r.Command = c
	return r
}

// VerifyRunner contains the run function
type VerifyRunner struct {
	ctx     context.Context
	Command *cobra.Command
	URL     string
	Serve   bool
	Browser bool

	// Dir is the workspace root. Resolved from the --dir flag when
	// empty.
	Dir string
}

func (r *VerifyRunner) preRunE(c *cobra.Command, _ []string) error {
	if r.Dir == "" {
		r.Dir = cmdutil.WorkspaceDir(c)
	}
	return nil
}

func (r *VerifyRunner) runE(_ *cobra.Command, _ []string) error {
	const op errors.Op = "cmdsite.verify"
	pr := printer.FromContextOrDie(r.ctx)
	w, err := blog.OpenWorkspace(r.Dir)
	if err != nil {
		return errors.E(op, err)
	}
	cfg, err := site.LoadConfig(w.ConfigPath())
	if err != nil {
		return errors.E(op, err)
	}

	baseURL := r.URL
	if r.Serve {
		srv := &site.StaticServer{Dir: w.SitePath()}
		if err := srv.Start(); err != nil {
			return errors.E(op, err)
		}
		defer func() { _ = srv.Stop() }()
		baseURL = srv.URL()
	}

	v := &site.Verifier{BaseURL: baseURL, Config: cfg, Workspace: w}
	results, err := v.Run(r.ctx)
	if err != nil {
		return errors.E(op, err)
	}

	if r.Browser {
		if browser.Available() {
			bv := &browser.Verifier{BaseURL: baseURL, Config: cfg, Workspace: w}
			rendered, err := bv.Run(r.ctx)
			if err != nil {
				return errors.E(op, err)
			}
			results = append(results, rendered...)
		} else {
			pr.Printf("No browser found, skipping rendering checks.\n")
		}
	}

	renderResults(pr.OutStream(), results)
	if site.HasFailures(results) {
		return errors.E(op, fmt.Errorf("%d of %d checks failed", failed(results), len(results)))
	}
	pr.Printf("All %d checks passed.\n", len(results))
	return nil
}

func renderResults(out io.Writer, results []site.CheckResult) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"CHECK", "STATUS", "DETAIL"})
	for _, res := range results {
		t.AppendRow(table.Row{res.Check, res.Status, res.Detail})
	}
	t.Render()
}

func failed(results []site.CheckResult) int {
	n := 0
	for _, res := range results {
		if res.Status == site.StatusFail {
			n++
		}
	}
	return n
}
