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

	"github.com/jotdev/jot/internal/blog"
	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/jekyll"
	"github.com/jotdev/jot/internal/printer"
	"github.com/jotdev/jot/internal/site"
	"github.com/jotdev/jot/internal/util/cmdutil"
	"github.com/jotdev/jot/internal/util/sync"
	"github.com/jotdev/jot/internal/util/watch"
	"github.com/spf13/cobra"
)

// NewServeRunner returns a command runner
func NewServeRunner(ctx context.Context, parent string) *ServeRunner {
	r := &ServeRunner{ctx: ctx}
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site locally",
		Long: `Serve the site on a local address until interrupted. By default a
jekyll server renders the workspace; with --static the already built
_site directory is served without needing jekyll on the path.

With --watch the staging area is watched and synced into the published
tree whenever the converter rewrites it.`,
		Example: `  # serve with jekyll on the default port
  jot site serve

  # serve the built site without jekyll
  jot site serve --static --port 8000

  # keep the published tree in step with the staging area
  jot site serve --watch`,
		RunE:    r.runE,
		PreRunE: r.preRunE,
	}
	c.Flags().BoolVar(&r.Static, "static", false,
		"serve the built _site directory instead of running jekyll")
	c.Flags().StringVar(&r.Host, "host", jekyll.DefaultHost, "address to bind")
	c.Flags().IntVar(&r.Port, "port", jekyll.DefaultPort, "port to serve on")
	c.Flags().BoolVar(&r.Watch, "watch", false,
		"re-sync the staging area into the published tree on changes")
	cmdutil.FixDocs("jot", parent, c)
	r.Command = c
	return r
}

// ServeRunner contains the run function
type ServeRunner struct {
	ctx     context.Context
	Command *cobra.Command
	Static  bool
	Host    string
	Port    int
	Watch   bool

	// Dir is the workspace root. Resolved from the --dir flag when
	// empty.
	Dir string
}

func (r *ServeRunner) preRunE(c *cobra.Command, _ []string) error {
	if r.Dir == "" {
		r.Dir = cmdutil.WorkspaceDir(c)
	}
	return nil
}

func (r *ServeRunner) runE(_ *cobra.Command, _ []string) error {
	const op errors.Op = "cmdsite.serve"
	pr := printer.FromContextOrDie(r.ctx)
	w, err := blog.OpenWorkspace(r.Dir)
	if err != nil {
		return errors.E(op, err)
	}
	if r.Watch {
		if err := w.RequireStaging(); err != nil {
			return errors.E(op, err)
		}
	}

	stop, url, err := r.start(w)
	if err != nil {
		return errors.E(op, err)
	}
	pr.Printf("Serving on %s\n", url)

	runErr := r.wait(w)
	if err := stop(); err != nil {
		if runErr == nil {
			runErr = err
		}
	}
	if runErr != nil {
		return errors.E(op, runErr)
	}
	return nil
}

// start brings up the selected server and returns its stop function and
// base URL.
func (r *ServeRunner) start(w *blog.Workspace) (func() error, string, error) {
	if r.Static {
		srv := &site.StaticServer{Dir: w.SitePath(), Host: r.Host, Port: r.Port}
		if err := srv.Start(); err != nil {
			return nil, "", err
		}
		return srv.Stop, srv.URL(), nil
	}
	srv := &jekyll.Server{Dir: string(w.UniquePath), Host: r.Host, Port: r.Port}
	if err := srv.Start(r.ctx); err != nil {
		return nil, "", err
	}
	return srv.Stop, srv.URL(), nil
}

// wait blocks until the context is cancelled. With --watch it runs the
// staging watcher in the foreground; sync failures are reported by the
// watcher and do not stop serving.
func (r *ServeRunner) wait(w *blog.Workspace) error {
	if !r.Watch {
		<-r.ctx.Done()
		return nil
	}
	wt := &watch.Watcher{
		Dir: w.StagingPath(),
		OnChange: func(ctx context.Context) error {
			return sync.Command{Workspace: w}.Run(ctx)
		},
	}
	return wt.Run(r.ctx)
}
