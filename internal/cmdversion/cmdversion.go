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

// Package cmdversion contains the version command
package cmdversion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/printer"
	"github.com/jotdev/jot/internal/util/cmdutil"
	"github.com/jotdev/jot/internal/util/httputil"
	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// ReleaseURL is the GitHub API endpoint reporting the latest release.
const ReleaseURL = "https://api.github.com/repos/jotdev/jot/releases/latest"

// NewRunner returns a command runner
func NewRunner(ctx context.Context, parent, version string) *Runner {
	r := &Runner{ctx: ctx, Version: version, ReleaseURL: ReleaseURL}
	c := &cobra.Command{
		Use:   "version",
		Short: "Print the jot version",
		Long: `Print the version this binary was built from. With --check the latest
published release is fetched from GitHub and compared against it.`,
		Example: `  # print the version
  jot version

  # compare against the latest release
  jot version --check`,
		RunE: r.runE,
	}
	c.Flags().BoolVar(&r.Check, "check", false,
		"compare the build version against the latest release")
	cmdutil.FixDocs("jot", parent, c)
	r.Command = c
	return r
}

// NewCommand returns a cobra command
func NewCommand(ctx context.Context, parent, version string) *cobra.Command {
	return NewRunner(ctx, parent, version).Command
}

// Runner contains the run function
type Runner struct {
	ctx     context.Context
	Command *cobra.Command
	Check   bool

	// Version is the build version stamped into the binary.
	Version string

	// ReleaseURL is the endpoint --check queries. Tests point it at a
	// local server.
	ReleaseURL string
}

func (r *Runner) runE(_ *cobra.Command, _ []string) error {
	const op errors.Op = "cmdversion.runE"
	pr := printer.FromContextOrDie(r.ctx)
	pr.Printf("%s\n", r.Version)
	if !r.Check {
		return nil
	}
	latest, err := latestRelease(r.ctx, r.ReleaseURL)
	if err != nil {
		return errors.E(op, err)
	}
	cur := canonical(r.Version)
	if !semver.IsValid(cur) {
		// Development builds carry no comparable version.
		pr.Printf("Latest release is %s.\n", latest)
		return nil
	}
	if semver.Compare(cur, canonical(latest)) < 0 {
		pr.Printf("A newer release %s is available.\n", latest)
	} else {
		pr.Printf("You are up to date.\n")
	}
	return nil
}

// release is the subset of the GitHub release payload the check reads.
type release struct {
	TagName string `json:"tag_name"`
}

func latestRelease(ctx context.Context, url string) (string, error) {
	const op errors.Op = "cmdversion.latestRelease"
	content, err := httputil.FetchContent(ctx, url)
	if err != nil {
		return "", errors.E(op, err)
	}
	var rel release
	if err := json.Unmarshal([]byte(content), &rel); err != nil {
		return "", errors.E(op, errors.Internal, err)
	}
	if rel.TagName == "" {
		return "", errors.E(op, errors.Internal, fmt.Errorf("release payload from %s has no tag_name", url))
	}
	return rel.TagName, nil
}

// canonical normalizes a release tag to the v-prefixed form
// golang.org/x/mod/semver compares.
func canonical(v string) string {
	if v == "" || strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
