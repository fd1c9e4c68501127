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

// Package jekyll drives the external jekyll binary for site builds and
// serving.
package jekyll

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/util/toolexec"
)

// MinVersion is the oldest jekyll release the site layout supports.
const MinVersion = "3.8.0"

// BuildOptions configures a site build.
type BuildOptions struct {
	// Source is the site source directory.
	Source string

	// Destination overrides the output directory.
	Destination string

	// ExtraFlags are passed through to jekyll unchanged.
	ExtraFlags []string
}

// BuildArgs composes the jekyll build invocation.
func BuildArgs(opts BuildOptions) toolexec.Spec {
	args := []string{"build", "--source", opts.Source}
	if opts.Destination != "" {
		args = append(args, "--destination", opts.Destination)
	}
	args = append(args, opts.ExtraFlags...)
	return toolexec.Spec{Name: "jekyll", Args: args, Dir: opts.Source}
}

// Build runs jekyll build. Callers gate on CheckVersion first; the
// build itself stays usable with a dry runner.
func Build(ctx context.Context, r toolexec.Runner, opts BuildOptions) error {
	const op errors.Op = "jekyll.Build"
	if _, err := r.Run(ctx, BuildArgs(opts)); err != nil {
		return errors.E(op, err)
	}
	return nil
}

// VersionArgs composes the jekyll version probe.
func VersionArgs() toolexec.Spec {
	return toolexec.Spec{Name: "jekyll", Args: []string{"--version"}}
}

// versionRE pulls the bare version out of `jekyll --version` output,
// e.g. "jekyll 4.3.2".
var versionRE = regexp.MustCompile(`jekyll ([0-9]+\.[0-9]+\.[0-9]+)`)

// Version reports the version of the jekyll binary the runner finds.
func Version(ctx context.Context, r toolexec.Runner) (*semver.Version, error) {
	const op errors.Op = "jekyll.Version"
	res, err := r.Run(ctx, VersionArgs())
	if err != nil {
		return nil, errors.E(op, err)
	}
	m := versionRE.FindStringSubmatch(res.Stdout)
	if m == nil {
		return nil, errors.E(op, errors.Exec, fmt.Errorf("cannot parse jekyll version from %q", strings.TrimSpace(res.Stdout)))
	}
	v, err := semver.NewVersion(m[1])
	if err != nil {
		return nil, errors.E(op, errors.Exec, err)
	}
	return v, nil
}

// CheckVersion verifies that jekyll is present and at least MinVersion.
func CheckVersion(ctx context.Context, r toolexec.Runner) error {
	const op errors.Op = "jekyll.CheckVersion"
	v, err := Version(ctx, r)
	if err != nil {
		return errors.E(op, err)
	}
	if v.LessThan(semver.MustParse(MinVersion)) {
		return errors.E(op, errors.Exec, fmt.Errorf("jekyll %s is too old, the site needs at least %s", v, MinVersion))
	}
	return nil
}
