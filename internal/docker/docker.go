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

// Package docker composes docker invocations for the workflow images.
// The functions here only build toolexec specs; running them, or just
// printing them in dry-run mode, is up to the caller.
package docker

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/util/toolexec"
)

// MinVersion is the oldest docker client the workflow images support.
const MinVersion = "20.10.0"

// BuildOptions configures an image build.
type BuildOptions struct {
	// NoCache disables the layer cache.
	NoCache bool

	// Target selects a Dockerfile stage.
	Target string

	// ContextDir is the build context. Defaults to the current
	// directory.
	ContextDir string
}

// RunOptions configures a container run.
type RunOptions struct {
	// TTY allocates a pseudo-TTY in addition to stdin.
	TTY bool

	// Volume mounts WorkDir at SourcePath inside the container.
	Volume bool

	// User runs the container as the invoking uid and gid so that
	// generated files are not owned by root.
	User bool

	// WorkDir is the host directory to mount.
	WorkDir string

	// SourcePath is the mount point and working directory inside the
	// container.
	SourcePath string

	// Cmd is the command to run in the container.
	Cmd []string
}

// PullArgs composes the docker pull invocation for image.
func PullArgs(image string) toolexec.Spec {
	return toolexec.Spec{Name: "docker", Args: []string{"pull", image}}
}

// BuildArgs composes the docker build invocation for image.
func BuildArgs(image string, opts BuildOptions) toolexec.Spec {
	args := []string{"build"}
	if opts.NoCache {
		args = append(args, "--no-cache")
	}
	if opts.Target != "" {
		args = append(args, "--target", opts.Target)
	}
	args = append(args, "-t", image)
	contextDir := opts.ContextDir
	if contextDir == "" {
		contextDir = "."
	}
	args = append(args, contextDir)
	return toolexec.Spec{Name: "docker", Args: args}
}

// RunArgs composes the docker run invocation for image.
func RunArgs(image string, opts RunOptions) toolexec.Spec {
	args := []string{"run", "--rm"}
	if opts.TTY {
		args = append(args, "-it")
	} else {
		args = append(args, "-i")
	}
	if opts.Volume && opts.WorkDir != "" && opts.SourcePath != "" {
		args = append(args, "-v", fmt.Sprintf("%s:%s", opts.WorkDir, opts.SourcePath))
	}
	if opts.User {
		args = append(args, "--user", fmt.Sprintf("%d:%d", os.Getuid(), os.Getgid()))
	}
	if opts.SourcePath != "" {
		args = append(args, "-w", opts.SourcePath)
	}
	args = append(args, image)
	args = append(args, opts.Cmd...)
	return toolexec.Spec{Name: "docker", Args: args}
}

// VersionArgs composes the docker version probe.
func VersionArgs() toolexec.Spec {
	return toolexec.Spec{Name: "docker", Args: []string{"--version"}}
}

// versionRE pulls the bare version out of `docker --version` output,
// e.g. "Docker version 24.0.7, build afdd53b".
var versionRE = regexp.MustCompile(`Docker version v?([0-9]+\.[0-9]+\.[0-9]+)`)

// Version reports the version of the docker client the runner finds.
func Version(ctx context.Context, r toolexec.Runner) (*semver.Version, error) {
	const op errors.Op = "docker.Version"
	res, err := r.Run(ctx, VersionArgs())
	if err != nil {
		return nil, errors.E(op, err)
	}
	m := versionRE.FindStringSubmatch(res.Stdout)
	if m == nil {
		return nil, errors.E(op, errors.Exec, fmt.Errorf("cannot parse docker version from %q", strings.TrimSpace(res.Stdout)))
	}
	v, err := semver.NewVersion(m[1])
	if err != nil {
		return nil, errors.E(op, errors.Exec, err)
	}
	return v, nil
}

// CheckVersion verifies that the docker client is present and at least
// MinVersion.
func CheckVersion(ctx context.Context, r toolexec.Runner) error {
	const op errors.Op = "docker.CheckVersion"
	v, err := Version(ctx, r)
	if err != nil {
		return errors.E(op, err)
	}
	if v.LessThan(semver.MustParse(MinVersion)) {
		return errors.E(op, errors.Exec, fmt.Errorf("docker %s is too old, the workflow images need at least %s", v, MinVersion))
	}
	return nil
}
