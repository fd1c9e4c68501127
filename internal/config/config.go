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

// Package config resolves the environment the publishing workflow runs
// in: the GitHub identity of the repository, the checked out branch and
// the docker images derived from them.
package config

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/gitutil"
	"github.com/jotdev/jot/internal/types"
)

const (
	// Registry is the container registry the workflow images live in.
	Registry = "ghcr.io"

	// containerSrcRoot is where the workspace is mounted inside the
	// workflow containers.
	containerSrcRoot = "/usr/local/src"
)

// Environment variables that override git introspection. They keep the
// workflow usable in detached CI checkouts.
const (
	EnvGitHubUser = "JOT_GITHUB_USER"
	EnvRepoName   = "JOT_REPO_NAME"
	EnvBranch     = "JOT_GIT_BRANCH"
)

// WorkflowConfig is the resolved view of the workflow environment. All
// fields are non-empty after a successful Resolve.
type WorkflowConfig struct {
	// GitHubUser is the lowercased owner of the origin remote.
	GitHubUser string

	// RepoName is the repository name of the origin remote.
	RepoName string

	// Branch is the currently checked out branch.
	Branch string

	// JupyterImage is the notebook conversion image reference.
	JupyterImage string

	// TestingImage is the site testing image reference.
	TestingImage string

	// WorkDir is the absolute path of the workspace root.
	WorkDir types.UniquePath

	// SourcePath is the path the workspace is mounted at inside the
	// workflow containers.
	SourcePath string
}

// Resolve builds the workflow configuration for the workspace at dir.
// Identity fields come from JOT_* environment variables when set and from
// the git repository otherwise.
func Resolve(ctx context.Context, dir string) (*WorkflowConfig, error) {
	const op errors.Op = "config.Resolve"
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}

	cfg := &WorkflowConfig{
		GitHubUser: os.Getenv(EnvGitHubUser),
		RepoName:   os.Getenv(EnvRepoName),
		Branch:     os.Getenv(EnvBranch),
		WorkDir:    types.UniquePath(abs),
	}

	if cfg.GitHubUser == "" || cfg.RepoName == "" || cfg.Branch == "" {
		if err := cfg.fillFromGit(ctx, abs); err != nil {
			return nil, errors.E(op, types.UniquePath(abs), err)
		}
	}

	cfg.JupyterImage = fmt.Sprintf("%s/%s/%s:%s_jupyter",
		Registry, cfg.GitHubUser, cfg.RepoName, cfg.Branch)
	cfg.TestingImage = fmt.Sprintf("%s/%s/%s:%s_testing",
		Registry, cfg.GitHubUser, cfg.RepoName, cfg.Branch)
	cfg.SourcePath = path.Join(containerSrcRoot, cfg.RepoName)

	if err := cfg.Validate(); err != nil {
		return nil, errors.E(op, types.UniquePath(abs), err)
	}
	return cfg, nil
}

func (c *WorkflowConfig) fillFromGit(ctx context.Context, dir string) error {
	g, err := gitutil.NewLocalGitRunner(dir)
	if err != nil {
		return err
	}

	if c.GitHubUser == "" || c.RepoName == "" {
		url, err := g.RemoteURL(ctx, "origin")
		if err != nil {
			return err
		}
		ref, err := gitutil.ParseRemoteURL(url)
		if err != nil {
			return err
		}
		if c.GitHubUser == "" {
			c.GitHubUser = ref.Owner
		}
		if c.RepoName == "" {
			c.RepoName = ref.Repo
		}
	}

	if c.Branch == "" {
		branch, err := g.CurrentBranch(ctx)
		if err != nil {
			return err
		}
		c.Branch = branch
	}
	return nil
}

// Validate verifies every configuration value is present.
func (c *WorkflowConfig) Validate() error {
	const op errors.Op = "config.Validate"
	for _, f := range c.Fields() {
		if f.Value == "" {
			return errors.E(op, errors.MissingParam,
				fmt.Errorf("configuration value %q is empty", f.Key))
		}
	}
	return nil
}

// Field is a single printable configuration entry.
type Field struct {
	Key   string
	Value string
}

// Fields returns the configuration as ordered key/value pairs. `jot
// config` prints them one per line as "<Key>: <Value>" and scripts parse
// that output, so both names and order are part of the contract.
func (c *WorkflowConfig) Fields() []Field {
	return []Field{
		{Key: "GitHub User", Value: c.GitHubUser},
		{Key: "Repository Name", Value: c.RepoName},
		{Key: "Git Branch", Value: c.Branch},
		{Key: "Docker Jupyter Image", Value: c.JupyterImage},
		{Key: "Docker Testing Image", Value: c.TestingImage},
		{Key: "Current Directory", Value: c.WorkDir.String()},
		{Key: "Docker Source Path", Value: c.SourcePath},
	}
}
