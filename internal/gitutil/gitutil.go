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

// Package gitutil runs git commands in the workspace repository.
package gitutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/jotdev/jot/internal/errors"
)

// NewLocalGitRunner returns a new GitLocalRunner for the repository
// containing dir.
func NewLocalGitRunner(dir string) (*GitLocalRunner, error) {
	const op errors.Op = "gitutil.NewLocalGitRunner"
	p, err := exec.LookPath("git")
	if err != nil {
		return nil, errors.E(op, errors.Git, &GitExecError{
			Type: GitExecutableNotFound,
			Dir:  dir,
			Err:  err,
		})
	}

	return &GitLocalRunner{
		gitPath: p,
		Dir:     dir,
	}, nil
}

// GitLocalRunner runs git commands in a local git repo.
type GitLocalRunner struct {
	// Path to the git executable.
	gitPath string

	// Dir is the directory the commands are run in.
	Dir string
}

type RunResult struct {
	Stdout string
	Stderr string
}

// Run runs a git command.
// Omit the 'git' part of the command.
// The first return value contains the output to Stdout and Stderr when
// running the command.
func (g *GitLocalRunner) Run(ctx context.Context, args ...string) (RunResult, error) {
	return g.run(ctx, false, args...)
}

// RunVerbose runs a git command.
// Omit the 'git' part of the command.
// The first return value contains the output to Stdout and Stderr when
// running the command.
func (g *GitLocalRunner) RunVerbose(ctx context.Context, args ...string) (RunResult, error) {
	return g.run(ctx, true, args...)
}

// run runs a git command.
// Omit the 'git' part of the command.
// The first return value contains the output to Stdout and Stderr when
// running the command.
func (g *GitLocalRunner) run(ctx context.Context, verbose bool, args ...string) (RunResult, error) {
	const op errors.Op = "gitutil.run"

	cmd := exec.CommandContext(ctx, g.gitPath, args...)
	cmd.Dir = g.Dir
	cmd.Env = os.Environ()

	cmdStdout := &bytes.Buffer{}
	cmdStderr := &bytes.Buffer{}
	if verbose {
		cmd.Stdout = io.MultiWriter(cmdStdout, os.Stdout)
		cmd.Stderr = io.MultiWriter(cmdStderr, os.Stderr)
	} else {
		cmd.Stdout = cmdStdout
		cmd.Stderr = cmdStderr
	}

	err := cmd.Run()
	if err != nil {
		return RunResult{}, errors.E(op, errors.Git, &GitExecError{
			Type:   determineErrorType(cmdStderr.String()),
			Args:   args,
			Dir:    g.Dir,
			Err:    err,
			StdOut: cmdStdout.String(),
			StdErr: cmdStderr.String(),
		})
	}
	return RunResult{
		Stdout: cmdStdout.String(),
		Stderr: cmdStderr.String(),
	}, nil
}

// GitExecErrorType describes the class of git failure so error messages
// to the user can be specific.
type GitExecErrorType int

const (
	Unknown GitExecErrorType = iota
	GitExecutableNotFound
	NotARepository
)

// determineErrorType looks at the output from git to classify the failure.
func determineErrorType(stderr string) GitExecErrorType {
	if strings.Contains(stderr, "not a git repository") {
		return NotARepository
	}
	return Unknown
}

type GitExecError struct {
	Type   GitExecErrorType
	Args   []string
	Dir    string
	Err    error
	StdErr string
	StdOut string
}

func (e *GitExecError) Error() string {
	b := new(strings.Builder)
	b.WriteString(e.Err.Error())
	b.WriteString(": ")
	b.WriteString(e.StdErr)
	return b.String()
}

func (e *GitExecError) Unwrap() error {
	return e.Err
}

// RemoteURL returns the URL configured for the named remote.
func (g *GitLocalRunner) RemoteURL(ctx context.Context, remote string) (string, error) {
	const op errors.Op = "gitutil.RemoteURL"
	rr, err := g.Run(ctx, "remote", "get-url", remote)
	if err != nil {
		return "", errors.E(op, err)
	}
	url := strings.TrimSpace(rr.Stdout)
	if url == "" {
		return "", errors.E(op, errors.Git,
			fmt.Errorf("remote %q has no URL configured", remote))
	}
	return url, nil
}

// CurrentBranch returns the name of the branch currently checked out.
func (g *GitLocalRunner) CurrentBranch(ctx context.Context) (string, error) {
	const op errors.Op = "gitutil.CurrentBranch"
	rr, err := g.Run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", errors.E(op, err)
	}
	branch := strings.TrimSpace(rr.Stdout)
	if branch == "" || branch == "HEAD" {
		return "", errors.E(op, errors.Git,
			fmt.Errorf("unable to determine the current branch, HEAD is detached"))
	}
	return branch, nil
}

// UntrackedFiles returns the paths, relative to the repository root, of
// files git does not track under the provided pathspecs.
func (g *GitLocalRunner) UntrackedFiles(ctx context.Context, pathspecs ...string) ([]string, error) {
	const op errors.Op = "gitutil.UntrackedFiles"
	args := append([]string{"ls-files", "--others", "--exclude-standard", "--"}, pathspecs...)
	rr, err := g.Run(ctx, args...)
	if err != nil {
		return nil, errors.E(op, err)
	}

	var files []string
	for _, line := range strings.Split(rr.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		files = append(files, line)
	}
	return files, nil
}

// RemoteRef identifies the owner and repository name of a GitHub remote.
type RemoteRef struct {
	// Owner is the account name, lowercased so it is usable in registry
	// image references.
	Owner string

	// Repo is the repository name with any .git suffix stripped.
	Repo string
}

var (
	httpsRemoteRegexp = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+?)(?:\.git)?/?$`)
	sshRemoteRegexp   = regexp.MustCompile(`^git@github\.com:([^/]+)/([^/]+?)(?:\.git)?$`)
)

// ParseRemoteURL extracts the owner and repository name from a GitHub
// remote URL. Both the https and the scp-like ssh forms are accepted.
func ParseRemoteURL(url string) (RemoteRef, error) {
	const op errors.Op = "gitutil.ParseRemoteURL"
	url = strings.TrimSpace(url)
	for _, re := range []*regexp.Regexp{httpsRemoteRegexp, sshRemoteRegexp} {
		if m := re.FindStringSubmatch(url); m != nil {
			return RemoteRef{
				Owner: strings.ToLower(m[1]),
				Repo:  m[2],
			}, nil
		}
	}
	return RemoteRef{}, errors.E(op, errors.InvalidParam,
		fmt.Errorf("invalid GitHub remote URL %q", url))
}
