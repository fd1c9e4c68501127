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

package gitutil_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jotdev/jot/internal/errors"
	. "github.com/jotdev/jot/internal/gitutil"
	"github.com/jotdev/jot/internal/printer/fake"
	"github.com/stretchr/testify/assert"
)

func TestLocalGitRunner(t *testing.T) {
	testCases := map[string]struct {
		command        string
		args           []string
		expectedStdout string
		expectedErr    *GitExecError
	}{
		"successful command with output to stdout": {
			command:        "branch",
			args:           []string{"--show-current"},
			expectedStdout: "main",
		},
		"failed command with output to stderr": {
			command: "checkout",
			args:    []string{"does-not-exist"},
			expectedErr: &GitExecError{
				StdOut: "",
				StdErr: "error: pathspec 'does-not-exist' did not match any file(s) known to git",
			},
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			dir := t.TempDir()

			runner, err := NewLocalGitRunner(dir)
			if !assert.NoError(t, err) {
				t.FailNow()
			}
			_, err = runner.Run(fake.CtxWithDefaultPrinter(), "init", "--initial-branch=main")
			if !assert.NoError(t, err) {
				t.FailNow()
			}

			rr, err := runner.Run(fake.CtxWithDefaultPrinter(), append([]string{tc.command}, tc.args...)...)
			if tc.expectedErr != nil {
				var gitExecError *GitExecError
				if !errors.As(err, &gitExecError) {
					t.Error("expected error of type *GitExecError")
					t.FailNow()
				}
				assert.Equal(t, tc.expectedErr.StdOut, strings.TrimSpace(gitExecError.StdOut))
				assert.Equal(t, tc.expectedErr.StdErr, strings.TrimSpace(gitExecError.StdErr))
				return
			}

			if !assert.NoError(t, err) {
				t.FailNow()
			}

			assert.Equal(t, tc.expectedStdout, strings.TrimSpace(rr.Stdout))
		})
	}
}

func TestParseRemoteURL(t *testing.T) {
	testCases := map[string]struct {
		url           string
		expectedOwner string
		expectedRepo  string
		expectedErr   string
	}{
		"https remote": {
			url:           "https://github.com/User_Name/repo_name",
			expectedOwner: "user_name",
			expectedRepo:  "repo_name",
		},
		"https remote with .git suffix": {
			url:           "https://github.com/jotdev/jot.git",
			expectedOwner: "jotdev",
			expectedRepo:  "jot",
		},
		"ssh remote": {
			url:           "git@github.com:User_Name/repo_name.git",
			expectedOwner: "user_name",
			expectedRepo:  "repo_name",
		},
		"ssh remote without .git suffix": {
			url:           "git@github.com:jotdev/jot",
			expectedOwner: "jotdev",
			expectedRepo:  "jot",
		},
		"unsupported scheme": {
			url:         "ssh://gitlab.com/owner/repo.git",
			expectedErr: "invalid GitHub remote URL",
		},
		"missing repository segment": {
			url:         "https://github.com/owner",
			expectedErr: "invalid GitHub remote URL",
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			ref, err := ParseRemoteURL(tc.url)
			if tc.expectedErr != "" {
				if !assert.Error(t, err) {
					t.FailNow()
				}
				assert.Contains(t, err.Error(), tc.expectedErr)
				assert.Contains(t, err.Error(), tc.url)
				return
			}
			if !assert.NoError(t, err) {
				t.FailNow()
			}
			assert.Equal(t, tc.expectedOwner, ref.Owner)
			assert.Equal(t, tc.expectedRepo, ref.Repo)
		})
	}
}

func TestCurrentBranch(t *testing.T) {
	dir := t.TempDir()
	runner := initRepo(t, dir)

	branch, err := runner.CurrentBranch(fake.CtxWithDefaultPrinter())
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.Equal(t, "main", branch)
}

func TestRemoteURL(t *testing.T) {
	dir := t.TempDir()
	runner := initRepo(t, dir)

	url := "https://github.com/jotdev/jot.git"
	_, err := runner.Run(fake.CtxWithDefaultPrinter(), "remote", "add", "origin", url)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	remote, err := runner.RemoteURL(fake.CtxWithDefaultPrinter(), "origin")
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.Equal(t, url, remote)
}

func TestRemoteURL_noRemote(t *testing.T) {
	dir := t.TempDir()
	runner := initRepo(t, dir)

	_, err := runner.RemoteURL(fake.CtxWithDefaultPrinter(), "origin")
	assert.Error(t, err)
}

func TestUntrackedFiles(t *testing.T) {
	dir := t.TempDir()
	runner := initRepo(t, dir)
	ctx := fake.CtxWithDefaultPrinter()

	if !assert.NoError(t, os.MkdirAll(filepath.Join(dir, "_posts"), 0700)) {
		t.FailNow()
	}
	err := os.WriteFile(filepath.Join(dir, "_posts", "tracked.md"), []byte("tracked"), 0600)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	_, err = runner.Run(ctx, "add", ".")
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	_, err = runner.Run(ctx, "commit", "-m", "add post")
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	err = os.WriteFile(filepath.Join(dir, "_posts", "untracked.md"), []byte("untracked"), 0600)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	err = os.WriteFile(filepath.Join(dir, "elsewhere.md"), []byte("untracked"), 0600)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	files, err := runner.UntrackedFiles(ctx, "_posts")
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.Equal(t, []string{"_posts/untracked.md"}, files)
}

func initRepo(t *testing.T, dir string) *GitLocalRunner {
	runner, err := NewLocalGitRunner(dir)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	ctx := fake.CtxWithDefaultPrinter()
	for _, args := range [][]string{
		{"init", "--initial-branch=main"},
		{"config", "user.email", "you@example.com"},
		{"config", "user.name", "Your Name"},
		{"commit", "--allow-empty", "-m", "initial commit"},
	} {
		_, err = runner.Run(ctx, args...)
		if !assert.NoError(t, err) {
			t.FailNow()
		}
	}
	return runner
}
