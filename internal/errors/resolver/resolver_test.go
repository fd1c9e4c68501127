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

package resolver

import (
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/gitutil"
	"github.com/jotdev/jot/internal/types"
	"github.com/jotdev/jot/internal/util/toolexec"
	"github.com/stretchr/testify/assert"
)

func TestResolveError_DefaultExitCode(t *testing.T) {
	org := errorResolvers
	AddErrorResolver(&TestErrorResolver{})
	defer func() {
		errorResolvers = org
	}()

	re, ok := ResolveError(&TestError{})
	assert.True(t, ok)
	assert.Equal(t, 1, re.ExitCode)
}

func TestResolveError_noStaging(t *testing.T) {
	var err error = errors.E(errors.Op("sync.run"), errors.NoStaging,
		fmt.Errorf("no staged posts"))
	err = errors.E(errors.Op("cmdsync.runE"), types.UniquePath("/work/blog"), err)

	re, ok := ResolveError(err)
	assert.True(t, ok)
	assert.Contains(t, re.Message, `The staging directory "_jupyter/converted" does not exist in "/work/blog"`)
	assert.Contains(t, re.Message, `Run "jot convert" to populate it.`)
	assert.Equal(t, 1, re.ExitCode)
}

func TestResolveError_gitNotARepository(t *testing.T) {
	err := &gitutil.GitExecError{
		Type:   gitutil.NotARepository,
		Args:   []string{"ls-files", "--others"},
		Dir:    "/work/blog",
		Err:    fmt.Errorf("exit status 128"),
		StdErr: "fatal: not a git repository (or any of the parent directories): .git",
	}

	re, ok := ResolveError(err)
	assert.True(t, ok)
	assert.Contains(t, re.Message, `Directory "/work/blog" is not within a git repository.`)
	assert.Contains(t, re.Message, "Details:")
	assert.Contains(t, re.Message, "fatal: not a git repository")
}

func TestResolveError_gitGeneric(t *testing.T) {
	// A wrapped error still resolves, the resolver walks the chain.
	var err error = &gitutil.GitExecError{
		Args:   []string{"rev-parse", "--abbrev-ref", "HEAD"},
		Dir:    "/work/blog",
		Err:    fmt.Errorf("exit status 128"),
		StdErr: "fatal: ambiguous argument 'HEAD'",
	}
	err = errors.E(errors.Op("config.Resolve"), errors.Git, err)

	re, ok := ResolveError(err)
	assert.True(t, ok)
	assert.Contains(t, re.Message, `Failed to execute git command "git rev-parse --abbrev-ref HEAD"`)
	assert.Contains(t, re.Message, "fatal: ambiguous argument")
}

func TestResolveError_toolNotFound(t *testing.T) {
	err := &toolexec.LookupError{
		Tool: "jekyll",
		Err:  goerrors.New("executable file not found in $PATH"),
	}

	re, ok := ResolveError(err)
	assert.True(t, ok)
	assert.Contains(t, re.Message, "No jekyll executable found.")
	assert.Contains(t, re.Message, "requires jekyll to be installed")
}

func TestResolveError_toolExit(t *testing.T) {
	err := &toolexec.ExitError{
		Tool:     "jekyll",
		Args:     []string{"build", "--destination", "_site"},
		ExitCode: 127,
		StdErr:   "Could not find gem 'jekyll'",
		Err:      fmt.Errorf("exit status 127"),
	}

	re, ok := ResolveError(err)
	assert.True(t, ok)
	assert.Contains(t, re.Message, `Command "jekyll build --destination _site" exited with code 127.`)
	assert.Contains(t, re.Message, "Details:")
	assert.Contains(t, re.Message, "Could not find gem 'jekyll'")
}

func TestResolveError_unknownError(t *testing.T) {
	_, ok := ResolveError(fmt.Errorf("something unexpected"))
	assert.False(t, ok)
}

type TestError struct{}

func (t *TestError) Error() string {
	return "this is a test"
}

type TestErrorResolver struct{}

func (t *TestErrorResolver) Resolve(err error) (ResolvedResult, bool) {
	var testError *TestError
	if goerrors.As(err, &testError) {
		return ResolvedResult{
			Message: testError.Error(),
		}, true
	}
	return ResolvedResult{}, false
}
