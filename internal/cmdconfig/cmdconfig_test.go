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

package cmdconfig

import (
	"bytes"
	"testing"

	"github.com/jotdev/jot/internal/config"
	"github.com/jotdev/jot/internal/printer/fake"
	"github.com/jotdev/jot/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCmd(t *testing.T) {
	t.Setenv(config.EnvGitHubUser, "jdoe")
	t.Setenv(config.EnvRepoName, "blog")
	t.Setenv(config.EnvBranch, "master")
	w := testutil.NewTestWorkspace(t)

	out := &bytes.Buffer{}
	r := NewRunner(fake.CtxWithPrinter(out, out), "jot")
	r.Dir = w.WorkspaceDirectory
	r.Command.SetArgs([]string{})
	if !assert.NoError(t, r.Command.Execute()) {
		return
	}

	assert.Contains(t, out.String(), "GitHub User: jdoe\n")
	assert.Contains(t, out.String(), "Repository Name: blog\n")
	assert.Contains(t, out.String(), "Git Branch: master\n")
	assert.Contains(t, out.String(), "Docker Jupyter Image: ghcr.io/jdoe/blog:master_jupyter\n")
	assert.Contains(t, out.String(), "Docker Testing Image: ghcr.io/jdoe/blog:master_testing\n")
	assert.Contains(t, out.String(), "Docker Source Path: /usr/local/src/blog\n")
}

func TestCmd_outsideRepo(t *testing.T) {
	t.Setenv(config.EnvGitHubUser, "")
	t.Setenv(config.EnvRepoName, "")
	t.Setenv(config.EnvBranch, "")
	w := testutil.NewTestWorkspace(t)

	out := &bytes.Buffer{}
	r := NewRunner(fake.CtxWithPrinter(out, out), "jot")
	r.Dir = w.WorkspaceDirectory
	r.Command.SetArgs([]string{})
	assert.Error(t, r.Command.Execute())
}
