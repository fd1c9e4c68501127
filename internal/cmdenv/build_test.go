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

package cmdenv

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/jotdev/jot/internal/config"
	"github.com/jotdev/jot/internal/printer/fake"
	"github.com/jotdev/jot/internal/testutil"
	"github.com/jotdev/jot/internal/util/cmdutil"
	"github.com/jotdev/jot/internal/util/toolexec"
	"github.com/stretchr/testify/assert"
)

func configEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvGitHubUser, "jdoe")
	t.Setenv(config.EnvRepoName, "blog")
	t.Setenv(config.EnvBranch, "master")
	t.Setenv(cmdutil.NoTTYEnv, "true")
}

func TestBuildCmd(t *testing.T) {
	configEnv(t)
	w := testutil.NewTestWorkspace(t)

	fr := &toolexec.FakeRunner{}
	out := &bytes.Buffer{}
	r := NewBuildRunner(fake.CtxWithPrinter(out, out), "jot")
	r.Dir = w.WorkspaceDirectory
	r.Exec = fr
	r.Command.SetArgs([]string{"jupyter"})
	if !assert.NoError(t, r.Command.Execute()) {
		return
	}

	lines := fr.CommandLines()
	if !assert.Len(t, lines, 2) {
		return
	}
	assert.Equal(t, "docker pull ghcr.io/jdoe/blog:master_jupyter", lines[0])
	assert.Contains(t, lines[1], "docker build --target jupyter -t ghcr.io/jdoe/blog:master_jupyter")
	assert.Contains(t, lines[1], w.WorkspaceDirectory)
	assert.Contains(t, out.String(), "Building jupyter image")
	assert.Contains(t, out.String(), "Built ghcr.io/jdoe/blog:master_jupyter")
}

func TestBuildCmd_noPull(t *testing.T) {
	configEnv(t)
	w := testutil.NewTestWorkspace(t)

	fr := &toolexec.FakeRunner{}
	out := &bytes.Buffer{}
	r := NewBuildRunner(fake.CtxWithPrinter(out, out), "jot")
	r.Dir = w.WorkspaceDirectory
	r.Exec = fr
	r.Command.SetArgs([]string{"testing", "--no-pull", "--no-cache"})
	if !assert.NoError(t, r.Command.Execute()) {
		return
	}

	lines := fr.CommandLines()
	if !assert.Len(t, lines, 1) {
		return
	}
	assert.Contains(t, lines[0], "docker build --no-cache --target testing -t ghcr.io/jdoe/blog:master_testing")
}

func TestBuildCmd_noPullEnv(t *testing.T) {
	configEnv(t)
	t.Setenv(cmdutil.NoPullEnv, "true")
	w := testutil.NewTestWorkspace(t)

	fr := &toolexec.FakeRunner{}
	out := &bytes.Buffer{}
	r := NewBuildRunner(fake.CtxWithPrinter(out, out), "jot")
	r.Dir = w.WorkspaceDirectory
	r.Exec = fr
	r.Command.SetArgs([]string{"jupyter"})
	if !assert.NoError(t, r.Command.Execute()) {
		return
	}
	assert.Len(t, fr.CommandLines(), 1)
}

func TestBuildCmd_pullFailureTolerated(t *testing.T) {
	configEnv(t)
	w := testutil.NewTestWorkspace(t)

	fr := &toolexec.FakeRunner{
		Handler: func(spec toolexec.Spec) (toolexec.Result, error) {
			if spec.Args[0] == "pull" {
				return toolexec.Result{}, fmt.Errorf("manifest unknown")
			}
			return toolexec.Result{}, nil
		},
	}
	out := &bytes.Buffer{}
	r := NewBuildRunner(fake.CtxWithPrinter(out, out), "jot")
	r.Dir = w.WorkspaceDirectory
	r.Exec = fr
	r.Command.SetArgs([]string{"jupyter"})
	if !assert.NoError(t, r.Command.Execute()) {
		return
	}

	assert.Contains(t, out.String(), "[Warn] cannot pull ghcr.io/jdoe/blog:master_jupyter")
	assert.Len(t, fr.CommandLines(), 2)
	assert.Contains(t, out.String(), "Built ghcr.io/jdoe/blog:master_jupyter")
}

func TestBuildCmd_unknownFlavor(t *testing.T) {
	configEnv(t)
	w := testutil.NewTestWorkspace(t)

	out := &bytes.Buffer{}
	r := NewBuildRunner(fake.CtxWithPrinter(out, out), "jot")
	r.Dir = w.WorkspaceDirectory
	r.Exec = &toolexec.FakeRunner{}
	r.Command.SetArgs([]string{"fedora"})
	err := r.Command.Execute()
	if !assert.Error(t, err) {
		return
	}
	assert.Contains(t, err.Error(), `unknown image "fedora", want jupyter or testing`)
}

func TestBuildCmd_dryRun(t *testing.T) {
	configEnv(t)
	w := testutil.NewTestWorkspace(t)

	out := &bytes.Buffer{}
	r := NewBuildRunner(fake.CtxWithPrinter(out, out), "jot")
	r.Dir = w.WorkspaceDirectory
	r.Command.SetArgs([]string{"jupyter", "--dry-run"})
	if !assert.NoError(t, r.Command.Execute()) {
		return
	}

	assert.Contains(t, out.String(), "docker pull ghcr.io/jdoe/blog:master_jupyter")
	assert.Contains(t, out.String(), "docker build --target jupyter")
	assert.NotContains(t, out.String(), "Building jupyter image")
}
