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
	"bytes"
	"testing"

	"github.com/jotdev/jot/internal/printer/fake"
	"github.com/jotdev/jot/internal/testutil"
	"github.com/jotdev/jot/internal/util/toolexec"
	"github.com/stretchr/testify/assert"
)

// jekyllRunner fakes a jekyll binary of the given version.
func jekyllRunner(version string) *toolexec.FakeRunner {
	return &toolexec.FakeRunner{
		Handler: func(spec toolexec.Spec) (toolexec.Result, error) {
			if spec.Args[0] == "--version" {
				return toolexec.Result{Stdout: "jekyll " + version}, nil
			}
			return toolexec.Result{}, nil
		},
	}
}

func TestBuildCmd(t *testing.T) {
	w := testutil.NewTestWorkspace(t)

	fr := jekyllRunner("4.3.2")
	out := &bytes.Buffer{}
	r := NewBuildRunner(fake.CtxWithPrinter(out, out), "jot")
	r.Dir = w.WorkspaceDirectory
	r.Exec = fr
	r.Command.SetArgs([]string{})
	if !assert.NoError(t, r.Command.Execute()) {
		return
	}

	lines := fr.CommandLines()
	if !assert.Len(t, lines, 2) {
		return
	}
	assert.Equal(t, "jekyll --version", lines[0])
	assert.Contains(t, lines[1], "jekyll build --source "+w.WorkspaceDirectory)
	assert.Contains(t, out.String(), "Building site")
	assert.Contains(t, out.String(), "Site built into _site")
}

func TestBuildCmd_extraOpts(t *testing.T) {
	w := testutil.NewTestWorkspace(t)

	fr := jekyllRunner("4.3.2")
	out := &bytes.Buffer{}
	r := NewBuildRunner(fake.CtxWithPrinter(out, out), "jot")
	r.Dir = w.WorkspaceDirectory
	r.Exec = fr
	r.Command.SetArgs([]string{"--destination", "/tmp/preview", "--jekyll-opts", "--drafts --future"})
	if !assert.NoError(t, r.Command.Execute()) {
		return
	}

	lines := fr.CommandLines()
	if !assert.Len(t, lines, 2) {
		return
	}
	assert.Contains(t, lines[1], "--destination /tmp/preview")
	assert.Contains(t, lines[1], "--drafts --future")
	assert.Contains(t, out.String(), "Site built into /tmp/preview")
}

func TestBuildCmd_oldJekyll(t *testing.T) {
	w := testutil.NewTestWorkspace(t)

	out := &bytes.Buffer{}
	r := NewBuildRunner(fake.CtxWithPrinter(out, out), "jot")
	r.Dir = w.WorkspaceDirectory
	r.Exec = jekyllRunner("3.7.0")
	r.Command.SetArgs([]string{})
	err := r.Command.Execute()
	if !assert.Error(t, err) {
		return
	}
	assert.Contains(t, err.Error(), "too old")
	assert.NotContains(t, out.String(), "Building site")
}
