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

package cmdcheck

import (
	"bytes"
	"testing"

	"github.com/jotdev/jot/internal/printer/fake"
	"github.com/jotdev/jot/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	r := NewRunner(fake.CtxWithPrinter(out, out), "jot")
	r.Dir = dir
	r.Command.SetArgs(args)
	r.Command.SetOut(out)
	r.Command.SetErr(out)
	err := r.Command.Execute()
	return out.String(), err
}

func TestCmd_posts(t *testing.T) {
	w := testutil.NewTestWorkspace(t).InitRepo(t).
		AddNotebook(t, "2023-05-01-first-post").
		AddConverted(t, "2023-05-01-first-post").
		Sync(t).
		RemoveNotebook(t, "2023-05-01-first-post")

	out, err := run(t, w.WorkspaceDirectory, "posts")
	if !assert.NoError(t, err) {
		return
	}
	assert.Contains(t, out, "Untracked posts found:")
	assert.Contains(t, out, "_posts/2023-05-01-first-post.md")
	assert.Contains(t, out, `Run "jot clean posts" to remove them.`)
	// check never removes
	assert.True(t, w.Exists("_posts/2023-05-01-first-post.md"))
}

func TestCmd_postsNoFindings(t *testing.T) {
	w := testutil.NewTestWorkspace(t).InitRepo(t).
		AddNotebook(t, "2023-05-01-first-post").
		AddConverted(t, "2023-05-01-first-post").
		Sync(t)

	out, err := run(t, w.WorkspaceDirectory, "posts")
	if !assert.NoError(t, err) {
		return
	}
	assert.Contains(t, out, "No untracked posts found.")
}

func TestCmd_images(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		AddConverted(t, "2023-05-01-first-post", "plot.png").
		Sync(t)
	w.WriteFile(t, "assets/images/2023-05-01-first-post_files/stale.png", testutil.PNGData(9))

	out, err := run(t, w.WorkspaceDirectory, "images")
	if !assert.NoError(t, err) {
		return
	}
	assert.Contains(t, out, "Checking renamed or lingering images")
	assert.Contains(t, out, "Lingering image detected: assets/images/2023-05-01-first-post_files/stale.png")
	assert.True(t, w.Exists("assets/images/2023-05-01-first-post_files/stale.png"))
}

func TestCmd_bothScopes(t *testing.T) {
	w := testutil.NewTestWorkspace(t).InitRepo(t).
		AddNotebook(t, "2023-05-01-first-post").
		AddConverted(t, "2023-05-01-first-post", "plot.png").
		Sync(t)

	out, err := run(t, w.WorkspaceDirectory)
	if !assert.NoError(t, err) {
		return
	}
	assert.Contains(t, out, "No untracked posts found.")
	assert.Contains(t, out, "No lingering images found.")
}

func TestCmd_imagesWithoutStaging(t *testing.T) {
	w := testutil.NewTestWorkspace(t)

	_, err := run(t, w.WorkspaceDirectory, "images")
	if !assert.Error(t, err) {
		return
	}
	assert.Contains(t, err.Error(), "_jupyter/converted")
}
