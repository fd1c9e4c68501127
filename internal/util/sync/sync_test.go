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

package sync_test

import (
	"bytes"
	"testing"

	"github.com/jotdev/jot/internal/blog"
	"github.com/jotdev/jot/internal/printer/fake"
	"github.com/jotdev/jot/internal/testutil"
	. "github.com/jotdev/jot/internal/util/sync"
	"github.com/stretchr/testify/assert"
)

func TestCommand_Run(t *testing.T) {
	w := testutil.NewTestWorkspace(t)
	w.AddConverted(t, "2023-05-01-first-post", "2023-05-01-first-post_4_1.png")
	w.AddConverted(t, "2023-06-12-second-post")

	ws, err := blog.OpenWorkspace(w.WorkspaceDirectory)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	out := &bytes.Buffer{}
	err = Command{Workspace: ws}.Run(fake.CtxWithPrinter(out, out))
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	assert.True(t, w.Exists("_posts/2023-05-01-first-post.md"))
	assert.True(t, w.Exists("_posts/2023-06-12-second-post.md"))
	assert.True(t, w.Exists("assets/images/2023-05-01-first-post_files/2023-05-01-first-post_4_1.png"))
	assert.Contains(t, out.String(), "Syncing converted artifacts to the published tree")
	assert.Contains(t, out.String(), "_jupyter/converted/2023-05-01-first-post.md -> _posts/2023-05-01-first-post.md")
	assert.Contains(t, out.String(), "Syncing complete.")
}

func TestCommand_Run_overwritesPublished(t *testing.T) {
	w := testutil.NewTestWorkspace(t)
	w.AddConverted(t, "2023-05-01-first-post")
	w.WriteFile(t, "_posts/2023-05-01-first-post.md", []byte("stale content\n"))

	ws, err := blog.OpenWorkspace(w.WorkspaceDirectory)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	err = Command{Workspace: ws}.Run(fake.CtxWithNilPrinter())
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	assert.Equal(t, string(testutil.PostContent("2023-05-01-first-post")),
		w.ReadFile(t, "_posts/2023-05-01-first-post.md"))
}

func TestCommand_Run_leavesUnrelatedArtifacts(t *testing.T) {
	w := testutil.NewTestWorkspace(t)
	w.AddConverted(t, "2023-05-01-first-post")
	w.AddPublishedPost(t, "2022-01-01-old-post")
	w.AddPublishedImageDir(t, "2022-01-01-old-post", "2022-01-01-old-post_2_0.png")

	ws, err := blog.OpenWorkspace(w.WorkspaceDirectory)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	err = Command{Workspace: ws}.Run(fake.CtxWithNilPrinter())
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	// Sync merges; it never prunes the published tree.
	assert.True(t, w.Exists("_posts/2022-01-01-old-post.md"))
	assert.True(t, w.Exists("assets/images/2022-01-01-old-post_files/2022-01-01-old-post_2_0.png"))
	assert.True(t, w.Exists("_posts/2023-05-01-first-post.md"))
}

func TestCommand_Run_idempotent(t *testing.T) {
	w := testutil.NewTestWorkspace(t)
	w.AddConverted(t, "2023-05-01-first-post", "2023-05-01-first-post_4_1.png")

	ws, err := blog.OpenWorkspace(w.WorkspaceDirectory)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	ctx := fake.CtxWithNilPrinter()
	if !assert.NoError(t, Command{Workspace: ws}.Run(ctx)) {
		t.FailNow()
	}
	if !assert.NoError(t, Command{Workspace: ws}.Run(ctx)) {
		t.FailNow()
	}

	assert.True(t, w.Exists("_posts/2023-05-01-first-post.md"))
}

func TestCommand_Run_missingStaging(t *testing.T) {
	w := testutil.NewTestWorkspace(t)

	ws, err := blog.OpenWorkspace(w.WorkspaceDirectory)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	err = Command{Workspace: ws}.Run(fake.CtxWithNilPrinter())
	if !assert.Error(t, err) {
		t.FailNow()
	}
	assert.Contains(t, err.Error(), "staging directory")
}
