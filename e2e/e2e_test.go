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

// Package e2e drives the assembled jot command tree the way a user
// would, asserting on the workspace it leaves behind.
package e2e

import (
	"context"
	"testing"

	"github.com/jotdev/jot/internal/testutil"
	"github.com/jotdev/jot/run"
	"github.com/stretchr/testify/assert"
)

const stem = "2023-05-01-first-post"

// jot runs the CLI with the given arguments against a fresh command
// tree.
func jot(t *testing.T, args ...string) error {
	t.Helper()
	cmd := run.GetMain(context.Background())
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestSync(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		AddConverted(t, stem, "plot.png")

	if !assert.NoError(t, jot(t, "--dir", w.WorkspaceDirectory, "sync")) {
		return
	}

	assert.True(t, w.Exists("_posts/"+stem+".md"))
	assert.True(t, w.Exists("assets/images/"+stem+"_files/plot.png"))
}

func TestSyncThenUnsync(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		AddConverted(t, stem, "plot.png")

	if !assert.NoError(t, jot(t, "--dir", w.WorkspaceDirectory, "sync")) {
		return
	}
	// --dir after the subcommand travels through the inherited flags.
	if !assert.NoError(t, jot(t, "unsync", "--dir", w.WorkspaceDirectory)) {
		return
	}

	assert.False(t, w.Exists("_posts/"+stem+".md"))
	assert.False(t, w.Exists("assets/images/"+stem+"_files"))
	assert.True(t, w.Exists("_jupyter/converted/"+stem+".md"))
}

func TestCleanAfterNotebookRemoval(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		InitRepo(t).
		AddNotebook(t, stem).
		AddConverted(t, stem, "plot.png")

	if !assert.NoError(t, jot(t, "--dir", w.WorkspaceDirectory, "sync")) {
		return
	}
	w.RemoveNotebook(t, stem)

	if !assert.NoError(t, jot(t, "--dir", w.WorkspaceDirectory, "clean", "posts")) {
		return
	}

	assert.False(t, w.Exists("_posts/"+stem+".md"))
	assert.False(t, w.Exists("assets/images/"+stem+"_files"))
	// Staging is the source of truth and survives cleaning.
	assert.True(t, w.Exists("_jupyter/converted/"+stem+".md"))
}

func TestCheckLeavesFindingsInPlace(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		InitRepo(t).
		AddNotebook(t, stem).
		AddConverted(t, stem, "plot.png")

	if !assert.NoError(t, jot(t, "--dir", w.WorkspaceDirectory, "sync")) {
		return
	}
	w.RemoveNotebook(t, stem)

	if !assert.NoError(t, jot(t, "--dir", w.WorkspaceDirectory, "check")) {
		return
	}

	assert.True(t, w.Exists("_posts/"+stem+".md"))
}

func TestSyncWithoutStaging(t *testing.T) {
	w := testutil.NewTestWorkspace(t)

	err := jot(t, "--dir", w.WorkspaceDirectory, "sync")
	if !assert.Error(t, err) {
		return
	}
	assert.Contains(t, err.Error(), "_jupyter/converted")
}
