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

// Package testutil builds throwaway blog workspaces for tests. It
// deliberately avoids the engine packages and shells out to git
// directly so that engine bugs cannot mask themselves in fixtures.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	assertnow "gotest.tools/assert"
)

const TmpDirPrefix = "test-jot"

var AssertNoError = assertnow.NilError

// TestWorkspace manages a local blog checkout for testing.
type TestWorkspace struct {
	// WorkspaceDirectory is the temp directory of the checkout
	WorkspaceDirectory string
}

// NewTestWorkspace creates an empty workspace in a temp directory.
// The directory is removed when the test finishes.
func NewTestWorkspace(t *testing.T) *TestWorkspace {
	t.Helper()
	return &TestWorkspace{WorkspaceDirectory: t.TempDir()}
}

// Path joins the provided slash-separated relative path with the
// workspace directory.
func (w *TestWorkspace) Path(rel string) string {
	return filepath.Join(w.WorkspaceDirectory, filepath.FromSlash(rel))
}

// Exists reports whether the relative path exists in the workspace.
func (w *TestWorkspace) Exists(rel string) bool {
	_, err := os.Stat(w.Path(rel))
	return err == nil
}

// WriteFile writes content to the relative path, creating parent
// directories as needed.
func (w *TestWorkspace) WriteFile(t *testing.T, rel string, content []byte) *TestWorkspace {
	t.Helper()
	p := w.Path(rel)
	if !assert.NoError(t, os.MkdirAll(filepath.Dir(p), 0700)) {
		t.FailNow()
	}
	if !assert.NoError(t, os.WriteFile(p, content, 0600)) {
		t.FailNow()
	}
	return w
}

// ReadFile returns the content of the relative path.
func (w *TestWorkspace) ReadFile(t *testing.T, rel string) string {
	t.Helper()
	b, err := os.ReadFile(w.Path(rel))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return string(b)
}

// Git runs a git command in the workspace and returns its trimmed
// stdout. The test fails if git exits non-zero.
func (w *TestWorkspace) Git(t *testing.T, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = w.WorkspaceDirectory
	var stderr strings.Builder
	cmd.Stderr = &stderr
	b, err := cmd.Output()
	if !assert.NoError(t, err, stderr.String()) {
		t.FailNow()
	}
	return strings.TrimSpace(string(b))
}

// InitRepo initializes a git repository on branch main. The staging
// area and the built site are ignored, as they are in a real checkout.
func (w *TestWorkspace) InitRepo(t *testing.T) *TestWorkspace {
	t.Helper()
	w.Git(t, "init", "--initial-branch=main")
	w.Git(t, "config", "user.email", "dev@example.com")
	w.Git(t, "config", "user.name", "Dev")
	w.WriteFile(t, ".gitignore", []byte("_jupyter/converted/\n_site/\n"))
	w.Git(t, "add", ".gitignore")
	w.Git(t, "commit", "-m", "initial commit")
	return w
}

// SetRemote points the origin remote at the provided URL.
func (w *TestWorkspace) SetRemote(t *testing.T, url string) *TestWorkspace {
	t.Helper()
	w.Git(t, "remote", "add", "origin", url)
	return w
}

// CommitAll stages and commits everything in the workspace.
func (w *TestWorkspace) CommitAll(t *testing.T, message string) *TestWorkspace {
	t.Helper()
	w.Git(t, "add", ".")
	w.Git(t, "commit", "-m", message)
	return w
}

// AddNotebook writes a notebook for the given post stem.
func (w *TestWorkspace) AddNotebook(t *testing.T, stem string) *TestWorkspace {
	t.Helper()
	w.WriteFile(t, "_jupyter/notebooks/"+stem+".ipynb", NotebookContent(stem))
	return w
}

// RemoveNotebook deletes the notebook for the given post stem,
// simulating a rename or retraction.
func (w *TestWorkspace) RemoveNotebook(t *testing.T, stem string) *TestWorkspace {
	t.Helper()
	if !assert.NoError(t, os.Remove(w.Path("_jupyter/notebooks/"+stem+".ipynb"))) {
		t.FailNow()
	}
	return w
}

// AddConverted writes a converted post into the staging area, plus a
// staged image directory holding the named images.
func (w *TestWorkspace) AddConverted(t *testing.T, stem string, images ...string) *TestWorkspace {
	t.Helper()
	w.WriteFile(t, "_jupyter/converted/"+stem+".md", PostContent(stem, images...))
	for i, img := range images {
		w.WriteFile(t, "_jupyter/converted/assets/images/"+stem+"_files/"+img, PNGData(i))
	}
	return w
}

// AddPublishedPost writes a post directly into the published tree,
// bypassing the staging area.
func (w *TestWorkspace) AddPublishedPost(t *testing.T, stem string, images ...string) *TestWorkspace {
	t.Helper()
	w.WriteFile(t, "_posts/"+stem+".md", PostContent(stem, images...))
	return w
}

// AddPublishedImageDir writes an image directory directly into the
// published tree.
func (w *TestWorkspace) AddPublishedImageDir(t *testing.T, stem string, images ...string) *TestWorkspace {
	t.Helper()
	for i, img := range images {
		w.WriteFile(t, "assets/images/"+stem+"_files/"+img, PNGData(i))
	}
	return w
}

// Sync copies staged posts and image directories into the published
// tree with plain file operations. Engine tests use this to arrange
// state without depending on the code under test.
func (w *TestWorkspace) Sync(t *testing.T) *TestWorkspace {
	t.Helper()
	staging := w.Path("_jupyter/converted")
	entries, err := os.ReadDir(staging)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(staging, e.Name()))
		if !assert.NoError(t, err) {
			t.FailNow()
		}
		w.WriteFile(t, "_posts/"+e.Name(), b)
	}
	imgRoot := w.Path("_jupyter/converted/assets/images")
	dirs, err := os.ReadDir(imgRoot)
	if os.IsNotExist(err) {
		return w
	}
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(imgRoot, d.Name()))
		if !assert.NoError(t, err) {
			t.FailNow()
		}
		for _, f := range files {
			b, err := os.ReadFile(filepath.Join(imgRoot, d.Name(), f.Name()))
			if !assert.NoError(t, err) {
				t.FailNow()
			}
			w.WriteFile(t, "assets/images/"+d.Name()+"/"+f.Name(), b)
		}
	}
	return w
}
