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

// Package blog models the workspace a jot command operates on: a Jekyll
// site root with a notebook staging area next to the published tree.
package blog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/types"
	"github.com/jotdev/jot/internal/util/pathutil"
)

// Well-known paths inside a workspace, slash-separated relative to the
// root.
const (
	NotebooksDir = "_jupyter/notebooks"
	StagingDir   = "_jupyter/converted"
	PostsDir     = "_posts"
	ImagesDir    = "assets/images"
	SiteDir      = "_site"
	ConfigFile   = "_config.yml"
)

const (
	notebookExt    = ".ipynb"
	postExt        = ".md"
	imageDirSuffix = "_files"
)

// Workspace is a single blog checkout on the local filesystem.
type Workspace struct {
	// UniquePath is the absolute path of the workspace root.
	UniquePath types.UniquePath

	// DisplayPath is the slash-separated path of the root relative to
	// the current working directory. Only for display.
	DisplayPath types.DisplayPath
}

// OpenWorkspace returns the workspace rooted at path. The directory must
// exist; the layout beneath it may be partially missing.
func OpenWorkspace(path string) (*Workspace, error) {
	const op errors.Op = "blog.OpenWorkspace"
	absPath, relPath, err := pathutil.ResolveAbsAndRelPaths(path)
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}

	fi, err := os.Stat(absPath)
	if err != nil {
		return nil, errors.E(op, types.UniquePath(absPath), errors.MissingParam,
			fmt.Errorf("workspace directory does not exist: %w", err))
	}
	if !fi.IsDir() {
		return nil, errors.E(op, types.UniquePath(absPath), errors.InvalidParam,
			fmt.Errorf("workspace path is not a directory"))
	}

	return &Workspace{
		UniquePath:  types.UniquePath(absPath),
		DisplayPath: types.DisplayPath(filepath.ToSlash(relPath)),
	}, nil
}

// Path joins the provided slash-separated relative path with the
// workspace root.
func (w *Workspace) Path(rel string) string {
	return filepath.Join(string(w.UniquePath), filepath.FromSlash(rel))
}

// Display returns the slash-separated path of p relative to the
// workspace root. Only for human output.
func (w *Workspace) Display(p string) string {
	rel, err := filepath.Rel(string(w.UniquePath), p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}

// NotebooksPath is the directory holding the notebook sources.
func (w *Workspace) NotebooksPath() string {
	return w.Path(NotebooksDir)
}

// StagingPath is the directory the converter writes into.
func (w *Workspace) StagingPath() string {
	return w.Path(StagingDir)
}

// StagingImagesPath is the image tree inside the staging directory.
func (w *Workspace) StagingImagesPath() string {
	return filepath.Join(w.StagingPath(), filepath.FromSlash(ImagesDir))
}

// PostsPath is the published posts directory.
func (w *Workspace) PostsPath() string {
	return w.Path(PostsDir)
}

// ImagesPath is the published image tree.
func (w *Workspace) ImagesPath() string {
	return w.Path(ImagesDir)
}

// SitePath is the generated site output directory.
func (w *Workspace) SitePath() string {
	return w.Path(SiteDir)
}

// ConfigPath is the Jekyll configuration file.
func (w *Workspace) ConfigPath() string {
	return w.Path(ConfigFile)
}

// HasStaging reports whether the staging directory exists.
func (w *Workspace) HasStaging() bool {
	fi, err := os.Stat(w.StagingPath())
	return err == nil && fi.IsDir()
}

// RequireStaging returns an error when the staging directory is missing.
// Commands that reconcile against staged artifacts refuse to guess in
// that case.
func (w *Workspace) RequireStaging() error {
	const op errors.Op = "blog.RequireStaging"
	if w.HasStaging() {
		return nil
	}
	return errors.E(op, w.UniquePath, errors.NoStaging,
		fmt.Errorf("staging directory %q does not exist", StagingDir))
}

// Post is a markdown artifact, staged or published.
type Post struct {
	// Stem is the file name without the .md extension.
	Stem string

	// Path is the absolute path of the file.
	Path string
}

// ImageDirName returns the image directory name for a post stem.
func ImageDirName(stem string) string {
	return stem + imageDirSuffix
}

// ImageDirStem returns the post stem a published image directory belongs
// to. The second return value is false for directories that don't follow
// the converter naming scheme.
func ImageDirStem(name string) (string, bool) {
	if !strings.HasSuffix(name, imageDirSuffix) {
		return "", false
	}
	return strings.TrimSuffix(name, imageDirSuffix), true
}

// NotebookName returns the notebook file name for a post stem.
func NotebookName(stem string) string {
	return stem + notebookExt
}

// ConvertedPosts lists the markdown files in the staging directory.
func (w *Workspace) ConvertedPosts() ([]Post, error) {
	return listPosts(w.StagingPath())
}

// PublishedPosts lists the markdown files in the published posts
// directory.
func (w *Workspace) PublishedPosts() ([]Post, error) {
	return listPosts(w.PostsPath())
}

// ImageDir is a per-post image directory, staged or published.
type ImageDir struct {
	// Name is the directory base name, <stem>_files for converter
	// output.
	Name string

	// Path is the absolute path of the directory.
	Path string
}

// ConvertedImageDirs lists the image directories in the staging tree.
func (w *Workspace) ConvertedImageDirs() ([]ImageDir, error) {
	return listImageDirs(w.StagingImagesPath())
}

// PublishedImageDirs lists the image directories in the published tree.
func (w *Workspace) PublishedImageDirs() ([]ImageDir, error) {
	return listImageDirs(w.ImagesPath())
}

// StagingImageDirFor returns the staged image directory path for a post
// stem.
func (w *Workspace) StagingImageDirFor(stem string) string {
	return filepath.Join(w.StagingImagesPath(), ImageDirName(stem))
}

// PublishedImageDirFor returns the published image directory path for a
// post stem.
func (w *Workspace) PublishedImageDirFor(stem string) string {
	return filepath.Join(w.ImagesPath(), ImageDirName(stem))
}

// Notebooks lists the stems of the notebooks in the workspace.
func (w *Workspace) Notebooks() ([]string, error) {
	const op errors.Op = "blog.Notebooks"
	entries, err := os.ReadDir(w.NotebooksPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.E(op, w.UniquePath, errors.IO, err)
	}

	var stems []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, notebookExt) {
			continue
		}
		stems = append(stems, strings.TrimSuffix(name, notebookExt))
	}
	return stems, nil
}

// HasNotebook reports whether the notebook for the provided stem exists.
func (w *Workspace) HasNotebook(stem string) bool {
	fi, err := os.Stat(filepath.Join(w.NotebooksPath(), NotebookName(stem)))
	return err == nil && !fi.IsDir()
}

func listPosts(dir string) ([]Post, error) {
	const op errors.Op = "blog.listPosts"
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.E(op, types.UniquePath(dir), errors.IO, err)
	}

	var posts []Post
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, postExt) {
			continue
		}
		posts = append(posts, Post{
			Stem: strings.TrimSuffix(name, postExt),
			Path: filepath.Join(dir, name),
		})
	}
	return posts, nil
}

func listImageDirs(dir string) ([]ImageDir, error) {
	const op errors.Op = "blog.listImageDirs"
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.E(op, types.UniquePath(dir), errors.IO, err)
	}

	var dirs []ImageDir
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dirs = append(dirs, ImageDir{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
		})
	}
	return dirs, nil
}
