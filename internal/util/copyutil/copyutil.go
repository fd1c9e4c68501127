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

// Package copyutil contains the file copying helpers shared by the sync
// engine, the diff staging and the test fixtures.
package copyutil

import (
	"context"
	"os"
	"path/filepath"

	"github.com/jotdev/jot/internal/printer"
	"github.com/otiai10/copy"
)

// CloneDir copies the contents of src into dst. Entries whose base name
// is in ignore are skipped at any depth, symlinks are skipped with a
// warning. Existing destination directories are merged, existing files
// overwritten; stale destination files are left in place so the
// reconciliation commands can report them.
func CloneDir(ctx context.Context, src, dst string, ignore ...string) error {
	pr := printer.FromContextOrDie(ctx)
	skip := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		skip[name] = true
	}

	opts := copy.Options{
		Skip: func(srcinfo os.FileInfo, srcPath, destPath string) (bool, error) {
			return skip[filepath.Base(srcPath)], nil
		},
		OnSymlink: func(srcPath string) copy.SymlinkAction {
			// try to print relative path of symlink
			// if we can, else absolute path
			displayPath, err := filepath.Rel(src, srcPath)
			if err != nil {
				displayPath = srcPath
			}
			pr.Printf("[Warn] Ignoring symlink %q \n", displayPath)
			return copy.Skip
		},
	}
	return copy.Copy(src, dst, opts)
}

// CopyFile copies a single file, creating the destination directory when
// needed.
func CopyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0700); err != nil {
		return err
	}
	b, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	fi, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, b, fi.Mode().Perm())
}
