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

package lingering

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jotdev/jot/internal/blog"
	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/printer"
)

// Image is a published image artifact whose staged counterpart is
// gone. When Dir is true the whole directory is obsolete.
type Image struct {
	// Path is the absolute path of the image file or directory.
	Path string

	// Dir marks a whole-directory finding.
	Dir bool
}

// FindImages compares the published image tree against the staging
// area. Only directories tied to a staged post and directories present
// in both trees are considered; anything else belongs to posts
// published in earlier sessions and is none of our business.
func FindImages(w *blog.Workspace) ([]Image, error) {
	const op errors.Op = "lingering.FindImages"
	if err := w.RequireStaging(); err != nil {
		return nil, errors.E(op, err)
	}

	stagedPosts := map[string]bool{}
	posts, err := w.ConvertedPosts()
	if err != nil {
		return nil, errors.E(op, w.UniquePath, err)
	}
	for _, p := range posts {
		stagedPosts[p.Stem] = true
	}

	stagedDirs := map[string]string{}
	dirs, err := w.ConvertedImageDirs()
	if err != nil {
		return nil, errors.E(op, w.UniquePath, err)
	}
	for _, d := range dirs {
		stagedDirs[d.Name] = d.Path
	}

	pubDirs, err := w.PublishedImageDirs()
	if err != nil {
		return nil, errors.E(op, w.UniquePath, err)
	}

	var findings []Image
	for _, d := range pubDirs {
		stem, ok := blog.ImageDirStem(d.Name)
		if !ok {
			continue
		}
		stagedDir, inStaging := stagedDirs[d.Name]
		if !inStaging {
			if stagedPosts[stem] {
				// The post was reconverted without images.
				findings = append(findings, Image{Path: d.Path, Dir: true})
			}
			continue
		}
		staged, err := imageNames(stagedDir)
		if err != nil {
			return nil, errors.E(op, w.UniquePath, err)
		}
		published, err := imageNames(d.Path)
		if err != nil {
			return nil, errors.E(op, w.UniquePath, err)
		}
		for name := range published {
			if !staged[name] {
				findings = append(findings, Image{Path: filepath.Join(d.Path, name)})
			}
		}
	}
	return findings, nil
}

func imageNames(dir string) (map[string]bool, error) {
	const op errors.Op = "lingering.imageNames"
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	names := map[string]bool{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names[e.Name()] = true
	}
	return names, nil
}

// ImagesCommand reconciles the published image tree against the
// staging area.
type ImagesCommand struct {
	// Workspace is the blog checkout to scan. Required.
	Workspace *blog.Workspace

	// Remove deletes findings instead of listing them.
	Remove bool
}

// Run runs the ImagesCommand.
func (c ImagesCommand) Run(ctx context.Context) error {
	const op errors.Op = "lingering.Images"
	pr := printer.FromContextOrDie(ctx)
	w := c.Workspace
	if w == nil {
		return errors.E(op, errors.MissingParam, fmt.Errorf("workspace must be provided"))
	}

	if c.Remove {
		pr.Printf("Clearing renamed or lingering images\n")
	} else {
		pr.Printf("Checking renamed or lingering images\n")
	}
	findings, err := FindImages(w)
	if err != nil {
		return errors.E(op, err)
	}
	if len(findings) == 0 {
		pr.Printf("No lingering images found.\n")
		return nil
	}

	for _, f := range findings {
		disp := w.Display(f.Path)
		switch {
		case f.Dir && c.Remove:
			if err := os.RemoveAll(f.Path); err != nil {
				return errors.E(op, w.UniquePath, errors.IO, err)
			}
			pr.Printf("Removed obsolete image directory: %s\n", disp)
		case f.Dir:
			pr.Printf("Lingering image directory detected: %s\n", disp)
		case c.Remove:
			if err := os.Remove(f.Path); err != nil {
				return errors.E(op, w.UniquePath, errors.IO, err)
			}
			pr.Printf("Removed lingering image: %s\n", disp)
		default:
			pr.Printf("Lingering image detected: %s\n", disp)
		}
	}
	if c.Remove {
		pr.Printf("Cleanup complete.\n")
	} else {
		pr.Printf("Run \"jot clean images\" to remove them.\n")
	}
	return nil
}
