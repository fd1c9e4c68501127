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

// Package dirdiff compares two directory trees recursively by content.
package dirdiff

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"

	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/types"
)

// DefaultIgnore is the set of entries skipped at every depth. It covers
// the build output and the tool caches that show up in a workspace.
var DefaultIgnore = []string{
	"_site",
	".git",
	".github",
	".jekyll-cache",
	".mypy_cache",
	".pytest_cache",
}

// Pair references the same relative path in both trees.
type Pair struct {
	Left  string
	Right string
}

// Result describes how two directory trees differ.
type Result struct {
	// Differ lists paths present in both trees with different content.
	// A path that is a file on one side and a directory on the other is
	// also reported here.
	Differ []Pair

	// LeftOnly lists paths present only in the left tree. A directory
	// present on one side only is reported as the directory path alone,
	// its children are not listed.
	LeftOnly []string

	// RightOnly lists paths present only in the right tree.
	RightOnly []string
}

// Empty reports whether the trees matched.
func (r Result) Empty() bool {
	return len(r.Differ) == 0 && len(r.LeftOnly) == 0 && len(r.RightOnly) == 0
}

// Compare walks both trees and reports the differences. Entries whose
// base name is in ignore are skipped at every depth. A nil ignore means
// DefaultIgnore; pass an empty slice to compare everything.
func Compare(left, right string, ignore []string) (Result, error) {
	const op errors.Op = "dirdiff.Compare"
	if ignore == nil {
		ignore = DefaultIgnore
	}
	skip := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		skip[name] = true
	}

	res, err := compare(left, right, skip)
	if err != nil {
		return Result{}, errors.E(op, err)
	}
	return res, nil
}

// Equal is a convenience predicate over Compare.
func Equal(left, right string, ignore []string) (bool, error) {
	res, err := Compare(left, right, ignore)
	if err != nil {
		return false, err
	}
	return res.Empty(), nil
}

func compare(left, right string, skip map[string]bool) (Result, error) {
	var res Result

	leftEntries, err := readDir(left, skip)
	if err != nil {
		return res, err
	}
	rightEntries, err := readDir(right, skip)
	if err != nil {
		return res, err
	}

	names := make(map[string]bool, len(leftEntries)+len(rightEntries))
	for name := range leftEntries {
		names[name] = true
	}
	for name := range rightEntries {
		names[name] = true
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	// files and type mismatches first, then recurse into the common
	// subdirectories so a directory's own differences come before its
	// children's
	var commonDirs []string
	for _, name := range sorted {
		lp := filepath.Join(left, name)
		rp := filepath.Join(right, name)
		le, inLeft := leftEntries[name]
		re, inRight := rightEntries[name]

		switch {
		case inLeft && !inRight:
			res.LeftOnly = append(res.LeftOnly, lp)
		case !inLeft && inRight:
			res.RightOnly = append(res.RightOnly, rp)
		case le.IsDir() && re.IsDir():
			commonDirs = append(commonDirs, name)
		case le.IsDir() != re.IsDir():
			res.Differ = append(res.Differ, Pair{Left: lp, Right: rp})
		default:
			same, err := sameContent(lp, rp)
			if err != nil {
				return res, err
			}
			if !same {
				res.Differ = append(res.Differ, Pair{Left: lp, Right: rp})
			}
		}
	}

	for _, name := range commonDirs {
		sub, err := compare(filepath.Join(left, name), filepath.Join(right, name), skip)
		if err != nil {
			return res, err
		}
		res.Differ = append(res.Differ, sub.Differ...)
		res.LeftOnly = append(res.LeftOnly, sub.LeftOnly...)
		res.RightOnly = append(res.RightOnly, sub.RightOnly...)
	}
	return res, nil
}

func readDir(dir string, skip map[string]bool) (map[string]os.DirEntry, error) {
	const op errors.Op = "dirdiff.readDir"
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.E(op, types.UniquePath(dir), errors.IO, err)
	}

	byName := make(map[string]os.DirEntry, len(entries))
	for _, e := range entries {
		if skip[e.Name()] {
			continue
		}
		byName[e.Name()] = e
	}
	return byName, nil
}

func sameContent(left, right string) (bool, error) {
	const op errors.Op = "dirdiff.sameContent"
	lb, err := os.ReadFile(left)
	if err != nil {
		return false, errors.E(op, types.UniquePath(left), errors.IO, err)
	}
	rb, err := os.ReadFile(right)
	if err != nil {
		return false, errors.E(op, types.UniquePath(right), errors.IO, err)
	}
	return bytes.Equal(lb, rb), nil
}
