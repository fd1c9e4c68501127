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

package dirdiff_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	. "github.com/jotdev/jot/internal/util/dirdiff"
	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	testCases := map[string]struct {
		left     map[string]string
		right    map[string]string
		expected func(left, right string) Result
	}{
		"identical trees": {
			left: map[string]string{
				"post.md":              "content",
				"assets/img/a.png":     "aaa",
				"assets/img/sub/b.png": "bbb",
			},
			right: map[string]string{
				"post.md":              "content",
				"assets/img/a.png":     "aaa",
				"assets/img/sub/b.png": "bbb",
			},
			expected: func(left, right string) Result {
				return Result{}
			},
		},
		"differing file": {
			left: map[string]string{
				"post.md": "old",
			},
			right: map[string]string{
				"post.md": "new",
			},
			expected: func(left, right string) Result {
				return Result{
					Differ: []Pair{{
						Left:  filepath.Join(left, "post.md"),
						Right: filepath.Join(right, "post.md"),
					}},
				}
			},
		},
		"one sided entries": {
			left: map[string]string{
				"shared.md":    "same",
				"only-left.md": "l",
			},
			right: map[string]string{
				"shared.md":           "same",
				"only/right/deep.png": "r",
			},
			expected: func(left, right string) Result {
				return Result{
					LeftOnly:  []string{filepath.Join(left, "only-left.md")},
					RightOnly: []string{filepath.Join(right, "only")},
				}
			},
		},
		"nested difference ordered after parent": {
			left: map[string]string{
				"top.md":        "x",
				"sub/nested.md": "left",
			},
			right: map[string]string{
				"top.md":        "y",
				"sub/nested.md": "right",
			},
			expected: func(left, right string) Result {
				return Result{
					Differ: []Pair{
						{
							Left:  filepath.Join(left, "top.md"),
							Right: filepath.Join(right, "top.md"),
						},
						{
							Left:  filepath.Join(left, "sub", "nested.md"),
							Right: filepath.Join(right, "sub", "nested.md"),
						},
					},
				}
			},
		},
		"ignored entries are skipped": {
			left: map[string]string{
				"post.md":         "same",
				"_site/index.md":  "generated left",
				".git/config":     "left",
				".jekyll-cache/x": "left",
			},
			right: map[string]string{
				"post.md": "same",
			},
			expected: func(left, right string) Result {
				return Result{}
			},
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			left := t.TempDir()
			right := t.TempDir()
			writeTree(t, left, tc.left)
			writeTree(t, right, tc.right)

			got, err := Compare(left, right, nil)
			if !assert.NoError(t, err) {
				t.FailNow()
			}
			want := tc.expected(left, right)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("unexpected result (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompare_typeMismatch(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()
	writeTree(t, left, map[string]string{"entry": "a file"})
	writeTree(t, right, map[string]string{"entry/child.md": "a directory"})

	got, err := Compare(left, right, nil)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	want := Result{
		Differ: []Pair{{
			Left:  filepath.Join(left, "entry"),
			Right: filepath.Join(right, "entry"),
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestEqual(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()
	writeTree(t, left, map[string]string{"a/b.md": "x"})
	writeTree(t, right, map[string]string{"a/b.md": "x"})

	equal, err := Equal(left, right, nil)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.True(t, equal)

	writeTree(t, right, map[string]string{"a/c.md": "y"})
	equal, err = Equal(left, right, nil)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.False(t, equal)
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if !assert.NoError(t, os.MkdirAll(filepath.Dir(p), 0700)) {
			t.FailNow()
		}
		if !assert.NoError(t, os.WriteFile(p, []byte(content), 0600)) {
			t.FailNow()
		}
	}
}
