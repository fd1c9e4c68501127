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

package site_test

import (
	"path/filepath"
	"testing"

	"github.com/jotdev/jot/internal/blog"
	"github.com/jotdev/jot/internal/testutil"
	"github.com/stretchr/testify/assert"
	. "github.com/jotdev/jot/internal/site"
)

func TestReadPost(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		AddPublishedPost(t, "2023-05-01-first-post")

	post, err := ReadPost(w.Path(filepath.Join(blog.PostsDir, "2023-05-01-first-post.md")))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.Equal(t, "post", post.FrontMatter.Layout)
	assert.Equal(t, "First Post", post.FrontMatter.Title)
	assert.Equal(t, "styles", post.FrontMatter.CustomCSS)
	assert.True(t, post.FrontMatter.IncludeMathjax)
	assert.Contains(t, post.Body, "Notes exported from 2023-05-01-first-post.ipynb.")
	assert.NotContains(t, post.Body, "---")
}

func TestReadPost_noFrontMatter(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		WriteFile(t, filepath.Join(blog.PostsDir, "plain.md"), []byte("just text\n"))

	_, err := ReadPost(w.Path(filepath.Join(blog.PostsDir, "plain.md")))
	if !assert.Error(t, err) {
		t.FailNow()
	}
	assert.Contains(t, err.Error(), "post has no front matter")
}

func TestReadPost_unterminatedFrontMatter(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		WriteFile(t, filepath.Join(blog.PostsDir, "broken.md"), []byte("---\nlayout: post\n"))

	_, err := ReadPost(w.Path(filepath.Join(blog.PostsDir, "broken.md")))
	if !assert.Error(t, err) {
		t.FailNow()
	}
	assert.Contains(t, err.Error(), "post front matter is not terminated")
}

func TestTitleFromStem(t *testing.T) {
	testCases := map[string]struct {
		stem string
		want string
	}{
		"date prefix is dropped": {
			stem: "2023-05-01-first-post",
			want: "First Post",
		},
		"multi word title": {
			stem: "2023-12-24-one-more-late-night",
			want: "One More Late Night",
		},
		"no date prefix": {
			stem: "about",
			want: "About",
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.want, TitleFromStem(tc.stem))
		})
	}
}
