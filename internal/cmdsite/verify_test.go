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

package cmdsite

import (
	"bytes"
	"testing"

	"github.com/jotdev/jot/internal/blog"
	"github.com/jotdev/jot/internal/printer/fake"
	"github.com/jotdev/jot/internal/testutil"
	"github.com/jotdev/jot/internal/testutil/sitebuilder"
	"github.com/stretchr/testify/assert"
)

const verifyConfig = `markdown: kramdown
permalink: /blog/:year/:month/:day/:title
pages_dir: pages
high_res_image: assets/images/high.png
low_res_image: assets/images/low.png
default_image: assets/images/default.png
url: https://example.com
contacts:
  Email: mailto:dev@example.com
  GitHub: https://github.com/dev
social:
  github: https://github.com/dev
exclude:
  - _jupyter/
`

// verifiableSite publishes two posts, writes the matching config and
// expands a consistent built site into _site.
func verifiableSite(t *testing.T, posts ...*sitebuilder.PostPage) *testutil.TestWorkspace {
	t.Helper()
	w := testutil.NewTestWorkspace(t).
		AddPublishedPost(t, "2023-05-01-first-post").
		AddPublishedPost(t, "2023-06-15-second-post")
	w.WriteFile(t, blog.ConfigFile, []byte(verifyConfig))
	sitebuilder.NewSite().
		WithHomeTitle("Notes").
		WithContactLink().
		WithCanonical("https://example.com", "assets/images/default.png").
		WithContact("Email", "mailto:dev@example.com").
		WithContact("GitHub", "https://github.com/dev").
		WithSocial("github", "https://github.com/dev").
		WithPosts(posts...).
		ExpandSite(t, w.Path(blog.SiteDir))
	return w
}

func TestVerifyCmd_serve(t *testing.T) {
	w := verifiableSite(t,
		sitebuilder.NewPostPage("2023-05-01-first-post"),
		sitebuilder.NewPostPage("2023-06-15-second-post"),
	)

	out := &bytes.Buffer{}
	r := NewVerifyRunner(fake.CtxWithPrinter(out, out), "jot")
	r.Dir = w.WorkspaceDirectory
	r.Command.SetArgs([]string{"--serve"})
	if !assert.NoError(t, r.Command.Execute()) {
		return
	}

	assert.Contains(t, out.String(), "CHECK")
	assert.Contains(t, out.String(), "post 2023-05-01-first-post")
	assert.Contains(t, out.String(), "PASS")
	assert.NotContains(t, out.String(), "FAIL")
	assert.Contains(t, out.String(), "All 6 checks passed.")
}

func TestVerifyCmd_reportsFailures(t *testing.T) {
	w := verifiableSite(t,
		sitebuilder.NewPostPage("2023-05-01-first-post").
			WithMetaOverride("og:title", "Wrong Title"),
		sitebuilder.NewPostPage("2023-06-15-second-post"),
	)

	out := &bytes.Buffer{}
	r := NewVerifyRunner(fake.CtxWithPrinter(out, out), "jot")
	r.Dir = w.WorkspaceDirectory
	r.Command.SetArgs([]string{"--serve"})
	err := r.Command.Execute()
	if !assert.Error(t, err) {
		return
	}
	assert.Contains(t, err.Error(), "1 of 6 checks failed")
	assert.Contains(t, out.String(), "FAIL")
	assert.Contains(t, out.String(), "og:title")
}

func TestVerifyCmd_missingConfig(t *testing.T) {
	w := testutil.NewTestWorkspace(t)

	out := &bytes.Buffer{}
	r := NewVerifyRunner(fake.CtxWithPrinter(out, out), "jot")
	r.Dir = w.WorkspaceDirectory
	r.Command.SetArgs([]string{})
	err := r.Command.Execute()
	if !assert.Error(t, err) {
		return
	}
	assert.Contains(t, err.Error(), "no site configuration found")
}
