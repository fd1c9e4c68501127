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

// Package browser verifies a served site through a real renderer.
//
// A headless browser catches what the static checks cannot: scripts
// that rewrite the document title and images that only break once the
// page executes. Only an already installed browser is driven; nothing
// is ever downloaded.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/jotdev/jot/internal/blog"
	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/site"
)

const navigationTimeout = 30 * time.Second

// Available reports whether a driveable browser is installed.
func Available() bool {
	_, has := launcher.LookPath()
	return has
}

// Verifier renders the served site and checks what came out.
type Verifier struct {
	// BaseURL is the root of the served site. Required.
	BaseURL string

	// Config is the loaded site configuration. Required.
	Config *site.Config

	// Workspace locates the published posts to render. Required.
	Workspace *blog.Workspace

	// Bin overrides the discovered browser binary.
	Bin string
}

// Run renders the homepage and every published post, one CheckResult
// per page.
func (v *Verifier) Run(ctx context.Context) ([]site.CheckResult, error) {
	const op errors.Op = "browser.Run"
	if v.Config == nil || v.Workspace == nil {
		return nil, errors.E(op, errors.MissingParam, fmt.Errorf("config and workspace must be provided"))
	}

	bin := v.Bin
	if bin == "" {
		found, has := launcher.LookPath()
		if !has {
			return nil, errors.E(op, fmt.Errorf("no browser found to drive"))
		}
		bin = found
	}
	controlURL, err := launcher.New().Bin(bin).Headless(true).Launch()
	if err != nil {
		return nil, errors.E(op, err)
	}
	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, errors.E(op, err)
	}
	defer b.Close()

	pages, err := v.pages()
	if err != nil {
		return nil, errors.E(op, err)
	}
	results := make([]site.CheckResult, 0, len(pages))
	for _, p := range pages {
		results = append(results, v.checkPage(b, p))
	}
	return results, nil
}

type renderedPage struct {
	check string
	url   string

	// title must appear in the rendered document title. Empty means the
	// title only has to be non-empty.
	title string
}

func (v *Verifier) pages() ([]renderedPage, error) {
	pages := []renderedPage{{check: "render homepage", url: v.pageURL("/")}}
	posts, err := v.Workspace.PublishedPosts()
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		ref, err := site.ParseStem(p.Stem)
		if err != nil {
			return nil, err
		}
		post, err := site.ReadPost(p.Path)
		if err != nil {
			return nil, err
		}
		pages = append(pages, renderedPage{
			check: "render post " + p.Stem,
			url:   v.pageURL("/" + ref.BuiltPath(v.Config.Permalink)),
			title: post.FrontMatter.Title,
		})
	}
	return pages, nil
}

func (v *Verifier) pageURL(path string) string {
	return strings.TrimSuffix(v.BaseURL, "/") + path
}

func (v *Verifier) checkPage(b *rod.Browser, rp renderedPage) site.CheckResult {
	result := site.CheckResult{Check: rp.check, Status: site.StatusPass}
	fail := func(format string, args ...interface{}) site.CheckResult {
		result.Status = site.StatusFail
		result.Detail = fmt.Sprintf(format, args...)
		return result
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: rp.url})
	if err != nil {
		return fail("cannot open %s: %v", rp.url, err)
	}
	defer page.Close()
	if err := page.Timeout(navigationTimeout).WaitLoad(); err != nil {
		return fail("%s did not finish loading: %v", rp.url, err)
	}

	title, err := page.Eval(`() => document.title`)
	if err != nil {
		return fail("cannot read the rendered title: %v", err)
	}
	rendered := title.Value.Str()
	if rendered == "" {
		return fail("rendered page has no title")
	}
	if rp.title != "" && !strings.Contains(rendered, rp.title) {
		return fail("rendered title %q does not contain %q", rendered, rp.title)
	}

	broken, err := page.Eval(`() => Array.from(document.images).
		filter(i => !i.complete || i.naturalWidth === 0).
		map(i => i.getAttribute("src"))`)
	if err != nil {
		return fail("cannot inspect rendered images: %v", err)
	}
	var srcs []string
	for _, s := range broken.Value.Arr() {
		srcs = append(srcs, s.Str())
	}
	if len(srcs) > 0 {
		return fail("images with no natural size: %s", strings.Join(srcs, ", "))
	}
	return result
}
