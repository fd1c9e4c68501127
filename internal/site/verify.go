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

package site

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/jotdev/jot/internal/blog"
	"github.com/jotdev/jot/internal/errors"
	"golang.org/x/sync/errgroup"
)

// verifyConcurrency bounds parallel page fetches against the serving
// process.
const verifyConcurrency = 4

// Status is the outcome of a single verification check.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
	StatusSkip Status = "SKIP"
)

// CheckResult is one verification check with its outcome.
type CheckResult struct {
	Check  string
	Status Status
	Detail string
}

// HasFailures reports whether any check failed.
func HasFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

// Verifier fetches pages from a running site and checks that they
// agree with the workspace and its configuration. A failed check is a
// result, not an error; errors are reserved for not being able to run
// the checks at all.
type Verifier struct {
	// BaseURL is where the site is served, usually a local server.
	BaseURL string
	// Client overrides the HTTP client, mostly for tests.
	Client    *http.Client
	Config    *Config
	Workspace *blog.Workspace
}

// Run executes every check and returns the results in a stable order:
// the site-wide checks first, then one check per published post.
func (v *Verifier) Run(ctx context.Context) ([]CheckResult, error) {
	const op errors.Op = "site.Verifier.Run"
	if v.Config == nil || v.Workspace == nil {
		return nil, errors.E(op, errors.MissingParam, fmt.Errorf("verifier needs a config and a workspace"))
	}
	posts, err := v.Workspace.PublishedPosts()
	if err != nil {
		return nil, errors.E(op, err)
	}

	type check struct {
		name string
		fn   func(context.Context) (Status, string)
	}
	checks := []check{
		{"homepage", v.checkHomepage},
		{"contact link", v.checkContactLink},
		{"contact page", v.checkContactPage},
		{"social links", v.checkSocialLinks},
	}
	for _, p := range posts {
		p := p
		checks = append(checks, check{fmt.Sprintf("post %s", p.Stem), func(ctx context.Context) (Status, string) {
			return v.checkPost(ctx, p)
		}})
	}

	results := make([]CheckResult, len(checks))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(verifyConcurrency)
	for i, c := range checks {
		i, c := i, c
		eg.Go(func() error {
			status, detail := c.fn(egCtx)
			results[i] = CheckResult{Check: c.name, Status: status, Detail: detail}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, errors.E(op, err)
	}
	return results, nil
}

func (v *Verifier) checkHomepage(ctx context.Context) (Status, string) {
	doc, status, err := v.fetch(ctx, "")
	if err != nil {
		return StatusFail, err.Error()
	}
	if status != http.StatusOK {
		return StatusFail, fmt.Sprintf("homepage returned status %d", status)
	}
	title := doc.Title()
	if title == "" {
		return StatusFail, "homepage has no title"
	}
	if strings.Contains(strings.ToLower(title), "error") {
		return StatusFail, fmt.Sprintf("page title %q looks like an error page", title)
	}
	if problems := v.checkImages(ctx, doc, v.BaseURL); len(problems) > 0 {
		return StatusFail, strings.Join(problems, "; ")
	}
	return StatusPass, ""
}

// checkContactLink verifies the navigation: with more than one contact
// the homepage links to the contact page, with at most one it must not.
func (v *Verifier) checkContactLink(ctx context.Context) (Status, string) {
	doc, status, err := v.fetch(ctx, "")
	if err != nil {
		return StatusFail, err.Error()
	}
	if status != http.StatusOK {
		return StatusFail, fmt.Sprintf("homepage returned status %d", status)
	}
	var contact *Link
	for _, l := range doc.Links() {
		if l.Text == "Contact" {
			link := l
			contact = &link
			break
		}
	}
	if len(v.Config.Contacts) <= 1 {
		if contact != nil {
			return StatusFail, "Contact link present with at most one contact configured"
		}
		return StatusPass, ""
	}
	if contact == nil {
		return StatusFail, "no Contact link on the homepage"
	}
	href, err := joinURL(v.BaseURL, contact.Href)
	if err != nil {
		return StatusFail, fmt.Sprintf("cannot resolve Contact link %q: %v", contact.Href, err)
	}
	u, err := url.Parse(href)
	if err != nil {
		return StatusFail, fmt.Sprintf("cannot parse Contact link %q: %v", contact.Href, err)
	}
	if want := v.contactPagePath(); u.Path != want {
		return StatusFail, fmt.Sprintf("Contact link points at %q, want %q", u.Path, want)
	}
	return StatusPass, ""
}

func (v *Verifier) checkContactPage(ctx context.Context) (Status, string) {
	if len(v.Config.Contacts) <= 1 {
		return StatusSkip, "at most one contact configured"
	}
	doc, status, err := v.fetch(ctx, v.contactPagePath())
	if err != nil {
		return StatusFail, err.Error()
	}
	if status != http.StatusOK {
		return StatusFail, fmt.Sprintf("contact page returned status %d", status)
	}
	links := doc.LinksUnder("ul", "content-scroll")
	if len(links) != len(v.Config.Contacts) {
		return StatusFail, fmt.Sprintf("contact page lists %d links, want %d", len(links), len(v.Config.Contacts))
	}
	for _, l := range links {
		if _, found := v.Config.Contacts[l.Text]; !found {
			return StatusFail, fmt.Sprintf("unexpected contact link %q", l.Text)
		}
	}
	pageURL, err := joinURL(v.BaseURL, v.contactPagePath())
	if err != nil {
		return StatusFail, err.Error()
	}
	if problems := v.checkImages(ctx, doc, pageURL); len(problems) > 0 {
		return StatusFail, strings.Join(problems, "; ")
	}
	return StatusPass, ""
}

func (v *Verifier) checkSocialLinks(ctx context.Context) (Status, string) {
	if len(v.Config.Social) == 0 {
		return StatusSkip, "no social links configured"
	}
	doc, status, err := v.fetch(ctx, "")
	if err != nil {
		return StatusFail, err.Error()
	}
	if status != http.StatusOK {
		return StatusFail, fmt.Sprintf("homepage returned status %d", status)
	}
	links := doc.SocialLinks("p", "social-media-links")

	platforms := make([]string, 0, len(v.Config.Social))
	for platform := range v.Config.Social {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)
	for _, platform := range platforms {
		link, found := socialLinkFor(links, platform)
		if !found {
			return StatusFail, fmt.Sprintf("no %s icon in the social media links", platform)
		}
		if want := v.Config.Social[platform]; link.Href != want {
			return StatusFail, fmt.Sprintf("%s links to %q, want %q", platform, link.Href, want)
		}
	}
	return StatusPass, ""
}

// checkPost verifies one published post: the permalink resolves, and
// the page metadata agrees with the post's front matter and body.
func (v *Verifier) checkPost(ctx context.Context, p blog.Post) (Status, string) {
	ref, err := ParseStem(p.Stem)
	if err != nil {
		return StatusFail, fmt.Sprintf("cannot derive a permalink: %v", err)
	}
	post, err := ReadPost(p.Path)
	if err != nil {
		return StatusFail, err.Error()
	}
	builtPath := ref.BuiltPath(v.Config.Permalink)
	doc, status, err := v.fetch(ctx, builtPath)
	if err != nil {
		return StatusFail, err.Error()
	}
	if status != http.StatusOK {
		return StatusFail, fmt.Sprintf("%s returned status %d", builtPath, status)
	}

	pageURL, err := joinURL(v.BaseURL, builtPath)
	if err != nil {
		return StatusFail, err.Error()
	}
	canonical, err := SwapHost(pageURL, v.Config.URL)
	if err != nil {
		return StatusFail, err.Error()
	}
	wantURL := StripHTMLSuffix(canonical)
	wantImage, err := joinURL(v.Config.URL, v.Config.DefaultImage)
	if err != nil {
		return StatusFail, err.Error()
	}

	var problems []string
	expect := func(key, content string, found bool, want string) {
		switch {
		case !found:
			problems = append(problems, fmt.Sprintf("missing %s", key))
		case content != want:
			problems = append(problems, fmt.Sprintf("%s is %q, want %q", key, content, want))
		}
	}
	expectInBody := func(key, content string, found bool) {
		switch {
		case !found:
			problems = append(problems, fmt.Sprintf("missing %s", key))
		case !strings.Contains(post.Body, content):
			problems = append(problems, fmt.Sprintf("%s %q not taken from the post body", key, content))
		}
	}

	content, found := doc.MetaProperty("og:title")
	expect("og:title", content, found, post.FrontMatter.Title)
	content, found = doc.MetaProperty("og:description")
	expectInBody("og:description", content, found)
	content, found = doc.MetaProperty("og:url")
	expect("og:url", content, found, wantURL)
	content, found = doc.MetaProperty("og:image")
	expect("og:image", content, found, wantImage)

	content, found = doc.MetaName("twitter:title")
	expect("twitter:title", content, found, post.FrontMatter.Title)
	content, found = doc.MetaName("twitter:description")
	expectInBody("twitter:description", content, found)
	content, found = doc.MetaName("twitter:url")
	expect("twitter:url", content, found, wantURL)
	content, found = doc.MetaName("twitter:image")
	expect("twitter:image", content, found, wantImage)

	problems = append(problems, v.checkImages(ctx, doc, pageURL)...)

	if len(problems) > 0 {
		return StatusFail, strings.Join(problems, "; ")
	}
	return StatusPass, ""
}

// checkImages resolves every img on the page against the page URL and
// confirms the target is served.
func (v *Verifier) checkImages(ctx context.Context, doc *Document, pageURL string) []string {
	var problems []string
	for _, src := range doc.ImageSources() {
		if src == "" {
			problems = append(problems, "img tag with an empty src")
			continue
		}
		resolved, err := joinURL(pageURL, src)
		if err != nil {
			problems = append(problems, fmt.Sprintf("img src %q does not resolve: %v", src, err))
			continue
		}
		status, err := v.headStatus(ctx, resolved)
		if err != nil {
			problems = append(problems, fmt.Sprintf("img %s: %v", src, err))
			continue
		}
		if status != http.StatusOK {
			problems = append(problems, fmt.Sprintf("img %s returned status %d", src, status))
		}
	}
	return problems
}

func (v *Verifier) contactPagePath() string {
	return path.Join("/", v.Config.PagesDir, "contact.html")
}

func (v *Verifier) fetch(ctx context.Context, ref string) (*Document, int, error) {
	u, err := joinURL(v.BaseURL, ref)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := v.client().Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	doc, err := ParseDocument(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return doc, resp.StatusCode, nil
}

func (v *Verifier) headStatus(ctx context.Context, u string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return 0, err
	}
	resp, err := v.client().Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func (v *Verifier) client() *http.Client {
	if v.Client != nil {
		return v.Client
	}
	return http.DefaultClient
}

func socialLinkFor(links []SocialLink, platform string) (SocialLink, bool) {
	for _, l := range links {
		fields := strings.Fields(l.IconClass)
		var brand, match bool
		for _, f := range fields {
			if f == "fab" {
				brand = true
			}
			if f == "fa-"+platform {
				match = true
			}
		}
		if brand && match {
			return l, true
		}
	}
	return SocialLink{}, false
}

func joinURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}
