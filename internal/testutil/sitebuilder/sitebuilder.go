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

// Package sitebuilder composes built site trees for testing. The pages
// it renders carry the same structure and metadata as the Jekyll
// templates, so verification tests can run against a plain file server.
package sitebuilder

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jotdev/jot/internal/site"
)

// Site represents a built site that can be written to the file system
// with the Build function.
type Site struct {
	homeTitle    string
	contactLink  bool
	canonicalURL string
	defaultImage string
	contacts     []link
	social       []link
	posts        []*PostPage
}

type link struct {
	name string
	url  string
}

// NewSite creates a new built site for testing.
func NewSite() *Site {
	return &Site{
		homeTitle: "Notes",
	}
}

// WithHomeTitle sets the homepage title.
func (s *Site) WithHomeTitle(title string) *Site {
	s.homeTitle = title
	return s
}

// WithContactLink adds the Contact entry to the homepage navigation.
func (s *Site) WithContactLink() *Site {
	s.contactLink = true
	return s
}

// WithCanonical sets the canonical site URL and default image used to
// derive post metadata that is not set explicitly.
func (s *Site) WithCanonical(url, defaultImage string) *Site {
	s.canonicalURL = url
	s.defaultImage = defaultImage
	return s
}

// WithContact adds one entry to the contact page, in call order.
func (s *Site) WithContact(name, url string) *Site {
	s.contacts = append(s.contacts, link{name: name, url: url})
	return s
}

// WithSocial adds one icon link to the homepage footer, in call order.
func (s *Site) WithSocial(platform, url string) *Site {
	s.social = append(s.social, link{name: platform, url: url})
	return s
}

// WithPosts adds the provided post pages to the site.
func (s *Site) WithPosts(posts ...*PostPage) *Site {
	s.posts = append(s.posts, posts...)
	return s
}

// Build outputs the current data structure as a built site tree in the
// provided directory.
func (s *Site) Build(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), s.homepage(), 0600); err != nil {
		return err
	}
	if len(s.contacts) > 0 {
		pagesDir := filepath.Join(dir, "pages")
		if err := os.MkdirAll(pagesDir, 0700); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(pagesDir, "contact.html"), s.contactPage(), 0600); err != nil {
			return err
		}
	}
	for _, p := range s.posts {
		ref, err := site.ParseStem(p.stem)
		if err != nil {
			return err
		}
		rel := filepath.FromSlash(ref.BuiltPath(""))
		if err := os.MkdirAll(filepath.Join(dir, filepath.Dir(rel)), 0700); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, rel), s.postPage(p, ref), 0600); err != nil {
			return err
		}
		for _, src := range p.images {
			if err := writeImage(dir, rel, src); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeImage backs an img src with a placeholder file so the reference
// resolves when the tree is served. Sources are site-absolute or
// relative to the page.
func writeImage(dir, pageRel, src string) error {
	var rel string
	if strings.HasPrefix(src, "/") {
		rel = filepath.FromSlash(strings.TrimPrefix(src, "/"))
	} else {
		rel = filepath.Join(filepath.Dir(filepath.FromSlash(pageRel)), filepath.FromSlash(src))
	}
	target := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(target), 0700); err != nil {
		return err
	}
	return os.WriteFile(target, []byte("image placeholder"), 0600)
}

// ExpandSite writes the site into dir and fails the test on error.
func (s *Site) ExpandSite(t *testing.T, dir string) {
	if err := s.Build(dir); err != nil {
		t.Fatalf("cannot build site fixture: %v", err)
	}
}

func (s *Site) homepage() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html>\n<head><title>%s</title></head>\n<body>\n", s.homeTitle)
	b.WriteString("<nav><a href=\"/\">Home</a>")
	if s.contactLink {
		b.WriteString(" <a href=\"/pages/contact.html\">Contact</a>")
	}
	b.WriteString("</nav>\n")
	if len(s.social) > 0 {
		b.WriteString("<p class=\"social-media-links\">\n")
		for _, l := range s.social {
			fmt.Fprintf(&b, "  <a href=%q><i class=\"fab fa-%s\"></i></a>\n", l.url, l.name)
		}
		b.WriteString("</p>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.Bytes()
}

func (s *Site) contactPage() []byte {
	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><title>Contact</title></head>\n<body>\n")
	b.WriteString("<ul class=\"content-scroll\">\n")
	for _, l := range s.contacts {
		fmt.Fprintf(&b, "  <li><a href=%q>%s</a></li>\n", l.url, l.name)
	}
	b.WriteString("</ul>\n</body>\n</html>\n")
	return b.Bytes()
}

func (s *Site) postPage(p *PostPage, ref site.PostRef) []byte {
	title := p.title
	if title == "" {
		title = site.TitleFromStem(p.stem)
	}
	description := p.description
	if description == "" {
		description = fmt.Sprintf("Notes exported from %s.ipynb.", p.stem)
	}
	pageURL := p.pageURL
	if pageURL == "" {
		pageURL = strings.TrimSuffix(s.canonicalURL, "/") + "/" + site.StripHTMLSuffix(ref.BuiltPath(""))
	}
	image := p.image
	if image == "" {
		image = strings.TrimSuffix(s.canonicalURL, "/") + "/" + strings.TrimPrefix(s.defaultImage, "/")
	}

	meta := func(key string) string {
		if v, found := p.overrides[key]; found {
			return v
		}
		switch strings.SplitN(key, ":", 2)[1] {
		case "title":
			return title
		case "description":
			return description
		case "url":
			return pageURL
		case "image":
			return image
		}
		return ""
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html>\n<head>\n<title>%s</title>\n", title)
	for _, key := range []string{"og:title", "og:description", "og:url", "og:image"} {
		fmt.Fprintf(&b, "<meta property=%q content=%q>\n", key, meta(key))
	}
	for _, key := range []string{"twitter:title", "twitter:description", "twitter:url", "twitter:image"} {
		fmt.Fprintf(&b, "<meta name=%q content=%q>\n", key, meta(key))
	}
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n<p>%s</p>\n", title, description)
	for _, src := range p.images {
		fmt.Fprintf(&b, "<img src=%q>\n", src)
	}
	for _, src := range p.brokenImages {
		fmt.Fprintf(&b, "<img src=%q>\n", src)
	}
	b.WriteString("</body>\n</html>\n")
	return b.Bytes()
}

// PostPage represents one rendered post in the built site.
type PostPage struct {
	stem         string
	title        string
	description  string
	pageURL      string
	image        string
	images       []string
	brokenImages []string
	overrides    map[string]string
}

// NewPostPage creates a post page for the given date-prefixed stem.
// Title, description, and metadata default to what the conversion
// pipeline would have produced for that stem.
func NewPostPage(stem string) *PostPage {
	return &PostPage{
		stem:      stem,
		overrides: make(map[string]string),
	}
}

// WithTitle overrides the page title and the title metadata.
func (p *PostPage) WithTitle(title string) *PostPage {
	p.title = title
	return p
}

// WithDescription overrides the description metadata.
func (p *PostPage) WithDescription(description string) *PostPage {
	p.description = description
	return p
}

// WithImages adds img tags with the provided sources to the body and
// backs each source with a served file.
func (p *PostPage) WithImages(srcs ...string) *PostPage {
	p.images = append(p.images, srcs...)
	return p
}

// WithBrokenImages adds img tags whose sources are deliberately not
// backed by files.
func (p *PostPage) WithBrokenImages(srcs ...string) *PostPage {
	p.brokenImages = append(p.brokenImages, srcs...)
	return p
}

// WithMetaOverride replaces the rendered content of one metadata key,
// such as "og:url", leaving its twin untouched.
func (p *PostPage) WithMetaOverride(key, content string) *PostPage {
	p.overrides[key] = content
	return p
}
