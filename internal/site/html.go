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
	"io"
	"strings"

	"github.com/jotdev/jot/internal/errors"
	"golang.org/x/net/html"
)

// Document is a parsed HTML page with the lookups verification needs.
type Document struct {
	root *html.Node
}

// ParseDocument parses an HTML page from r.
func ParseDocument(r io.Reader) (*Document, error) {
	const op errors.Op = "site.ParseDocument"
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.E(op, errors.InvalidParam, err)
	}
	return &Document{root: root}, nil
}

// Link is an anchor with its visible text.
type Link struct {
	Href string
	Text string
}

// SocialLink is an anchor wrapping an icon, as the site footer renders
// social media references.
type SocialLink struct {
	Href      string
	IconClass string
}

// Title returns the text of the page's <title> element.
func (d *Document) Title() string {
	n := findFirst(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "title"
	})
	if n == nil {
		return ""
	}
	return nodeText(n)
}

// MetaProperty returns the content of <meta property=name>.
func (d *Document) MetaProperty(name string) (string, bool) {
	return d.metaContent("property", name)
}

// MetaName returns the content of <meta name=name>.
func (d *Document) MetaName(name string) (string, bool) {
	return d.metaContent("name", name)
}

func (d *Document) metaContent(key, name string) (string, bool) {
	n := findFirst(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "meta" && attr(n, key) == name
	})
	if n == nil {
		return "", false
	}
	return attr(n, "content"), true
}

// Links returns every anchor on the page.
func (d *Document) Links() []Link {
	return collectLinks(d.root)
}

// LinksUnder returns the anchors nested in the first element matching
// tag and class, in document order.
func (d *Document) LinksUnder(tag, class string) []Link {
	container := findFirst(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag && hasClass(n, class)
	})
	if container == nil {
		return nil
	}
	return collectLinks(container)
}

// SocialLinks returns the icon anchors nested in the first element
// matching tag and class.
func (d *Document) SocialLinks(tag, class string) []SocialLink {
	container := findFirst(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag && hasClass(n, class)
	})
	if container == nil {
		return nil
	}
	var links []SocialLink
	walk(container, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "a" {
			return
		}
		link := SocialLink{Href: attr(n, "href")}
		if icon := findFirst(n, func(c *html.Node) bool {
			return c.Type == html.ElementNode && c.Data == "i"
		}); icon != nil {
			link.IconClass = attr(icon, "class")
		}
		links = append(links, link)
	})
	return links
}

// ImageSources returns the src of every <img> on the page.
func (d *Document) ImageSources() []string {
	var srcs []string
	walk(d.root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			srcs = append(srcs, attr(n, "src"))
		}
	})
	return srcs
}

func collectLinks(root *html.Node) []Link {
	var links []Link
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			links = append(links, Link{Href: attr(n, "href"), Text: nodeText(n)})
		}
	})
	return links
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	})
	return strings.TrimSpace(sb.String())
}
