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
	"fmt"
	"os"
	"strings"

	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const frontMatterDelimiter = "---"

// FrontMatter is the YAML header the converter stamps onto every post.
type FrontMatter struct {
	Layout         string `yaml:"layout"`
	Title          string `yaml:"title"`
	CustomCSS      string `yaml:"custom_css"`
	IncludeMathjax bool   `yaml:"include_mathjax"`
}

// Post is a published Markdown post split into header and body.
type Post struct {
	FrontMatter FrontMatter
	Body        string
}

// ReadPost parses the Markdown file at path into front matter and body.
func ReadPost(path string) (*Post, error) {
	const op errors.Op = "site.ReadPost"
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.E(op, types.UniquePath(path), errors.IO, err)
	}
	content := strings.ReplaceAll(string(b), "\r\n", "\n")
	if !strings.HasPrefix(content, frontMatterDelimiter+"\n") {
		return nil, errors.E(op, types.UniquePath(path), errors.InvalidParam,
			fmt.Errorf("post has no front matter"))
	}
	rest := content[len(frontMatterDelimiter)+1:]
	idx := strings.Index(rest, "\n"+frontMatterDelimiter+"\n")
	if idx < 0 {
		return nil, errors.E(op, types.UniquePath(path), errors.InvalidParam,
			fmt.Errorf("post front matter is not terminated"))
	}
	header := rest[:idx+1]
	body := rest[idx+len(frontMatterDelimiter)+2:]

	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return nil, errors.E(op, types.UniquePath(path), errors.InvalidParam, err)
	}
	return &Post{FrontMatter: fm, Body: body}, nil
}

// TitleFromStem derives the human title the converter generates for a
// stem, so verification can predict front matter without re-running the
// conversion.
func TitleFromStem(stem string) string {
	parts := strings.Split(stem, "-")
	if len(parts) > 3 {
		parts = parts[3:]
	}
	return cases.Title(language.English).String(strings.Join(parts, " "))
}
