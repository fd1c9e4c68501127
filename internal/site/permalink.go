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
	"strings"

	"github.com/jotdev/jot/internal/errors"
)

// Permalink is the scheme the site must configure so that post URLs
// line up with BuiltPath.
const Permalink = "/blog/:year/:month/:day/:title"

// PostRef locates one post in the built site, derived from its stem.
type PostRef struct {
	Year  string
	Month string
	Day   string
	Title string
	Stem  string
}

// ParseStem splits a date-prefixed post stem such as
// "2023-05-01-first-post" into its permalink components.
func ParseStem(stem string) (PostRef, error) {
	const op errors.Op = "site.ParseStem"
	parts := strings.SplitN(stem, "-", 4)
	if len(parts) < 4 {
		return PostRef{}, errors.E(op, errors.InvalidParam,
			fmt.Errorf("post stem %q is not date-prefixed", stem))
	}
	return PostRef{
		Year:  parts[0],
		Month: parts[1],
		Day:   parts[2],
		Title: parts[3],
		Stem:  stem,
	}, nil
}

// BuiltPath returns the site-relative file the permalink template
// renders the post to. An empty template falls back to Permalink.
// Two-digit years are disambiguated into this century; the permalink
// always renders four digits.
func (r PostRef) BuiltPath(permalink string) string {
	if permalink == "" {
		permalink = Permalink
	}
	year := r.Year
	if len(year) == 2 {
		year = "20" + year
	}
	expanded := strings.NewReplacer(
		":year", year,
		":month", r.Month,
		":day", r.Day,
		":title", r.Title,
	).Replace(permalink)
	return strings.TrimPrefix(expanded, "/") + ".html"
}
