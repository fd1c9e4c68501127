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

package testutil

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PostTitle derives a human title from a post stem by dropping the
// date prefix and title-casing the remaining words.
func PostTitle(stem string) string {
	parts := strings.Split(stem, "-")
	if len(parts) > 3 {
		parts = parts[3:]
	}
	return cases.Title(language.English).String(strings.Join(parts, " "))
}

// PostContent renders a converted post with Jekyll front matter and a
// markdown image reference for every named image.
func PostContent(stem string, images ...string) []byte {
	b := new(bytes.Buffer)
	fmt.Fprintf(b, "---\nlayout: post\ntitle: %s\ncustom_css: styles\ninclude_mathjax: true\n---\n\n", PostTitle(stem))
	fmt.Fprintf(b, "Notes exported from %s.ipynb.\n", stem)
	for _, img := range images {
		fmt.Fprintf(b, "\n![png](/assets/images/%s_files/%s)\n", stem, img)
	}
	return b.Bytes()
}

// NotebookContent renders a minimal notebook document for the stem.
func NotebookContent(stem string) []byte {
	b := new(bytes.Buffer)
	fmt.Fprintf(b, `{
 "cells": [
  {
   "cell_type": "markdown",
   "metadata": {},
   "source": [
    "# %s"
   ]
  }
 ],
 "metadata": {},
 "nbformat": 4,
 "nbformat_minor": 5
}
`, PostTitle(stem))
	return b.Bytes()
}

// PNGData encodes a small grayscale PNG whose pixels derive from seed,
// so distinct seeds produce distinct bytes.
func PNGData(seed int) []byte {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = uint8((seed*31 + i*7) % 256)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
