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

// Package site models the Jekyll site: its configuration, the permalink
// scheme, and the verification of built pages.
package site

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/types"
	"gopkg.in/yaml.v3"
)

// requiredKeys must be present in _config.yml or the rendered site is
// broken in ways the templates cannot recover from.
var requiredKeys = []string{
	"markdown",
	"permalink",
	"pages_dir",
	"high_res_image",
	"low_res_image",
	"default_image",
	"url",
	"contacts",
}

// optionalKeys are recommended but the site renders without them.
var optionalKeys = []string{
	"social",
	"exclude",
}

// Config is the subset of _config.yml the workflow relies on.
type Config struct {
	Markdown     string            `yaml:"markdown"`
	Permalink    string            `yaml:"permalink"`
	PagesDir     string            `yaml:"pages_dir"`
	HighResImage string            `yaml:"high_res_image"`
	LowResImage  string            `yaml:"low_res_image"`
	DefaultImage string            `yaml:"default_image"`
	URL          string            `yaml:"url"`
	Contacts     map[string]string `yaml:"contacts"`
	Social       map[string]string `yaml:"social"`
	Exclude      []string          `yaml:"exclude"`
}

// LoadConfig reads and validates the site configuration at path. A
// missing required key is an error; optional keys are left to Lint.
func LoadConfig(path string) (*Config, error) {
	const op errors.Op = "site.LoadConfig"
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.E(op, types.UniquePath(path), errors.Config, fmt.Errorf("no site configuration found"))
		}
		return nil, errors.E(op, types.UniquePath(path), errors.IO, err)
	}

	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, errors.E(op, types.UniquePath(path), errors.Config, err)
	}
	var missing []string
	for _, key := range requiredKeys {
		if _, found := raw[key]; !found {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, errors.E(op, types.UniquePath(path), errors.Config,
			fmt.Errorf("missing required keys: %s", strings.Join(missing, ", ")))
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, errors.E(op, types.UniquePath(path), errors.Config, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.E(op, types.UniquePath(path), err)
	}
	return &cfg, nil
}

// Validate checks that every required field carries a value. It is the
// struct-level counterpart of the key checks LoadConfig applies to the
// raw file, for configs assembled in code.
func (c *Config) Validate() error {
	const op errors.Op = "site.Config.Validate"
	fields := []struct {
		key   string
		empty bool
	}{
		{"markdown", c.Markdown == ""},
		{"permalink", c.Permalink == ""},
		{"pages_dir", c.PagesDir == ""},
		{"high_res_image", c.HighResImage == ""},
		{"low_res_image", c.LowResImage == ""},
		{"default_image", c.DefaultImage == ""},
		{"url", c.URL == ""},
		{"contacts", len(c.Contacts) == 0},
	}
	var missing []string
	for _, f := range fields {
		if f.empty {
			missing = append(missing, f.key)
		}
	}
	if len(missing) > 0 {
		return errors.E(op, errors.Config,
			fmt.Errorf("missing required keys: %s", strings.Join(missing, ", ")))
	}
	return nil
}

// LintResult collects configuration findings. Errors break the site,
// warnings are survivable.
type LintResult struct {
	Errors   []string
	Warnings []string
}

// Clean reports whether the lint found no errors.
func (r LintResult) Clean() bool {
	return len(r.Errors) == 0
}

// LintConfigFile checks _config.yml for missing keys and malformed
// values without giving up on the first finding.
func LintConfigFile(path string) (LintResult, error) {
	const op errors.Op = "site.LintConfigFile"
	var result LintResult

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return result, errors.E(op, types.UniquePath(path), errors.Config, fmt.Errorf("no site configuration found"))
		}
		return result, errors.E(op, types.UniquePath(path), errors.IO, err)
	}
	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return result, errors.E(op, types.UniquePath(path), errors.Config, err)
	}

	for _, key := range requiredKeys {
		if _, found := raw[key]; !found {
			result.Errors = append(result.Errors, fmt.Sprintf("missing required key: %s", key))
		}
	}
	for _, key := range optionalKeys {
		if _, found := raw[key]; !found {
			result.Warnings = append(result.Warnings, fmt.Sprintf("missing optional key: %s", key))
		}
	}

	if v, found := raw["contacts"]; found {
		if _, ok := v.(map[string]interface{}); !ok {
			result.Errors = append(result.Errors, "contacts must be a mapping of name to URL")
		}
	}
	if v, found := raw["social"]; found {
		if _, ok := v.(map[string]interface{}); !ok {
			result.Errors = append(result.Errors, "social must be a mapping of platform to URL")
		}
	}
	if v, found := raw["exclude"]; found {
		if _, ok := v.([]interface{}); !ok {
			result.Errors = append(result.Errors, "exclude must be a list of paths")
		}
	}
	if v, found := raw["url"]; found {
		if s, ok := v.(string); ok {
			if u, err := url.Parse(s); err != nil || u.Scheme == "" || u.Host == "" {
				result.Errors = append(result.Errors, fmt.Sprintf("url %q is not an absolute URL", s))
			}
		}
	}

	return result, nil
}

// SwapHost replaces the scheme and host of rawURL with those of base,
// keeping everything else. Built pages are fetched from a local server
// but advertise canonical URLs under the configured site host.
func SwapHost(rawURL, base string) (string, error) {
	const op errors.Op = "site.SwapHost"
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.E(op, errors.InvalidParam, err)
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", errors.E(op, errors.InvalidParam, err)
	}
	u.Scheme = b.Scheme
	u.Host = b.Host
	return u.String(), nil
}

// StripHTMLSuffix removes a trailing ".html" from a URL or path.
func StripHTMLSuffix(u string) string {
	return strings.TrimSuffix(u, ".html")
}
