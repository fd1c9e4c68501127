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

package resolver

import (
	goerrors "errors"

	"github.com/jotdev/jot/internal/blog"
	"github.com/jotdev/jot/internal/errors"
)

//nolint:gochecknoinits
func init() {
	AddErrorResolver(&workspaceErrorResolver{})
}

const (
	noStagingError = `
Error: The staging directory {{ printf "%q" .dir }} does not exist{{- if gt (len .path) 0 }} in {{ printf "%q" .path }}{{- end }}. Run "jot convert" to populate it.
`
)

// workspaceErrorResolver is an implementation of the ErrorResolver
// interface that handles errors about the shape of the blog workspace.
type workspaceErrorResolver struct{}

func (*workspaceErrorResolver) Resolve(err error) (ResolvedResult, bool) {
	e := err
	path := ""
	for {
		var jotErr *errors.Error
		if !goerrors.As(e, &jotErr) {
			return ResolvedResult{}, false
		}
		if path == "" {
			path = string(jotErr.Path)
		}
		if jotErr.Kind == errors.NoStaging {
			return ResolvedResult{
				Message: ExecuteTemplate(noStagingError, map[string]interface{}{
					"dir":  blog.StagingDir,
					"path": path,
				}),
			}, true
		}
		e = jotErr.Err
		if e == nil {
			return ResolvedResult{}, false
		}
	}
}
