// Copyright 2024 The jot Authors
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
	"fmt"
	"strings"

	"github.com/jotdev/jot/internal/util/toolexec"
)

//nolint:gochecknoinits
func init() {
	AddErrorResolver(&toolExecErrorResolver{})
}

const (
	toolExitError = `
Error: Command {{ printf "%q" .cmd }} exited with code {{ .code }}.

{{- template "ExecOutputDetails" . }}
`

	toolNotFoundError = `
Error: No {{ .tool }} executable found. This command requires {{ .tool }} to be installed and available in the path.
`
)

// toolExecErrorResolver produces error messages for failures from the
// external tools jot drives (jekyll, docker, the notebook converter).
type toolExecErrorResolver struct{}

func (*toolExecErrorResolver) Resolve(err error) (ResolvedResult, bool) {
	var lookupErr *toolexec.LookupError
	if goerrors.As(err, &lookupErr) {
		return ResolvedResult{
			Message: ExecuteTemplate(toolNotFoundError, map[string]interface{}{
				"tool": lookupErr.Tool,
			}),
		}, true
	}

	var exitErr *toolexec.ExitError
	if !goerrors.As(err, &exitErr) {
		return ResolvedResult{}, false
	}
	fullCommand := strings.Join(append([]string{exitErr.Tool}, exitErr.Args...), " ")
	return ResolvedResult{
		Message: ExecuteTemplate(toolExitError, map[string]interface{}{
			"cmd":    fullCommand,
			"code":   fmt.Sprintf("%d", exitErr.ExitCode),
			"stdout": exitErr.StdOut,
			"stderr": exitErr.StdErr,
		}),
	}, true
}
