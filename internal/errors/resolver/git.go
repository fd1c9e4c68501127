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
	"fmt"
	"strings"

	"github.com/jotdev/jot/internal/gitutil"
)

//nolint:gochecknoinits
func init() {
	AddErrorResolver(&gitExecErrorResolver{})
}

const (
	genericGitExecError = `
Error: Failed to execute git command {{ printf "%q" .gitcmd }}

{{- template "ExecOutputDetails" . }}
`

	notARepositoryGitExecError = `
Error: Directory {{ printf "%q" .dir }} is not within a git repository. Reconciling untracked posts relies on git.

{{- template "ExecOutputDetails" . }}
`

	gitNotFoundError = `
Error: No git executable found. jot requires git to be installed and available in the path.

{{- template "ExecOutputDetails" . }}
`
)

// gitExecErrorResolver is an implementation of the ErrorResolver interface
// that can produce error messages for errors of the gitutil.GitExecError type.
type gitExecErrorResolver struct{}

func (*gitExecErrorResolver) Resolve(err error) (ResolvedResult, bool) {
	var gitExecErr *gitutil.GitExecError
	if !goerrors.As(err, &gitExecErr) {
		return ResolvedResult{}, false
	}
	fullCommand := fmt.Sprintf("git %s", strings.Join(gitExecErr.Args, " "))
	tmplArgs := map[string]interface{}{
		"gitcmd": fullCommand,
		"dir":    gitExecErr.Dir,
		"stdout": gitExecErr.StdOut,
		"stderr": gitExecErr.StdErr,
	}

	var tmpl string
	switch gitExecErr.Type {
	case gitutil.GitExecutableNotFound:
		tmpl = gitNotFoundError
	case gitutil.NotARepository:
		tmpl = notARepositoryGitExecError
	default:
		tmpl = genericGitExecError
	}
	return ResolvedResult{
		Message: ExecuteTemplate(tmpl, tmplArgs),
	}, true
}
