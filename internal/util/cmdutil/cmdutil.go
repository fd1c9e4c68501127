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

package cmdutil

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	StackTraceOnErrors = "COBRA_STACK_TRACE_ON_ERRORS"

	// NoTTYEnv disables pseudo-TTY allocation for container runs.
	NoTTYEnv = "JOT_NOTTY"

	// NoPullEnv skips the base image pull before builds.
	NoPullEnv = "JOT_NO_PULL"

	trueString = "true"
)

// StackOnError if true, will print a stack trace on failure.
var StackOnError bool

// FixDocs replaces instances of old with new in the docs for c
func FixDocs(old, new string, c *cobra.Command) {
	c.Use = strings.ReplaceAll(c.Use, old, new)
	c.Short = strings.ReplaceAll(c.Short, old, new)
	c.Long = strings.ReplaceAll(c.Long, old, new)
	c.Example = strings.ReplaceAll(c.Example, old, new)
}

// EnvTrue reports whether the named environment variable is set to a
// truthy value.
func EnvTrue(name string) bool {
	e := os.Getenv(name)
	return e == trueString || e == "1"
}

// WorkspaceDir returns the value of the persistent --dir flag, or "."
// when the command tree does not define one. Cobra merges inherited
// flags into Flags() only while executing, so both sets are consulted.
func WorkspaceDir(c *cobra.Command) string {
	var f *pflag.Flag
	if f = c.Flags().Lookup("dir"); f == nil {
		f = c.InheritedFlags().Lookup("dir")
	}
	if f == nil || f.Value.String() == "" {
		return "."
	}
	return f.Value.String()
}

func PrintErrorStacktrace() bool {
	return StackOnError || EnvTrue(StackTraceOnErrors)
}
