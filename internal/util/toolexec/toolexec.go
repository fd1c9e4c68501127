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

// Package toolexec runs the external programs jot drives (jekyll, docker,
// the notebook converter) behind a single Runner interface so commands can
// be executed, dry-run or faked in tests interchangeably.
package toolexec

import (
	"bytes"
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/jotdev/jot/internal/errors"
)

// Spec describes a single invocation of an external tool.
type Spec struct {
	// Name is the tool binary, resolved against the PATH.
	Name string

	// Args are the arguments, without the tool name.
	Args []string

	// Dir is the directory the command runs in. Empty means the current
	// working directory.
	Dir string

	// Env entries are appended to the parent environment.
	Env []string

	// Stdin is connected to the command when set.
	Stdin io.Reader
}

// CommandLine returns the spec rendered as a shell-style command line.
func (s Spec) CommandLine() string {
	return strings.Join(append([]string{s.Name}, s.Args...), " ")
}

// Result contains the captured output of a completed invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes tool invocations.
type Runner interface {
	Run(ctx context.Context, spec Spec) (Result, error)
}

// ExecRunner is the os/exec backed Runner used outside of tests.
type ExecRunner struct {
	// Verbose mirrors the child process output to the parent streams in
	// addition to capturing it.
	Verbose bool
}

var _ Runner = &ExecRunner{}

func (r *ExecRunner) Run(ctx context.Context, spec Spec) (Result, error) {
	const op errors.Op = "toolexec.Run"
	p, err := exec.LookPath(spec.Name)
	if err != nil {
		return Result{}, errors.E(op, errors.Exec, &LookupError{Tool: spec.Name, Err: err})
	}

	cmd := exec.CommandContext(ctx, p, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = append(os.Environ(), spec.Env...)
	if spec.Stdin != nil {
		cmd.Stdin = spec.Stdin
	}

	cmdStdout := &bytes.Buffer{}
	cmdStderr := &bytes.Buffer{}
	if r.Verbose {
		cmd.Stdout = io.MultiWriter(cmdStdout, os.Stdout)
		cmd.Stderr = io.MultiWriter(cmdStderr, os.Stderr)
	} else {
		cmd.Stdout = cmdStdout
		cmd.Stderr = cmdStderr
	}

	err = cmd.Run()
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if goerrors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return Result{}, errors.E(op, errors.Exec, &ExitError{
			Tool:     spec.Name,
			Args:     spec.Args,
			ExitCode: exitCode,
			StdOut:   cmdStdout.String(),
			StdErr:   cmdStderr.String(),
			Err:      err,
		})
	}
	return Result{
		Stdout: cmdStdout.String(),
		Stderr: cmdStderr.String(),
	}, nil
}

// Available reports whether the named tool can be resolved on the PATH.
func Available(tool string) bool {
	_, err := exec.LookPath(tool)
	return err == nil
}

// LookupError is returned when the tool binary can't be found on the PATH.
type LookupError struct {
	Tool string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no %q program on path: %v", e.Tool, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// ExitError is returned when the tool ran but exited with a non-zero code.
type ExitError struct {
	Tool     string
	Args     []string
	ExitCode int
	StdOut   string
	StdErr   string
	Err      error
}

func (e *ExitError) Error() string {
	b := new(strings.Builder)
	b.WriteString(e.Err.Error())
	b.WriteString(": ")
	b.WriteString(e.StdErr)
	return b.String()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
