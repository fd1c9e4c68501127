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

package docker_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	. "github.com/jotdev/jot/internal/docker"
	"github.com/jotdev/jot/internal/util/toolexec"
	"github.com/stretchr/testify/assert"
)

func TestBuildArgs(t *testing.T) {
	testCases := map[string]struct {
		opts     BuildOptions
		expected string
	}{
		"defaults": {
			opts:     BuildOptions{},
			expected: "docker build -t ghcr.io/dev/blog:main_jupyter .",
		},
		"no cache": {
			opts:     BuildOptions{NoCache: true},
			expected: "docker build --no-cache -t ghcr.io/dev/blog:main_jupyter .",
		},
		"target and context": {
			opts:     BuildOptions{Target: "testing", ContextDir: "docker"},
			expected: "docker build --target testing -t ghcr.io/dev/blog:main_jupyter docker",
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			spec := BuildArgs("ghcr.io/dev/blog:main_jupyter", tc.opts)
			assert.Equal(t, tc.expected, spec.CommandLine())
		})
	}
}

func TestRunArgs(t *testing.T) {
	user := fmt.Sprintf("%d:%d", os.Getuid(), os.Getgid())
	testCases := map[string]struct {
		opts     RunOptions
		expected string
	}{
		"no tty": {
			opts:     RunOptions{Cmd: []string{"pytest"}},
			expected: "docker run --rm -i ghcr.io/dev/blog:main_testing pytest",
		},
		"tty": {
			opts:     RunOptions{TTY: true, Cmd: []string{"pytest"}},
			expected: "docker run --rm -it ghcr.io/dev/blog:main_testing pytest",
		},
		"volume and user": {
			opts: RunOptions{
				Volume:     true,
				User:       true,
				WorkDir:    "/home/dev/blog",
				SourcePath: "/usr/local/src/blog",
				Cmd:        []string{"pytest", "-q"},
			},
			expected: "docker run --rm -i -v /home/dev/blog:/usr/local/src/blog --user " + user +
				" -w /usr/local/src/blog ghcr.io/dev/blog:main_testing pytest -q",
		},
		"volume off keeps workdir": {
			opts: RunOptions{
				WorkDir:    "/home/dev/blog",
				SourcePath: "/usr/local/src/blog",
			},
			expected: "docker run --rm -i -w /usr/local/src/blog ghcr.io/dev/blog:main_testing",
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			spec := RunArgs("ghcr.io/dev/blog:main_testing", tc.opts)
			assert.Equal(t, tc.expected, spec.CommandLine())
		})
	}
}

func TestPullArgs(t *testing.T) {
	spec := PullArgs("ghcr.io/dev/blog:main_jupyter")
	assert.Equal(t, "docker pull ghcr.io/dev/blog:main_jupyter", spec.CommandLine())
}

func TestVersion(t *testing.T) {
	r := &toolexec.FakeRunner{
		Handler: func(toolexec.Spec) (toolexec.Result, error) {
			return toolexec.Result{Stdout: "Docker version 24.0.7, build afdd53b\n"}, nil
		},
	}

	v, err := Version(context.Background(), r)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.Equal(t, "24.0.7", v.String())
	assert.Equal(t, []string{"docker --version"}, r.CommandLines())
}

func TestVersion_unparsable(t *testing.T) {
	r := &toolexec.FakeRunner{
		Handler: func(toolexec.Spec) (toolexec.Result, error) {
			return toolexec.Result{Stdout: "podman version 4.9.3\n"}, nil
		},
	}

	_, err := Version(context.Background(), r)
	if !assert.Error(t, err) {
		t.FailNow()
	}
	assert.Contains(t, err.Error(), "cannot parse docker version")
}

func TestCheckVersion(t *testing.T) {
	testCases := map[string]struct {
		stdout string
		errMsg string
	}{
		"new enough": {
			stdout: "Docker version 24.0.7, build afdd53b\n",
		},
		"minimum": {
			stdout: "Docker version 20.10.0, build b485636\n",
		},
		"too old": {
			stdout: "Docker version 19.03.15, build 99e3ed8\n",
			errMsg: "too old",
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			r := &toolexec.FakeRunner{
				Handler: func(toolexec.Spec) (toolexec.Result, error) {
					return toolexec.Result{Stdout: tc.stdout}, nil
				},
			}
			err := CheckVersion(context.Background(), r)
			if tc.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			if !assert.Error(t, err) {
				t.FailNow()
			}
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}
