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

package jekyll

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os/exec"
	"strconv"
	"syscall"
	"time"

	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/util/toolexec"
)

const (
	// DefaultHost is the loopback address jekyll binds by default.
	DefaultHost = "127.0.0.1"

	// DefaultPort is the port jekyll serves on by default.
	DefaultPort = 4000

	// stopGracePeriod is how long Stop waits after SIGTERM before it
	// kills the process.
	stopGracePeriod = time.Second

	readyPollInterval = 100 * time.Millisecond
	readyDialTimeout  = 100 * time.Millisecond
)

// Server manages a `jekyll serve` child process.
type Server struct {
	// Dir is the directory jekyll runs in.
	Dir string

	// Source overrides the site source directory.
	Source string

	// Host and Port select the bind address. Zero values fall back to
	// the jekyll defaults.
	Host string
	Port int

	cmd    *exec.Cmd
	waitCh chan error
	output *bytes.Buffer
}

func (s *Server) host() string {
	if s.Host == "" {
		return DefaultHost
	}
	return s.Host
}

func (s *Server) port() int {
	if s.Port == 0 {
		return DefaultPort
	}
	return s.Port
}

// URL returns the base URL the server responds on.
func (s *Server) URL() string {
	return fmt.Sprintf("http://%s:%d/", s.host(), s.port())
}

// Start launches jekyll serve and waits until the bound address accepts
// connections or ctx expires. A server that exits before becoming ready
// surfaces its output in the error.
func (s *Server) Start(ctx context.Context) error {
	const op errors.Op = "jekyll.Server.Start"
	if s.cmd != nil {
		return errors.E(op, errors.Internal, fmt.Errorf("jekyll server already running on %s", s.URL()))
	}

	p, err := exec.LookPath("jekyll")
	if err != nil {
		return errors.E(op, errors.Exec, &toolexec.LookupError{Tool: "jekyll", Err: err})
	}

	args := []string{"serve", "--host", s.host(), "--port", strconv.Itoa(s.port())}
	if s.Source != "" {
		args = append(args, "--source", s.Source)
	}

	cmd := exec.Command(p, args...)
	cmd.Dir = s.Dir
	s.output = &bytes.Buffer{}
	cmd.Stdout = s.output
	cmd.Stderr = s.output
	if err := cmd.Start(); err != nil {
		return errors.E(op, errors.Exec, err)
	}
	s.cmd = cmd
	s.waitCh = make(chan error, 1)
	go func() {
		s.waitCh <- cmd.Wait()
	}()

	return s.waitReady(ctx)
}

// waitReady polls the bind address until a TCP connection succeeds.
func (s *Server) waitReady(ctx context.Context) error {
	const op errors.Op = "jekyll.Server.Start"
	addr := net.JoinHostPort(s.host(), strconv.Itoa(s.port()))
	tick := time.NewTicker(readyPollInterval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = s.Stop()
			return errors.E(op, errors.Exec, fmt.Errorf("jekyll serve on %s did not become ready: %v", addr, ctx.Err()))
		case err := <-s.waitCh:
			s.cmd = nil
			return errors.E(op, errors.Exec, fmt.Errorf("jekyll serve exited before becoming ready: %v\n%s", err, s.output.String()))
		case <-tick.C:
			conn, err := net.DialTimeout("tcp", addr, readyDialTimeout)
			if err == nil {
				_ = conn.Close()
				return nil
			}
		}
	}
}

// Stop terminates the server, killing it if it does not exit within the
// grace period. Stopping a server that is not running is a no-op.
func (s *Server) Stop() error {
	if s.cmd == nil || s.cmd.Process == nil {
		return nil
	}
	_ = s.cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-s.waitCh:
	case <-time.After(stopGracePeriod):
		_ = s.cmd.Process.Kill()
		<-s.waitCh
	}
	s.cmd = nil
	return nil
}
