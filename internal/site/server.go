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
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jotdev/jot/internal/errors"
)

const shutdownTimeout = 5 * time.Second

// StaticServer serves an already built site directory over HTTP. It is
// the serving mode that needs no jekyll on the path, and the fixture
// server for verification. Port 0 picks an ephemeral port.
type StaticServer struct {
	Dir  string
	Host string
	Port int

	ln   net.Listener
	srv  *http.Server
	done chan struct{}
}

func (s *StaticServer) host() string {
	if s.Host == "" {
		return "127.0.0.1"
	}
	return s.Host
}

// URL returns the base URL of the server. After Start it reflects the
// bound address, so an ephemeral port resolves to the real one.
func (s *StaticServer) URL() string {
	if s.ln != nil {
		return fmt.Sprintf("http://%s/", s.ln.Addr().String())
	}
	return fmt.Sprintf("http://%s:%d/", s.host(), s.Port)
}

// Start binds the listener and begins serving in the background.
func (s *StaticServer) Start() error {
	const op errors.Op = "site.StaticServer.Start"
	if s.srv != nil {
		return errors.E(op, errors.Internal, fmt.Errorf("server already running"))
	}
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.host(), s.Port))
	if err != nil {
		return errors.E(op, errors.IO, err)
	}
	s.ln = ln
	s.srv = &http.Server{Handler: http.FileServer(http.Dir(s.Dir))}
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		// Serve returns ErrServerClosed after Shutdown.
		_ = s.srv.Serve(ln)
	}()
	return nil
}

// Stop drains in-flight requests and releases the port. Safe to call
// on a server that never started.
func (s *StaticServer) Stop() error {
	const op errors.Op = "site.StaticServer.Stop"
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.srv.Shutdown(ctx)
	<-s.done
	s.srv = nil
	s.ln = nil
	if err != nil {
		return errors.E(op, errors.IO, err)
	}
	return nil
}
