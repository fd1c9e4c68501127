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

package toolexec

import (
	"context"
	"sync"
)

// FakeRunner is a scripted Runner implementation for tests. Every call is
// recorded; the Handler, when set, determines the result.
type FakeRunner struct {
	// Handler determines the result for a given spec. A nil Handler
	// reports success with empty output.
	Handler func(spec Spec) (Result, error)

	mu    sync.Mutex
	calls []Spec
}

var _ Runner = &FakeRunner{}

func (f *FakeRunner) Run(ctx context.Context, spec Spec) (Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, spec)
	f.mu.Unlock()

	if f.Handler != nil {
		return f.Handler(spec)
	}
	return Result{}, nil
}

// Calls returns a copy of the recorded invocations in order.
func (f *FakeRunner) Calls() []Spec {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := make([]Spec, len(f.calls))
	copy(calls, f.calls)
	return calls
}

// CommandLines returns the recorded invocations rendered as command lines,
// which keeps assertions in tests readable.
func (f *FakeRunner) CommandLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var lines []string
	for _, c := range f.calls {
		lines = append(lines, c.CommandLine())
	}
	return lines
}
