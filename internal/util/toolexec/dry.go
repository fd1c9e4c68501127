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

	"github.com/jotdev/jot/internal/printer"
)

// DryRunner prints the command line each invocation would execute and
// reports success without running anything.
type DryRunner struct{}

var _ Runner = &DryRunner{}

func (r *DryRunner) Run(ctx context.Context, spec Spec) (Result, error) {
	pr := printer.FromContextOrDie(ctx)
	pr.Printf("%s\n", spec.CommandLine())
	return Result{}, nil
}
