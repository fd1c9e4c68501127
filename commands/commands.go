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

// Package commands assembles the jot command tree.
package commands

import (
	"context"

	"github.com/jotdev/jot/internal/cmdcheck"
	"github.com/jotdev/jot/internal/cmdclean"
	"github.com/jotdev/jot/internal/cmdconfig"
	"github.com/jotdev/jot/internal/cmdconvert"
	"github.com/jotdev/jot/internal/cmddiff"
	"github.com/jotdev/jot/internal/cmdenv"
	"github.com/jotdev/jot/internal/cmdsite"
	"github.com/jotdev/jot/internal/cmdsync"
	"github.com/jotdev/jot/internal/cmdtree"
	"github.com/jotdev/jot/internal/cmdunsync"
	"github.com/jotdev/jot/internal/cmdversion"
	"github.com/spf13/cobra"
)

// GetJotCommands returns the set of jot commands to be registered
func GetJotCommands(ctx context.Context, name, version string) []*cobra.Command {
	c := []*cobra.Command{
		cmdsync.NewCommand(ctx, name),
		cmdunsync.NewCommand(ctx, name),
		cmdcheck.NewCommand(ctx, name),
		cmdclean.NewCommand(ctx, name),
		cmddiff.NewCommand(ctx, name),
		cmdtree.NewCommand(ctx, name),
		cmdconfig.NewCommand(ctx, name),
		cmdconvert.NewCommand(ctx, name),
		cmdsite.NewCommand(ctx, name),
		cmdenv.NewCommand(ctx, name),
		cmdversion.NewCommand(ctx, name, version),
	}

	// apply cross-cutting issues to commands
	NormalizeCommand(c...)
	return c
}

// NormalizeCommand will modify commands to be consistent, e.g. silencing usage
func NormalizeCommand(c ...*cobra.Command) {
	for i := range c {
		cmd := c[i]
		// errors are resolved and printed in main, not by cobra
		cmd.SilenceUsage = true
		NormalizeCommand(cmd.Commands()...)
	}
}
