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

// Package cmdsite contains the site command group: building, serving,
// verifying and linting the Jekyll site.
package cmdsite

import (
	"context"

	"github.com/jotdev/jot/internal/util/cmdutil"
	"github.com/spf13/cobra"
)

// NewCommand returns the site command group.
func NewCommand(ctx context.Context, parent string) *cobra.Command {
	site := &cobra.Command{
		Use:   "site",
		Short: "Build, serve and verify the Jekyll site",
		Long: `Work with the generated site: build it with jekyll, serve it locally,
verify a served build against the workspace, and lint the site
configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := cmd.Flags().GetBool("help")
			if err != nil {
				return err
			}
			if h {
				return cmd.Help()
			}
			return cmd.Usage()
		},
	}
	cmdutil.FixDocs("jot", parent, site)
	site.AddCommand(
		NewBuildRunner(ctx, parent).Command,
		NewServeRunner(ctx, parent).Command,
		NewVerifyRunner(ctx, parent).Command,
		NewLintRunner(ctx, parent).Command,
	)
	return site
}
