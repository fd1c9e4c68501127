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

// Package cmdenv contains the env command group: the dockerized
// conversion and testing environment.
package cmdenv

import (
	"context"
	"fmt"

	"github.com/jotdev/jot/internal/config"
	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/util/cmdutil"
	"github.com/jotdev/jot/internal/util/toolexec"
	"github.com/spf13/cobra"
)

// Workflow image flavors.
const (
	FlavorJupyter = "jupyter"
	FlavorTesting = "testing"
)

// NewCommand returns the env command group.
func NewCommand(ctx context.Context, parent string) *cobra.Command {
	env := &cobra.Command{
		Use:   "env",
		Short: "Manage the dockerized workflow environment",
		Long: `Manage the docker images the publishing workflow runs in: check the
docker client, build the jupyter and testing images, and run the site
tests inside the testing image.`,
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
	cmdutil.FixDocs("jot", parent, env)
	env.AddCommand(
		NewCheckRunner(ctx, parent).Command,
		NewBuildRunner(ctx, parent).Command,
		NewTestRunner(ctx, parent).Command,
	)
	return env
}

// flavorImage maps an image flavor argument to the configured image
// reference.
func flavorImage(cfg *config.WorkflowConfig, flavor string) (string, error) {
	const op errors.Op = "cmdenv.flavorImage"
	switch flavor {
	case FlavorJupyter:
		return cfg.JupyterImage, nil
	case FlavorTesting:
		return cfg.TestingImage, nil
	default:
		return "", errors.E(op, errors.InvalidParam,
			fmt.Errorf("unknown image %q, want %s or %s", flavor, FlavorJupyter, FlavorTesting))
	}
}

// pickRunner returns the override when set, a dry runner in dry-run
// mode, and the real one otherwise.
func pickRunner(override toolexec.Runner, dryRun bool) toolexec.Runner {
	if override != nil {
		return override
	}
	if dryRun {
		return &toolexec.DryRunner{}
	}
	return &toolexec.ExecRunner{Verbose: true}
}
