// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"

	"github.com/sirseerhq/sirseer-approve/internal/engine"
	"github.com/sirseerhq/sirseer-approve/internal/output"
	"github.com/sirseerhq/sirseer-approve/internal/query"
	"github.com/spf13/cobra"
)

func (a *app) newApproveCommand() *cobra.Command {
	var (
		qf          queryFlags
		sf          sessionFlags
		assumeYes   bool
		concurrency int
		message     string
		report      string
	)

	cmd := &cobra.Command{
		Use:   "approve [query..]",
		Short: "Approve pull requests on GitHub that match a given query",
		Long: `Approve every mergeable pull request matching the query.

The query is made of the free terms given as arguments plus the qualifiers
added by the filter flags; "is:pr archived:false" is always appended. Unless
--assumeyes is given, the number of matches is shown, broken down by commit
status, and confirmation is asked for before anything is approved.

Authentication is read from, in order:
  - the --token flag
  - the GH_TOKEN or GITHUB_TOKEN environment variables
  - the github_token field of ~/.githubrc.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd, &sf, &qf, args)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("concurrency") {
				concurrency = s.cfg.GetConcurrency(qf.user)
			}
			if !cmd.Flags().Changed("message") {
				message = s.cfg.Defaults.Message
			}

			opts := engine.Options{
				Concurrency: concurrency,
				PerPage:     s.cfg.Defaults.PerPage,
				Logger:      s.log,
			}
			if report != "" {
				w, err := output.Open(report)
				if err != nil {
					return err
				}
				defer w.Close()
				opts.Report = w
			}

			return a.runApprove(cmd, s, engine.New(s.client, s.query, opts), assumeYes, message)
		},
	}

	addQueryFlags(cmd.Flags(), &qf)
	addSessionFlags(cmd.Flags(), &sf)
	cmd.Flags().BoolVarP(&assumeYes, "assumeyes", "y", false, "Assume yes; approve without showing the search check")
	cmd.Flags().IntVar(&concurrency, "concurrency", engine.DefaultConcurrency,
		"How many PRs to approve concurrently; a concurrency > 1 may cause other systems to misbehave if they have internal race conditions")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Body of the approving review")
	cmd.Flags().StringVar(&report, "report", "", "Write the outcome of every approval as NDJSON to this file (- for stdout)")

	return cmd
}

func (a *app) runApprove(cmd *cobra.Command, s *session, eng *engine.Engine, assumeYes bool, message string) error {
	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()

	if !assumeYes {
		counts, err := eng.Counts(ctx)
		if err != nil {
			return err
		}
		if counts.Total == 0 {
			fmt.Fprintln(stderr, "no PRs matched the given search")
			return nil
		}
		printBreakdown(stderr, counts)

		ok, err := a.confirm(fmt.Sprintf("approve %d PRs?", counts.Total))
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			fmt.Fprintf(stderr, "see search at %s\n", query.SearchURL(s.query))
			return nil
		}
	}

	approved, err := eng.Approve(ctx, message)
	fmt.Fprintf(stderr, "approved %d PRs\n", approved)
	return err
}
