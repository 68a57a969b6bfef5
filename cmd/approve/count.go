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
	"encoding/json"
	"fmt"

	"github.com/sirseerhq/sirseer-approve/internal/engine"
	"github.com/sirseerhq/sirseer-approve/internal/query"
	"github.com/spf13/cobra"
)

func (a *app) newCountCommand() *cobra.Command {
	var (
		qf       queryFlags
		sf       sessionFlags
		jsonOut  bool
		showLink bool
	)

	cmd := &cobra.Command{
		Use:   "count [query..]",
		Short: "Count the pull requests matching a query without approving them",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd, &sf, &qf, args)
			if err != nil {
				return err
			}

			eng := engine.New(s.client, s.query, engine.Options{
				PerPage: 1,
				Logger:  s.log,
			})
			counts, err := eng.Counts(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(out).Encode(struct {
					Query string `json:"query"`
					*engine.Counts
				}{Query: s.query, Counts: counts})
			}

			fmt.Fprintf(out, "%d PRs match %q\n", counts.Total, s.query)
			printBreakdown(out, counts)
			if showLink {
				fmt.Fprintf(out, "see search at %s\n", query.SearchURL(s.query))
			}
			return nil
		},
	}

	addQueryFlags(cmd.Flags(), &qf)
	addSessionFlags(cmd.Flags(), &sf)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the counts as JSON")
	cmd.Flags().BoolVar(&showLink, "link", false, "Print the github.com search URL")

	return cmd
}
