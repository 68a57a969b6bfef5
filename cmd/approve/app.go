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
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/sirseerhq/sirseer-approve/internal/config"
	"github.com/sirseerhq/sirseer-approve/internal/engine"
	"github.com/sirseerhq/sirseer-approve/internal/github"
	"github.com/sirseerhq/sirseer-approve/internal/logging"
	"github.com/sirseerhq/sirseer-approve/internal/query"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// app holds the collaborators commands are built from, so tests can swap
// the GitHub client and the interactive prompt.
type app struct {
	newClient func(opts github.Options) (github.Client, error)
	confirm   func(title string) (bool, error)
}

func newApp() *app {
	return &app{
		newClient: func(opts github.Options) (github.Client, error) {
			return github.NewClient(opts)
		},
		confirm: confirmPrompt,
	}
}

// confirmPrompt asks a yes/no question on the terminal. Aborting the prompt
// counts as no.
func confirmPrompt(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// queryFlags are the filters every command builds its query from.
type queryFlags struct {
	user     string
	repo     string
	language string
	state    string
	noState  bool
	labels   []string
	noLabel  bool
	not      []string
}

func addQueryFlags(flags *pflag.FlagSet, q *queryFlags) {
	flags.StringVar(&q.user, "user", "", "Add a user: qualifier to the query, which can be the name of an organization")
	flags.StringVar(&q.repo, "repo", "", "Add a repo: qualifier to the query")
	flags.StringArrayVar(&q.labels, "label", nil, "Add a label: qualifier to the query (repeatable)")
	flags.BoolVar(&q.noLabel, "no-label", false, "Match PRs that have no label")
	flags.StringVar(&q.language, "language", "", "Add a language: qualifier to the query")
	flags.StringVar(&q.state, "state", query.DefaultState, "State of the PRs to include")
	flags.BoolVar(&q.noState, "no-state", false, "Do not filter on PR state")
	flags.StringArrayVar(&q.not, "not", nil, "Exclude PRs matching the given qualifier (repeatable)")
}

func (q *queryFlags) options(terms []string) query.Options {
	opts := query.Options{
		Terms:    terms,
		User:     q.user,
		Repo:     q.repo,
		Language: q.language,
		State:    q.state,
		Labels:   q.labels,
		NoLabel:  q.noLabel,
		Not:      q.not,
	}
	if q.noState {
		opts.State = ""
	}
	return opts
}

// sessionFlags configure how a command talks to GitHub.
type sessionFlags struct {
	configPath  string
	token       string
	requireAuth bool
	debug       bool
}

func addSessionFlags(flags *pflag.FlagSet, s *sessionFlags) {
	flags.StringVar(&s.configPath, "config", "", "Path to configuration file")
	flags.StringVar(&s.token, "token", "", "GitHub personal access token (overrides GH_TOKEN and GITHUB_TOKEN)")
	flags.BoolVar(&s.requireAuth, "require-auth", false, "Fail when no GitHub token is available")
	flags.BoolVar(&s.debug, "debug", false, "Output debugging information")
}

// session is what a command needs to run a query.
type session struct {
	cfg    *config.Config
	log    *zap.SugaredLogger
	client github.Client
	query  string
}

func (a *app) openSession(cmd *cobra.Command, s *sessionFlags, q *queryFlags, terms []string) (*session, error) {
	log := logging.New(cmd.ErrOrStderr(), s.debug)

	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	token, err := cfg.Token(s.token, s.requireAuth || cfg.Defaults.RequireAuth)
	if err != nil {
		return nil, err
	}
	if token == "" {
		log.Debug("no GitHub token found, searching anonymously")
	}

	client, err := a.newClient(github.Options{
		Token:           token,
		APIEndpoint:     cfg.GitHub.APIEndpoint,
		GraphQLEndpoint: cfg.GitHub.GraphQLEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	opts := q.options(terms)
	for _, warning := range opts.Warnings() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
	}
	built := query.Build(opts)
	log.Debugw("formatted query", "query", built)

	return &session{cfg: cfg, log: log, client: client, query: built}, nil
}

// printBreakdown writes the per-status counts, plus the matches without any
// reported status. Nothing is written when the query filters on status.
func printBreakdown(w io.Writer, counts *engine.Counts) {
	if counts.Statuses == nil {
		return
	}

	fmt.Fprintln(w, "commit status breakdown:")
	found, distinct := 0, 0
	for _, sc := range counts.Statuses {
		found += sc.Count
		if sc.Count > 0 {
			fmt.Fprintf(w, "  [%s] %d\n", sc.Status, sc.Count)
			distinct++
		}
	}
	if found < counts.Total {
		fmt.Fprintf(w, "  [unknown] %d\n", counts.Total-found)
	}
	if distinct > 1 {
		fmt.Fprintln(w, "limit commit statuses with the `status:` qualifier")
	}
	fmt.Fprintln(w)
}
