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

// Package query builds GitHub pull request search queries from structured
// filter options.
package query

import (
	"net/url"
	"strings"
)

// suffix restricts every query to pull requests in active repositories.
const suffix = "is:pr archived:false"

// DefaultState is the state qualifier applied unless disabled.
const DefaultState = "open"

// Options are the filters a query is built from.
type Options struct {
	// Terms are free-form search terms and qualifiers, used as given.
	Terms []string

	User     string
	Repo     string
	Language string

	// State filters on pull request state. Empty disables the filter.
	State string

	// Labels adds one label qualifier per entry. NoLabel matches pull
	// requests without any label and is ignored when Labels is set.
	Labels  []string
	NoLabel bool

	// Not negates each entry.
	Not []string
}

// Build returns the search query for opts. Terms containing spaces are
// quoted.
func Build(opts Options) string {
	terms := append([]string(nil), opts.Terms...)

	switch {
	case len(opts.Labels) > 0:
		for _, label := range opts.Labels {
			terms = append(terms, "label:"+label)
		}
	case opts.NoLabel:
		terms = append(terms, "no:label")
	}

	for _, q := range []struct{ field, value string }{
		{"language", opts.Language},
		{"state", opts.State},
		{"user", opts.User},
		{"repo", opts.Repo},
	} {
		if q.value != "" {
			terms = append(terms, q.field+":"+q.value)
		}
	}

	for _, item := range opts.Not {
		terms = append(terms, "-"+item)
	}

	var b strings.Builder
	for _, term := range terms {
		if strings.Contains(term, " ") {
			term = `"` + term + `"`
		}
		b.WriteString(term)
		b.WriteByte(' ')
	}
	b.WriteString(suffix)
	return b.String()
}

// Warnings returns notes about filter combinations that likely do not do
// what the user meant.
func (o Options) Warnings() []string {
	var warnings []string
	if o.User != "" && o.Repo != "" {
		warnings = append(warnings, "specifying both user and repo will result in the union of the two qualifiers!")
	}
	return warnings
}

// SearchURL returns the github.com page showing the results of query.
func SearchURL(query string) string {
	return "https://github.com/pulls?q=" + strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
}
