// Package giterror provides error inspection capabilities for GitHub API errors.
// It centralizes the logic for identifying different types of errors returned by
// the GitHub REST and GraphQL APIs, preferring the structured error types of the
// go-github client and falling back to message inspection for errors that carry
// no structure (GraphQL responses, wrapped transport failures).
package giterror
