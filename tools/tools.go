//go:build tools
// +build tools

// Package tools documents development tool dependencies. They are installed
// globally with `go install` rather than tracked in go.mod because nothing at
// runtime imports them.
package tools

// Development tools (install via `go install`):
//
// golangci-lint - Lint runner; the nolint directives in this repo refer to
// its linters (ireturn, forbidigo).
//   Install: go install github.com/golangci/golangci-lint/cmd/golangci-lint@v1.64.8
//
// Air - Live reload while developing cmd/gatehouse
//   Install: go install github.com/air-verse/air@v1.63.0
//   Docs: https://github.com/air-verse/air
