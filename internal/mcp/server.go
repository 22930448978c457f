// Package mcp provides a Model Context Protocol server for commitmsg.
// It exposes commit message generation as MCP tools so an agent can ask for
// a message for whatever is staged in the working tree.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/commitmsg/internal/commitmsg"
	"github.com/gorewood/commitmsg/internal/git"
)

// Deps are the collaborators the tools call into.
type Deps struct {
	Git       git.Ops
	Generator *commitmsg.Generator
	Reporter  *commitmsg.Reporter
}

// NewServer creates an MCP server with all commitmsg tools registered.
func NewServer(version string, deps Deps) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "commitmsg",
		Version: version,
	}, nil)
	registerTools(server, deps)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// apiAnnotations marks tools that only read local state but call the
// text-generation API.
func apiAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:  true,
		OpenWorldHint: boolPtr(true),
	}
}

// amendAnnotations marks the history-rewriting amend tool.
func amendAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(true),
		OpenWorldHint:   boolPtr(false),
	}
}

// registerTools adds all commitmsg tools to the server.
func registerTools(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "suggest_commit_message",
		Description: "Suggest a conventional-commit message for the currently staged changes. Returns the message, a copy-pasteable git commit command, and advisory warnings. Nothing is committed.",
		Annotations: apiAnnotations(),
	}, handleSuggest(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "token_usage",
		Description: "Measure the token cost of a representative commit prompt and compare it with the configured quota (COMMITMSG_TOKEN_LIMIT).",
		Annotations: apiAnnotations(),
	}, handleTokenUsage(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "amend_commit",
		Description: "Replace the message of the last commit (git commit --amend -m). Staged changes are folded into the amended commit.",
		Annotations: amendAnnotations(),
	}, handleAmend(deps))
}
