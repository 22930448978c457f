package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/commitmsg/internal/commitmsg"
)

// --- Suggest tool ---

// SuggestInput is the input for the suggest_commit_message tool (no parameters needed).
type SuggestInput struct{}

// SuggestOutput is the output for the suggest_commit_message tool.
type SuggestOutput struct {
	Staged     bool     `json:"staged"               jsonschema:"whether anything is staged"`
	Message    string   `json:"message,omitempty"    jsonschema:"suggested commit message"`
	Command    string   `json:"command,omitempty"    jsonschema:"git commit command using the message"`
	Paths      []string `json:"paths,omitempty"      jsonschema:"staged file paths"`
	Files      int      `json:"files"                jsonschema:"number of staged files"`
	Insertions int      `json:"insertions"           jsonschema:"staged lines added"`
	Deletions  int      `json:"deletions"            jsonschema:"staged lines removed"`
	Warnings   []string `json:"warnings,omitempty"   jsonschema:"advisory warnings about the message"`
}

func handleSuggest(deps Deps) mcp.ToolHandlerFor[SuggestInput, SuggestOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ SuggestInput) (*mcp.CallToolResult, SuggestOutput, error) {
		diff, err := deps.Git.StagedDiff(ctx)
		if err != nil {
			return nil, SuggestOutput{}, fmt.Errorf("reading staged changes: %w", err)
		}

		message, err := deps.Generator.Generate(ctx, diff)
		if errors.Is(err, commitmsg.ErrEmptyDiff) {
			return nil, SuggestOutput{Staged: false}, nil
		}
		if err != nil {
			return nil, SuggestOutput{}, fmt.Errorf("generating commit message: %w", err)
		}

		out := SuggestOutput{
			Staged:   true,
			Message:  message,
			Command:  commitmsg.CommitCommand(message),
			Warnings: advisoryStrings(commitmsg.Check(message)),
		}

		// File details are informational; a failure does not lose the message.
		if stat, statErr := deps.Git.StagedStat(ctx); statErr == nil {
			out.Files, out.Insertions, out.Deletions = stat.Files, stat.Insertions, stat.Deletions
		}
		if paths, pathsErr := deps.Git.StagedFiles(ctx); pathsErr == nil {
			out.Paths = paths
		}

		return nil, out, nil
	}
}

// --- Token usage tool ---

// UsageInput is the input for the token_usage tool (no parameters needed).
type UsageInput struct{}

// UsageOutput is the output for the token_usage tool.
type UsageOutput struct {
	Used       int     `json:"used"                 jsonschema:"tokens consumed by the sample prompt"`
	Limit      int     `json:"limit,omitempty"      jsonschema:"configured token quota"`
	Remaining  int     `json:"remaining,omitempty"  jsonschema:"quota left after the sample"`
	Percentage float64 `json:"percentage,omitempty" jsonschema:"share of the quota used"`
	Warning    string  `json:"warning,omitempty"    jsonschema:"set when no quota is configured"`
}

func handleTokenUsage(deps Deps) mcp.ToolHandlerFor[UsageInput, UsageOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ UsageInput) (*mcp.CallToolResult, UsageOutput, error) {
		usage, err := deps.Reporter.Report(ctx)
		if err != nil {
			return nil, UsageOutput{}, fmt.Errorf("measuring token usage: %w", err)
		}

		if !usage.Configured {
			return nil, UsageOutput{Used: usage.Used, Warning: commitmsg.NoQuotaWarning}, nil
		}
		return nil, UsageOutput{
			Used:       usage.Used,
			Limit:      usage.Limit,
			Remaining:  usage.Remaining,
			Percentage: usage.Percentage,
		}, nil
	}
}

// --- Amend tool ---

// AmendInput is the input for the amend_commit tool.
type AmendInput struct {
	Message string `json:"message" jsonschema:"new message for the last commit"`
}

// AmendOutput is the output for the amend_commit tool.
type AmendOutput struct {
	Amended  bool     `json:"amended"            jsonschema:"whether the commit was amended"`
	Message  string   `json:"message"            jsonschema:"message now on the last commit"`
	Warnings []string `json:"warnings,omitempty" jsonschema:"advisory warnings about the message"`
}

func handleAmend(deps Deps) mcp.ToolHandlerFor[AmendInput, AmendOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AmendInput) (*mcp.CallToolResult, AmendOutput, error) {
		message := strings.TrimSpace(input.Message)
		if message == "" {
			return nil, AmendOutput{}, errors.New("message is required")
		}

		if err := deps.Git.AmendCommit(ctx, message); err != nil {
			return nil, AmendOutput{}, fmt.Errorf("amending commit: %w", err)
		}

		return nil, AmendOutput{
			Amended:  true,
			Message:  message,
			Warnings: advisoryStrings(commitmsg.Check(message)),
		}, nil
	}
}

func advisoryStrings(advisories []commitmsg.Advisory) []string {
	if len(advisories) == 0 {
		return nil
	}
	out := make([]string, 0, len(advisories))
	for _, adv := range advisories {
		out = append(out, adv.String())
	}
	return out
}
