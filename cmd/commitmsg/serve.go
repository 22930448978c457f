package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/gorewood/commitmsg/internal/commitmsg"
	commitmsgmcp "github.com/gorewood/commitmsg/internal/mcp"
	"github.com/gorewood/commitmsg/internal/prompt"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run commitmsg as a Model Context Protocol (MCP) server over stdio.

This lets any MCP-capable agent ask for a commit message for the staged
changes of the repository it is working in.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "commitmsg": {
        "command": "commitmsg",
        "args": ["serve"]
      }
    }
  }

Available tools: suggest_commit_message, token_usage, amend_commit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := a.printer(cmd)

			sess, err := a.newSession()
			if err != nil {
				printer.Error(err)
				return err
			}

			tmpl, err := prompt.LoadTemplate(a.flags.template)
			if err != nil {
				printer.Error(err)
				return err
			}
			sample, err := prompt.LoadTemplate(prompt.UsageSampleTemplate)
			if err != nil {
				printer.Error(err)
				return err
			}

			server := commitmsgmcp.NewServer(buildVersion(), commitmsgmcp.Deps{
				Git:       sess.git,
				Generator: commitmsg.NewGenerator(sess.client, tmpl, commitmsg.WithSanitize()),
				Reporter:  commitmsg.NewReporter(sess.client, sample.Content, sess.cfg.TokenLimit),
			})
			sess.logger.Debug("serving MCP over stdio", "model", sess.cfg.Model)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
