package main

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/gorewood/commitmsg/internal/commitmsg"
	"github.com/gorewood/commitmsg/internal/config"
	"github.com/gorewood/commitmsg/internal/envfile"
	"github.com/gorewood/commitmsg/internal/git"
	"github.com/gorewood/commitmsg/internal/llm"
)

// apiClient is the text-generation API as seen by the commands.
type apiClient interface {
	commitmsg.Completer
	commitmsg.TokenCounter
}

// deps holds the collaborators the commands reach outside the process with.
// Tests replace them; defaultDeps wires the real ones.
type deps struct {
	newGit    func(logger *log.Logger) git.Ops
	newClient func(cfg *config.Config, logger *log.Logger) (apiClient, error)
	hooksDir  func(ctx context.Context, logger *log.Logger) (string, error)
	getenv    func(string) string
	configDir func() string
	loadEnv   func() (int, error)
}

func defaultDeps() *deps {
	return &deps{
		newGit: func(logger *log.Logger) git.Ops {
			return git.Exec{Logger: logger}
		},
		newClient: newLLMClient,
		hooksDir: func(ctx context.Context, logger *log.Logger) (string, error) {
			return git.Exec{Logger: logger}.HooksDir(ctx)
		},
		getenv:    os.Getenv,
		configDir: config.Dir,
		loadEnv:   loadEnvFiles,
	}
}

// newLLMClient creates the API client for the resolved configuration.
func newLLMClient(cfg *config.Config, logger *log.Logger) (apiClient, error) {
	client, err := llm.New(llm.Options{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		Timeout:  cfg.Timeout,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("api client ready", "provider", client.Provider(), "model", client.Model())
	return client, nil
}

// loadEnvFiles loads env files in priority order. First match for each
// variable wins; environment variables already set always take precedence.
//
// Resolution order:
//  1. $CWD/.env.local   (per-repo override, gitignored)
//  2. $CWD/.env         (per-repo)
//  3. <config dir>/env  (global fallback, set once and works everywhere)
func loadEnvFiles() (int, error) {
	paths := []string{".env.local", ".env"}
	if dir := config.Dir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "env"))
	}
	return envfile.Load(paths...)
}

// session is everything one invocation needs after configuration succeeded.
type session struct {
	cfg    *config.Config
	client apiClient
	git    git.Ops
	logger *log.Logger
}

// newSession resolves configuration and builds the API client. A missing
// API key or an invalid setting is a user error reported before any work.
func (a *app) newSession() (*session, error) {
	overrides := config.File{
		Model:    a.flags.model,
		Provider: a.flags.provider,
	}
	if a.flags.timeout > 0 {
		overrides.Timeout = strconv.Itoa(a.flags.timeout)
	}

	cfg, err := config.Load(a.deps.configDir(), a.deps.getenv, overrides)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("configuration loaded",
		"provider", cfg.Provider, "model", cfg.Model, "key_env", cfg.APIKeyEnv, "timeout", cfg.Timeout,
		"token_limit", cfg.TokenLimit, "source", cfg.Source)

	client, err := a.deps.newClient(cfg, a.logger)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:    cfg,
		client: client,
		git:    a.deps.newGit(a.logger),
		logger: a.logger,
	}, nil
}
