package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gorewood/commitmsg/internal/llm"
	"github.com/gorewood/commitmsg/internal/output"
)

// Environment variables read by Load.
const (
	EnvModel      = "COMMITMSG_MODEL"
	EnvProvider   = "COMMITMSG_PROVIDER"
	EnvTokenLimit = "COMMITMSG_TOKEN_LIMIT"
	EnvTimeout    = "COMMITMSG_TIMEOUT"
)

// Defaults applied before the config file and environment.
const (
	DefaultModel   = "gemini-flash"
	DefaultTimeout = 120 * time.Second
)

// providerDefaultModels is used when a provider is chosen without a model.
var providerDefaultModels = map[llm.Provider]string{
	llm.ProviderGoogle:    DefaultModel,
	llm.ProviderAnthropic: "haiku",
}

// Config holds the settings for one invocation. It is read once at startup
// and never mutated afterwards.
type Config struct {
	Provider   llm.Provider
	Model      string
	APIKey     string
	APIKeyEnv  string        // variable the key was read from
	TokenLimit int           // 0 means no quota configured
	Timeout    time.Duration // per API call
	Source     string        // config file path, empty when none was read
	Warnings   []string      // non-fatal problems found while loading
}

// File is the on-disk settings format, read from config.yaml or config.toml.
// Zero values mean "not set".
type File struct {
	Provider   string `yaml:"provider"    toml:"provider"`
	Model      string `yaml:"model"       toml:"model"`
	TokenLimit int    `yaml:"token_limit" toml:"token_limit"`
	Timeout    string `yaml:"timeout"     toml:"timeout"`
}

// LoadFile reads config.yaml from dir, falling back to config.toml.
// A missing file is not an error and returns the zero File and an empty path.
func LoadFile(dir string) (File, string, error) {
	if dir == "" {
		return File{}, "", nil
	}

	candidates := []struct {
		name      string
		unmarshal func([]byte, any) error
	}{
		{"config.yaml", yaml.Unmarshal},
		{"config.toml", toml.Unmarshal},
	}

	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate.name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return File{}, path, output.NewUserErrorWithCause("reading config file "+path, err)
		}

		var file File
		if err := candidate.unmarshal(data, &file); err != nil {
			return File{}, path, output.NewUserErrorWithCause(
				fmt.Sprintf("invalid config file %s: %v", path, err), err)
		}
		return file, path, nil
	}

	return File{}, "", nil
}

// Load resolves the configuration. Precedence, lowest first: defaults,
// the config file in dir, environment variables (via getenv), overrides.
// Fails with a user error when the provider's API key is not set.
func Load(dir string, getenv func(string) string, overrides File) (*Config, error) {
	file, source, err := LoadFile(dir)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Model:   DefaultModel,
		Timeout: DefaultTimeout,
		Source:  source,
	}
	provider := ""
	modelSet := false

	apply := func(f File, origin string) error {
		if f.Model != "" {
			cfg.Model = f.Model
			modelSet = true
		}
		if f.Provider != "" {
			provider = f.Provider
		}
		if f.TokenLimit != 0 {
			cfg.TokenLimit = f.TokenLimit
		}
		if f.Timeout != "" {
			timeout, err := parseTimeout(f.Timeout)
			if err != nil {
				return output.NewUserErrorWithCause(fmt.Sprintf("invalid timeout %q in %s", f.Timeout, origin), err)
			}
			cfg.Timeout = timeout
		}
		return nil
	}

	if err := apply(file, source); err != nil {
		return nil, err
	}

	env, warnings := fromEnv(getenv)
	cfg.Warnings = append(cfg.Warnings, warnings...)
	if err := apply(env, "environment"); err != nil {
		return nil, err
	}
	if err := apply(overrides, "flags"); err != nil {
		return nil, err
	}

	if cfg.TokenLimit < 0 {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("ignoring negative token limit %d", cfg.TokenLimit))
		cfg.TokenLimit = 0
	}

	if !modelSet && provider != "" {
		if model, ok := providerDefaultModels[llm.Provider(provider)]; ok {
			cfg.Model = model
		}
	}

	resolved, model, err := llm.Resolve(cfg.Model, llm.Provider(provider))
	if err != nil {
		return nil, err
	}
	cfg.Provider = resolved
	cfg.Model = model

	envVar, err := llm.APIKeyEnvVar(resolved)
	if err != nil {
		return nil, err
	}
	cfg.APIKeyEnv = envVar
	cfg.APIKey = strings.TrimSpace(getenv(envVar))
	if cfg.APIKey == "" {
		return nil, output.NewUserError(envVar + " environment variable not set")
	}

	return cfg, nil
}

// fromEnv reads the COMMITMSG_* variables. An unparseable token limit is
// reported as a warning and treated as unset.
func fromEnv(getenv func(string) string) (File, []string) {
	var warnings []string
	file := File{
		Model:    strings.TrimSpace(getenv(EnvModel)),
		Provider: strings.TrimSpace(getenv(EnvProvider)),
		Timeout:  strings.TrimSpace(getenv(EnvTimeout)),
	}

	if raw := strings.TrimSpace(getenv(EnvTokenLimit)); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s=%q is not an integer; treating as unset", EnvTokenLimit, raw))
		} else {
			file.TokenLimit = limit
		}
	}

	return file, warnings
}

// parseTimeout accepts a Go duration ("90s", "2m") or a bare number of seconds.
func parseTimeout(value string) (time.Duration, error) {
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return 0, errors.New("timeout must be positive")
		}
		return time.Duration(secs) * time.Second, nil
	}

	timeout, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if timeout <= 0 {
		return 0, errors.New("timeout must be positive")
	}
	return timeout, nil
}
