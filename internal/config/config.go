// Package config loads and validates runtime settings from the environment,
// an optional .env file and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Defaults applied before the environment and flags are read.
const (
	DefaultEnvFile   = ".env"
	DefaultOutputDir = "exports"
	DefaultAddr      = "127.0.0.1:8080"
	DefaultMaxPages  = 1
)

// Environment variable names.
const (
	EnvToken     = "GITHUB_TOKEN"
	EnvRepo      = "REPO_INSIGHTS_REPO"
	EnvOutputDir = "REPO_INSIGHTS_OUTPUT_DIR"
	EnvAddr      = "REPO_INSIGHTS_ADDR"
	EnvMaxPages  = "REPO_INSIGHTS_MAX_PAGES"
)

var (
	configValidator = NewValidator()
	repoSlugRegex   = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})/[A-Za-z0-9._-]{1,100}$`)
	loginRegex      = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)
)

type Config struct {
	Token       string `validate:"required"`
	Repo        string `validate:"omitempty,repo-slug"`
	SecondOwner string `validate:"omitempty,github-login"`
	OutputDir   string `validate:"required"`
	Addr        string `validate:"required,hostname_port"`
	MaxPages    int    `validate:"min=1,max=100"`
	Verbose     bool
}

// Load reads envFile if it exists and builds a Config from defaults and the
// environment. Call Validate once flags have been applied.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not load env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		OutputDir: DefaultOutputDir,
		Addr:      DefaultAddr,
		MaxPages:  DefaultMaxPages,
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field. With requireToken false the token may be
// empty, which offline commands rely on.
func (c *Config) Validate(requireToken bool) error {
	var err error
	if requireToken {
		err = configValidator.Struct(c)
	} else {
		err = configValidator.StructExcept(c, "Token")
	}
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// applyEnvOverrides replaces fields with values from the environment.
func applyEnvOverrides(cfg *Config) error {
	override := func(key string, target *string) {
		if val := os.Getenv(key); val != "" {
			*target = val
		}
	}

	override(EnvToken, &cfg.Token)
	override(EnvRepo, &cfg.Repo)
	override(EnvOutputDir, &cfg.OutputDir)
	override(EnvAddr, &cfg.Addr)

	if val := os.Getenv(EnvMaxPages); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxPages, val, err)
		}
		cfg.MaxPages = n
	}
	return nil
}

// NewValidator returns a validator with the repo-slug and github-login
// rules registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	rules := map[string]*regexp.Regexp{
		"repo-slug":    repoSlugRegex,
		"github-login": loginRegex,
	}
	for tag, re := range rules {
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		}); err != nil {
			panic("failed to register " + tag + " validation: " + err.Error())
		}
	}
	return v
}
