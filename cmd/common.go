package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/naka-gawa/repo-insights/internal/config"
	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/naka-gawa/repo-insights/internal/gateway"
	"github.com/naka-gawa/repo-insights/internal/usecase"
	"github.com/spf13/cobra"
)

// Output formats accepted by --output.
const (
	outputJSON  = "json"
	outputTable = "table"
)

// newLogger returns a logger that discards everything unless --verbose is set.
func newLogger(cmd *cobra.Command) *log.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
	if verbose {
		logger.SetOutput(os.Stderr) // If verbose, log to standard error.
	}
	return logger
}

// loadConfig merges the env file, the environment and command-line flags.
// The first positional argument, if any, is the owner/name repository.
func loadConfig(cmd *cobra.Command, repo string, requireToken bool) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	cfg.Verbose, _ = cmd.Flags().GetBool("verbose")
	if cmd.Flags().Changed("max-pages") {
		cfg.MaxPages, _ = cmd.Flags().GetInt("max-pages")
	}
	if repo != "" {
		cfg.Repo = repo
	}

	if err := cfg.Validate(requireToken); err != nil {
		if requireToken && cfg.Token == "" {
			return nil, fmt.Errorf("%s environment variable is not set: %w", config.EnvToken, err)
		}
		return nil, err
	}
	return cfg, nil
}

// repoArg returns the optional owner/name positional argument.
func repoArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// loadDataset reads the --input snapshot when given, and otherwise collects
// a fresh dataset for cfg.Repo from GitHub.
func loadDataset(cmd *cobra.Command, args []string, secondOwner string) (*domain.Dataset, *config.Config, error) {
	input, _ := cmd.Flags().GetString("input")
	cfg, err := loadConfig(cmd, repoArg(args), input == "")
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cmd)

	if input != "" {
		logger.Printf("Reading dataset snapshot from %s", input)
		ds, err := readDataset(input)
		return ds, cfg, err
	}

	collector, err := newCollector(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	owner, name, err := requireRepo(cfg)
	if err != nil {
		return nil, nil, err
	}
	ds, err := collector.Collect(cmd.Context(), owner, name, secondOwner)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to collect data for %s: %w", cfg.Repo, err)
	}
	return ds, cfg, nil
}

// loadProfiles fetches only the repository owner's profile and secondOwner's.
func loadProfiles(cmd *cobra.Command, args []string, secondOwner string) (*domain.Dataset, error) {
	cfg, err := loadConfig(cmd, repoArg(args), true)
	if err != nil {
		return nil, err
	}
	owner, _, err := requireRepo(cfg)
	if err != nil {
		return nil, err
	}
	collector, err := newCollector(cfg, newLogger(cmd))
	if err != nil {
		return nil, err
	}
	ds, err := collector.CollectProfiles(cmd.Context(), owner, secondOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to collect profiles for %s: %w", cfg.Repo, err)
	}
	return ds, nil
}

func requireRepo(cfg *config.Config) (owner, name string, err error) {
	if cfg.Repo == "" {
		return "", "", fmt.Errorf("%w: pass owner/name or set %s", domain.ErrInvalidRepository, config.EnvRepo)
	}
	return domain.ParseRepository(cfg.Repo)
}

func newCollector(cfg *config.Config, logger *log.Logger) (*usecase.Collector, error) {
	githubGateway, err := gateway.NewGitHubGateway(cfg.Token, logger, gateway.WithMaxPages(cfg.MaxPages))
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	return usecase.NewCollector(githubGateway, logger), nil
}

func readDataset(path string) (*domain.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	var ds domain.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}
	return &ds, nil
}

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v any) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func checkOutputFormat(format string) error {
	switch format {
	case outputJSON, outputTable:
		return nil
	default:
		return errors.New("--output must be json or table")
	}
}
