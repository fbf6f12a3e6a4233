package tunectl

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"tunectl/internal/config"
)

// Config carries the CLI-level options shared by every subcommand. The run
// configuration itself lives in internal/config and is loaded per invocation.
type Config struct {
	ConfigPath string
	LogLvl     string
	DryRun     bool
}

// buildRunConfig loads the run configuration file (if given), fills
// defaults, applies environment overrides, and validates the result.
func buildRunConfig(opts *Config) (*config.Config, *Secrets, error) {
	var cfg config.Config
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	config.ApplyDefaults(&cfg)
	// the batch script exports a job-scoped venv path
	cfg.Bootstrap.VenvDir = envStr("TUNECTL_VENV_DIR", cfg.Bootstrap.VenvDir)
	if err := config.Validate(&cfg); err != nil {
		return nil, nil, err
	}
	sec, err := LoadSecrets()
	if err != nil {
		return nil, nil, fmt.Errorf("read environment: %w", err)
	}
	return &cfg, sec, nil
}

// MainWithArgs is a testable variant of Main that accepts args explicitly.
// It returns an exit code (0 for success, non-zero on error).
func MainWithArgs(args []string) int {
	opts := &Config{LogLvl: envStr("TUNECTL_LOG_LEVEL", "info")}
	root := buildRootCmd(opts)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		// the external command's exit status is the run's exit status
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			return exitErr.ExitCode()
		}
		return 1
	}
	return 0
}

// Main returns an exit code (0 for success, non-zero on error) for use by cmd/tunectl.
func Main() int { return MainWithArgs(os.Args[1:]) }
