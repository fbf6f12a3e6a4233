package tunectl

import (
	"context"
	"path/filepath"

	"tunectl/internal/common/fsutil"
	"tunectl/internal/config"
)

// toolBin resolves an executable name against the configured venv, falling
// back to PATH lookup when no venv is in play.
func toolBin(cfg *config.Config, name string) string {
	if cfg.Bootstrap.VenvDir != "" {
		venv, err := fsutil.ExpandHome(cfg.Bootstrap.VenvDir)
		if err == nil {
			return filepath.Join(venv, "bin", name)
		}
	}
	return name
}

// downloadArgs builds the checkpoint download command line.
func downloadArgs(cfg *config.Config) []string {
	return []string{"download", "--repo_id", cfg.Model.RepoID}
}

// bootstrap prepares the package environment and ensures the pretrained
// checkpoint is present: venv (optional), toolkit + pinned eval harness +
// tracking client installs, then the hub download. Each step is one external
// command; the first non-zero exit aborts.
func bootstrap(ctx context.Context, cfg *config.Config, sec *Secrets, opts *Config) error {
	pipEnv := sec.pipEnv(cfg.Bootstrap.PipCacheDir)

	if cfg.Bootstrap.VenvDir != "" {
		venv, err := fsutil.ExpandHome(cfg.Bootstrap.VenvDir)
		if err != nil {
			return err
		}
		if !fsutil.PathExists(venv) {
			log.Info().Str("venv", venv).Msg("creating virtual environment")
			if err := runStage(ctx, opts, "bootstrap", Cmd{Path: cfg.Bootstrap.Python, Args: []string{"-m", "venv", venv}}); err != nil {
				return err
			}
		}
	}

	pip := toolBin(cfg, "pip")
	for _, spec := range []string{cfg.Bootstrap.ToolkitSpec, cfg.Bootstrap.HarnessSpec, cfg.Bootstrap.TrackerSpec} {
		log.Info().Str("package", spec).Msg("installing")
		if err := runStage(ctx, opts, "bootstrap", Cmd{Path: pip, Args: []string{"install", spec}, Env: pipEnv}); err != nil {
			return err
		}
	}

	ckpt, err := fsutil.ExpandHome(cfg.Model.CheckpointDir)
	if err != nil {
		return err
	}
	if fnCheckpointPresent(ckpt) {
		log.Info().Str("checkpoint_dir", ckpt).Msg("checkpoint already present, skipping download")
		return nil
	}
	log.Info().Str("repo_id", cfg.Model.RepoID).Msg("downloading checkpoint")
	return runStage(ctx, opts, "bootstrap", Cmd{
		Path:   toolBin(cfg, "litgpt"),
		Args:   downloadArgs(cfg),
		Env:    sec.hubEnv(),
		Stream: true,
	})
}
