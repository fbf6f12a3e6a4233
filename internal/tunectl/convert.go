package tunectl

import (
	"context"
	"fmt"
	"path/filepath"

	"tunectl/internal/common/fsutil"
	"tunectl/internal/config"
)

// convertArgs builds the lit->HF checkpoint conversion command line.
func convertArgs(cfg *config.Config) []string {
	return []string{
		"convert_lit_checkpoint",
		"--checkpoint_dir", filepath.Join(cfg.Model.OutDir, "final"),
		"--output_dir", cfg.Convert.OutputDir,
	}
}

// convert rewrites the fine-tuned lit checkpoint into HuggingFace layout so
// downstream tooling outside the lit ecosystem can load it.
func convert(ctx context.Context, cfg *config.Config, opts *Config) error {
	src := filepath.Join(cfg.Model.OutDir, "final")
	if !opts.DryRun && !fsutil.PathExists(src) {
		return fmt.Errorf("convert: trained checkpoint %s does not exist", src)
	}
	log.Info().Str("checkpoint_dir", src).Str("output_dir", cfg.Convert.OutputDir).Msg("converting checkpoint")
	return runStage(ctx, opts, "convert", Cmd{
		Path:   toolBin(cfg, "litgpt"),
		Args:   convertArgs(cfg),
		Stream: true,
	})
}
