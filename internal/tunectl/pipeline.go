package tunectl

import (
	"context"
	"fmt"
	"path/filepath"

	"tunectl/internal/config"
)

// runPipeline executes bootstrap, fine-tune, optional conversion, and
// evaluation in order, stopping at the first failure. The evaluation always
// targets the training run's final checkpoint; a standalone `evaluate` is
// the escape hatch for scoring an arbitrary directory.
func runPipeline(ctx context.Context, cfg *config.Config, sec *Secrets, opts *Config) error {
	if err := timedStage("bootstrap", func() error { return fnBootstrap(ctx, cfg, sec, opts) }); err != nil {
		return err
	}
	if err := timedStage("finetune", func() error { return fnFinetune(ctx, cfg, sec, opts) }); err != nil {
		return err
	}

	final := filepath.Join(cfg.Model.OutDir, "final")
	cfg.Eval.CheckpointDir = final
	if !opts.DryRun && !fnCheckpointPresent(final) {
		return fmt.Errorf("run: %s is missing or empty after fine-tuning; refusing to evaluate", final)
	}

	if cfg.Convert.Enabled {
		if err := timedStage("convert", func() error { return fnConvert(ctx, cfg, opts) }); err != nil {
			return err
		}
	}
	return timedStage("evaluate", func() error { return fnEvaluate(ctx, cfg, sec, opts) })
}
