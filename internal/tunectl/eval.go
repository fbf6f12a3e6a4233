package tunectl

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tunectl/internal/common/fsutil"
	"tunectl/internal/config"
)

// evalArgs serializes the evaluation configuration into the harness wrapper's
// command line. Tasks join into one comma-separated value.
func evalArgs(cfg *config.Config) []string {
	return []string{
		"evaluate",
		"--checkpoint_dir", cfg.Eval.CheckpointDir,
		"--eval_tasks", strings.Join(cfg.Eval.Tasks, ","),
		"--num_fewshot", strconv.Itoa(cfg.Eval.NumFewshot),
		"--precision", cfg.Eval.Precision,
		"--save_filepath", cfg.Eval.SaveFilepath,
	}
}

// evaluate launches one zero/few-shot evaluation run against a trained
// checkpoint and persists the harness results to the configured path.
func evaluate(ctx context.Context, cfg *config.Config, sec *Secrets, opts *Config) error {
	ckpt, err := fsutil.ExpandHome(cfg.Eval.CheckpointDir)
	if err != nil {
		return err
	}
	if !opts.DryRun && !fsutil.PathExists(ckpt) {
		return fmt.Errorf("evaluate: checkpoint dir %s does not exist", ckpt)
	}
	log.Info().
		Str("checkpoint_dir", cfg.Eval.CheckpointDir).
		Strs("tasks", cfg.Eval.Tasks).
		Int("num_fewshot", cfg.Eval.NumFewshot).
		Str("save_filepath", cfg.Eval.SaveFilepath).
		Msg("starting evaluation")
	return runStage(ctx, opts, "evaluate", Cmd{
		Path:   toolBin(cfg, "litgpt"),
		Args:   evalArgs(cfg),
		Env:    sec.hubEnv(),
		Stream: true,
	})
}
