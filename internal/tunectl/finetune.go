package tunectl

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"tunectl/internal/common/fsutil"
	"tunectl/internal/config"
)

// finetuneArgs serializes the training configuration into the engine's
// command line. Values pass through verbatim; precision has already been
// validated against the closed enumeration.
func finetuneArgs(cfg *config.Config) []string {
	return []string{
		"finetune", "lora",
		"--data", cfg.Train.Data,
		"--checkpoint_dir", cfg.Model.CheckpointDir,
		"--out_dir", cfg.Model.OutDir,
		"--train.max_seq_length", strconv.Itoa(cfg.Train.MaxSeqLength),
		"--train.epochs", strconv.Itoa(cfg.Train.Epochs),
		"--train.lr_warmup_steps", strconv.Itoa(cfg.Train.LRWarmupSteps),
		"--precision", cfg.Train.Precision,
		"--lora_r", strconv.Itoa(cfg.Train.LoraR),
		"--lora_alpha", strconv.Itoa(cfg.Train.LoraAlpha),
		"--eval.interval", strconv.Itoa(cfg.Train.EvalInterval),
		"--logger_name", cfg.Train.LoggerName,
	}
}

// finetune launches one LoRA run. The checkpoint must already exist; the out
// dir is created if absent. Anything the engine reports (OOM, unsupported
// precision) surfaces as its exit code.
func finetune(ctx context.Context, cfg *config.Config, sec *Secrets, opts *Config) error {
	ckpt, err := fsutil.ExpandHome(cfg.Model.CheckpointDir)
	if err != nil {
		return err
	}
	if !opts.DryRun {
		if !fsutil.PathExists(ckpt) {
			return fmt.Errorf("finetune: checkpoint dir %s does not exist (run bootstrap first)", ckpt)
		}
		if err := os.MkdirAll(cfg.Model.OutDir, 0o755); err != nil {
			return fmt.Errorf("finetune: create out dir: %w", err)
		}
	}
	log.Info().
		Str("checkpoint_dir", cfg.Model.CheckpointDir).
		Str("out_dir", cfg.Model.OutDir).
		Str("precision", cfg.Train.Precision).
		Int("epochs", cfg.Train.Epochs).
		Msg("starting LoRA fine-tune")
	return runStage(ctx, opts, "finetune", Cmd{
		Path:   toolBin(cfg, "litgpt"),
		Args:   finetuneArgs(cfg),
		Env:    sec.trackerEnv(),
		Stream: true,
	})
}
