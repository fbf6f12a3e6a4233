package config

import (
	"fmt"
	"path/filepath"
)

// Precision modes accepted by the fine-tuning engine and the eval harness.
// The value is passed through verbatim; anything outside this set is
// rejected before a subprocess is launched.
const (
	Precision16True   = "16-true"
	Precision16Mixed  = "16-mixed"
	PrecisionBF16True = "bf16-true"
	PrecisionBF16Mix  = "bf16-mixed"
)

var precisionModes = map[string]bool{
	Precision16True:   true,
	Precision16Mixed:  true,
	PrecisionBF16True: true,
	PrecisionBF16Mix:  true,
}

// ValidPrecision reports whether p is one of the known precision modes.
// Hardware capability (bf16 support) is not probed here; that remains the
// operator's responsibility.
func ValidPrecision(p string) bool { return precisionModes[p] }

const (
	DefaultRepoID = "TinyLlama/TinyLlama-1.1B-intermediate-step-1431k-3T"
	DefaultOutDir = "out/tinyllama"
)

// ApplyDefaults fills unspecified fields in-place and returns cfg.
func ApplyDefaults(cfg *Config) *Config {
	if cfg.Model.RepoID == "" {
		cfg.Model.RepoID = DefaultRepoID
	}
	if cfg.Model.CheckpointDir == "" {
		cfg.Model.CheckpointDir = filepath.Join("checkpoints", cfg.Model.RepoID)
	}
	if cfg.Model.OutDir == "" {
		cfg.Model.OutDir = DefaultOutDir
	}

	if cfg.Bootstrap.Python == "" {
		cfg.Bootstrap.Python = "python3"
	}
	if cfg.Bootstrap.ToolkitSpec == "" {
		cfg.Bootstrap.ToolkitSpec = "litgpt[all]"
	}
	if cfg.Bootstrap.HarnessSpec == "" {
		cfg.Bootstrap.HarnessSpec = "lm_eval @ git+https://github.com/EleutherAI/lm-evaluation-harness.git@115206dc89dad67b8beda4a1e4c73a722ab65e91"
	}
	if cfg.Bootstrap.TrackerSpec == "" {
		cfg.Bootstrap.TrackerSpec = "wandb"
	}

	if cfg.Train.Data == "" {
		cfg.Train.Data = "Alpaca2k"
	}
	if cfg.Train.MaxSeqLength == 0 {
		cfg.Train.MaxSeqLength = 512
	}
	if cfg.Train.Epochs == 0 {
		cfg.Train.Epochs = 15
	}
	if cfg.Train.LRWarmupSteps == 0 {
		cfg.Train.LRWarmupSteps = 10
	}
	if cfg.Train.Precision == "" {
		cfg.Train.Precision = PrecisionBF16True
	}
	if cfg.Train.LoraR == 0 {
		cfg.Train.LoraR = 8
	}
	if cfg.Train.LoraAlpha == 0 {
		cfg.Train.LoraAlpha = 16
	}
	if cfg.Train.EvalInterval == 0 {
		cfg.Train.EvalInterval = 100
	}
	if cfg.Train.LoggerName == "" {
		cfg.Train.LoggerName = "wandb"
	}

	if len(cfg.Eval.Tasks) == 0 {
		cfg.Eval.Tasks = []string{"hellaswag", "arc_easy", "arc_challenge", "boolq", "piqa", "winogrande"}
	}
	if cfg.Eval.Precision == "" {
		cfg.Eval.Precision = cfg.Train.Precision
	}
	if cfg.Eval.SaveFilepath == "" {
		cfg.Eval.SaveFilepath = filepath.Join(cfg.Model.OutDir, "eval_results.json")
	}
	if cfg.Eval.CheckpointDir == "" {
		cfg.Eval.CheckpointDir = filepath.Join(cfg.Model.OutDir, "final")
	}

	if cfg.Convert.OutputDir == "" {
		cfg.Convert.OutputDir = filepath.Join(cfg.Model.OutDir, "hf")
	}

	if cfg.Slurm.JobName == "" {
		cfg.Slurm.JobName = "tunectl"
	}
	if cfg.Slurm.Nodes == 0 {
		cfg.Slurm.Nodes = 1
	}
	if cfg.Slurm.Ntasks == 0 {
		cfg.Slurm.Ntasks = 1
	}
	if cfg.Slurm.GPUs == 0 {
		cfg.Slurm.GPUs = 1
	}
	if cfg.Slurm.CPUsPerTask == 0 {
		cfg.Slurm.CPUsPerTask = 4
	}
	if cfg.Slurm.Mem == "" {
		cfg.Slurm.Mem = "32G"
	}
	if cfg.Slurm.Time == "" {
		cfg.Slurm.Time = "24:00:00"
	}
	return cfg
}

// Validate rejects values that would otherwise be forwarded verbatim to a
// subprocess and fail there with a worse message.
func Validate(cfg *Config) error {
	if !ValidPrecision(cfg.Train.Precision) {
		return fmt.Errorf("unknown train precision %q (want one of 16-true, 16-mixed, bf16-true, bf16-mixed)", cfg.Train.Precision)
	}
	if !ValidPrecision(cfg.Eval.Precision) {
		return fmt.Errorf("unknown eval precision %q (want one of 16-true, 16-mixed, bf16-true, bf16-mixed)", cfg.Eval.Precision)
	}
	if cfg.Eval.NumFewshot < 0 {
		return fmt.Errorf("num_fewshot must be >= 0, got %d", cfg.Eval.NumFewshot)
	}
	return nil
}
