package tunectl

import (
	"strings"
	"testing"

	"tunectl/internal/config"
)

func defaultCfg() *config.Config {
	return config.ApplyDefaults(&config.Config{})
}

func TestFinetuneArgs_DefaultHyperparameters(t *testing.T) {
	cfg := defaultCfg()
	line := strings.Join(finetuneArgs(cfg), " ")
	for _, want := range []string{
		"finetune lora",
		"--lora_r 8",
		"--lora_alpha 16",
		"--train.epochs 15",
		"--precision bf16-true",
		"--checkpoint_dir " + cfg.Model.CheckpointDir,
		"--out_dir out/tinyllama",
		"--logger_name wandb",
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("finetune argv missing %q:\n%s", want, line)
		}
	}
}

func TestFinetuneArgs_PrecisionVerbatim(t *testing.T) {
	cfg := defaultCfg()
	cfg.Train.Precision = config.Precision16Mixed
	line := strings.Join(finetuneArgs(cfg), " ")
	if !strings.Contains(line, "--precision 16-mixed") {
		t.Fatalf("precision not passed through verbatim:\n%s", line)
	}
	if strings.Contains(line, "bf16") {
		t.Fatalf("unexpected precision substitution:\n%s", line)
	}
}

func TestEvalArgs(t *testing.T) {
	cfg := defaultCfg()
	cfg.Eval.Tasks = []string{"hellaswag", "arc_easy"}
	cfg.Eval.NumFewshot = 5
	line := strings.Join(evalArgs(cfg), " ")
	for _, want := range []string{
		"evaluate",
		"--checkpoint_dir out/tinyllama/final",
		"--eval_tasks hellaswag,arc_easy",
		"--num_fewshot 5",
		"--precision bf16-true",
		"--save_filepath out/tinyllama/eval_results.json",
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("eval argv missing %q:\n%s", want, line)
		}
	}
}

func TestDownloadArgs(t *testing.T) {
	cfg := defaultCfg()
	line := strings.Join(downloadArgs(cfg), " ")
	want := "download --repo_id TinyLlama/TinyLlama-1.1B-intermediate-step-1431k-3T"
	if line != want {
		t.Fatalf("download argv = %q, want %q", line, want)
	}
}

func TestConvertArgs(t *testing.T) {
	cfg := defaultCfg()
	line := strings.Join(convertArgs(cfg), " ")
	if !strings.Contains(line, "--checkpoint_dir out/tinyllama/final") {
		t.Fatalf("convert argv should source the trained checkpoint:\n%s", line)
	}
	if !strings.Contains(line, "--output_dir out/tinyllama/hf") {
		t.Fatalf("convert argv missing output dir:\n%s", line)
	}
}

func TestToolBin(t *testing.T) {
	cfg := defaultCfg()
	if got := toolBin(cfg, "litgpt"); got != "litgpt" {
		t.Fatalf("expected bare name without venv, got %q", got)
	}
	cfg.Bootstrap.VenvDir = "/opt/venv"
	if got := toolBin(cfg, "pip"); got != "/opt/venv/bin/pip" {
		t.Fatalf("expected venv-scoped pip, got %q", got)
	}
}
