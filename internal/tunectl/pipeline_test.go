package tunectl

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tunectl/internal/config"
)

// helper to restore stubs after each test
func withStubs(t *testing.T, stubs func()) func() {
	t.Helper()
	oldBootstrap := fnBootstrap
	oldFinetune := fnFinetune
	oldEvaluate := fnEvaluate
	oldConvert := fnConvert
	oldSubmit := fnSubmit
	oldRun := fnRun
	oldCheckpointPresent := fnCheckpointPresent
	stubs()
	return func() {
		fnBootstrap = oldBootstrap
		fnFinetune = oldFinetune
		fnEvaluate = oldEvaluate
		fnConvert = oldConvert
		fnSubmit = oldSubmit
		fnRun = oldRun
		fnCheckpointPresent = oldCheckpointPresent
	}
}

func TestRunPipeline_Order(t *testing.T) {
	var order []string
	cleanup := withStubs(t, func() {
		fnBootstrap = func(ctx context.Context, cfg *config.Config, sec *Secrets, opts *Config) error {
			order = append(order, "bootstrap")
			return nil
		}
		fnFinetune = func(ctx context.Context, cfg *config.Config, sec *Secrets, opts *Config) error {
			order = append(order, "finetune")
			return nil
		}
		fnEvaluate = func(ctx context.Context, cfg *config.Config, sec *Secrets, opts *Config) error {
			order = append(order, "evaluate")
			return nil
		}
		fnCheckpointPresent = func(dir string) bool { return true }
	})
	defer cleanup()

	cfg := defaultCfg()
	if err := runPipeline(context.Background(), cfg, &Secrets{}, &Config{}); err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	if len(order) != 3 || order[0] != "bootstrap" || order[1] != "finetune" || order[2] != "evaluate" {
		t.Fatalf("unexpected stage order: %v", order)
	}
}

func TestRunPipeline_EvalTargetsFinalCheckpoint(t *testing.T) {
	var gotCkpt string
	cleanup := withStubs(t, func() {
		fnBootstrap = func(ctx context.Context, cfg *config.Config, sec *Secrets, opts *Config) error { return nil }
		fnFinetune = func(ctx context.Context, cfg *config.Config, sec *Secrets, opts *Config) error { return nil }
		fnEvaluate = func(ctx context.Context, cfg *config.Config, sec *Secrets, opts *Config) error {
			gotCkpt = cfg.Eval.CheckpointDir
			return nil
		}
		fnCheckpointPresent = func(dir string) bool { return true }
	})
	defer cleanup()

	cfg := defaultCfg()
	cfg.Model.OutDir = "out/tinyllama"
	// a stale value from the config file must not survive
	cfg.Eval.CheckpointDir = "somewhere/else"
	if err := runPipeline(context.Background(), cfg, &Secrets{}, &Config{}); err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	if gotCkpt != "out/tinyllama/final" {
		t.Fatalf("evaluate checkpoint dir = %q, want out/tinyllama/final", gotCkpt)
	}
}

func TestRunPipeline_StopsOnFinetuneFailure(t *testing.T) {
	boom := errors.New("CUDA out of memory")
	evaluated := false
	cleanup := withStubs(t, func() {
		fnBootstrap = func(ctx context.Context, cfg *config.Config, sec *Secrets, opts *Config) error { return nil }
		fnFinetune = func(ctx context.Context, cfg *config.Config, sec *Secrets, opts *Config) error { return boom }
		fnEvaluate = func(ctx context.Context, cfg *config.Config, sec *Secrets, opts *Config) error {
			evaluated = true
			return nil
		}
		fnCheckpointPresent = func(dir string) bool { return true }
	})
	defer cleanup()

	err := runPipeline(context.Background(), defaultCfg(), &Secrets{}, &Config{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected finetune error to propagate, got %v", err)
	}
	if evaluated {
		t.Fatalf("evaluate ran after finetune failure")
	}
}

func TestRunPipeline_RefusesEmptyOutDir(t *testing.T) {
	cleanup := withStubs(t, func() {
		fnBootstrap = func(ctx context.Context, cfg *config.Config, sec *Secrets, opts *Config) error { return nil }
		fnFinetune = func(ctx context.Context, cfg *config.Config, sec *Secrets, opts *Config) error { return nil }
		fnEvaluate = func(ctx context.Context, cfg *config.Config, sec *Secrets, opts *Config) error {
			t.Fatal("evaluate must not run against an empty out dir")
			return nil
		}
		fnCheckpointPresent = func(dir string) bool { return false }
	})
	defer cleanup()

	if err := runPipeline(context.Background(), defaultCfg(), &Secrets{}, &Config{}); err == nil {
		t.Fatalf("expected error for missing final checkpoint")
	}
}

func TestRunPipeline_DryRunPreviewsAllArgvOnFreshTree(t *testing.T) {
	// no checkpoints/, no out/ — nothing may abort before the argv is printed
	cfg := defaultCfg()
	cfg.Convert.Enabled = true
	out := captureStdout(t, func() {
		if err := runPipeline(context.Background(), cfg, &Secrets{}, &Config{DryRun: true}); err != nil {
			t.Errorf("dry-run pipeline: %v", err)
		}
	})
	for _, want := range []string{
		"download --repo_id " + cfg.Model.RepoID,
		"finetune lora",
		"--lora_r 8",
		"convert_lit_checkpoint",
		"evaluate --checkpoint_dir out/tinyllama/final",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("dry-run preview missing %q:\n%s", want, out)
		}
	}
}

func TestRunPipeline_ConvertOnlyWhenEnabled(t *testing.T) {
	converted := 0
	cleanup := withStubs(t, func() {
		fnBootstrap = func(ctx context.Context, cfg *config.Config, sec *Secrets, opts *Config) error { return nil }
		fnFinetune = func(ctx context.Context, cfg *config.Config, sec *Secrets, opts *Config) error { return nil }
		fnEvaluate = func(ctx context.Context, cfg *config.Config, sec *Secrets, opts *Config) error { return nil }
		fnConvert = func(ctx context.Context, cfg *config.Config, opts *Config) error {
			converted++
			return nil
		}
		fnCheckpointPresent = func(dir string) bool { return true }
	})
	defer cleanup()

	cfg := defaultCfg()
	if err := runPipeline(context.Background(), cfg, &Secrets{}, &Config{}); err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	if converted != 0 {
		t.Fatalf("convert ran while disabled")
	}
	cfg = defaultCfg()
	cfg.Convert.Enabled = true
	if err := runPipeline(context.Background(), cfg, &Secrets{}, &Config{}); err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	if converted != 1 {
		t.Fatalf("convert did not run while enabled")
	}
}
