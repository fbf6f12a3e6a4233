package tunectl

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"tunectl/internal/config"
)

// One exclusive allocation per run. Venv and pip cache are suffixed with the
// job id so concurrent jobs never share a directory; that distinct-path
// scoping is the only isolation, there is no locking.
const sbatchTemplate = `#!/bin/bash
#SBATCH --job-name={{.Slurm.JobName}}
{{- if .Slurm.Partition}}
#SBATCH --partition={{.Slurm.Partition}}
{{- end}}
#SBATCH --nodes={{.Slurm.Nodes}}
#SBATCH --ntasks={{.Slurm.Ntasks}}
#SBATCH --gpus={{.Slurm.GPUs}}
#SBATCH --cpus-per-task={{.Slurm.CPUsPerTask}}
#SBATCH --mem={{.Slurm.Mem}}
#SBATCH --time={{.Slurm.Time}}

export TUNECTL_VENV_DIR="{{.VenvBase}}-${SLURM_JOB_ID}"
export PIP_CACHE_DIR="{{.CacheBase}}-${SLURM_JOB_ID}"

exec {{.Self}} run --config "{{.ConfigPath}}"
`

type sbatchParams struct {
	Slurm      config.SlurmConfig
	VenvBase   string
	CacheBase  string
	Self       string
	ConfigPath string
}

// renderSbatch produces the batch script text for one pipeline run.
func renderSbatch(cfg *config.Config, self, configPath string) (string, error) {
	venvBase := cfg.Bootstrap.VenvDir
	if venvBase == "" {
		venvBase = ".venv"
	}
	cacheBase := cfg.Bootstrap.PipCacheDir
	if cacheBase == "" {
		cacheBase = ".pip-cache"
	}
	tpl := template.Must(template.New("sbatch").Parse(sbatchTemplate))
	var buf bytes.Buffer
	err := tpl.Execute(&buf, sbatchParams{
		Slurm:      cfg.Slurm,
		VenvBase:   venvBase,
		CacheBase:  cacheBase,
		Self:       self,
		ConfigPath: configPath,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// submit renders the batch script, writes it next to the run artifacts, and
// hands it to sbatch. The scheduler owns everything after that: queuing,
// the wall-clock ceiling, and the job's exit status.
func submit(ctx context.Context, cfg *config.Config, opts *Config) error {
	self, err := os.Executable()
	if err != nil {
		self = "tunectl"
	}
	if opts.ConfigPath == "" {
		return fmt.Errorf("submit: --config is required so the batch job can reload the same run configuration")
	}
	configPath, err := filepath.Abs(opts.ConfigPath)
	if err != nil {
		return err
	}
	script, err := renderSbatch(cfg, self, configPath)
	if err != nil {
		return fmt.Errorf("submit: render batch script: %w", err)
	}
	if opts.DryRun {
		fmt.Print(script)
		return nil
	}
	if err := os.MkdirAll(cfg.Model.OutDir, 0o755); err != nil {
		return fmt.Errorf("submit: create out dir: %w", err)
	}
	scriptPath := filepath.Join(cfg.Model.OutDir, cfg.Slurm.JobName+".sbatch")
	if err := os.WriteFile(scriptPath, []byte(script), 0o755); err != nil {
		return fmt.Errorf("submit: write batch script: %w", err)
	}
	log.Info().Str("script", scriptPath).Msg("submitting batch job")
	return runStage(ctx, opts, "submit", Cmd{Path: "sbatch", Args: []string{scriptPath}})
}
