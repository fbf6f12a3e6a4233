package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds the full run configuration for a fine-tune/eval pipeline.
// Zero values mean "unspecified" and will be replaced by defaults in
// ApplyDefaults before use.
type Config struct {
	Model     ModelConfig     `json:"model" yaml:"model" toml:"model"`
	Bootstrap BootstrapConfig `json:"bootstrap" yaml:"bootstrap" toml:"bootstrap"`
	Train     TrainConfig     `json:"train" yaml:"train" toml:"train"`
	Eval      EvalConfig      `json:"eval" yaml:"eval" toml:"eval"`
	Convert   ConvertConfig   `json:"convert" yaml:"convert" toml:"convert"`
	Slurm     SlurmConfig     `json:"slurm" yaml:"slurm" toml:"slurm"`
}

// ModelConfig names the pretrained checkpoint and where artifacts go.
type ModelConfig struct {
	RepoID        string `json:"repo_id" yaml:"repo_id" toml:"repo_id"`
	CheckpointDir string `json:"checkpoint_dir" yaml:"checkpoint_dir" toml:"checkpoint_dir"`
	OutDir        string `json:"out_dir" yaml:"out_dir" toml:"out_dir"`
}

// BootstrapConfig controls the package environment setup.
type BootstrapConfig struct {
	Python      string `json:"python" yaml:"python" toml:"python"`
	VenvDir     string `json:"venv_dir" yaml:"venv_dir" toml:"venv_dir"`
	PipCacheDir string `json:"pip_cache_dir" yaml:"pip_cache_dir" toml:"pip_cache_dir"`
	ToolkitSpec string `json:"toolkit_spec" yaml:"toolkit_spec" toml:"toolkit_spec"`
	HarnessSpec string `json:"harness_spec" yaml:"harness_spec" toml:"harness_spec"`
	TrackerSpec string `json:"tracker_spec" yaml:"tracker_spec" toml:"tracker_spec"`
}

// TrainConfig is the fixed hyperparameter set for one LoRA run.
type TrainConfig struct {
	Data          string `json:"data" yaml:"data" toml:"data"`
	MaxSeqLength  int    `json:"max_seq_length" yaml:"max_seq_length" toml:"max_seq_length"`
	Epochs        int    `json:"epochs" yaml:"epochs" toml:"epochs"`
	LRWarmupSteps int    `json:"lr_warmup_steps" yaml:"lr_warmup_steps" toml:"lr_warmup_steps"`
	Precision     string `json:"precision" yaml:"precision" toml:"precision"`
	LoraR         int    `json:"lora_r" yaml:"lora_r" toml:"lora_r"`
	LoraAlpha     int    `json:"lora_alpha" yaml:"lora_alpha" toml:"lora_alpha"`
	EvalInterval  int    `json:"eval_interval" yaml:"eval_interval" toml:"eval_interval"`
	LoggerName    string `json:"logger_name" yaml:"logger_name" toml:"logger_name"`
}

// EvalConfig selects the harness task set and output for one evaluation run.
type EvalConfig struct {
	Tasks         []string `json:"tasks" yaml:"tasks" toml:"tasks"`
	NumFewshot    int      `json:"num_fewshot" yaml:"num_fewshot" toml:"num_fewshot"`
	Precision     string   `json:"precision" yaml:"precision" toml:"precision"`
	SaveFilepath  string   `json:"save_filepath" yaml:"save_filepath" toml:"save_filepath"`
	CheckpointDir string   `json:"checkpoint_dir" yaml:"checkpoint_dir" toml:"checkpoint_dir"`
}

// ConvertConfig enables the lit->HF checkpoint conversion stage.
type ConvertConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled" toml:"enabled"`
	OutputDir string `json:"output_dir" yaml:"output_dir" toml:"output_dir"`
}

// SlurmConfig shapes the single exclusive batch allocation.
type SlurmConfig struct {
	JobName     string `json:"job_name" yaml:"job_name" toml:"job_name"`
	Partition   string `json:"partition" yaml:"partition" toml:"partition"`
	Nodes       int    `json:"nodes" yaml:"nodes" toml:"nodes"`
	Ntasks      int    `json:"ntasks" yaml:"ntasks" toml:"ntasks"`
	GPUs        int    `json:"gpus" yaml:"gpus" toml:"gpus"`
	CPUsPerTask int    `json:"cpus_per_task" yaml:"cpus_per_task" toml:"cpus_per_task"`
	Mem         string `json:"mem" yaml:"mem" toml:"mem"`
	Time        string `json:"time" yaml:"time" toml:"time"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
