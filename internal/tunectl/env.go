package tunectl

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Secrets are injected configuration only: process environment, optionally
// seeded from a local .env file. They are forwarded to child processes for
// the stages that need them and are never logged or written to disk.
type Secrets struct {
	HFToken     string `envconfig:"HF_TOKEN"`
	WandbAPIKey string `envconfig:"WANDB_API_KEY"`
	HFHome      string `envconfig:"HF_HOME"`
	PipCacheDir string `envconfig:"PIP_CACHE_DIR"`
}

// LoadSecrets reads the environment, after loading .env if one exists.
func LoadSecrets() (*Secrets, error) {
	_ = godotenv.Load() // missing .env is fine
	var s Secrets
	if err := envconfig.Process("", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// hubEnv is the environment for commands that talk to the model hub.
func (s *Secrets) hubEnv() map[string]string {
	env := map[string]string{}
	if s.HFToken != "" {
		env["HF_TOKEN"] = s.HFToken
	}
	if s.HFHome != "" {
		env["HF_HOME"] = s.HFHome
	}
	return env
}

// trackerEnv adds the experiment-tracking key on top of the hub env; the
// training run needs both.
func (s *Secrets) trackerEnv() map[string]string {
	env := s.hubEnv()
	if s.WandbAPIKey != "" {
		env["WANDB_API_KEY"] = s.WandbAPIKey
	}
	return env
}

// pipEnv routes package installs through a shared cache when one is set.
func (s *Secrets) pipEnv(cacheDir string) map[string]string {
	env := map[string]string{}
	if cacheDir == "" {
		cacheDir = s.PipCacheDir
	}
	if cacheDir != "" {
		env["PIP_CACHE_DIR"] = cacheDir
	}
	return env
}
