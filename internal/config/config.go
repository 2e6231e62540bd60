// Package config loads process-level settings from environment
// variables and an optional config file. Batch-level options come from
// CLI flags; this layer only carries operator defaults and secrets.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings is the process configuration.
type Settings struct {
	LogLevel string `mapstructure:"log_level"`

	// PatternsPath points at a credential pattern database file.
	// Empty means the built-in database.
	PatternsPath string `mapstructure:"patterns_path"`

	// PerWorkerEstimate is the budgeter's memory cost model for one
	// worker, in bytes.
	PerWorkerEstimate uint64 `mapstructure:"per_worker_estimate"`

	// WorkerHardCap bounds the pool size.
	WorkerHardCap int `mapstructure:"worker_hard_cap"`

	LLMBaseURL string        `mapstructure:"llm_base_url"`
	LLMAPIKey  string        `mapstructure:"llm_api_key"`
	LLMModel   string        `mapstructure:"llm_model"`
	LLMTimeout time.Duration `mapstructure:"llm_timeout"`
}

// Load reads settings from CREDENTIALFORGE_* environment variables and,
// when present, a credentialforge.yaml in the working directory.
func Load() (Settings, error) {
	v := viper.New()
	v.SetEnvPrefix("CREDENTIALFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("patterns_path", "")
	v.SetDefault("per_worker_estimate", uint64(512)<<20)
	v.SetDefault("worker_hard_cap", 64)
	v.SetDefault("llm_base_url", "")
	v.SetDefault("llm_api_key", "")
	v.SetDefault("llm_model", "llama-3.1-8b-instant")
	v.SetDefault("llm_timeout", time.Minute)

	v.SetConfigName("credentialforge")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Settings{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshaling settings: %w", err)
	}
	return s, nil
}
