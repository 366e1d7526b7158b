package shard

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/shardtree/internal/dist"
)

// Config carries the settings of one sharding pass.
type Config struct {
	// WorldSize is the number of partitions the model is sharded across.
	WorldSize int `yaml:"world_size"`
	// Rank is this process's partition index in [0, WorldSize).
	Rank int `yaml:"rank"`
}

// ConfigFromEnv builds a Config from the ambient distributed environment
// (RANK / WORLD_SIZE).
func ConfigFromEnv() (Config, error) {
	env, err := dist.FromEnv()
	if err != nil {
		return Config{}, err
	}
	return Config{WorldSize: env.WorldSize, Rank: env.Rank}, nil
}

// LoadConfig reads a Config from a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read shard config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse shard config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks rank/world-size consistency.
func (c Config) Validate() error {
	return dist.Env{Rank: c.Rank, WorldSize: c.WorldSize}.Validate()
}
