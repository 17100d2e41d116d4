package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration for both the server and the
// trainer. Values come from config.yaml when present, overridden by
// environment variables, with built-in defaults underneath.
type Config struct {
	Port         string         `yaml:"port"`
	LogLevel     string         `yaml:"log_level"`
	LogFormat    string         `yaml:"log_format"`
	ModelPath    string         `yaml:"model_path"`
	MetadataPath string         `yaml:"metadata_path"`
	DataPaths    []string       `yaml:"data_paths"`
	TipsDBPath   string         `yaml:"tips_db_path"`
	Training     TrainingConfig `yaml:"training"`
}

// TrainingConfig holds trainer hyperparameters.
type TrainingConfig struct {
	DataPath       string  `yaml:"data_path"`
	TrainTestSplit float64 `yaml:"train_test_split"`
	NumTrees       int     `yaml:"num_trees"`
	MaxDepth       int     `yaml:"max_depth"`
	RandomSeed     int64   `yaml:"random_seed"`
}

// defaultConfig returns the built-in defaults.
func defaultConfig() *Config {
	return &Config{
		Port:         "8080",
		LogLevel:     "info",
		LogFormat:    "text",
		ModelPath:    "ml_artifacts/model.json",
		MetadataPath: "ml_artifacts/metadata.json",
		DataPaths: []string{
			"data/vehicles_corrected.csv",
			"data/vehicles.csv",
		},
		TipsDBPath: "data/tips.db",
		Training: TrainingConfig{
			DataPath:       "data/vehicles.csv",
			TrainTestSplit: 0.8,
			NumTrees:       300,
			MaxDepth:       10,
			RandomSeed:     42,
		},
	}
}

// LoadConfig reads config.yaml (when it exists) and applies environment
// overrides. A missing file is not an error; an unparseable one is.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg.Port = getEnv("ECOFLEET_PORT", cfg.Port)
	cfg.LogLevel = getEnv("ECOFLEET_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("ECOFLEET_LOG_FORMAT", cfg.LogFormat)
	cfg.ModelPath = getEnv("ECOFLEET_MODEL_PATH", cfg.ModelPath)
	cfg.MetadataPath = getEnv("ECOFLEET_METADATA_PATH", cfg.MetadataPath)
	cfg.TipsDBPath = getEnv("ECOFLEET_TIPS_DB", cfg.TipsDBPath)
	cfg.Training.DataPath = getEnv("ECOFLEET_DATA_PATH", cfg.Training.DataPath)
	cfg.Training.NumTrees = getEnvAsInt("ECOFLEET_NUM_TREES", cfg.Training.NumTrees)
	cfg.Training.MaxDepth = getEnvAsInt("ECOFLEET_MAX_DEPTH", cfg.Training.MaxDepth)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt retrieves an environment variable as an integer or returns
// a default value.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
