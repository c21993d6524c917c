package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Project struct {
		Root      string `yaml:"root"`
		Framework string `yaml:"framework"` // override auto-detection
	} `yaml:"project"`
	Resolver struct {
		Aliases    map[string]string `yaml:"aliases"`
		Extensions []string          `yaml:"extensions"`
	} `yaml:"resolver"`
	Cache struct {
		Namespace   string `yaml:"namespace"`
		MaxFileSize int64  `yaml:"max_file_size"`
	} `yaml:"cache"`
	Storage struct {
		Backend string `yaml:"backend"` // "local" or "sqlite"
		Path    string `yaml:"path"`
	} `yaml:"storage"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.Project.Root = "."
	cfg.Cache.Namespace = "default"
	cfg.Storage.Backend = "local"
	cfg.Storage.Path = ".routelens"
	applyEnv(cfg)
	return cfg
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	applyEnv(cfg)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if root := os.Getenv("ROUTELENS_ROOT"); root != "" {
		cfg.Project.Root = root
	}
	if fw := os.Getenv("ROUTELENS_FRAMEWORK"); fw != "" {
		cfg.Project.Framework = fw
	}
	if ns := os.Getenv("ROUTELENS_NAMESPACE"); ns != "" {
		cfg.Cache.Namespace = ns
	}
	if backend := os.Getenv("ROUTELENS_STORAGE_BACKEND"); backend != "" {
		cfg.Storage.Backend = backend
	}
	if path := os.Getenv("ROUTELENS_STORAGE_PATH"); path != "" {
		cfg.Storage.Path = path
	}
	if size := os.Getenv("ROUTELENS_MAX_FILE_SIZE"); size != "" {
		if n, err := strconv.ParseInt(size, 10, 64); err == nil {
			cfg.Cache.MaxFileSize = n
		}
	}
}
