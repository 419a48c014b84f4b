// Package config resolves runtime configuration from a YAML file and
// environment overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Backend names accepted in the config file.
const (
	BackendDynamo = "dynamodb"
	BackendSQLite = "sqlite"
)

// Defaults mirror the original deployment.
const (
	DefaultTable      = "arxiv-papers"
	DefaultRegion     = "us-east-1"
	DefaultSQLitePath = "arxdex.db"
	DefaultFile       = "arxdex.yaml"
	EnvFile           = "ARXDEX_CONFIG"
)

// Config is the full runtime configuration.
type Config struct {
	Backend  string `yaml:"backend"`  // dynamodb or sqlite
	Table    string `yaml:"table"`    // DynamoDB table name
	Region   string `yaml:"region"`   // AWS region
	Endpoint string `yaml:"endpoint"` // custom endpoint, e.g. DynamoDB Local
	Path     string `yaml:"path"`     // sqlite database path

	Keywords struct {
		TopK int `yaml:"top_k"`
	} `yaml:"keywords"`

	Load struct {
		Workers   int `yaml:"workers"`
		RateLimit int `yaml:"rate_limit"` // item writes per second; 0 = unlimited
	} `yaml:"load"`
}

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	c.Backend = BackendDynamo
	c.Table = DefaultTable
	c.Region = DefaultRegion
	c.Path = DefaultSQLitePath
	return c
}

// Load resolves configuration in order: defaults, then the YAML file,
// then environment variables. The file is located via the explicit path
// argument, $ARXDEX_CONFIG, or ./arxdex.yaml; a missing file is only an
// error when it was named explicitly.
func Load(explicitPath string) (Config, error) {
	c := Default()

	path := explicitPath
	if path == "" {
		path = os.Getenv(EnvFile)
	}
	required := path != ""
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err) && !required:
		// Defaults apply.
	default:
		return c, fmt.Errorf("reading config: %w", err)
	}

	c.applyEnv()
	return c, c.validate()
}

// applyEnv applies the same environment overrides the original scripts
// honored.
func (c *Config) applyEnv() {
	if v := os.Getenv("ARXIV_TABLE"); v != "" {
		c.Table = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		c.Region = v
	}
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendDynamo, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendDynamo, BackendSQLite)
	}
}
