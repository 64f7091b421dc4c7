package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every location and name the tool needs: where raw exports
// arrive, where loaded ones are archived, where the ledger lives, and the
// payee names used in budgeting exports.
type Config struct {
	DataDir   string `yaml:"data_dir" mapstructure:"data_dir"`
	CSVDir    string `yaml:"csv_dir" mapstructure:"csv_dir"`
	LoadedDir string `yaml:"loaded_dir" mapstructure:"loaded_dir"`
	DBPath    string `yaml:"db_path" mapstructure:"db_path"`
	Payees    Payees `yaml:"payees" mapstructure:"payees"`
}

// Payees names the budgeting-side counterparties. Defaults match the
// account this tool was built around; override them in config.yaml.
type Payees struct {
	TopUp    string `yaml:"top_up" mapstructure:"top_up"`
	Operator string `yaml:"operator" mapstructure:"operator"`
}

// Build resolves configuration from, in increasing precedence: defaults,
// an optional YAML config file, OYSTERSTORE_* environment variables, and
// command flags.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("payees.top_up", "Transfer: Amex")
	v.SetDefault("payees.operator", "TFL")

	v.SetEnvPrefix("OYSTERSTORE")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(defaultDataDir())
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults fills the path fields left empty, keeping the original
// layout: everything under the data dir, loaded files archived beneath the
// inbox.
func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "oyster.sqlite")
	}
	if c.CSVDir == "" {
		c.CSVDir = filepath.Join(c.DataDir, "csv")
	}
	if c.LoadedDir == "" {
		c.LoadedDir = filepath.Join(c.CSVDir, "loaded")
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "projects", "oyster-store")
}
