// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/GiowGiow/dlbird/pkg/dlbird"
)

// DefaultConfig returns the default configuration written by `config init`.
func DefaultConfig() map[string]any {
	return map[string]any{
		"output":    "datasets",
		"cache":     "",
		"log-level": "info",
		"log-file":  "",
	}
}

func configPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "dlbird.yaml")
}

// loadConfig builds the layered configuration: defaults, then the config
// file, then environment variables. CLI flags override all of it in
// finalizeSettings. A local .env file is loaded first so KAGGLE_USERNAME /
// KAGGLE_KEY / KAGGLEHUB_CACHE can live next to the project.
func loadConfig(ro *RootOpts) (*viper.Viper, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, val := range DefaultConfig() {
		v.SetDefault(key, val)
	}
	_ = v.BindEnv("cache", "KAGGLEHUB_CACHE", "DLBIRD_CACHE")
	_ = v.BindEnv("output", "DLBIRD_OUTPUT")

	if ro.Config != "" {
		v.SetConfigFile(ro.Config)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", ro.Config, err)
		}
		return v, nil
	}

	// The default config file is optional.
	if _, err := os.Stat(configPath()); err == nil {
		v.SetConfigFile(configPath())
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath(), err)
		}
	}
	return v, nil
}

// finalizeSettings applies flag > env/config > default precedence and
// returns the orchestrator settings. Environment lookups happen here, never
// inside the orchestrator.
func finalizeSettings(cmd *cobra.Command, dl *downloadOpts, v *viper.Viper) dlbird.Settings {
	cfg := dlbird.Settings{
		OutputDir: v.GetString("output"),
		CacheDir:  v.GetString("cache"),
	}
	if cmd.Flags().Changed("output") && dl.output != "" {
		cfg.OutputDir = dl.output
	}
	if cmd.Flags().Changed("cache") && dl.cache != "" {
		cfg.CacheDir = dl.cache
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "datasets"
	}
	return cfg
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Long: `Creates a default configuration file at ~/.config/dlbird.yaml

The configuration file sets default values for the directory flags.
CLI flags always override config file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath()

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("could not create config directory: %w", err)
			}

			data, err := yaml.Marshal(DefaultConfig())
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("could not write config file: %w", err)
			}

			fmt.Printf("✓ Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config file")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath()

			if _, err := os.Stat(path); err != nil {
				fmt.Println("No config file found.")
				fmt.Printf("Run 'dlbird config init' to create one at:\n  %s\n", path)
				return nil
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			fmt.Printf("Config file: %s\n\n", path)
			fmt.Println(string(data))
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(configPath())
		},
	}
}
