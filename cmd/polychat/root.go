package main

import (
	"fmt"

	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

var (
	dataDir   string
	debugMode bool
)

var rootCmd = &cobra.Command{
	Use:   "polychat",
	Short: "Core service for the PolyChat multi-pane chat shell",
	Long: `PolyChat keeps several AI chat sites open side by side, broadcasts one
prompt to all of them and remembers each arrangement as a named session.

This binary is the core the shell talks to. Run with no subcommand to serve.`,
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory for sessions and templates (default: user config dir)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionString())
	return rootCmd.Execute()
}

func versionString() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("polychat %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("polychat %s\n", version)
}

// loadConfig reads the environment and applies the persistent flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.Storage.DataDir = dataDir
	}
	if debugMode {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}
