package cmd

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/kdmurray91/libqes/pkg/config"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a default configuration file and create the data directory.

Examples:
  qes init
  qes init --config ./qes.yaml --data-dir ./records --force`,
	Args: cobra.NoArgs,
	// The config file may not exist yet, so skip loading it.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		return initializeConfig(cmd, configPath, dataDir, force)
	},
}

func initializeConfig(cmd *cobra.Command, configPath, dataDir string, force bool) error {
	if config.ConfigExists(configPath) && !force {
		cmd.Printf("Config already exists at %s. Use --force to overwrite.\n", configPath)
		return nil
	}

	cfg := config.DefaultConfig()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return errors.Wrap(err, "failed to create data directory")
	}
	if err := config.SaveConfig(cfg, configPath); err != nil {
		return err
	}

	cmd.Printf("Config written to %s\n", configPath)
	cmd.Printf("Data directory: %s\n", cfg.DataDir)
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}
