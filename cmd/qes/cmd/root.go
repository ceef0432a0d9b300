package cmd

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/kdmurray91/libqes/pkg/config"
	"github.com/kdmurray91/libqes/pkg/di"
	"github.com/kdmurray91/libqes/pkg/storage"
	"github.com/spf13/cobra"
)

var container *di.Container

// SetContainer injects the dependency container. Commands build one from
// the configuration when none has been set.
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "qes",
	Short: "qes - sequence record toolkit",
	Long: `qes works with FASTA/FASTQ-style sequence records: it parses header
lines, and stores, lists and prints records in a local record store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if container != nil {
			return nil
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		c, err := di.NewContainer(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to initialize")
		}
		SetContainer(c)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if container != nil {
		_ = container.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default is "+config.GetDefaultConfigPath()+")")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Data directory for the record store (overrides config)")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	switch {
	case path != "":
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case config.ConfigExists(config.GetDefaultConfigPath()):
		loaded, err := config.LoadConfig(config.GetDefaultConfigPath())
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		cfg = config.DefaultConfig()
	}

	if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

// withStore opens the record store for the duration of fn.
func withStore(cmd *cobra.Command, fn func(s *storage.Store) error) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = container.GetConfig().DataDir
	}
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return errors.Wrap(err, "failed to create data dir")
	}

	s, err := container.OpenStore(dataDir)
	if err != nil {
		return errors.Wrap(err, "failed to open store")
	}
	defer s.Close()

	return fn(s)
}
