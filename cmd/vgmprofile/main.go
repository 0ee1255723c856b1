package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xtding233/vgmprofile/internal/logging"
)

const version = "0.1.0"

var (
	configDir string
	logLevel  string
	rootCmd   *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:           "vgmprofile",
		Short:         "Resolve per-title music profiles",
		Long:          `Resolve per-title music profiles from MP2K.yaml or a directory of sequence files`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if logLevel == "" {
				return nil
			}
			_, err := logging.ParseLevel(logLevel)
			return err
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configDir, "config-dir", "c", "", "Directory holding MP2K.yaml (default $VGMPROFILE_CONFIG_DIR or .)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(newResolveCmd(), newScanCmd(), newGamesCmd(), newServeCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
