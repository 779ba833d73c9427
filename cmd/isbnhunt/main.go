// isbnhunt scans wikipedia dump files for ISBNs and reports on the
// malformed ones.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose bool
	cfgFile string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "isbnhunt",
	Short: "Hunt for ISBNs in wikipedia dumps",
	Long: `isbnhunt streams the articles out of compressed wikipedia dump
files, extracts everything that looks like an ISBN, checks it against
the ISBN-10/ISBN-13 checksum algorithms, and writes a report plus a
CSV of every identifier that failed.

Dump files are expected in a directory, named the way the wikimedia
dumps come: <lang>wiki-<date>-pages-articles.xml.bz2`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Path to a YAML config file")

	rootCmd.AddCommand(huntCmd)
	rootCmd.AddCommand(inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
