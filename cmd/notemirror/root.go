package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/notemirror/notemirror"
)

var (
	verbose    bool
	configPath string
	baseURL    string
	dataDir    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notemirror",
	Short: "A local mirror for server-held account and wallet annotations",
	Long: `Notemirror keeps a local cache of the annotation collections held by the
remote service and keeps it in agreement with the server after every change.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.notemirror.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Annotation service base URL")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory for persistent snapshots")
}

// buildMirror assembles the mirror from config file, environment, and
// command-line overrides.
func buildMirror() (*notemirror.Mirror, error) {
	path := configPath
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".notemirror.yaml")
		}
	}

	cfg, err := notemirror.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	return notemirror.FromConfig(cfg, notemirror.WithLogger(slog.Default()))
}
