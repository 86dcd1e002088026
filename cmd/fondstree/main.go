package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"fondstree/internal/config"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "fondstree",
		Short: "Rebuild an archival fonds hierarchy from catalog records",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(debug)
		},
	}
	configPath  string
	dbPath      string
	debug       bool
	fromCatalog bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the config file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the record catalog (SQLite), overrides config")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&fromCatalog, "from-catalog", false, "Read records from the catalog instead of the records directory")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(mirrorCmd)
	rootCmd.AddCommand(htmlCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(statsCmd)
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if dbPath != "" {
		cfg.Catalog.Path = dbPath
	}
	if fromCatalog {
		cfg.Records.Source = config.SourceCatalog
	}
	return cfg
}

// absPath makes a command line path independent of output.dir.
func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		log.Fatalf("Invalid path %s: %v", p, err)
	}
	return abs
}
