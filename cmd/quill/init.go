package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fennwick/quill/pkg/site"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffolds a new site in the current directory",
	Long: `The init command creates the content, layouts, and static directories,
copies the default layouts and stylesheet into them as a starting point, and
writes a default config file (if the root command has not already done so).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cfg)
	},
}

func runInit(cfg *Config) error {
	for _, dir := range []string{cfg.Build.ContentDir, cfg.Build.LayoutDir, cfg.Build.StaticDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	// Copy the embedded defaults out so they can be edited in place.
	// Layouts and partials go to the layouts dir, everything else (the
	// stylesheet) to the static dir.
	defaults := site.Defaults()
	err := fs.WalkDir(defaults, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(defaults, path)
		if err != nil {
			return err
		}

		target := filepath.Join(cfg.Build.StaticDir, path)
		if strings.HasSuffix(path, ".html") {
			target = filepath.Join(cfg.Build.LayoutDir, path)
		}
		if _, err := os.Stat(target); err == nil {
			logger.Debug("Keeping existing file", "path", target)
			return nil
		}
		return os.WriteFile(target, data, 0644)
	})
	if err != nil {
		return fmt.Errorf("failed to copy default layouts: %w", err)
	}

	logger.Info("Site scaffolded",
		"content", cfg.Build.ContentDir,
		"layouts", cfg.Build.LayoutDir,
		"static", cfg.Build.StaticDir,
	)
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
