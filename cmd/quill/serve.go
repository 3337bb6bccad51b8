package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var servePort int

// debounceDelay batches bursts of filesystem events into a single rebuild.
const debounceDelay = 500 * time.Millisecond

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Builds the site, serves it locally, and rebuilds on changes",
	Long: `The serve command performs an initial build, then serves the output
directory on a local port. The content, layouts, and static directories are
watched for changes; edits trigger a debounced rebuild.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), cfg)
	},
}

func runServe(ctx context.Context, cfg *Config) error {
	if err := runBuild(ctx, cfg, logger); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, root := range []string{cfg.Build.ContentDir, cfg.Build.LayoutDir, cfg.Build.StaticDir} {
		if err = watchTree(watcher, root); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go watchLoop(ctx, watcher)

	addr := fmt.Sprintf(":%d", servePort)
	server := &http.Server{Addr: addr, Handler: previewHandler(cfg.Build.OutputDir)}

	go func() {
		logger.Info("Serving site", "address", "http://localhost"+addr, "dir", cfg.Build.OutputDir)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Preview server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Stopping preview server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Preview server shutdown failed", "error", err)
	}
	return nil
}

// watchLoop reacts to filesystem events, debouncing them into rebuilds.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	var rebuild *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("Change detected", "path", event.Name, "op", event.Op.String())

			// New subdirectories are not watched automatically.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}

			if rebuild != nil {
				rebuild.Stop()
			}
			rebuild = time.AfterFunc(debounceDelay, func() {
				logger.Info("Rebuilding site...")
				if err := runBuild(ctx, cfg, logger); err != nil {
					logger.Error("Rebuild failed", "error", err)
					return
				}
				logger.Info("Site rebuilt")
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Error("Watcher error", "error", err)
		}
	}
}

// watchTree adds root and every directory below it to the watcher. A missing
// root is skipped, since layouts and static dirs are optional.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	if root == "" {
		return nil
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		logger.Debug("Directory not found, not watching", "dir", root)
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
		}
		return nil
	})
}

// previewHandler serves the built site with caching disabled, so edits show
// up on plain refresh during development.
func previewHandler(outputDir string) http.Handler {
	files := http.FileServer(http.Dir(outputDir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") && r.URL.Path != "/" {
			if _, err := os.Stat(filepath.Join(outputDir, filepath.FromSlash(r.URL.Path), "index.html")); os.IsNotExist(err) {
				http.NotFound(w, r)
				return
			}
		}
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		files.ServeHTTP(w, r)
	})
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "port to serve the site on")
	rootCmd.AddCommand(serveCmd)
}
