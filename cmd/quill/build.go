package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/fennwick/quill/pkg/buildcache"
	"github.com/fennwick/quill/pkg/content"
	"github.com/fennwick/quill/pkg/site"
)

// Pseudo-source keys for cache records of pages not backed by one content file.
const (
	indexCacheKey = "//index"
	feedCacheKey  = "//feed"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Renders the site into the output directory",
	Long: `The build command loads every content entry, validates its front matter,
and renders the entry pages, the index listing, and (when enabled) the Atom
feed into the output directory. Static assets are copied alongside. With the
build cache enabled, pages whose rendered output is unchanged are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd.Context(), cfg, logger)
	},
}

// builder carries the state of one build pass.
type builder struct {
	cfg     *Config
	logger  *slog.Logger
	engine  *site.Engine
	cache   *buildcache.Cache
	live    map[string]struct{}
	written int
	skipped int
}

func runBuild(ctx context.Context, cfg *Config, logger *slog.Logger) error {
	start := time.Now()

	store := content.NewStore(cfg.Build.ContentDir)
	store.SetLogger(logger)
	if err := store.Load(); err != nil {
		return fmt.Errorf("content validation failed: %w", err)
	}

	engine, err := site.NewEngine(logger, siteMeta(cfg), cfg.Build.LayoutDir)
	if err != nil {
		return err
	}

	b := &builder{
		cfg:    cfg,
		logger: logger,
		engine: engine,
		live:   map[string]struct{}{},
	}

	if cfg.Build.EnableCache {
		if err = os.MkdirAll(filepath.Dir(cfg.Build.CachePath), 0755); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
		db, err := initDB(cfg.Build.CachePath)
		if err != nil {
			return fmt.Errorf("failed to open build cache: %w", err)
		}
		defer func() { _ = db.Close() }()

		if err = buildcache.SetupSchema(db); err != nil {
			return err
		}
		if b.cache, err = buildcache.New(db); err != nil {
			return err
		}
		b.cache.SetLogger(logger)
		defer b.cache.Close()
	}

	if err = os.MkdirAll(cfg.Build.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	index := store.Index()

	// Entry pages. Drafts render only when enabled, and never join the
	// index listing or the feed.
	pages := index
	if cfg.Build.IncludeDrafts {
		pages = store.Entries()
	}
	for _, entry := range pages {
		var buf bytes.Buffer
		if err = engine.RenderEntry(&buf, entry); err != nil {
			return fmt.Errorf("failed to render %s: %w", entry.SourcePath, err)
		}
		outPath := filepath.Join(cfg.Build.OutputDir, filepath.FromSlash(entry.Slug), "index.html")
		if err = b.writePage(ctx, entry.SourcePath, outPath, buf.Bytes()); err != nil {
			return err
		}
	}

	// Index listing.
	var buf bytes.Buffer
	if err = engine.RenderIndex(&buf, index); err != nil {
		return fmt.Errorf("failed to render index: %w", err)
	}
	if err = b.writePage(ctx, indexCacheKey, filepath.Join(cfg.Build.OutputDir, "index.html"), buf.Bytes()); err != nil {
		return err
	}

	// Atom feed.
	if cfg.Build.EnableFeed {
		buf.Reset()
		if err = engine.WriteFeed(&buf, index, cfg.Build.FeedLimit); err != nil {
			return err
		}
		if err = b.writePage(ctx, feedCacheKey, filepath.Join(cfg.Build.OutputDir, "atom.xml"), buf.Bytes()); err != nil {
			return err
		}
	}

	if err = b.copyStatic(); err != nil {
		return err
	}

	if b.cache != nil {
		if _, err = b.cache.Prune(ctx, b.live); err != nil {
			return err
		}
	}

	logger.Info("Build finished",
		"entries", len(pages),
		"written", b.written,
		"skipped", b.skipped,
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	return nil
}

// writePage writes rendered page bytes atomically, skipping the write when
// the build cache shows the same fingerprint and the output already exists.
func (b *builder) writePage(ctx context.Context, sourceKey, outPath string, data []byte) error {
	b.live[sourceKey] = struct{}{}
	fp := buildcache.Fingerprint(data)

	if b.cache != nil {
		stored, ok, err := b.cache.Lookup(ctx, sourceKey)
		if err != nil {
			return fmt.Errorf("cache lookup for %s: %w", sourceKey, err)
		}
		if ok && stored == fp {
			if _, err = os.Stat(outPath); err == nil {
				b.skipped++
				b.logger.Debug("Skipped unchanged page", "path", outPath)
				return nil
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", outPath, err)
	}
	if err := atomic.WriteFile(outPath, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	b.written++
	b.logger.Debug("Wrote page", "path", outPath)

	if b.cache != nil {
		if err := b.cache.Store(ctx, sourceKey, fp); err != nil {
			return fmt.Errorf("cache store for %s: %w", sourceKey, err)
		}
	}
	return nil
}

// copyStatic copies the static assets directory into the output directory,
// overwriting existing files. A missing static directory is not an error.
func (b *builder) copyStatic() error {
	src := b.cfg.Build.StaticDir
	if _, err := os.Stat(src); os.IsNotExist(err) {
		b.logger.Debug("No static directory, skipping copy", "dir", src)
		return nil
	}

	dst := filepath.Join(b.cfg.Build.OutputDir, "static")
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	if err = os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
