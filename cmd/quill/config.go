package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/natefinch/atomic"

	"github.com/fennwick/quill/pkg/site"
)

// SiteConfig holds the site-wide metadata rendered into every page.
type SiteConfig struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Author      string `json:"author"`
	BaseURL     string `json:"base_url"`
}

// BuildConfig holds the directory layout and the enabled build extensions.
type BuildConfig struct {
	ContentDir string `json:"content_dir"`
	LayoutDir  string `json:"layout_dir"`
	StaticDir  string `json:"static_dir"`
	OutputDir  string `json:"output_dir"`
	CachePath  string `json:"cache_path"`

	// EnableFeed writes an Atom feed of the index listing to atom.xml.
	EnableFeed bool `json:"enable_feed"`
	// FeedLimit caps feed items; zero means all entries.
	FeedLimit int `json:"feed_limit"`
	// EnableCache keeps a SQLite build cache so rebuilds skip unchanged pages.
	EnableCache bool `json:"enable_cache"`
	// IncludeDrafts renders draft entries; they still stay out of the index
	// listing and the feed.
	IncludeDrafts bool `json:"include_drafts"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	LogLevel string       `json:"log_level"`
	Site     *SiteConfig  `json:"site_config"`
	Build    *BuildConfig `json:"build_config"`
}

// DefaultSiteConfig creates a site configuration with default values.
func DefaultSiteConfig() *SiteConfig {
	return &SiteConfig{
		Title:       "My Blog",
		Description: "Notes and longer writeups.",
		Author:      "Anonymous",
		BaseURL:     "",
	}
}

// DefaultBuildConfig creates a build configuration with default values.
func DefaultBuildConfig() *BuildConfig {
	return &BuildConfig{
		ContentDir:  "./content",
		LayoutDir:   "./layouts",
		StaticDir:   "./static",
		OutputDir:   "./public",
		CachePath:   "./.quill/cache.db",
		EnableFeed:  true,
		FeedLimit:   20,
		EnableCache: true,
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := &Config{
		LogLevel: "info",
		Site:     DefaultSiteConfig(),
		Build:    DefaultBuildConfig(),
	}

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// The build can still run on defaults, so don't fail here.
				fmt.Printf("warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// siteMeta converts the site config into the metadata the render engine takes.
func siteMeta(cfg *Config) site.Meta {
	return site.Meta{
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		Author:      cfg.Site.Author,
		BaseURL:     cfg.Site.BaseURL,
	}
}
