package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fennwick/quill/pkg/content"
)

var newCmd = &cobra.Command{
	Use:   "new <path>",
	Short: "Scaffolds a new content entry",
	Long: `The new command creates a markdown file under the content directory with
the front-matter fields filled in, e.g. "quill new posts/street-view-audio"
creates content/posts/street-view-audio.md dated today.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNew(cfg, args[0])
	},
}

func runNew(cfg *Config, slugPath string) error {
	rel := strings.TrimSuffix(filepath.ToSlash(filepath.Clean(slugPath)), ".md")
	if rel == "" || rel == "." || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("invalid entry path %q", slugPath)
	}

	target := filepath.Join(cfg.Build.ContentDir, filepath.FromSlash(rel)+".md")
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("%s already exists", target)
	}

	slug := content.SlugFromPath(rel + ".md")
	stub := fmt.Sprintf(`---
title: %s
description: ""
date: %s
draft: true
---

Write here.
`, titleFromSlug(slug), time.Now().Format("2006-01-02"))

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create content directory: %w", err)
	}
	if err := os.WriteFile(target, []byte(stub), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}

	logger.Info("Created entry", "path", target, "slug", slug)
	return nil
}

// titleFromSlug turns the last slug segment into a working title:
// "street-view-audio" becomes "Street view audio".
func titleFromSlug(slug string) string {
	last := slug
	if i := strings.LastIndex(slug, "/"); i >= 0 {
		last = slug[i+1:]
	}
	words := strings.ReplaceAll(strings.ReplaceAll(last, "-", " "), "_", " ")
	if words == "" {
		return "Untitled"
	}
	return strings.ToUpper(words[:1]) + words[1:]
}

func init() {
	rootCmd.AddCommand(newCmd)
}
