package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/folio/content"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index markdown posts into the SQLite database",
	Long: `index parses every post under the content directory and replaces the
contents of the SQLite database with them. serve does the same at startup;
run index on its own to validate posts or to prepare a database ahead of a
deploy.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.DatabasePath == "" {
			return errors.New("no database path configured (set database_path or --database-path)")
		}
		if cfg.ContentDir == "" {
			cfg.ContentDir = "content"
		}

		store, err := content.NewStore(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()

		loader := content.NewMarkdownLoader(cfg.ContentDir, content.SiteMetadata{Title: cfg.Name})
		loader.DateFormat = cfg.DateFormat
		n, err := content.Sync(cmd.Context(), loader, store)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "indexed %d posts from %s into %s\n", n, cfg.ContentDir, cfg.DatabasePath)
		return nil
	},
}
