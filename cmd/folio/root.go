package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eringen/folio"
)

// version is set at build time via ldflags.
var version = "dev"

var cfgFile string

// configKeys are the folio.yaml keys that can also be set as FOLIO_<KEY>
// environment variables.
var configKeys = []string{
	"name", "url", "description", "author", "subtitle", "keywords",
	"email", "github", "twitter",
	"addr", "content_dir", "static_dir", "database_path", "date_format", "htmx_src",
	"session_secret", "cookie_secure",
	"cache_ttl", "watch", "contact_limit", "contact_window",
}

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "folio - a personal landing page and blog",
	Long: `folio serves a personal landing page: a bio listing your markdown posts,
a page per post, RSS and sitemap feeds, and a footer that reveals your
email address on request.

Configuration is read from folio.yaml in the current directory, FOLIO_*
environment variables and command-line flags, in increasing priority.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./folio.yaml)")
	rootCmd.PersistentFlags().String("content-dir", "", "directory holding markdown posts")
	rootCmd.PersistentFlags().String("database-path", "", "SQLite index path; posts are read from markdown directly when empty")

	rootCmd.AddCommand(serveCmd, indexCmd, newCmd, versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the folio version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "folio %s\n", version)
	},
}

// loadConfig merges folio.yaml, the environment and cmd's flags into a
// SiteConfig. Flags use dashes where config keys use underscores.
func loadConfig(cmd *cobra.Command) (folio.SiteConfig, error) {
	var cfg folio.SiteConfig
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("folio")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return cfg, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if f.Name == "config" || !contains(configKeys, key) {
			return
		}
		if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
			bindErr = fmt.Errorf("bind flag %s: %w", f.Name, err)
		}
	})
	if bindErr != nil {
		return cfg, bindErr
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
