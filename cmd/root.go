package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"personmerge/internal/apperror"
	"personmerge/internal/config"
	"personmerge/internal/db"
	"personmerge/internal/merge"
)

const dbFileName = ".personmerge.db"

var (
	dbPath   string
	logLevel string

	cfg    = &config.Config{}
	logger = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:           "personmerge",
	Short:         "Merge accounts that share email addresses into persons",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, err := os.Getwd()
		if err != nil {
			return err
		}
		loaded, err := config.Load(dir)
		if err != nil {
			return err
		}
		cfg = loaded

		level := logLevel
		if level == "" {
			level = cfg.LogLevel
		}
		logger, err = newLogger(level)
		return err
	},
}

// Execute runs the CLI. An empty account list is reported but is not a failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if apperror.IsNoop(err) {
			fmt.Fprintf(os.Stderr, "[personmerge] %v, nothing to merge\n", err)
			return
		}
		fmt.Fprintf(os.Stderr, "[personmerge] error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the account database ("+dbFileName+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default warn)")
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "", "warn", "warning":
		l = slog.LevelWarn
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "error":
		l = slog.LevelError
	default:
		return nil, apperror.InvalidOption("log-level", fmt.Sprintf("unknown log level %q", level))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

// mergeOptions combines config defaults with command flag overrides.
func mergeOptions(cmd *cobra.Command, name string, foldCase bool) ([]merge.Option, error) {
	opts := cfg.MergeOptions()
	if name != "" {
		policy, err := merge.ParseNamePolicy(name)
		if err != nil {
			return nil, apperror.InvalidOption("name", err.Error())
		}
		opts = append(opts, merge.WithNamePolicy(policy))
	}
	if cmd.Flags().Changed("fold-case") {
		if foldCase {
			opts = append(opts, merge.WithEmailKey(merge.FoldEmail))
		} else {
			opts = append(opts, merge.WithEmailKey(merge.ExactEmail))
		}
	}
	return opts, nil
}

// DiscoverDB finds the database path using priority: env > flag > config > walk-up > XDG fallback
func DiscoverDB() (string, error) {
	// 1. Environment variable
	if envPath := os.Getenv("PERSONMERGE_DB"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	// 2. CLI flag, then config
	for _, p := range []string{dbPath, cfg.DB} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("database not found at %s", p)
	}

	// 3. Walk up from CWD
	dir, err := os.Getwd()
	if err == nil {
		for {
			candidate := filepath.Join(dir, dbFileName)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	// 4. XDG fallback
	if xdgPath, err := xdgDBPath(); err == nil {
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", fmt.Errorf("no %s found (set PERSONMERGE_DB, use --db, or run `personmerge import` first)", dbFileName)
}

func xdgDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "personmerge", "accounts.db"), nil
}

// OpenDatabase discovers and opens the database. With create set, a missing
// database is created at the explicit path or in the working directory.
func OpenDatabase(create bool) (*db.DB, error) {
	path, err := DiscoverDB()
	if err != nil {
		if !create {
			return nil, err
		}
		path = firstNonEmpty(os.Getenv("PERSONMERGE_DB"), dbPath, cfg.DB, dbFileName)
	}

	d, err := db.OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := d.Migrate(); err != nil {
		d.Close()
		return nil, err
	}
	logger.Debug("opened database", slog.String("path", path))
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
