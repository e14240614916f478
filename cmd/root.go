package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/paesdx/internal/content"
	"github.com/abhisek/paesdx/internal/logging"
	"github.com/abhisek/paesdx/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "paesdx",
	Short: "PAES M1 multistage diagnostic engine",
	Long: "paesdx routes, scores and diagnoses PAES Math M1 multistage tests against a\n" +
		"knowledge graph of atoms, and stores the resulting reports.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PAESDX_DB env var)")
	rootCmd.PersistentFlags().String("content", "", "Content directory with atoms, items and blueprint documents (overrides PAESDX_CONTENT; default: built-in PAES M1 seed)")
	rootCmd.PersistentFlags().String("log-mode", "", "Log mode: dev, prod or nop (overrides PAESDX_LOG_MODE)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(atomsCmd)
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// flagOrEnv returns the flag value, then the env var, then def.
func flagOrEnv(cmd *cobra.Command, flag, env, def string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PAESDX_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the report database.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// contentLoader resolves --content, then PAESDX_CONTENT, then the seed.
func contentLoader(cmd *cobra.Command) content.Loader {
	return content.DirLoader(flagOrEnv(cmd, "content", "PAESDX_CONTENT", ""))
}

// newLogger builds the process logger. Commands default to "nop" so that
// their stdout stays clean; serve defaults to "dev".
func newLogger(cmd *cobra.Command, def string) (*logging.Logger, error) {
	return logging.New(flagOrEnv(cmd, "log-mode", "PAESDX_LOG_MODE", def))
}

// readInput reads the named file, or stdin for "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// checkFormat validates a --format value.
func checkFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
}
