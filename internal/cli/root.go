// Package cli implements the loancalc command-line tool.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/homefinder/loancalc/internal/domain/port"
	"github.com/homefinder/loancalc/internal/infrastructure/persistence/memory"
	"github.com/homefinder/loancalc/internal/infrastructure/persistence/sqlite"
	"github.com/homefinder/loancalc/pkg/observability"
)

// LocalOwner owns every calculation the CLI records.
const LocalOwner = "local"

// app holds state shared by the subcommands of one invocation.
type app struct {
	out       io.Writer
	dbPath    string
	logLevel  string
	logFormat string

	logger *slog.Logger
	repo   port.CalculationRepository
	close  func() error
}

// Execute runs the CLI against the process's stdio.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree writing results to out and logs to
// errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:          "loancalc",
		Short:        "Home loan EMI and eligibility calculator",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			a.logger = slog.New(observability.NewHandler(observability.LogConfig{
				Level:  a.logLevel,
				Format: a.logFormat,
				Output: errOut,
			}))
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.close != nil {
				return a.close()
			}
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite history file; emi and eligibility record to it when set")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "pretty", "log format (json, text, pretty)")

	root.AddCommand(
		emiCmd(a),
		eligibilityCmd(a),
		exportCmd(a),
		historyCmd(a),
		certsCmd(a),
	)
	return root
}

// openRepo returns the SQLite store at path, or a throwaway in-memory
// repository when path is empty.
func (a *app) openRepo(path string) (port.CalculationRepository, error) {
	if a.repo != nil {
		return a.repo, nil
	}
	if path == "" {
		a.repo = memory.NewCalculationRepo(1)
		return a.repo, nil
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("history database opened", "path", path)
	a.repo = store
	a.close = store.Close
	return a.repo, nil
}

// DefaultDBPath is where history looks when --db is not given.
func DefaultDBPath() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".loancalc", "history.db")
	}
	return filepath.Join(dir, ".loancalc", "history.db")
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) println(s string) {
	fmt.Fprintln(a.out, s)
}
