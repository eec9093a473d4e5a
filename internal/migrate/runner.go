// Package migrate holds the two top-level migration workflows: Sync,
// which reconciles the live database with the application schema, and
// Pending, which records the diff against a stored production snapshot
// without applying it.
package migrate

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gosuri/uiprogress"

	"db-sync/internal/dbconn"
	"db-sync/internal/diff"
	"db-sync/internal/tempdb"
)

// Runner executes the migration workflows against one live database.
type Runner struct {
	cfg Config

	out io.Writer
	in  io.Reader

	// The seams below default to the real components; tests swap them.
	withTempDB func(ctx context.Context, fn func(t dbconn.Target) error) error
	open       func(ctx context.Context, t dbconn.Target) (*sql.DB, error)
	compute    func(ctx context.Context, from, to *sql.DB) (*diff.Migration, error)
	progress   bool
}

func NewRunner(cfg Config) *Runner {
	manager := tempdb.NewManager(cfg.Target())

	return &Runner{
		cfg:        cfg,
		out:        os.Stdout,
		in:         os.Stdin,
		withTempDB: manager.With,
		open:       dbconn.Connect,
		compute:    diff.Compute,
		progress:   true,
	}
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// prompt asks a yes/no question and reports whether the answer was y.
func (r *Runner) prompt(question string) bool {
	fmt.Fprintf(r.out, "%s ", question)

	answer, err := bufio.NewReader(r.in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}

// apply runs the statement set, with a progress bar outside of tests.
func (r *Runner) apply(ctx context.Context, m *diff.Migration) error {
	if !r.progress {
		return m.Apply(ctx, nil)
	}

	uiprogress.Start()
	defer uiprogress.Stop()

	bar := uiprogress.AddBar(len(m.Statements())).AppendCompleted().PrependElapsed()
	return m.Apply(ctx, func() { bar.Incr() })
}
