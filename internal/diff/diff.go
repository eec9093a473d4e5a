// Package diff wraps the external schema-diff engine behind a small
// adapter: two live schema sessions in, an ordered statement set out.
package diff

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	pgdiff "github.com/stripe/pg-schema-diff/pkg/diff"
)

// ComputeError reports a failure of the external diff engine.
type ComputeError struct {
	Err error
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("failed to compute schema diff: %v", e.Err)
}

func (e *ComputeError) Unwrap() error { return e.Err }

// ApplyError reports the first generated statement that failed against
// the target database. Statements run sequentially in autocommit mode,
// so earlier ones may already have taken effect.
type ApplyError struct {
	Index     int
	Statement string
	Err       error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("failed to apply statement %d (%s), database may be partially migrated: %v",
		e.Index+1, e.Statement, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }

// Migration is an ordered statement set computed by one diff
// invocation. The engine emits statements in dependency order;
// reordering them is not legal.
type Migration struct {
	statements []string
	target     *sql.DB
}

// New builds a migration that applies statements against target.
func New(target *sql.DB, statements []string) *Migration {
	return &Migration{statements: statements, target: target}
}

// Compute returns the statements that transform the schema in from
// into the schema in to. Safety checks are off: the plan may contain
// destructive statements, and gating those is the caller's job. An
// empty migration means the schemas are already equivalent.
func Compute(ctx context.Context, from, to *sql.DB) (*Migration, error) {
	plan, err := pgdiff.Generate(ctx, from,
		pgdiff.DBSchemaSource(to),
		pgdiff.WithDoNotValidatePlan(),
	)
	if err != nil {
		return nil, &ComputeError{Err: err}
	}

	statements := make([]string, len(plan.Statements))
	for i, stmt := range plan.Statements {
		statements[i] = stmt.DDL
	}

	return New(from, statements), nil
}

// Statements returns the ordered statement list.
func (m *Migration) Statements() []string { return m.statements }

// Empty reports whether the two schemas were already equivalent.
func (m *Migration) Empty() bool { return len(m.statements) == 0 }

// SQL returns the full migration as one SQL text block.
func (m *Migration) SQL() string {
	if m.Empty() {
		return ""
	}

	var b strings.Builder
	for _, stmt := range m.statements {
		b.WriteString(stmt)
		b.WriteString(";\n\n")
	}
	return b.String()
}

// Apply executes the statement set in order against the target
// database. onProgress, if non-nil, is called after each statement.
func (m *Migration) Apply(ctx context.Context, onProgress func()) error {
	for i, stmt := range m.statements {
		if _, err := m.target.ExecContext(ctx, stmt); err != nil {
			return &ApplyError{Index: i, Statement: stmt, Err: err}
		}
		if onProgress != nil {
			onProgress()
		}
	}
	return nil
}
