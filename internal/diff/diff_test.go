package diff_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/pg-schema-diff/pkg/sqldb"

	"db-sync/internal/diff"
)

// The engine introspects the "from" side through its own queryable
// contract; the schema sessions we hand over must keep satisfying it.
var _ sqldb.Queryable = (*sql.DB)(nil)

func TestEmptyMigration(t *testing.T) {
	m := diff.New(nil, nil)

	assert.True(t, m.Empty())
	assert.Equal(t, "", m.SQL())
	require.NoError(t, m.Apply(context.Background(), nil))
}

func TestSQLJoinsStatementsInOrder(t *testing.T) {
	m := diff.New(nil, []string{
		`CREATE TABLE t (id int)`,
		`ALTER TABLE t ADD CONSTRAINT t_pk PRIMARY KEY (id)`,
	})

	assert.False(t, m.Empty())
	assert.Equal(t,
		"CREATE TABLE t (id int);\n\nALTER TABLE t ADD CONSTRAINT t_pk PRIMARY KEY (id);\n\n",
		m.SQL())
}

func TestApplyExecutesStatementsInOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	stmts := []string{
		`CREATE TABLE t (id int)`,
		`ALTER TABLE t ADD COLUMN name text`,
	}
	for _, s := range stmts {
		mock.ExpectExec(regexp.QuoteMeta(s)).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	progressed := 0
	m := diff.New(db, stmts)
	require.NoError(t, m.Apply(context.Background(), func() { progressed++ }))

	assert.Equal(t, len(stmts), progressed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyStopsAtFirstFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	stmts := []string{
		`CREATE TABLE t (id int)`,
		`DROP TABLE gone`,
		`CREATE TABLE u (id int)`,
	}

	boom := errors.New(`table "gone" does not exist`)
	mock.ExpectExec(regexp.QuoteMeta(stmts[0])).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(stmts[1])).WillReturnError(boom)

	progressed := 0
	m := diff.New(db, stmts)
	err = m.Apply(context.Background(), func() { progressed++ })

	var applyErr *diff.ApplyError
	require.ErrorAs(t, err, &applyErr)
	assert.Equal(t, 1, applyErr.Index)
	assert.Equal(t, stmts[1], applyErr.Statement)
	assert.ErrorIs(t, err, boom)

	// The failing statement is reported, the rest never ran.
	assert.Equal(t, 1, progressed)
	require.NoError(t, mock.ExpectationsWereMet())
}
