// Package tempdb manages scratch databases used to host schema
// snapshots for diffing. Every database it creates is dropped again
// before control returns to the caller.
package tempdb

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/lib/pq"

	"db-sync/internal/dbconn"
)

// namePrefix marks scratch databases so leftovers are easy to find.
const namePrefix = "temp_db"

// killQuery terminates every other backend connected to a database.
// A lingering backend makes DROP DATABASE fail with "database is being
// accessed by other users".
const killQuery = `
SELECT
    pg_terminate_backend(pg_stat_activity.pid)
FROM
    pg_stat_activity
WHERE
    pg_stat_activity.datname = $1
    AND pid <> pg_backend_pid();`

// Manager creates and destroys scratch databases on one server. Admin
// is the target of the administrative database used to issue CREATE and
// DROP DATABASE in autocommit mode.
type Manager struct {
	Admin dbconn.Target

	connect func(ctx context.Context, t dbconn.Target) (*sql.DB, error)
}

func NewManager(admin dbconn.Target) *Manager {
	return &Manager{Admin: admin, connect: dbconn.Connect}
}

// tempName prefixes 10 random lowercase letters with temp_db.
func tempName() string {
	return namePrefix + strings.ToLower(gofakeit.LetterN(10))
}

// With creates a scratch database, hands its target to fn and drops the
// database again when fn returns. Once the database exists the drop
// runs on every exit path; a failed CREATE means there is nothing to
// drop. If fn succeeds but the drop fails, the drop error is returned.
func (m *Manager) With(ctx context.Context, fn func(t dbconn.Target) error) (err error) {
	admin, err := m.connect(ctx, m.Admin)
	if err != nil {
		return err
	}
	defer admin.Close()

	name := tempName()

	if _, err := admin.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE %s", pq.QuoteIdentifier(name))); err != nil {
		return fmt.Errorf("failed to create database %s: %w", name, err)
	}

	defer func() {
		// Teardown must survive cancellation of the work context.
		dropErr := drop(context.WithoutCancel(ctx), admin, name)
		if dropErr == nil {
			return
		}
		if err == nil {
			err = dropErr
		} else {
			log.Printf("Warning: failed to drop %s: %v", name, dropErr)
		}
	}()

	return fn(m.Admin.WithName(name))
}

// drop revokes new connections, kicks existing backends and drops the
// database, in that order.
func drop(ctx context.Context, admin *sql.DB, name string) error {
	ident := pq.QuoteIdentifier(name)

	if _, err := admin.ExecContext(ctx, fmt.Sprintf("REVOKE CONNECT ON DATABASE %s FROM PUBLIC", ident)); err != nil {
		return fmt.Errorf("failed to revoke connections on %s: %w", name, err)
	}
	if _, err := admin.ExecContext(ctx, killQuery, name); err != nil {
		return fmt.Errorf("failed to terminate backends on %s: %w", name, err)
	}
	if _, err := admin.ExecContext(ctx, fmt.Sprintf("DROP DATABASE %s", ident)); err != nil {
		return fmt.Errorf("failed to drop database %s: %w", name, err)
	}
	return nil
}
