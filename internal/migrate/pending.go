package migrate

import (
	"context"
	"fmt"
	"os"

	"db-sync/internal/dbconn"
	"db-sync/internal/schema"
)

// Pending compares the stored production snapshot to the application
// schema and writes the difference to the pending file, overwriting it
// in full on every run. Both schemas are loaded into scratch databases;
// no persistent database is ever modified.
func (r *Runner) Pending(ctx context.Context) error {
	return r.withTempDB(ctx, func(prod dbconn.Target) error {
		return r.withTempDB(ctx, func(target dbconn.Target) error {
			r.printf("prod temp url: %s\n", prod.URL())
			r.printf("target temp url: %s\n", target.URL())

			prodDB, err := r.open(ctx, prod)
			if err != nil {
				return err
			}
			defer prodDB.Close()

			targetDB, err := r.open(ctx, target)
			if err != nil {
				return err
			}
			defer targetDB.Close()

			if err := schema.LoadFromFile(ctx, prodDB, r.cfg.SnapshotFile); err != nil {
				return err
			}
			if err := schema.LoadFromFolder(ctx, targetDB, r.cfg.SchemaDir); err != nil {
				return err
			}

			migration, err := r.compute(ctx, prodDB, targetDB)
			if err != nil {
				return err
			}

			if migration.Empty() {
				r.printf("No changes needed, setting pending.sql to empty.\n")
			} else {
				r.printf("\nTHE FOLLOWING CHANGES ARE PENDING:\n\n%s\n", migration.SQL())
			}

			if err := os.WriteFile(r.cfg.PendingFile, []byte(migration.SQL()), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", r.cfg.PendingFile, err)
			}

			r.printf("Changes written to ./%s.\n", r.cfg.PendingFile)
			return nil
		})
	})
}
