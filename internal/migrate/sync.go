package migrate

import (
	"context"

	"db-sync/internal/dbconn"
	"db-sync/internal/schema"
)

// Sync compares the live database to the application schema and applies
// the difference to the live database. Unless noPrompt is set, nothing
// touches the live database before the operator confirms.
//
// The application schema is loaded into a scratch database first, so
// the diff runs between two live schema sessions.
func (r *Runner) Sync(ctx context.Context, noPrompt bool) error {
	return r.withTempDB(ctx, func(tmp dbconn.Target) error {
		r.printf("db url: %s\n", r.cfg.Target().URL())
		r.printf("temp url: %s\n", tmp.URL())

		live, err := r.open(ctx, r.cfg.Target())
		if err != nil {
			return err
		}
		defer live.Close()

		target, err := r.open(ctx, tmp)
		if err != nil {
			return err
		}
		defer target.Close()

		if err := schema.LoadFromFolder(ctx, target, r.cfg.SchemaDir); err != nil {
			return err
		}

		migration, err := r.compute(ctx, live, target)
		if err != nil {
			return err
		}

		if migration.Empty() {
			r.printf("Already synced.\n")
			return nil
		}

		r.printf("\nTHE FOLLOWING CHANGES ARE PENDING:\n\n%s\n", migration.SQL())

		if !noPrompt && !r.prompt("Apply these changes?") {
			r.printf("Not applying.\n")
			return nil
		}

		r.printf("Applying...\n")
		if err := r.apply(ctx, migration); err != nil {
			return err
		}
		r.printf("Changes applied.\n")

		return nil
	})
}
