package migrate

import "db-sync/internal/dbconn"

// Config is the workflows' entire configuration. It is built once at
// process start and passed in explicitly; the workflows read no
// globals.
type Config struct {
	Host     string
	User     string
	Password string
	Name     string

	// SchemaDir holds the application's declarative schema as .sql files.
	SchemaDir string
	// SnapshotFile is the stored production schema dump read by Pending.
	SnapshotFile string
	// PendingFile is where Pending writes the computed diff.
	PendingFile string
}

// Target is the connection target for the live database.
func (c Config) Target() dbconn.Target {
	return dbconn.Target{Host: c.Host, User: c.User, Password: c.Password, Name: c.Name}
}
