package dbconn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"
)

const (
	// retryDelay is the fixed wait between connection attempts.
	retryDelay = 5 * time.Second

	// maxRetries bounds how many times a failed attempt is retried.
	maxRetries = 12
)

// ConnectionError reports a connection that could not be established
// within the retry budget.
type ConnectionError struct {
	Target   string
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	if errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, context.DeadlineExceeded) {
		return fmt.Sprintf("connection aborted after %d attempt(s): %v", e.Attempts, e.Err)
	}
	return fmt.Sprintf("max number of connection attempts has been reached (%d): %v", e.Attempts-1, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Connector dials a database, retrying transient failures with a fixed
// delay between attempts.
type Connector struct {
	Delay      time.Duration
	MaxRetries int

	// open is swappable for tests.
	open func(ctx context.Context, dsn string) (*sql.DB, error)
}

func NewConnector() *Connector {
	return &Connector{
		Delay:      retryDelay,
		MaxRetries: maxRetries,
		open:       openAndPing,
	}
}

func openAndPing(ctx context.Context, dsn string) (*sql.DB, error) {
	// sql.Open only validates the DSN; the ping forces a real dial.
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Connect dials the target, retrying on failure. Safe to call
// concurrently for independent targets.
func (c *Connector) Connect(ctx context.Context, target Target) (*sql.DB, error) {
	dsn := target.URL()
	log.Printf("Attempting to connect to database at %s", dsn)

	for attempt := 1; ; attempt++ {
		db, err := c.open(ctx, dsn)
		if err == nil {
			return db, nil
		}

		if attempt > c.MaxRetries {
			return nil, &ConnectionError{Target: dsn, Attempts: attempt, Err: err}
		}

		log.Printf("Connection failed (%d time(s)), retrying again in %s...", attempt, c.Delay)

		select {
		case <-ctx.Done():
			return nil, &ConnectionError{Target: dsn, Attempts: attempt, Err: ctx.Err()}
		case <-time.After(c.Delay):
		}
	}
}

// Connect dials the target with the default retry policy.
func Connect(ctx context.Context, target Target) (*sql.DB, error) {
	return NewConnector().Connect(ctx, target)
}
