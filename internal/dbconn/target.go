package dbconn

import (
	"fmt"
	"net/url"
)

const port = 5432

// Target describes one database to connect to. Values are fixed at
// construction; derive a new Target instead of mutating one.
type Target struct {
	Host     string
	User     string
	Password string
	Name     string
}

// URL renders the target as a postgres connection URL.
func (t Target) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(t.User, t.Password),
		Host:     fmt.Sprintf("%s:%d", t.Host, port),
		Path:     "/" + t.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// WithName returns a target for another database on the same server.
func (t Target) WithName(name string) Target {
	t.Name = name
	return t
}
