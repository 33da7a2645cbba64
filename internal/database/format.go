package database

import (
	"fmt"
	"net/url"
	"time"
)

// Layouts used for the TEXT date and timestamp columns. Both sort lexically
// in chronological order, which the range filters rely on.
const (
	DateLayout      = time.DateOnly
	TimestampLayout = time.RFC3339Nano
)

// SQLiteDSN builds a modernc.org/sqlite DSN with foreign keys enforced.
// The path is percent-encoded so '?' or '#' in a file name stays part of it.
func SQLiteDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")

	return fmt.Sprintf("file:%s?%s", (&url.URL{Path: path}).EscapedPath(), q.Encode())
}

// PostgresDSN builds a pgx connection URL.
func PostgresDSN(user, password, host string, port int, name string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     fmt.Sprintf("%s:%d", host, port),
		Path:     name,
		RawQuery: "sslmode=disable",
	}

	return u.String()
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}
