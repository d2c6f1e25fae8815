// internal/config/database.go
package config

import (
	"fmt"
)

// DSN builds the postgres connection string. Timestamps are stored and
// compared in the shop's local timezone so daily revenue windows match
// the owner's bookkeeping.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=America/Chicago",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}
