package postgres

import (
	"database/sql"
	"time"
)

// userRow mirrors the users table. Nullable columns stay sql.Null* here and
// are flattened when mapped to the domain type.
type userRow struct {
	ID               string
	FullName         string
	Email            string
	PasswordHash     string
	Role             string
	EmailVerified    bool
	Locked           bool
	ResetTokenHash   sql.NullString
	ResetTokenExpiry sql.NullTime
	CreatedAt        time.Time
}
