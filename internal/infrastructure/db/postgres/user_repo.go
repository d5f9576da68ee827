package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mentorhub/community-platform/services/auth-service/internal/domain"
)

const userColumns = `id, full_name, email, password_hash, role, email_verified, locked, reset_token_hash, reset_token_expiry, created_at`

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// ---------- helpers ----------

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepo) scanUserRow(row *sql.Row) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.FullName,
		&ur.Email,
		&ur.PasswordHash,
		&ur.Role,
		&ur.EmailVerified,
		&ur.Locked,
		&ur.ResetTokenHash,
		&ur.ResetTokenExpiry,
		&ur.CreatedAt,
	)
	return ur, err
}

func toDomainUser(ur userRow) domain.User {
	u := domain.User{
		ID:            ur.ID,
		FullName:      ur.FullName,
		Email:         ur.Email,
		PasswordHash:  ur.PasswordHash,
		Role:          ur.Role,
		EmailVerified: ur.EmailVerified,
		Locked:        ur.Locked,
	}
	if ur.ResetTokenHash.Valid {
		u.ResetTokenHash = ur.ResetTokenHash.String
	}
	if ur.ResetTokenExpiry.Valid {
		u.ResetTokenExpiry = ur.ResetTokenExpiry.Time
	}
	return u
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate")
}

// ---------- auth.UserRepo ----------

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
LIMIT 1;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) GetByResetTokenHash(ctx context.Context, tokenHash string) (domain.User, error) {
	tokenHash = strings.TrimSpace(tokenHash)
	if tokenHash == "" {
		return domain.User{}, domain.ErrMissingField("reset_token")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE reset_token_hash = $1
LIMIT 1;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q, tokenHash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrResetTokenNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

// Create inserts a new user. Email uniqueness is enforced by the DB
// constraint; a concurrent duplicate registration loses here with a conflict.
func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = normalizeEmail(u.Email)
	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	if u.FullName == "" {
		return domain.User{}, domain.ErrMissingField("full_name")
	}
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}
	if u.Role == "" {
		u.Role = string(domain.RoleUser)
	}

	const q = `
INSERT INTO users (id, full_name, email, password_hash, role, email_verified, locked)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING ` + userColumns + `;
`
	var ur userRow
	err := r.db.QueryRowContext(ctx, q,
		u.ID, u.FullName, u.Email, u.PasswordHash, u.Role, u.EmailVerified, u.Locked,
	).Scan(
		&ur.ID,
		&ur.FullName,
		&ur.Email,
		&ur.PasswordHash,
		&ur.Role,
		&ur.EmailVerified,
		&ur.Locked,
		&ur.ResetTokenHash,
		&ur.ResetTokenExpiry,
		&ur.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}
	if newHash == "" {
		return domain.ErrMissingField("password_hash")
	}

	const q = `
UPDATE users
SET password_hash = $2,
    password_changed_at = NOW()
WHERE id = $1;
`
	return r.execExpectingUser(ctx, q, userID, newHash)
}

func (r *UserRepo) SetResetToken(ctx context.Context, userID, tokenHash string, expiry time.Time) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}
	if tokenHash == "" {
		return domain.ErrMissingField("reset_token")
	}

	const q = `
UPDATE users
SET reset_token_hash = $2,
    reset_token_expiry = $3
WHERE id = $1;
`
	return r.execExpectingUser(ctx, q, userID, tokenHash, expiry)
}

func (r *UserRepo) ClearResetToken(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}

	const q = `
UPDATE users
SET reset_token_hash = NULL,
    reset_token_expiry = NULL
WHERE id = $1;
`
	return r.execExpectingUser(ctx, q, userID)
}

func (r *UserRepo) LockUser(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}

	const q = `
UPDATE users
SET locked = TRUE
WHERE id = $1;
`
	return r.execExpectingUser(ctx, q, userID)
}

func (r *UserRepo) UnlockUser(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}

	const q = `
UPDATE users
SET locked = FALSE
WHERE id = $1;
`
	return r.execExpectingUser(ctx, q, userID)
}

func (r *UserRepo) SetRole(ctx context.Context, userID string, role string) error {
	userID = strings.TrimSpace(userID)
	role = strings.TrimSpace(role)

	if userID == "" {
		return domain.ErrMissingField("user_id")
	}
	if !domain.IsValidRole(role) {
		return domain.ErrInvalidRole(role)
	}

	const q = `
UPDATE users
SET role = $2
WHERE id = $1;
`
	return r.execExpectingUser(ctx, q, userID, role)
}

func (r *UserRepo) CountByRole(ctx context.Context, role string) (int, error) {
	role = strings.TrimSpace(role)
	if !domain.IsValidRole(role) {
		return 0, domain.ErrInvalidRole(role)
	}

	const q = `SELECT COUNT(*) FROM users WHERE role = $1;`

	var n int
	if err := r.db.QueryRowContext(ctx, q, role).Scan(&n); err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	return n, nil
}

// execExpectingUser runs an update that must touch exactly one user row.
func (r *UserRepo) execExpectingUser(ctx context.Context, q string, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}
