// Package repository provides persistence implementations for the PalmLink
// reference server using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/palmlink/palmlink/internal/models"
)

// ErrNotFound is returned when a requested row does not exist or does not
// belong to the requesting user.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint,
// e.g. registering an already-taken email.
var ErrDuplicate = errors.New("duplicate")

const uniqueViolation = "23505"

// PostgresUserRepository implements account persistence against a PostgreSQL
// database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the
// given database connection. db must be a valid *sql.DB connected to a
// PostgreSQL instance.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// CreateUser inserts a new account record. It returns ErrDuplicate when the
// email or palm digest is already registered.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, u models.User) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, username, password_hash, palm_digest)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Email, u.Username, u.PasswordHash, u.PalmDigest)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

const userColumns = `id, email, username, password_hash, palm_digest, bio, company, job_title, profile_picture`

func (r *PostgresUserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.PalmDigest,
		&u.Bio, &u.Company, &u.JobTitle, &u.ProfilePicture)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// UserByEmail fetches the account registered under the given email.
// Returns ErrNotFound when no such account exists.
func (r *PostgresUserRepository) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// UserByID fetches the account with the given identifier.
// Returns ErrNotFound when no such account exists.
func (r *PostgresUserRepository) UserByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// UserByPalmDigest fetches the account enrolled with the given palm digest.
// Returns ErrNotFound when no account matches.
func (r *PostgresUserRepository) UserByPalmDigest(ctx context.Context, digest string) (*models.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE palm_digest = $1`, digest))
}

// UpdateProfile overwrites the editable profile fields of the given account.
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, id string, p models.Profile) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users SET username = $2, bio = $3, company = $4, job_title = $5, profile_picture = $6
		WHERE id = $1
	`, id, p.Username, p.Bio, p.Company, p.JobTitle, p.ProfilePicture)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
