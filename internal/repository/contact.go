package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/palmlink/palmlink/internal/models"
)

// PostgresContactRepository implements contact-entry persistence against a
// PostgreSQL database.
type PostgresContactRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresContactRepository creates a new PostgresContactRepository using
// the provided *sql.DB.
func NewPostgresContactRepository(db *sql.DB) *PostgresContactRepository {
	return &PostgresContactRepository{DB: db}
}

// ListByUser fetches all contact entries belonging to the given user, oldest
// first. An account without entries yields an empty slice, not an error.
func (r *PostgresContactRepository) ListByUser(ctx context.Context, userID string) ([]models.Contact, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, contact_type, contact_value, notes FROM contacts
		WHERE user_id = $1 ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListByUser: %w", err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.Type, &c.Value, &c.Notes); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// ContactByID fetches a single entry scoped to its owner. Returns ErrNotFound
// when the entry does not exist or belongs to another user.
func (r *PostgresContactRepository) ContactByID(ctx context.Context, userID, id string) (*models.Contact, error) {
	var c models.Contact
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, contact_type, contact_value, notes FROM contacts
		WHERE user_id = $1 AND id = $2
	`, userID, id).Scan(&c.ID, &c.Type, &c.Value, &c.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ContactByID: %w", err)
	}
	return &c, nil
}

// Add inserts a new contact entry for the given user.
func (r *PostgresContactRepository) Add(ctx context.Context, userID string, c models.Contact) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO contacts (id, user_id, contact_type, contact_value, notes)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, userID, c.Type, c.Value, c.Notes)
	if err != nil {
		return fmt.Errorf("add contact: %w", err)
	}
	return nil
}

// Edit overwrites the value and notes of an existing entry. The type column
// is deliberately left out of the update. Returns ErrNotFound when the entry
// does not exist or belongs to another user.
func (r *PostgresContactRepository) Edit(ctx context.Context, userID string, c models.Contact) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE contacts SET contact_value = $3, notes = $4
		WHERE user_id = $1 AND id = $2
	`, userID, c.ID, c.Value, c.Notes)
	if err != nil {
		return fmt.Errorf("edit contact: %w", err)
	}
	return requireAffected(res)
}

// Delete removes an entry scoped to its owner. Returns ErrNotFound when the
// entry does not exist or belongs to another user.
func (r *PostgresContactRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM contacts WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
