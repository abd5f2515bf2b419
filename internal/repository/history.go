package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/palmlink/palmlink/internal/models"
)

// ScanRecord is one row of the scan_history table before snapshot encoding.
type ScanRecord struct {
	ID          string
	ScannerID   string
	ScannedID   string
	TimeScanned time.Time
	Profile     models.ScannedProfile
	Contacts    []models.Contact
}

// PostgresHistoryRepository implements scan-history persistence against a
// PostgreSQL database. Profile and contact snapshots are stored as JSONB so
// history survives later edits to the scanned account.
type PostgresHistoryRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresHistoryRepository creates a new PostgresHistoryRepository using
// the provided *sql.DB.
func NewPostgresHistoryRepository(db *sql.DB) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{DB: db}
}

// Insert records one scan event with frozen profile and contact snapshots.
func (r *PostgresHistoryRepository) Insert(ctx context.Context, rec ScanRecord) error {
	profile, err := json.Marshal(rec.Profile)
	if err != nil {
		return fmt.Errorf("encode profile snapshot: %w", err)
	}
	contacts := rec.Contacts
	if contacts == nil {
		contacts = []models.Contact{}
	}
	contactsSnap, err := json.Marshal(contacts)
	if err != nil {
		return fmt.Errorf("encode contacts snapshot: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO scan_history (id, scanner_id, scanned_id, time_scanned, profile_snapshot, contacts_snapshot)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ID, rec.ScannerID, rec.ScannedID, rec.TimeScanned, profile, contactsSnap)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}
	return nil
}

// FeedForScanner returns the items the given user scanned, newest first.
func (r *PostgresHistoryRepository) FeedForScanner(ctx context.Context, userID string) ([]models.HistoryItem, error) {
	return r.feed(ctx, `
		SELECT time_scanned, profile_snapshot, contacts_snapshot FROM scan_history
		WHERE scanner_id = $1 ORDER BY time_scanned DESC
	`, userID)
}

// FeedForScanned returns the items where the given user was scanned by
// someone else, newest first.
func (r *PostgresHistoryRepository) FeedForScanned(ctx context.Context, userID string) ([]models.HistoryItem, error) {
	return r.feed(ctx, `
		SELECT time_scanned, profile_snapshot, contacts_snapshot FROM scan_history
		WHERE scanned_id = $1 ORDER BY time_scanned DESC
	`, userID)
}

func (r *PostgresHistoryRepository) feed(ctx context.Context, query, userID string) ([]models.HistoryItem, error) {
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("history feed: %w", err)
	}
	defer rows.Close()

	var items []models.HistoryItem
	for rows.Next() {
		var (
			ts           time.Time
			profile      []byte
			contactsSnap []byte
		)
		if err := rows.Scan(&ts, &profile, &contactsSnap); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		var item models.HistoryItem
		item.TimeScanned = ts.Format(models.TimeScannedLayout)
		if err := json.Unmarshal(profile, &item.Profile); err != nil {
			return nil, fmt.Errorf("decode profile snapshot: %w", err)
		}
		if err := json.Unmarshal(contactsSnap, &item.Contacts); err != nil {
			return nil, fmt.Errorf("decode contacts snapshot: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
