package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/palmlink/palmlink/internal/models"
)

func setupContactMock(t *testing.T) (*PostgresContactRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresContactRepository(db)
	cleanup := func() {
		db.Close()
	}
	return repo, mock, cleanup
}

func TestListByUser_Success(t *testing.T) {
	repo, mock, cleanup := setupContactMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "contact_type", "contact_value", "notes"}).
		AddRow("c1", "IG", "@ann", "personal").
		AddRow("c2", "EMAIL", "ann@example.com", "")

	mock.ExpectQuery(regexp.QuoteMeta(`FROM contacts
		WHERE user_id = $1 ORDER BY created_at`)).
		WithArgs("u1").
		WillReturnRows(rows)

	contacts, err := repo.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(contacts))
	}
	if contacts[0].ID != "c1" || contacts[0].Type != models.Instagram {
		t.Errorf("unexpected contacts returned: %+v", contacts)
	}
}

func TestListByUser_Empty(t *testing.T) {
	repo, mock, cleanup := setupContactMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM contacts`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "contact_type", "contact_value", "notes"}))

	contacts, err := repo.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contacts) != 0 {
		t.Errorf("expected no contacts, got %+v", contacts)
	}
}

func TestAddContact_Success(t *testing.T) {
	repo, mock, cleanup := setupContactMock(t)
	defer cleanup()

	c := models.Contact{ID: "c1", Type: models.WhatsApp, Value: "+123", Notes: "work"}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO contacts`)).
		WithArgs(c.ID, "u1", c.Type, c.Value, c.Notes).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Add(context.Background(), "u1", c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEditContact_ScopedToOwner(t *testing.T) {
	repo, mock, cleanup := setupContactMock(t)
	defer cleanup()

	c := models.Contact{ID: "c1", Value: "@new", Notes: ""}

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE contacts SET contact_value = $3`)).
		WithArgs("intruder", c.ID, c.Value, c.Notes).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Edit(context.Background(), "intruder", c)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign contact, got %v", err)
	}
}

func TestDeleteContact_Success(t *testing.T) {
	repo, mock, cleanup := setupContactMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM contacts WHERE user_id = $1 AND id = $2`)).
		WithArgs("u1", "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "u1", "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteContact_NotFound(t *testing.T) {
	repo, mock, cleanup := setupContactMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM contacts`)).
		WithArgs("u1", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "u1", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
