package service

import (
	"context"
	"errors"
	"testing"

	"github.com/palmlink/palmlink/internal/models"
	"github.com/palmlink/palmlink/internal/repository"
)

type mockContactRepo struct {
	ListByUserFunc  func(ctx context.Context, userID string) ([]models.Contact, error)
	ContactByIDFunc func(ctx context.Context, userID, id string) (*models.Contact, error)
	AddFunc         func(ctx context.Context, userID string, c models.Contact) error
	EditFunc        func(ctx context.Context, userID string, c models.Contact) error
	DeleteFunc      func(ctx context.Context, userID, id string) error
}

func (m *mockContactRepo) ListByUser(ctx context.Context, userID string) ([]models.Contact, error) {
	return m.ListByUserFunc(ctx, userID)
}
func (m *mockContactRepo) ContactByID(ctx context.Context, userID, id string) (*models.Contact, error) {
	return m.ContactByIDFunc(ctx, userID, id)
}
func (m *mockContactRepo) Add(ctx context.Context, userID string, c models.Contact) error {
	return m.AddFunc(ctx, userID, c)
}
func (m *mockContactRepo) Edit(ctx context.Context, userID string, c models.Contact) error {
	return m.EditFunc(ctx, userID, c)
}
func (m *mockContactRepo) Delete(ctx context.Context, userID, id string) error {
	return m.DeleteFunc(ctx, userID, id)
}

func TestContactList_Empty(t *testing.T) {
	repo := &mockContactRepo{
		ListByUserFunc: func(ctx context.Context, userID string) ([]models.Contact, error) {
			return nil, nil
		},
	}
	svc := NewContactService(repo)

	_, err := svc.List(context.Background(), "u1")
	if !errors.Is(err, ErrNoContacts) {
		t.Errorf("expected ErrNoContacts, got %v", err)
	}
}

func TestContactAdd_AssignsID(t *testing.T) {
	var added models.Contact
	repo := &mockContactRepo{
		AddFunc: func(ctx context.Context, userID string, c models.Contact) error {
			added = c
			return nil
		},
	}
	svc := NewContactService(repo)

	c, err := svc.Add(context.Background(), "u1", models.Contact{Type: models.Instagram, Value: "@ann"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if c.ID == "" || added.ID != c.ID {
		t.Errorf("Add did not assign an ID: returned %q, stored %q", c.ID, added.ID)
	}
}

func TestContactAdd_UnknownType(t *testing.T) {
	svc := NewContactService(&mockContactRepo{})

	_, err := svc.Add(context.Background(), "u1", models.Contact{Type: "MYSPACE", Value: "x"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestContactEdit_TypeImmutable(t *testing.T) {
	repo := &mockContactRepo{
		ContactByIDFunc: func(ctx context.Context, userID, id string) (*models.Contact, error) {
			return &models.Contact{ID: id, Type: models.Instagram, Value: "@ann"}, nil
		},
	}
	svc := NewContactService(repo)

	err := svc.Edit(context.Background(), "u1", models.Contact{ID: "c1", Type: models.WhatsApp, Value: "+123"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError for changed type, got %v", err)
	}
}

func TestContactEdit_ForeignContact(t *testing.T) {
	repo := &mockContactRepo{
		ContactByIDFunc: func(ctx context.Context, userID, id string) (*models.Contact, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewContactService(repo)

	err := svc.Edit(context.Background(), "intruder", models.Contact{ID: "c1", Value: "@x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestContactDelete_NotFound(t *testing.T) {
	repo := &mockContactRepo{
		DeleteFunc: func(ctx context.Context, userID, id string) error {
			return repository.ErrNotFound
		},
	}
	svc := NewContactService(repo)

	err := svc.Delete(context.Background(), "u1", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
