package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/palmlink/palmlink/internal/models"
	"github.com/palmlink/palmlink/internal/repository"
)

// ContactRepository defines the persistence operations required by the
// contact service.
type ContactRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Contact, error)
	ContactByID(ctx context.Context, userID, id string) (*models.Contact, error)
	Add(ctx context.Context, userID string, c models.Contact) error
	Edit(ctx context.Context, userID string, c models.Contact) error
	Delete(ctx context.Context, userID, id string) error
}

// ContactService manages one user's shareable contact entries.
type ContactService struct {
	repo ContactRepository
}

// NewContactService constructs a ContactService using the provided
// repository.
func NewContactService(repo ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

// List returns the caller's contact entries. An account without entries
// yields ErrNoContacts, which the HTTP layer maps to the dedicated 404 body.
func (s *ContactService) List(ctx context.Context, userID string) ([]models.Contact, error) {
	contacts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, ErrNoContacts
	}
	return contacts, nil
}

// Add validates and stores a new entry, returning it with its assigned ID.
func (s *ContactService) Add(ctx context.Context, userID string, c models.Contact) (*models.Contact, error) {
	if !c.Type.Valid() {
		return nil, fieldErr("contact_type", "unknown contact type")
	}
	if c.Value == "" {
		return nil, fieldErr("contact_value", "contact value is required")
	}
	c.ID = uuid.NewString()
	if err := s.repo.Add(ctx, userID, c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Edit updates the value and notes of an existing entry. The entry's type is
// fixed at creation; a differing type in the input is rejected rather than
// silently ignored.
func (s *ContactService) Edit(ctx context.Context, userID string, c models.Contact) error {
	if c.ID == "" {
		return fieldErr("contact_id", "contact id is required")
	}
	if c.Value == "" {
		return fieldErr("contact_value", "contact value is required")
	}

	existing, err := s.repo.ContactByID(ctx, userID, c.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if c.Type != "" && c.Type != existing.Type {
		return fieldErr("contact_type", "contact type cannot be changed")
	}

	if err := s.repo.Edit(ctx, userID, c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Delete removes an entry owned by the caller.
func (s *ContactService) Delete(ctx context.Context, userID, id string) error {
	if id == "" {
		return fieldErr("contact_id", "contact id is required")
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
