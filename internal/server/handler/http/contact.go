package http

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/palmlink/palmlink/internal/middleware"
	"github.com/palmlink/palmlink/internal/models"
)

// ContactService defines the operations required by the contact endpoints.
type ContactService interface {
	List(ctx context.Context, userID string) ([]models.Contact, error)
	Add(ctx context.Context, userID string, c models.Contact) (*models.Contact, error)
	Edit(ctx context.Context, userID string, c models.Contact) error
	Delete(ctx context.Context, userID, id string) error
}

// ContactHandler manages the authenticated user's contact entries.
type ContactHandler struct {
	Contacts ContactService
	Log      *zap.Logger
}

// List returns all of the caller's contact entries.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	contacts, err := h.Contacts.List(r.Context(), userID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Contacts []models.Contact `json:"contacts"`
	}{Contacts: contacts})
}

func decodeContact(r *http.Request) (models.Contact, bool) {
	var c models.Contact
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		return models.Contact{}, false
	}
	return c, true
}

// Add creates a new contact entry from the JSON body.
func (h *ContactHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	c, ok := decodeContact(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, messageBody{Message: "invalid request body"})
		return
	}

	created, err := h.Contacts.Add(r.Context(), userID, c)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Message     string         `json:"message"`
		ContactInfo models.Contact `json:"contact_info"`
	}{
		Message:     "Contact added successfully",
		ContactInfo: *created,
	})
}

// Edit updates an existing entry's value and notes.
func (h *ContactHandler) Edit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	c, ok := decodeContact(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, messageBody{Message: "invalid request body"})
		return
	}

	if err := h.Contacts.Edit(r.Context(), userID, c); err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Contact updated successfully"})
}

// Delete removes the entry named by contact_id in the JSON body.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	c, ok := decodeContact(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, messageBody{Message: "invalid request body"})
		return
	}

	if err := h.Contacts.Delete(r.Context(), userID, c.ID); err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Message   string `json:"message"`
		ContactID string `json:"contact_id"`
	}{
		Message:   "Contact deleted successfully",
		ContactID: c.ID,
	})
}
