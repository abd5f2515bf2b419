package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/palmlink/palmlink/internal/middleware"
	"github.com/palmlink/palmlink/internal/models"
	"github.com/palmlink/palmlink/internal/service"
)

// ProfileService defines the operations required by the profile endpoints.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Edit(ctx context.Context, userID string, in service.EditInput) (*models.Profile, error)
}

// ProfileHandler serves and edits the authenticated user's profile.
type ProfileHandler struct {
	Profile ProfileService
	Log     *zap.Logger
}

// Get returns the caller's own profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	p, err := h.Profile.Get(r.Context(), userID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Edit applies the multipart edit form (username, bio, job_title, company,
// optional profile_picture) and returns the updated profile.
func (h *ProfileHandler) Edit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, messageBody{Message: "invalid multipart request"})
		return
	}
	picture, pictureName, err := formFile(r, "profile_picture")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageBody{Message: "invalid picture upload"})
		return
	}

	p, err := h.Profile.Edit(r.Context(), userID, service.EditInput{
		Username:    r.FormValue("username"),
		Bio:         r.FormValue("bio"),
		JobTitle:    r.FormValue("job_title"),
		Company:     r.FormValue("company"),
		Picture:     picture,
		PictureName: pictureName,
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
