package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/palmlink/palmlink/internal/middleware"
	"github.com/palmlink/palmlink/internal/models"
)

// RecognizeService defines the operations required by the recognition
// endpoint.
type RecognizeService interface {
	Recognize(ctx context.Context, scannerID string, image []byte) (*models.ScanResult, error)
}

// HistoryService defines the operations required by the history endpoint.
type HistoryService interface {
	Feed(ctx context.Context, userID string) (*models.History, error)
}

// ScanHandler serves palm recognition and the scan-history feed.
type ScanHandler struct {
	Recognizer RecognizeService
	History    HistoryService
	Log        *zap.Logger
}

// Recognize matches the uploaded palm_image against enrolled accounts and
// returns the matched identity, profile and contact snapshot.
func (h *ScanHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, messageBody{Message: "invalid multipart request"})
		return
	}
	palm, _, err := formFile(r, "palm_image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageBody{Message: "invalid palm image upload"})
		return
	}

	res, err := h.Recognizer.Recognize(r.Context(), userID, palm)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, recognizeResponse{
		User: recognizedUser{Email: res.Profile.Email, Username: res.Profile.Username},
		Profile: models.ScannedProfile{
			Name:           res.Profile.Username,
			Bio:            res.Profile.Bio,
			JobTitle:       res.Profile.JobTitle,
			Company:        res.Profile.Company,
			ProfilePicture: res.Profile.ProfilePicture,
		},
		Contacts: res.Contacts,
	})
}

type recognizedUser struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type recognizeResponse struct {
	User     recognizedUser        `json:"user"`
	Profile  models.ScannedProfile `json:"profile"`
	Contacts []models.Contact      `json:"contacts"`
}

// Feed returns both directions of the caller's scan history.
func (h *ScanHandler) Feed(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	feed, err := h.History.Feed(r.Context(), userID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}
