// Package http provides the HTTP handlers of the PalmLink reference server:
// registration, login, profile, contact entries, palm recognition and scan
// history.
package http

import (
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/palmlink/palmlink/internal/service"
)

// noContactsMessage is the exact body clients detect to treat an empty
// contact list as a state, not a failure. Do not reword it.
const noContactsMessage = "No contact information found for the user."

type messageBody struct {
	Message string `json:"message"`
}

type detailEntry struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type detailBody struct {
	Detail []detailEntry `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto the wire contract: validation failures
// as a 422 detail list, everything else as a {message} body.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		body := detailBody{Detail: make([]detailEntry, 0, len(ve.Fields))}
		for _, f := range ve.Fields {
			body.Detail = append(body.Detail, detailEntry{
				Loc:  []string{"body", f.Field},
				Msg:  f.Msg,
				Type: "value_error",
			})
		}
		writeJSON(w, http.StatusUnprocessableEntity, body)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, messageBody{Message: "Invalid credentials"})
	case errors.Is(err, service.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, messageBody{Message: "Email already registered"})
	case errors.Is(err, service.ErrNoContacts):
		writeJSON(w, http.StatusNotFound, messageBody{Message: noContactsMessage})
	case errors.Is(err, service.ErrNotRecognized):
		writeJSON(w, http.StatusNotFound, messageBody{Message: "Palm not recognized"})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, messageBody{Message: "Not found"})
	default:
		log.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, messageBody{Message: "Internal server error"})
	}
}

// formFile reads one uploaded file from an already-parsed multipart form.
// A missing part yields nil bytes, not an error; required files are enforced
// by the services.
func formFile(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}
