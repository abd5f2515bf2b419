package api

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Kind classifies an API failure. Every non-2xx response and every transport
// failure ends up as exactly one of these.
type Kind int

const (
	// KindServer covers non-2xx responses with no more specific class.
	KindServer Kind = iota
	// KindNetwork covers transport failures where no response arrived.
	KindNetwork
	// KindAuth covers 401/403 responses; the credential is no longer valid.
	KindAuth
	// KindNotFoundEmpty covers the 404 "no contact information found" reply,
	// which is a valid empty state rather than a failure.
	KindNotFoundEmpty
	// KindValidation covers 422 responses with a structured detail body.
	KindValidation
)

// Error is the typed failure returned by every Client method.
type Error struct {
	// Kind is the failure class.
	Kind Kind
	// Status is the HTTP status code, or 0 when no response arrived.
	Status int
	// Message is safe to surface to the user.
	Message string

	cause error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("api: %s", e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool { return kindOf(err) == KindAuth }

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool { return kindOf(err) == KindNetwork }

// IsEmptyResult reports whether err is the "no data yet" 404 reply.
func IsEmptyResult(err error) bool { return kindOf(err) == KindNotFoundEmpty }

// IsValidation reports whether err carries a 422 validation detail.
func IsValidation(err error) bool { return kindOf(err) == KindValidation }

func kindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return -1
}

// noContactsMarker is the backend's 404 body for an account that simply has
// no contact entries yet.
const noContactsMarker = "no contact information found"

// genericMessage is surfaced when the error body matches no known schema.
const genericMessage = "an error occurred"

// detailBody is the FastAPI-style validation error shape.
type detailBody struct {
	Detail []struct {
		Msg string `json:"msg"`
	} `json:"detail"`
}

// messageBody is the plain error shape.
type messageBody struct {
	Message string `json:"message"`
}

// decodeError turns a non-2xx response into a typed *Error. The backend is
// inconsistent about error bodies, so the known shapes are attempted in
// order; a body matching neither yields the generic message and recognized
// reports false so the caller can log the raw body.
func decodeError(status int, body []byte) (e *Error, recognized bool) {
	msg := genericMessage
	recognized = false

	var d detailBody
	if err := json.Unmarshal(body, &d); err == nil && len(d.Detail) > 0 && d.Detail[0].Msg != "" {
		msg = d.Detail[0].Msg
		recognized = true
	} else {
		var m messageBody
		if err := json.Unmarshal(body, &m); err == nil && m.Message != "" {
			msg = m.Message
			recognized = true
		}
	}

	kind := KindServer
	switch {
	case status == 401 || status == 403:
		kind = KindAuth
	case status == 404 && strings.Contains(strings.ToLower(msg), noContactsMarker):
		kind = KindNotFoundEmpty
	case status == 422:
		kind = KindValidation
	}

	return &Error{Kind: kind, Status: status, Message: msg}, recognized
}

// netError wraps a transport failure.
func netError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: "network error: " + err.Error(), cause: err}
}
