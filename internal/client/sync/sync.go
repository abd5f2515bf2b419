// Package sync holds the controllers that keep client-visible state
// consistent with the backend: each controller owns one slice of server
// state, exposes an observable loading/data/error snapshot, and encapsulates
// the retry policy for its own operations. Transport lives in the api
// package; credential policy lives in the session guard.
package sync

import (
	"context"
	"errors"

	"github.com/palmlink/palmlink/internal/client/api"
	"github.com/palmlink/palmlink/internal/models"
)

// Gateway is the slice of the API client the controllers consume.
type Gateway interface {
	Profile(ctx context.Context, token string) (*models.Profile, error)
	EditProfile(ctx context.Context, token string, req api.EditProfileRequest) (*models.Profile, error)
	Contacts(ctx context.Context, token string) ([]models.Contact, error)
	AddContact(ctx context.Context, token string, contact models.Contact) (string, error)
	EditContact(ctx context.Context, token string, contact models.Contact) (string, error)
	DeleteContact(ctx context.Context, token, contactID string) (string, error)
	RecognizePalm(ctx context.Context, token string, image []byte, imageName string) (*models.Profile, error)
	History(ctx context.Context, token string) (*models.History, error)
}

// RetryPolicy bounds automatic retries of transport failures. Retries apply
// to network errors only; auth, validation and server errors surface on the
// first attempt.
type RetryPolicy struct {
	// MaxRetries is the number of re-issues after the initial attempt.
	MaxRetries int
}

// MutationRetry is the default policy for contact operations: up to three
// retries before the failure is surfaced.
var MutationRetry = RetryPolicy{MaxRetries: 3}

// NoRetry surfaces the first failure immediately. It is the default for
// profile and history loads.
var NoRetry = RetryPolicy{MaxRetries: 0}

// withRetry runs fn up to 1+policy.MaxRetries times, re-issuing only on
// network-class failures.
func withRetry(policy RetryPolicy, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !api.IsNetwork(err) || attempt >= policy.MaxRetries {
			return err
		}
	}
}

// userMessage extracts the surfaceable text from an operation error.
func userMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
