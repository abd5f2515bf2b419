// Package api is the typed binding over the PalmLink backend REST endpoints.
// It is transport only: retries and credential policy belong to the sync
// controllers and the session guard.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/palmlink/palmlink/internal/models"
)

const (
	apiRegister      = "/api/v1/register"
	apiLogin         = "/api/v1/login"
	apiProfile       = "/api/v1/profile"
	apiProfileEdit   = "/api/v1/profile/edit"
	apiContacts      = "/api/v1/contact_info"
	apiContactAdd    = "/api/v1/contact_info/add"
	apiContactEdit   = "/api/v1/contact_info/edit"
	apiContactDelete = "/api/v1/contact_info/delete"
	apiRecognize     = "/api/v1/recognize_palm"
	apiHistory       = "/api/v1/history"
)

// Client issues requests against one backend base URL.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying *http.Client (tests inject a
// stub transport through this).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the structured logger used for unrecognized error bodies.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New constructs a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterRequest carries the multipart fields for account creation.
type RegisterRequest struct {
	PalmImage []byte
	ImageName string
	Email     string
	Username  string
	Password  string
}

// RegisterResponse is the backend's reply to a successful registration.
type RegisterResponse struct {
	Message  string `json:"message"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Register creates a new account by enrolling a palm image.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	body, contentType, err := multipartBody(map[string]string{
		"email":    req.Email,
		"username": req.Username,
		"password": req.Password,
	}, "palm_image", req.ImageName, req.PalmImage)
	if err != nil {
		return nil, err
	}

	var out RegisterResponse
	if err := c.do(ctx, http.MethodPost, apiRegister, contentType, body, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges email and password for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	var out struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := c.doJSON(ctx, http.MethodPost, apiLogin, payload, "", &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context, token string) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodGet, apiProfile, "", nil, token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EditProfileRequest carries the multipart fields for a profile edit. Picture
// is optional; when nil the profile picture is left untouched.
type EditProfileRequest struct {
	Username    string
	Bio         string
	JobTitle    string
	Company     string
	Picture     []byte
	PictureName string
}

// EditProfile updates the profile fields and returns the updated profile.
func (c *Client) EditProfile(ctx context.Context, token string, req EditProfileRequest) (*models.Profile, error) {
	fields := map[string]string{
		"username":  req.Username,
		"bio":       req.Bio,
		"job_title": req.JobTitle,
		"company":   req.Company,
	}

	var (
		body        *bytes.Buffer
		contentType string
		err         error
	)
	if req.Picture != nil {
		body, contentType, err = multipartBody(fields, "profile_picture", req.PictureName, req.Picture)
	} else {
		body, contentType, err = multipartBody(fields, "", "", nil)
	}
	if err != nil {
		return nil, err
	}

	var out models.Profile
	if err := c.do(ctx, http.MethodPost, apiProfileEdit, contentType, body, token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Contacts fetches the authenticated user's contact entries. An account with
// no entries yet yields a KindNotFoundEmpty error, which callers treat as an
// empty list.
func (c *Client) Contacts(ctx context.Context, token string) ([]models.Contact, error) {
	var out struct {
		Contacts []models.Contact `json:"contacts"`
	}
	if err := c.do(ctx, http.MethodGet, apiContacts, "", nil, token, &out); err != nil {
		return nil, err
	}
	return out.Contacts, nil
}

// AddContact creates a new contact entry and returns the server message.
func (c *Client) AddContact(ctx context.Context, token string, contact models.Contact) (string, error) {
	payload := struct {
		Type  models.ContactType `json:"contact_type"`
		Value string             `json:"contact_value"`
		Notes string             `json:"notes"`
	}{contact.Type, contact.Value, contact.Notes}

	var out messageBody
	if err := c.doJSON(ctx, http.MethodPost, apiContactAdd, payload, token, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// EditContact updates an existing contact entry. The contact type is
// immutable server-side; the submitted type must match the stored one.
func (c *Client) EditContact(ctx context.Context, token string, contact models.Contact) (string, error) {
	payload := struct {
		ID    string             `json:"contact_id"`
		Type  models.ContactType `json:"contact_type"`
		Value string             `json:"contact_value"`
		Notes string             `json:"notes"`
	}{contact.ID, contact.Type, contact.Value, contact.Notes}

	var out messageBody
	if err := c.doJSON(ctx, http.MethodPut, apiContactEdit, payload, token, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// DeleteContact removes a contact entry by ID.
func (c *Client) DeleteContact(ctx context.Context, token, contactID string) (string, error) {
	payload := struct {
		ID string `json:"contact_id"`
	}{contactID}

	var out messageBody
	if err := c.doJSON(ctx, http.MethodDelete, apiContactDelete, payload, token, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// RecognizePalm submits a palm image and returns the recognized user's
// profile. Matching happens entirely server-side.
func (c *Client) RecognizePalm(ctx context.Context, token string, image []byte, imageName string) (*models.Profile, error) {
	body, contentType, err := multipartBody(nil, "palm_image", imageName, image)
	if err != nil {
		return nil, err
	}

	var out struct {
		User struct {
			Email    string `json:"email"`
			Username string `json:"username"`
		} `json:"user"`
		Profile models.ScannedProfile `json:"profile"`
	}
	if err := c.do(ctx, http.MethodPost, apiRecognize, contentType, body, token, &out); err != nil {
		return nil, err
	}

	return &models.Profile{
		Email:          out.User.Email,
		Username:       out.User.Username,
		Bio:            out.Profile.Bio,
		Company:        out.Profile.Company,
		JobTitle:       out.Profile.JobTitle,
		ProfilePicture: out.Profile.ProfilePicture,
	}, nil
}

// History fetches both directions of the scan feed.
func (c *Client) History(ctx context.Context, token string) (*models.History, error) {
	var out models.History
	if err := c.do(ctx, http.MethodGet, apiHistory, "", nil, token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON marshals payload and runs do with a JSON content type.
func (c *Client) doJSON(ctx context.Context, method, path string, payload any, token string, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, method, path, "application/json", bytes.NewReader(b), token, out)
}

// do issues one request and decodes the response into out. Non-2xx responses
// come back as *Error; out may be nil when the body is irrelevant.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return netError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return netError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr, recognized := decodeError(resp.StatusCode, raw)
		if !recognized {
			c.log.Warn("unrecognized error body",
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
				zap.ByteString("body", truncate(raw, 512)),
			)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// multipartBody builds a multipart form from fields plus an optional file
// part. fileField may be empty to skip the file part entirely.
func multipartBody(fields map[string]string, fileField, fileName string, file []byte) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			return nil, "", fmt.Errorf("create file part: %w", err)
		}
		if _, err := part.Write(file); err != nil {
			return nil, "", fmt.Errorf("write file part: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
