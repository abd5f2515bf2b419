package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gookit/validate"
	"golang.org/x/crypto/bcrypt"

	"github.com/palmlink/palmlink/internal/models"
	"github.com/palmlink/palmlink/internal/repository"
)

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	CreateUser(ctx context.Context, u models.User) error
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	Generate(userID string) (string, error)
}

// AuthService implements registration and login.
type AuthService struct {
	users   UserRepository
	tokens  TokenIssuer
	matcher Matcher
}

// NewAuthService constructs an AuthService from its collaborators.
func NewAuthService(users UserRepository, tokens TokenIssuer, matcher Matcher) *AuthService {
	return &AuthService{users: users, tokens: tokens, matcher: matcher}
}

// RegisterInput carries the fields of one registration request.
type RegisterInput struct {
	Email    string `validate:"required|email" message:"email is required and must be valid"`
	Username string `validate:"required|minLen:2" message:"username must be at least 2 characters"`
	Password string `validate:"required|minLen:8" message:"password must be at least 8 characters"`
	// PalmImage is the raw enrollment image. Validated by hand since it is
	// binary, not a form string.
	PalmImage []byte `validate:"-"`
}

// Register creates a new account: the password is bcrypt-hashed and the palm
// image is reduced to its digest for later recognition. Returns the new user
// ID, ErrEmailTaken on a duplicate email or palm, or a *ValidationError.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	if err := checkStruct(in); err != nil {
		return "", err
	}
	if len(in.PalmImage) == 0 {
		return "", fieldErr("palm_image", "palm image is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	u := models.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
		PalmDigest:   s.matcher.Digest(in.PalmImage),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", ErrEmailTaken
		}
		return "", err
	}
	return u.ID, nil
}

// Login verifies the email/password pair and returns a fresh access token.
// All failures (unknown email, wrong password) collapse into
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.UserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Generate(u.ID)
}

// checkStruct runs gookit tag validation and converts failures into a
// *ValidationError with one entry per invalid field.
func checkStruct(in any) error {
	v := validate.Struct(in)
	if v.Validate() {
		return nil
	}
	var ve ValidationError
	for field, msgs := range v.Errors {
		for _, msg := range msgs {
			ve.Fields = append(ve.Fields, FieldError{Field: field, Msg: msg})
			break
		}
	}
	return &ve
}
