package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/palmlink/palmlink/internal/models"
	"github.com/palmlink/palmlink/internal/repository"
)

type mockUserRepo struct {
	CreateUserFunc  func(ctx context.Context, u models.User) error
	UserByEmailFunc func(ctx context.Context, email string) (*models.User, error)
}

func (m *mockUserRepo) CreateUser(ctx context.Context, u models.User) error {
	return m.CreateUserFunc(ctx, u)
}
func (m *mockUserRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.UserByEmailFunc(ctx, email)
}

type mockTokens struct {
	GenerateFunc func(userID string) (string, error)
}

func (m *mockTokens) Generate(userID string) (string, error) {
	return m.GenerateFunc(userID)
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Email:     "ann@example.com",
		Username:  "ann",
		Password:  "hunter2hunter2",
		PalmImage: []byte("palm-bytes"),
	}
}

func TestRegister_Success(t *testing.T) {
	var created models.User
	repo := &mockUserRepo{
		CreateUserFunc: func(ctx context.Context, u models.User) error {
			created = u
			return nil
		},
	}
	svc := NewAuthService(repo, &mockTokens{}, SHA256Matcher{})

	id, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if id == "" || created.ID != id {
		t.Errorf("Register id = %q; created.ID = %q", id, created.ID)
	}
	if created.PalmDigest != (SHA256Matcher{}).Digest([]byte("palm-bytes")) {
		t.Errorf("unexpected palm digest %q", created.PalmDigest)
	}
	if bcrypt.CompareHashAndPassword(created.PasswordHash, []byte("hunter2hunter2")) != nil {
		t.Error("stored password hash does not verify")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		CreateUserFunc: func(ctx context.Context, u models.User) error {
			return repository.ErrDuplicate
		},
	}
	svc := NewAuthService(repo, &mockTokens{}, SHA256Matcher{})

	_, err := svc.Register(context.Background(), validRegisterInput())
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockTokens{}, SHA256Matcher{})

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"short password", func(in *RegisterInput) { in.Password = "short" }},
		{"missing palm image", func(in *RegisterInput) { in.PalmImage = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validRegisterInput()
			tc.mutate(&in)

			_, err := svc.Register(context.Background(), in)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if len(ve.Fields) == 0 {
				t.Error("validation error carries no fields")
			}
		})
	}
}

func TestLogin_Success(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	repo := &mockUserRepo{
		UserByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "u1", Email: email, PasswordHash: hash}, nil
		},
	}
	tokens := &mockTokens{
		GenerateFunc: func(userID string) (string, error) {
			if userID != "u1" {
				t.Errorf("Generate received userID = %q; want u1", userID)
			}
			return "tok", nil
		},
	}
	svc := NewAuthService(repo, tokens, SHA256Matcher{})

	tok, err := svc.Login(context.Background(), "ann@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if tok != "tok" {
		t.Errorf("Login token = %q; want %q", tok, "tok")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	repo := &mockUserRepo{
		UserByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "u1", PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(repo, &mockTokens{}, SHA256Matcher{})

	_, err := svc.Login(context.Background(), "ann@example.com", "wrong-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := &mockUserRepo{
		UserByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewAuthService(repo, &mockTokens{}, SHA256Matcher{})

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}
