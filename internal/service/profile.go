package service

import (
	"context"
	"errors"
	"fmt"
	"path"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/palmlink/palmlink/internal/cache"
	"github.com/palmlink/palmlink/internal/models"
	"github.com/palmlink/palmlink/internal/repository"
)

// ProfileRepository defines the persistence operations required by the
// profile service.
type ProfileRepository interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, p models.Profile) error
}

// ProfileService serves and edits account profiles. Reads go through an
// in-memory cache that Edit invalidates.
type ProfileService struct {
	repo  ProfileRepository
	cache cache.Cache
	log   *zap.Logger
}

// NewProfileService constructs a ProfileService using the provided
// repository and cache.
func NewProfileService(repo ProfileRepository, c cache.Cache, log *zap.Logger) *ProfileService {
	return &ProfileService{repo: repo, cache: c, log: log}
}

func profileKey(userID string) string {
	return "profile:" + userID
}

// Get returns the caller's own profile.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	if raw, ok := s.cache.Get(profileKey(userID)); ok {
		var p models.Profile
		if err := json.Unmarshal(raw, &p); err == nil {
			return &p, nil
		}
		// A corrupt cache entry falls through to the database.
		s.cache.Del(profileKey(userID))
	}

	u, err := s.repo.UserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p := u.OwnedProfile()
	if raw, err := json.Marshal(p); err == nil {
		s.cache.Set(profileKey(userID), raw)
	}
	return &p, nil
}

// EditInput carries the editable profile fields of one edit request. Empty
// fields keep their current value; PictureName is only consulted when
// Picture is non-empty.
type EditInput struct {
	Username    string
	Bio         string
	JobTitle    string
	Company     string
	Picture     []byte
	PictureName string
}

// Edit applies the given fields over the current profile and invalidates the
// cached copy. A new picture is stored under a fresh media reference.
func (s *ProfileService) Edit(ctx context.Context, userID string, in EditInput) (*models.Profile, error) {
	u, err := s.repo.UserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p := u.OwnedProfile()
	if in.Username != "" {
		p.Username = in.Username
	}
	if in.Bio != "" {
		p.Bio = in.Bio
	}
	if in.JobTitle != "" {
		p.JobTitle = in.JobTitle
	}
	if in.Company != "" {
		p.Company = in.Company
	}
	if len(in.Picture) > 0 {
		p.ProfilePicture = mediaRef(in.PictureName)
	}

	if err := s.repo.UpdateProfile(ctx, userID, p); err != nil {
		return nil, err
	}
	s.cache.Del(profileKey(userID))
	s.log.Info("profile updated", zap.String("user_id", userID))
	return &p, nil
}

// mediaRef derives a unique storage reference for an uploaded picture.
// Serving the bytes is delegated to the media layer fronting the server.
func mediaRef(name string) string {
	ext := path.Ext(name)
	return fmt.Sprintf("media/%s%s", uuid.NewString(), ext)
}
