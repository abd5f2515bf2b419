package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/palmlink/palmlink/internal/models"
	"github.com/palmlink/palmlink/internal/repository"
)

// Matcher reduces a palm image to a stable digest used for enrollment and
// recognition lookups. Real deployments plug in a biometric engine here; the
// reference implementation matches on exact image bytes.
type Matcher interface {
	Digest(image []byte) string
}

// SHA256Matcher is the reference Matcher: hex-encoded SHA-256 of the raw
// image bytes.
type SHA256Matcher struct{}

// Digest implements Matcher.
func (SHA256Matcher) Digest(image []byte) string {
	sum := sha256.Sum256(image)
	return hex.EncodeToString(sum[:])
}

// RecognizeUserRepository resolves enrolled accounts by palm digest.
type RecognizeUserRepository interface {
	UserByPalmDigest(ctx context.Context, digest string) (*models.User, error)
}

// ScanHistoryWriter records completed scans.
type ScanHistoryWriter interface {
	Insert(ctx context.Context, rec repository.ScanRecord) error
}

// RecognizeService matches palm images against enrolled accounts and records
// each successful scan in both users' histories.
type RecognizeService struct {
	users    RecognizeUserRepository
	contacts ContactRepository
	history  ScanHistoryWriter
	matcher  Matcher
	now      func() time.Time
	log      *zap.Logger
}

// NewRecognizeService constructs a RecognizeService from its collaborators.
func NewRecognizeService(users RecognizeUserRepository, contacts ContactRepository, history ScanHistoryWriter, matcher Matcher, log *zap.Logger) *RecognizeService {
	return &RecognizeService{
		users:    users,
		contacts: contacts,
		history:  history,
		matcher:  matcher,
		now:      time.Now,
		log:      log,
	}
}

// Recognize matches the image against enrolled palms. On a match it records
// a history entry snapshotting the scanned user's profile and contacts, then
// returns both to the scanner. Returns ErrNotRecognized when nothing matches.
func (s *RecognizeService) Recognize(ctx context.Context, scannerID string, image []byte) (*models.ScanResult, error) {
	if len(image) == 0 {
		return nil, fieldErr("palm_image", "palm image is required")
	}

	scanned, err := s.users.UserByPalmDigest(ctx, s.matcher.Digest(image))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotRecognized
	}
	if err != nil {
		return nil, err
	}

	contacts, err := s.contacts.ListByUser(ctx, scanned.ID)
	if err != nil {
		return nil, err
	}

	rec := repository.ScanRecord{
		ID:          uuid.NewString(),
		ScannerID:   scannerID,
		ScannedID:   scanned.ID,
		TimeScanned: s.now().UTC(),
		Profile:     scanned.Scanned(),
		Contacts:    contacts,
	}
	if err := s.history.Insert(ctx, rec); err != nil {
		// The scan already succeeded from the user's point of view; a lost
		// history row should not fail the whole request.
		s.log.Error("failed to record scan history", zap.Error(err))
	}

	return &models.ScanResult{Profile: scanned.OwnedProfile(), Contacts: contacts}, nil
}
