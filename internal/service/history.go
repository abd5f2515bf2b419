package service

import (
	"context"

	"github.com/palmlink/palmlink/internal/models"
)

// HistoryRepository defines the persistence operations required by the
// history service.
type HistoryRepository interface {
	FeedForScanner(ctx context.Context, userID string) ([]models.HistoryItem, error)
	FeedForScanned(ctx context.Context, userID string) ([]models.HistoryItem, error)
}

// HistoryService assembles both directions of a user's scan feed.
type HistoryService struct {
	repo HistoryRepository
}

// NewHistoryService constructs a HistoryService using the provided
// repository.
func NewHistoryService(repo HistoryRepository) *HistoryService {
	return &HistoryService{repo: repo}
}

// Feed returns the user's full history. Both slices are non-nil so the wire
// encoding always carries arrays, never null.
func (s *HistoryService) Feed(ctx context.Context, userID string) (*models.History, error) {
	whoIScanned, err := s.repo.FeedForScanner(ctx, userID)
	if err != nil {
		return nil, err
	}
	whoScannedMe, err := s.repo.FeedForScanned(ctx, userID)
	if err != nil {
		return nil, err
	}

	if whoIScanned == nil {
		whoIScanned = []models.HistoryItem{}
	}
	if whoScannedMe == nil {
		whoScannedMe = []models.HistoryItem{}
	}

	return &models.History{WhoScannedMe: whoScannedMe, WhoIScanned: whoIScanned}, nil
}
