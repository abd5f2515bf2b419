package sync

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/palmlink/palmlink/internal/client/session"
	"github.com/palmlink/palmlink/internal/models"
)

// ScanState is the observable snapshot of one scan. The result is transient:
// it lives only as long as the scan screen and is never persisted.
type ScanState struct {
	Loading bool
	Result  *models.ScanResult
	Err     string
}

// ScanController recognizes a palm image and assembles the scan result: the
// matched profile plus the contacts captured by the freshest matching
// history entry.
type ScanController struct {
	gw    Gateway
	guard *session.Guard
	log   *zap.Logger

	onChange func(ScanState)

	mu    sync.Mutex
	state ScanState
}

// ScanOption customizes a ScanController.
type ScanOption func(*ScanController)

// OnScanChange registers the state observer.
func OnScanChange(fn func(ScanState)) ScanOption {
	return func(c *ScanController) { c.onChange = fn }
}

// WithScanLogger sets the structured logger.
func WithScanLogger(log *zap.Logger) ScanOption {
	return func(c *ScanController) { c.log = log }
}

// NewScanController builds a controller over the given gateway and guard.
func NewScanController(gw Gateway, guard *session.Guard, opts ...ScanOption) *ScanController {
	c := &ScanController{gw: gw, guard: guard, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *ScanController) State() ScanState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Recognize submits the palm image and, on a match, pulls the scanned
// contacts from the most recent who-I-scanned history entry. The server
// records the scan as a side effect of recognition, so that entry is the
// one just created.
func (c *ScanController) Recognize(ctx context.Context, image []byte, imageName string) {
	c.set(func(s *ScanState) {
		s.Loading = true
		s.Err = ""
		s.Result = nil
	})

	token, err := c.guard.Token()
	if err != nil {
		c.set(func(s *ScanState) { s.Loading = false })
		return
	}

	profile, err := c.gw.RecognizePalm(ctx, token, image, imageName)
	if err != nil {
		c.fail(err)
		return
	}

	history, err := c.gw.History(ctx, token)
	if err != nil {
		c.fail(err)
		return
	}

	result := &models.ScanResult{Profile: *profile}
	if latest := latestItem(history.WhoIScanned); latest != nil {
		result.Contacts = latest.Contacts
	}
	c.log.Debug("palm recognized",
		zap.String("username", profile.Username),
		zap.Int("contacts", len(result.Contacts)),
	)
	c.set(func(s *ScanState) {
		s.Loading = false
		s.Result = result
	})
}

// latestItem picks the entry with the greatest scan timestamp. The wire
// layout is fixed-width, so lexicographic order matches chronological order.
func latestItem(items []models.HistoryItem) *models.HistoryItem {
	var latest *models.HistoryItem
	for i := range items {
		if latest == nil || items[i].TimeScanned > latest.TimeScanned {
			latest = &items[i]
		}
	}
	return latest
}

func (c *ScanController) fail(err error) {
	if c.guard.Check(err) {
		c.set(func(s *ScanState) { s.Loading = false })
		return
	}
	c.log.Warn("scan failed", zap.Error(err))
	c.set(func(s *ScanState) {
		s.Loading = false
		s.Err = userMessage(err)
	})
}

func (c *ScanController) set(mutate func(*ScanState)) {
	c.mu.Lock()
	mutate(&c.state)
	snapshot := c.state
	hook := c.onChange
	c.mu.Unlock()
	if hook != nil {
		hook(snapshot)
	}
}
