package sync

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/palmlink/palmlink/internal/client/session"
	"github.com/palmlink/palmlink/internal/models"
)

// HistoryState is the observable snapshot of the scan-history screen.
type HistoryState struct {
	Loading bool
	History *models.History
	Err     string
}

// HistoryController loads the scan feed. History items are immutable facts;
// there is nothing to mutate, so loads are user-triggered and neither
// deduplicated nor retried by default.
type HistoryController struct {
	gw    Gateway
	guard *session.Guard
	log   *zap.Logger
	retry RetryPolicy

	onChange func(HistoryState)

	mu    sync.Mutex
	state HistoryState
}

// HistoryOption customizes a HistoryController.
type HistoryOption func(*HistoryController)

// OnHistoryChange registers the state observer.
func OnHistoryChange(fn func(HistoryState)) HistoryOption {
	return func(c *HistoryController) { c.onChange = fn }
}

// WithHistoryRetry overrides the retry policy. The default is NoRetry.
func WithHistoryRetry(p RetryPolicy) HistoryOption {
	return func(c *HistoryController) { c.retry = p }
}

// WithHistoryLogger sets the structured logger.
func WithHistoryLogger(log *zap.Logger) HistoryOption {
	return func(c *HistoryController) { c.log = log }
}

// NewHistoryController builds a controller over the given gateway and guard.
func NewHistoryController(gw Gateway, guard *session.Guard, opts ...HistoryOption) *HistoryController {
	c := &HistoryController{gw: gw, guard: guard, log: zap.NewNop(), retry: NoRetry}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *HistoryController) State() HistoryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Load fetches both directions of the scan feed.
func (c *HistoryController) Load(ctx context.Context) {
	c.set(func(s *HistoryState) {
		s.Loading = true
		s.Err = ""
	})

	token, err := c.guard.Token()
	if err != nil {
		c.set(func(s *HistoryState) { s.Loading = false })
		return
	}

	var history *models.History
	err = withRetry(c.retry, func() error {
		var e error
		history, e = c.gw.History(ctx, token)
		return e
	})
	if err != nil {
		if c.guard.Check(err) {
			c.set(func(s *HistoryState) { s.Loading = false })
			return
		}
		c.log.Warn("history load failed", zap.Error(err))
		c.set(func(s *HistoryState) {
			s.Loading = false
			s.Err = userMessage(err)
		})
		return
	}

	c.set(func(s *HistoryState) {
		s.Loading = false
		s.History = history
	})
}

func (c *HistoryController) set(mutate func(*HistoryState)) {
	c.mu.Lock()
	mutate(&c.state)
	snapshot := c.state
	hook := c.onChange
	c.mu.Unlock()
	if hook != nil {
		hook(snapshot)
	}
}
