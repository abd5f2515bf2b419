package sync

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/palmlink/palmlink/internal/client/api"
	"github.com/palmlink/palmlink/internal/client/session"
	"github.com/palmlink/palmlink/internal/models"
)

// ProfileState is the observable snapshot of the profile screen: the owned
// profile plus its contact entries, refreshed together as one logical unit.
type ProfileState struct {
	Loading bool
	// SlowLoad flips when a load exceeds the slow-load threshold. It only
	// changes messaging; the call itself is never cancelled by it.
	SlowLoad bool
	Profile  *models.Profile
	Contacts []models.Contact
	Err      string
}

// ProfileController loads and edits the authenticated user's profile.
// A load already in flight is not reissued.
type ProfileController struct {
	gw    Gateway
	guard *session.Guard
	log   *zap.Logger

	onChange  func(ProfileState)
	slowAfter time.Duration
	retry     RetryPolicy

	mu       sync.Mutex
	state    ProfileState
	inFlight bool
}

// ProfileOption customizes a ProfileController.
type ProfileOption func(*ProfileController)

// OnProfileChange registers the state observer. It is invoked after every
// state transition with a copy of the state.
func OnProfileChange(fn func(ProfileState)) ProfileOption {
	return func(c *ProfileController) { c.onChange = fn }
}

// WithSlowLoadAfter overrides the slow-load hint threshold.
func WithSlowLoadAfter(d time.Duration) ProfileOption {
	return func(c *ProfileController) { c.slowAfter = d }
}

// WithProfileRetry overrides the retry policy. The default is NoRetry.
func WithProfileRetry(p RetryPolicy) ProfileOption {
	return func(c *ProfileController) { c.retry = p }
}

// WithProfileLogger sets the structured logger.
func WithProfileLogger(log *zap.Logger) ProfileOption {
	return func(c *ProfileController) { c.log = log }
}

// NewProfileController builds a controller over the given gateway and guard.
func NewProfileController(gw Gateway, guard *session.Guard, opts ...ProfileOption) *ProfileController {
	c := &ProfileController{
		gw:        gw,
		guard:     guard,
		log:       zap.NewNop(),
		slowAfter: 5 * time.Second,
		retry:     NoRetry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *ProfileController) State() ProfileState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Load fetches the profile and, on success, chains a contacts load so both
// arrive as one refresh. A call while a previous Load is still pending
// returns immediately without issuing a second request.
func (c *ProfileController) Load(ctx context.Context) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return
	}
	c.inFlight = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	c.set(func(s *ProfileState) {
		s.Loading = true
		s.SlowLoad = false
		s.Err = ""
	})
	stopHint := c.startSlowHint()
	defer stopHint()

	token, err := c.guard.Token()
	if err != nil {
		c.set(func(s *ProfileState) { s.Loading = false })
		return
	}

	var profile *models.Profile
	err = withRetry(c.retry, func() error {
		var e error
		profile, e = c.gw.Profile(ctx, token)
		return e
	})
	if err != nil {
		c.fail(err)
		return
	}

	c.set(func(s *ProfileState) { s.Profile = profile })
	c.loadContacts(ctx, token)
}

// loadContacts is the continuation of a successful profile load.
func (c *ProfileController) loadContacts(ctx context.Context, token string) {
	contacts, err := c.gw.Contacts(ctx, token)
	if err != nil {
		if api.IsEmptyResult(err) {
			c.set(func(s *ProfileState) {
				s.Loading = false
				s.Contacts = []models.Contact{}
			})
			return
		}
		c.fail(err)
		return
	}
	c.log.Debug("contacts loaded", zap.Int("count", len(contacts)))
	c.set(func(s *ProfileState) {
		s.Loading = false
		s.Contacts = contacts
	})
}

// Update submits a profile edit and replaces the local profile with the
// server's response. Edits are user-triggered, so they are not deduplicated.
func (c *ProfileController) Update(ctx context.Context, req api.EditProfileRequest) {
	c.set(func(s *ProfileState) {
		s.Loading = true
		s.SlowLoad = false
		s.Err = ""
	})
	stopHint := c.startSlowHint()
	defer stopHint()

	token, err := c.guard.Token()
	if err != nil {
		c.set(func(s *ProfileState) { s.Loading = false })
		return
	}

	profile, err := c.gw.EditProfile(ctx, token, req)
	if err != nil {
		c.fail(err)
		return
	}
	c.set(func(s *ProfileState) {
		s.Loading = false
		s.Profile = profile
	})
}

func (c *ProfileController) fail(err error) {
	if c.guard.Check(err) {
		c.set(func(s *ProfileState) { s.Loading = false })
		return
	}
	if errors.Is(err, context.Canceled) {
		c.set(func(s *ProfileState) { s.Loading = false })
		return
	}
	c.set(func(s *ProfileState) {
		s.Loading = false
		s.Err = userMessage(err)
	})
}

// startSlowHint arms the slow-load timer and returns its cancel func.
func (c *ProfileController) startSlowHint() func() {
	if c.slowAfter <= 0 {
		return func() {}
	}
	timer := time.AfterFunc(c.slowAfter, func() {
		c.mu.Lock()
		loading := c.state.Loading
		c.mu.Unlock()
		if loading {
			c.set(func(s *ProfileState) { s.SlowLoad = true })
		}
	})
	return func() { timer.Stop() }
}

func (c *ProfileController) set(mutate func(*ProfileState)) {
	c.mu.Lock()
	mutate(&c.state)
	snapshot := c.state
	hook := c.onChange
	c.mu.Unlock()
	if hook != nil {
		hook(snapshot)
	}
}
