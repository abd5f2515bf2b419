package sync

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/palmlink/palmlink/internal/client/api"
	"github.com/palmlink/palmlink/internal/client/session"
	"github.com/palmlink/palmlink/internal/models"
)

// ContactsState is the observable snapshot of the contact list.
type ContactsState struct {
	Loading  bool
	Contacts []models.Contact
	Err      string
	Success  string
}

// ContactsController owns the contact list. Every mutation triggers a full
// reload rather than a local patch: the reload, not the mutation response,
// is authoritative for display, which keeps the visible list correct even
// when independent calls complete out of order. Transport failures are
// retried per the controller's policy; validation and auth failures never
// are.
type ContactsController struct {
	gw    Gateway
	guard *session.Guard
	log   *zap.Logger
	retry RetryPolicy

	onChange func(ContactsState)

	// opMu serializes mutating operations so at most one is in flight.
	opMu sync.Mutex

	mu    sync.Mutex
	state ContactsState
}

// ContactsOption customizes a ContactsController.
type ContactsOption func(*ContactsController)

// OnContactsChange registers the state observer.
func OnContactsChange(fn func(ContactsState)) ContactsOption {
	return func(c *ContactsController) { c.onChange = fn }
}

// WithContactsRetry overrides the retry policy. The default is MutationRetry.
func WithContactsRetry(p RetryPolicy) ContactsOption {
	return func(c *ContactsController) { c.retry = p }
}

// WithContactsLogger sets the structured logger.
func WithContactsLogger(log *zap.Logger) ContactsOption {
	return func(c *ContactsController) { c.log = log }
}

// NewContactsController builds a controller over the given gateway and guard.
func NewContactsController(gw Gateway, guard *session.Guard, opts ...ContactsOption) *ContactsController {
	c := &ContactsController{
		gw:    gw,
		guard: guard,
		log:   zap.NewNop(),
		retry: MutationRetry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *ContactsController) State() ContactsState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Load refreshes the contact list. A 404 carrying the no-contacts marker is
// a valid steady state and yields an empty list, not an error.
func (c *ContactsController) Load(ctx context.Context) {
	c.begin()

	token, err := c.guard.Token()
	if err != nil {
		c.set(func(s *ContactsState) { s.Loading = false })
		return
	}

	var contacts []models.Contact
	err = withRetry(c.retry, func() error {
		var e error
		contacts, e = c.gw.Contacts(ctx, token)
		return e
	})
	if err != nil {
		if api.IsEmptyResult(err) {
			c.set(func(s *ContactsState) {
				s.Loading = false
				s.Contacts = []models.Contact{}
			})
			return
		}
		c.fail(err)
		return
	}

	c.set(func(s *ContactsState) {
		s.Loading = false
		s.Contacts = contacts
	})
}

// Add creates a contact entry and reloads the list on success.
func (c *ContactsController) Add(ctx context.Context, contact models.Contact) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.begin()

	token, err := c.guard.Token()
	if err != nil {
		c.set(func(s *ContactsState) { s.Loading = false })
		return
	}

	var msg string
	err = withRetry(c.retry, func() error {
		var e error
		msg, e = c.gw.AddContact(ctx, token, contact)
		return e
	})
	if err != nil {
		c.fail(err)
		return
	}

	c.Load(ctx)
	c.set(func(s *ContactsState) { s.Success = firstNonEmpty(msg, "Contact added") })
}

// Edit updates a contact entry and reloads the list on success. The contact
// type is immutable post-creation; the server enforces it and the resulting
// validation error surfaces verbatim.
func (c *ContactsController) Edit(ctx context.Context, contact models.Contact) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.begin()

	token, err := c.guard.Token()
	if err != nil {
		c.set(func(s *ContactsState) { s.Loading = false })
		return
	}

	var msg string
	err = withRetry(c.retry, func() error {
		var e error
		msg, e = c.gw.EditContact(ctx, token, contact)
		return e
	})
	if err != nil {
		c.fail(err)
		return
	}

	c.Load(ctx)
	c.set(func(s *ContactsState) { s.Success = firstNonEmpty(msg, "Contact updated") })
}

// Delete removes a contact entry. The list reloads unconditionally, before
// the outcome is inspected: even a failed delete may have changed server
// state, and the reload is what the display trusts.
func (c *ContactsController) Delete(ctx context.Context, contactID string) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.begin()

	token, err := c.guard.Token()
	if err != nil {
		c.set(func(s *ContactsState) { s.Loading = false })
		return
	}

	var msg string
	err = withRetry(c.retry, func() error {
		var e error
		msg, e = c.gw.DeleteContact(ctx, token, contactID)
		return e
	})

	c.Load(ctx)

	if err != nil {
		c.fail(err)
		return
	}
	c.set(func(s *ContactsState) { s.Success = firstNonEmpty(msg, "Contact deleted") })
}

// ResetMessages clears the transient success and error surfaces.
func (c *ContactsController) ResetMessages() {
	c.set(func(s *ContactsState) {
		s.Err = ""
		s.Success = ""
	})
}

func (c *ContactsController) begin() {
	c.set(func(s *ContactsState) {
		s.Loading = true
		s.Err = ""
		s.Success = ""
	})
}

func (c *ContactsController) fail(err error) {
	if c.guard.Check(err) {
		c.set(func(s *ContactsState) { s.Loading = false })
		return
	}
	c.log.Warn("contact operation failed", zap.Error(err))
	c.set(func(s *ContactsState) {
		s.Loading = false
		s.Err = userMessage(err)
	})
}

func (c *ContactsController) set(mutate func(*ContactsState)) {
	c.mu.Lock()
	mutate(&c.state)
	snapshot := c.state
	hook := c.onChange
	c.mu.Unlock()
	if hook != nil {
		hook(snapshot)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
