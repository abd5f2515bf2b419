package sync

import (
	"context"
	"sync"

	"github.com/palmlink/palmlink/internal/client/api"
	"github.com/palmlink/palmlink/internal/client/credentials"
	"github.com/palmlink/palmlink/internal/client/session"
	"github.com/palmlink/palmlink/internal/models"
)

// fakeGateway implements Gateway with overridable funcs and call counters.
type fakeGateway struct {
	mu sync.Mutex

	profileCalls   int
	contactsCalls  int
	addCalls       int
	editCalls      int
	deleteCalls    int
	historyCalls   int
	recognizeCalls int

	ProfileFunc     func(ctx context.Context, token string) (*models.Profile, error)
	EditProfileFunc func(ctx context.Context, token string, req api.EditProfileRequest) (*models.Profile, error)
	ContactsFunc    func(ctx context.Context, token string) ([]models.Contact, error)
	AddFunc         func(ctx context.Context, token string, contact models.Contact) (string, error)
	EditFunc        func(ctx context.Context, token string, contact models.Contact) (string, error)
	DeleteFunc      func(ctx context.Context, token, id string) (string, error)
	RecognizeFunc   func(ctx context.Context, token string, image []byte, name string) (*models.Profile, error)
	HistoryFunc     func(ctx context.Context, token string) (*models.History, error)
}

func (g *fakeGateway) count(n *int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	*n++
	return *n
}

func (g *fakeGateway) calls(n *int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return *n
}

func (g *fakeGateway) Profile(ctx context.Context, token string) (*models.Profile, error) {
	g.count(&g.profileCalls)
	return g.ProfileFunc(ctx, token)
}

func (g *fakeGateway) EditProfile(ctx context.Context, token string, req api.EditProfileRequest) (*models.Profile, error) {
	return g.EditProfileFunc(ctx, token, req)
}

func (g *fakeGateway) Contacts(ctx context.Context, token string) ([]models.Contact, error) {
	g.count(&g.contactsCalls)
	return g.ContactsFunc(ctx, token)
}

func (g *fakeGateway) AddContact(ctx context.Context, token string, contact models.Contact) (string, error) {
	g.count(&g.addCalls)
	return g.AddFunc(ctx, token, contact)
}

func (g *fakeGateway) EditContact(ctx context.Context, token string, contact models.Contact) (string, error) {
	g.count(&g.editCalls)
	return g.EditFunc(ctx, token, contact)
}

func (g *fakeGateway) DeleteContact(ctx context.Context, token, id string) (string, error) {
	g.count(&g.deleteCalls)
	return g.DeleteFunc(ctx, token, id)
}

func (g *fakeGateway) RecognizePalm(ctx context.Context, token string, image []byte, name string) (*models.Profile, error) {
	g.count(&g.recognizeCalls)
	return g.RecognizeFunc(ctx, token, image, name)
}

func (g *fakeGateway) History(ctx context.Context, token string) (*models.History, error) {
	g.count(&g.historyCalls)
	return g.HistoryFunc(ctx, token)
}

func authedGuard() *session.Guard {
	store := credentials.NewMemStore()
	_ = store.Save("tok")
	return session.NewGuard(store)
}

func netErr() error {
	return &api.Error{Kind: api.KindNetwork, Message: "network error: connection reset"}
}

func authErr() error {
	return &api.Error{Kind: api.KindAuth, Status: 401, Message: "invalid credentials"}
}

func emptyErr() error {
	return &api.Error{Kind: api.KindNotFoundEmpty, Status: 404, Message: "No contact information found for the user."}
}
