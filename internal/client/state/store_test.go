package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"dentallab/internal/client/api"
	"dentallab/internal/client/session"
	"dentallab/internal/core"
)

// fakeBackend records calls and serves canned responses.
type fakeBackend struct {
	mu    sync.Mutex
	token string

	loginErr error
	fetchErr error
	snapshot core.DataSnapshot

	createOrderErr error
	lastOrder      *core.WorkOrder
}

func (f *fakeBackend) SetToken(token string) {
	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (*api.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &api.LoginResult{Token: "tok-1", User: core.User{ID: "u-1", Email: email, Role: "admin"}}, nil
}

func (f *fakeBackend) FetchAll(ctx context.Context) (*core.DataSnapshot, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	snap := f.snapshot
	return &snap, nil
}

func (f *fakeBackend) CreateClient(ctx context.Context, input core.Client) (*core.Client, error) {
	input.ID = "c-served"
	return &input, nil
}

func (f *fakeBackend) UpdateClient(ctx context.Context, id string, input core.Client) (*core.Client, error) {
	input.ID = id
	return &input, nil
}

func (f *fakeBackend) DeleteClient(ctx context.Context, id string) error { return nil }

func (f *fakeBackend) CreateProduct(ctx context.Context, input core.Product) (*core.Product, error) {
	input.ID = "p-served"
	return &input, nil
}

func (f *fakeBackend) UpdateProduct(ctx context.Context, id string, input core.Product) (*core.Product, error) {
	input.ID = id
	return &input, nil
}

func (f *fakeBackend) DeleteProduct(ctx context.Context, id string) error { return nil }

func (f *fakeBackend) CreateSupplier(ctx context.Context, input core.Supplier) (*core.Supplier, error) {
	input.ID = "s-served"
	return &input, nil
}

func (f *fakeBackend) UpdateSupplier(ctx context.Context, id string, input core.Supplier) (*core.Supplier, error) {
	input.ID = id
	return &input, nil
}

func (f *fakeBackend) DeleteSupplier(ctx context.Context, id string) error { return nil }

func (f *fakeBackend) CreateOrder(ctx context.Context, input core.WorkOrder) (*core.WorkOrder, error) {
	if f.createOrderErr != nil {
		return nil, f.createOrderErr
	}
	input.ID = "o-served"
	f.lastOrder = &input
	return &input, nil
}

func (f *fakeBackend) UpdateOrder(ctx context.Context, id string, input core.WorkOrder) (*core.WorkOrder, error) {
	input.ID = id
	f.lastOrder = &input
	return &input, nil
}

func (f *fakeBackend) DeleteOrder(ctx context.Context, id string) error { return nil }

// fakeCompleter returns a fixed reply or error.
type fakeCompleter struct {
	reply string
	err   error

	gotHistory []core.ChatMessage
	gotText    string
}

func (f *fakeCompleter) Complete(ctx context.Context, snapshot core.DataSnapshot, history []core.ChatMessage, userText string) (string, error) {
	f.gotHistory = history
	f.gotText = userText
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestStore(backend *fakeBackend, sess session.Store, chat ChatCompleter) *Store {
	if sess == nil {
		sess = &session.MemoryStore{}
	}
	if chat == nil {
		chat = &fakeCompleter{reply: "ok"}
	}
	return NewStore(backend, sess, chat)
}

func TestLogin(t *testing.T) {
	t.Run("success persists session and loads data", func(t *testing.T) {
		sess := &session.MemoryStore{}
		backend := &fakeBackend{snapshot: core.DataSnapshot{
			Clients: []core.Client{{ID: "c-1"}},
		}}
		store := newTestStore(backend, sess, nil)

		if err := store.Login(context.Background(), "admin@admin.com", "admin"); err != nil {
			t.Fatalf("Login: %v", err)
		}

		s := store.State()
		if !s.Authenticated() {
			t.Error("not authenticated after login")
		}
		if len(s.Clients) != 1 {
			t.Errorf("clients = %+v", s.Clients)
		}
		saved, _ := sess.Load()
		if saved == nil || saved.Token != "tok-1" {
			t.Errorf("session not persisted: %+v", saved)
		}
		if backend.token != "tok-1" {
			t.Errorf("backend token = %q", backend.token)
		}
	})

	t.Run("failure records the message and returns the error", func(t *testing.T) {
		wantErr := errors.New("invalid credentials")
		store := newTestStore(&fakeBackend{loginErr: wantErr}, nil, nil)

		err := store.Login(context.Background(), "x@example.com", "nope")
		if !errors.Is(err, wantErr) {
			t.Fatalf("err = %v", err)
		}
		s := store.State()
		if s.Authenticated() {
			t.Error("authenticated after failed login")
		}
		if s.AuthError != "invalid credentials" {
			t.Errorf("AuthError = %q", s.AuthError)
		}
	})

	t.Run("fetch failure rolls the session back", func(t *testing.T) {
		sess := &session.MemoryStore{}
		backend := &fakeBackend{fetchErr: &api.Error{Status: 500, Message: "internal error"}}
		store := newTestStore(backend, sess, nil)

		err := store.Login(context.Background(), "a@b.c", "pw")
		if err == nil {
			t.Fatal("expected error")
		}
		s := store.State()
		if s.Authenticated() {
			t.Error("still authenticated after failed data load")
		}
		if s.AuthError == "" {
			t.Error("expected AuthError to be recorded")
		}
		if saved, _ := sess.Load(); saved != nil {
			t.Errorf("session still persisted: %+v", saved)
		}
		if backend.token != "" {
			t.Errorf("backend token = %q, want cleared", backend.token)
		}
	})
}

func TestLogout(t *testing.T) {
	sess := &session.MemoryStore{}
	backend := &fakeBackend{snapshot: core.DataSnapshot{Clients: []core.Client{{ID: "c-1"}}}}
	store := newTestStore(backend, sess, nil)
	if err := store.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := store.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	s := store.State()
	if s.Authenticated() || s.Clients != nil {
		t.Error("logout did not clear state")
	}
	if saved, _ := sess.Load(); saved != nil {
		t.Error("session file not cleared")
	}
	if backend.token != "" {
		t.Errorf("backend token = %q, want empty", backend.token)
	}
}

func TestBootstrap(t *testing.T) {
	t.Run("no saved session", func(t *testing.T) {
		store := newTestStore(&fakeBackend{}, &session.MemoryStore{}, nil)
		store.Bootstrap(context.Background())

		s := store.State()
		if !s.Initialized {
			t.Error("not initialized")
		}
		if s.Authenticated() {
			t.Error("authenticated without a saved session")
		}
	})

	t.Run("saved session restores and loads", func(t *testing.T) {
		sess := &session.MemoryStore{}
		_ = sess.Save(session.Session{Token: "tok-9", User: core.User{ID: "u-1", Role: "admin"}})
		backend := &fakeBackend{snapshot: core.DataSnapshot{Orders: []core.WorkOrder{{ID: "o-1", Status: core.StatusReceived}}}}
		store := newTestStore(backend, sess, nil)

		store.Bootstrap(context.Background())

		s := store.State()
		if !s.Initialized || !s.Authenticated() {
			t.Fatalf("state = %+v", s)
		}
		if len(s.Orders) != 1 {
			t.Errorf("orders = %+v", s.Orders)
		}
		if backend.token != "tok-9" {
			t.Errorf("backend token = %q", backend.token)
		}
	})

	t.Run("stale token degrades to logged out", func(t *testing.T) {
		sess := &session.MemoryStore{}
		_ = sess.Save(session.Session{Token: "stale", User: core.User{ID: "u-1"}})
		backend := &fakeBackend{fetchErr: &api.Error{Status: 401, Message: "authentication required"}}
		store := newTestStore(backend, sess, nil)

		store.Bootstrap(context.Background())

		s := store.State()
		if !s.Initialized {
			t.Error("not initialized after failed restore")
		}
		if s.Authenticated() {
			t.Error("still authenticated with a rejected token")
		}
		if saved, _ := sess.Load(); saved != nil {
			t.Error("stale session not cleared")
		}
	})
}

func TestMutationsCommitServerVersion(t *testing.T) {
	store := newTestStore(&fakeBackend{}, nil, nil)

	created, err := store.AddClient(context.Background(), core.Client{Name: "Smile Dental"})
	if err != nil {
		t.Fatalf("AddClient: %v", err)
	}
	if created.ID != "c-served" {
		t.Errorf("ID = %q, want server-assigned", created.ID)
	}

	s := store.State()
	if len(s.Clients) != 1 || s.Clients[0].ID != "c-served" {
		t.Errorf("clients = %+v", s.Clients)
	}
}

func TestOrderSubmission(t *testing.T) {
	t.Run("blank lines are stripped", func(t *testing.T) {
		backend := &fakeBackend{}
		store := newTestStore(backend, nil, nil)

		_, err := store.AddOrder(context.Background(), core.WorkOrder{
			PatientName: "Ana",
			ClientID:    "c-1",
			Status:      core.StatusReceived,
			Items: []core.OrderItem{
				{ProductID: "p-1", Quantity: 2},
				{ProductID: "", Quantity: 1},
			},
		})
		if err != nil {
			t.Fatalf("AddOrder: %v", err)
		}
		if len(backend.lastOrder.Items) != 1 {
			t.Errorf("submitted items = %+v", backend.lastOrder.Items)
		}
	})

	t.Run("order with no complete lines is rejected locally", func(t *testing.T) {
		backend := &fakeBackend{}
		store := newTestStore(backend, nil, nil)

		_, err := store.AddOrder(context.Background(), core.WorkOrder{
			PatientName: "Ana",
			Items:       []core.OrderItem{{ProductID: "", Quantity: 1}},
		})
		if !core.IsValidation(err) {
			t.Fatalf("err = %v, want validation error", err)
		}
		if backend.lastOrder != nil {
			t.Error("request reached the backend")
		}
		if len(store.State().Orders) != 0 {
			t.Error("rejected order landed in state")
		}
	})

	t.Run("backend failure leaves state unchanged", func(t *testing.T) {
		backend := &fakeBackend{createOrderErr: &api.Error{Status: 400, Message: "dueDate is required"}}
		store := newTestStore(backend, nil, nil)

		_, err := store.AddOrder(context.Background(), core.WorkOrder{
			Items: []core.OrderItem{{ProductID: "p-1", Quantity: 1}},
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if len(store.State().Orders) != 0 {
			t.Error("failed mutation changed state")
		}
	})
}

func loggedInStore(t *testing.T, chat ChatCompleter) *Store {
	t.Helper()
	store := newTestStore(&fakeBackend{}, nil, chat)
	if err := store.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	return store
}

func TestSendChatMessage(t *testing.T) {
	t.Run("success appends both turns", func(t *testing.T) {
		chat := &fakeCompleter{reply: "You have 2 clients."}
		store := loggedInStore(t, chat)

		store.SendChatMessage(context.Background(), "how many clients?")

		s := store.State()
		if s.ChatLoading {
			t.Error("loading flag still set")
		}
		if len(s.ChatHistory) != 2 {
			t.Fatalf("history = %+v", s.ChatHistory)
		}
		if chat.gotText != "how many clients?" {
			t.Errorf("userText = %q", chat.gotText)
		}
		if len(chat.gotHistory) != 0 {
			t.Errorf("prior history = %+v, want empty on first turn", chat.gotHistory)
		}
	})

	t.Run("failure is absorbed into the conversation", func(t *testing.T) {
		chat := &fakeCompleter{err: errors.New("model unavailable")}
		store := loggedInStore(t, chat)

		store.SendChatMessage(context.Background(), "hello")

		s := store.State()
		if s.ChatLoading {
			t.Error("loading flag still set")
		}
		last := s.ChatHistory[len(s.ChatHistory)-1]
		if last.Content != "Error: model unavailable" {
			t.Errorf("last message = %q", last.Content)
		}
	})

	t.Run("no-op without an active session", func(t *testing.T) {
		chat := &fakeCompleter{reply: "should never be sent"}
		store := newTestStore(&fakeBackend{}, nil, chat)

		store.SendChatMessage(context.Background(), "hello")

		if chat.gotText != "" {
			t.Errorf("assistant was called with %q while logged out", chat.gotText)
		}
		if len(store.State().ChatHistory) != 0 {
			t.Errorf("history = %+v, want empty", store.State().ChatHistory)
		}
	})
}
