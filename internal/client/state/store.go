package state

import (
	"context"
	"fmt"
	"sync"

	"dentallab/internal/client/api"
	"dentallab/internal/client/session"
	"dentallab/internal/core"
)

// Backend is the slice of the API client the store drives. Every mutation
// returns the record as the server stored it; the store commits that version,
// never the locally constructed one.
type Backend interface {
	SetToken(token string)
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	FetchAll(ctx context.Context) (*core.DataSnapshot, error)

	CreateClient(ctx context.Context, input core.Client) (*core.Client, error)
	UpdateClient(ctx context.Context, id string, input core.Client) (*core.Client, error)
	DeleteClient(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, input core.Product) (*core.Product, error)
	UpdateProduct(ctx context.Context, id string, input core.Product) (*core.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	CreateSupplier(ctx context.Context, input core.Supplier) (*core.Supplier, error)
	UpdateSupplier(ctx context.Context, id string, input core.Supplier) (*core.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error

	CreateOrder(ctx context.Context, input core.WorkOrder) (*core.WorkOrder, error)
	UpdateOrder(ctx context.Context, id string, input core.WorkOrder) (*core.WorkOrder, error)
	DeleteOrder(ctx context.Context, id string) error
}

// ChatCompleter produces an assistant reply from the current data and the
// conversation so far.
type ChatCompleter interface {
	Complete(ctx context.Context, snapshot core.DataSnapshot, history []core.ChatMessage, userText string) (string, error)
}

// Store owns the AppState and serializes all transitions. Reads get a value
// copy; the contained slices must be treated as read-only.
type Store struct {
	mu      sync.Mutex
	state   AppState
	backend Backend
	session session.Store
	chat    ChatCompleter
}

func NewStore(backend Backend, sess session.Store, chat ChatCompleter) *Store {
	return &Store{backend: backend, session: sess, chat: chat}
}

// State returns the current state.
func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) dispatch(action Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	s.mu.Unlock()
}

// Bootstrap restores a saved session and performs the initial data load.
// Any failure degrades to the logged-out state; the state is always marked
// initialized when Bootstrap returns.
func (s *Store) Bootstrap(ctx context.Context) {
	defer s.dispatch(InitializationComplete{})

	saved, err := s.session.Load()
	if err != nil || saved == nil {
		return
	}

	s.backend.SetToken(saved.Token)
	s.dispatch(LoginSuccess{Token: saved.Token, User: saved.User})

	snap, err := s.backend.FetchAll(ctx)
	if err != nil {
		// Stale or revoked token. Drop the session and start logged out.
		s.backend.SetToken("")
		_ = s.session.Clear()
		s.dispatch(Logout{})
		return
	}
	s.dispatch(SetInitialState{Snapshot: *snap})
}

// Login authenticates, persists the session, and loads the collections. A
// failure at any step, including the data load, rolls the session back and
// records the failure before re-raising it.
func (s *Store) Login(ctx context.Context, email, password string) error {
	result, err := s.backend.Login(ctx, email, password)
	if err != nil {
		s.dispatch(AuthError{Message: err.Error()})
		return err
	}

	s.backend.SetToken(result.Token)
	if err := s.session.Save(session.Session{Token: result.Token, User: result.User}); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	s.dispatch(LoginSuccess{Token: result.Token, User: result.User})

	snap, err := s.backend.FetchAll(ctx)
	if err != nil {
		s.backend.SetToken("")
		_ = s.session.Clear()
		s.dispatch(AuthError{Message: err.Error()})
		return err
	}
	s.dispatch(SetInitialState{Snapshot: *snap})
	return nil
}

// Logout drops the session locally. The server keeps no session state, so
// there is no remote call to make.
func (s *Store) Logout() error {
	s.backend.SetToken("")
	err := s.session.Clear()
	s.dispatch(Logout{})
	return err
}

// Refresh replaces the collections with a fresh snapshot from the server.
func (s *Store) Refresh(ctx context.Context) error {
	snap, err := s.backend.FetchAll(ctx)
	if err != nil {
		return err
	}
	s.dispatch(SetInitialState{Snapshot: *snap})
	return nil
}

// --- entity operations: confirm with the server, then commit ---

func (s *Store) AddClient(ctx context.Context, input core.Client) (*core.Client, error) {
	created, err := s.backend.CreateClient(ctx, input)
	if err != nil {
		return nil, err
	}
	s.dispatch(AddClient{Client: *created})
	return created, nil
}

func (s *Store) UpdateClient(ctx context.Context, id string, input core.Client) (*core.Client, error) {
	updated, err := s.backend.UpdateClient(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.dispatch(UpdateClient{Client: *updated})
	return updated, nil
}

func (s *Store) DeleteClient(ctx context.Context, id string) error {
	if err := s.backend.DeleteClient(ctx, id); err != nil {
		return err
	}
	s.dispatch(DeleteClient{ID: id})
	return nil
}

func (s *Store) AddProduct(ctx context.Context, input core.Product) (*core.Product, error) {
	created, err := s.backend.CreateProduct(ctx, input)
	if err != nil {
		return nil, err
	}
	s.dispatch(AddProduct{Product: *created})
	return created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id string, input core.Product) (*core.Product, error) {
	updated, err := s.backend.UpdateProduct(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.dispatch(UpdateProduct{Product: *updated})
	return updated, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	if err := s.backend.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.dispatch(DeleteProduct{ID: id})
	return nil
}

func (s *Store) AddSupplier(ctx context.Context, input core.Supplier) (*core.Supplier, error) {
	created, err := s.backend.CreateSupplier(ctx, input)
	if err != nil {
		return nil, err
	}
	s.dispatch(AddSupplier{Supplier: *created})
	return created, nil
}

func (s *Store) UpdateSupplier(ctx context.Context, id string, input core.Supplier) (*core.Supplier, error) {
	updated, err := s.backend.UpdateSupplier(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.dispatch(UpdateSupplier{Supplier: *updated})
	return updated, nil
}

func (s *Store) DeleteSupplier(ctx context.Context, id string) error {
	if err := s.backend.DeleteSupplier(ctx, id); err != nil {
		return err
	}
	s.dispatch(DeleteSupplier{ID: id})
	return nil
}

func (s *Store) AddOrder(ctx context.Context, input core.WorkOrder) (*core.WorkOrder, error) {
	cleaned, err := cleanOrderItems(input)
	if err != nil {
		return nil, err
	}
	created, err := s.backend.CreateOrder(ctx, cleaned)
	if err != nil {
		return nil, err
	}
	s.dispatch(AddOrder{Order: *created})
	return created, nil
}

func (s *Store) UpdateOrder(ctx context.Context, id string, input core.WorkOrder) (*core.WorkOrder, error) {
	cleaned, err := cleanOrderItems(input)
	if err != nil {
		return nil, err
	}
	updated, err := s.backend.UpdateOrder(ctx, id, cleaned)
	if err != nil {
		return nil, err
	}
	s.dispatch(UpdateOrder{Order: *updated})
	return updated, nil
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	if err := s.backend.DeleteOrder(ctx, id); err != nil {
		return err
	}
	s.dispatch(DeleteOrder{ID: id})
	return nil
}

// cleanOrderItems drops lines with no product selected before submission.
// An order with no remaining lines is rejected locally.
func cleanOrderItems(order core.WorkOrder) (core.WorkOrder, error) {
	items := make([]core.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		if item.ProductID == "" {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return core.WorkOrder{}, core.Validationf("an order needs at least one line item with a product")
	}
	order.Items = items
	return order, nil
}

// --- chat ---

// ToggleChat opens or closes the chat panel.
func (s *Store) ToggleChat() {
	s.dispatch(ToggleChat{})
}

// SendChatMessage runs one conversation turn. Failures are absorbed into the
// chat history as an assistant error message; the method never returns an
// error. A turn already in flight, or no active session, makes it a no-op.
func (s *Store) SendChatMessage(ctx context.Context, text string) {
	s.mu.Lock()
	if s.state.ChatLoading || !s.state.Authenticated() {
		s.mu.Unlock()
		return
	}
	// History and snapshot are captured before ChatStart so the user's new
	// message is passed once, as userText, not twice.
	history := s.state.ChatHistory
	snapshot := s.state.Snapshot()
	s.state = Reduce(s.state, ChatStart{Text: text})
	s.mu.Unlock()

	reply, err := s.chat.Complete(ctx, snapshot, history, text)
	if err != nil {
		s.dispatch(ChatError{Message: err.Error()})
		return
	}
	s.dispatch(ChatSuccess{Reply: reply})
}
