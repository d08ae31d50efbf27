// Package state holds the client application's single source of truth. All
// transitions go through Reduce, a pure function over a closed action set;
// side effects (network, session persistence) live in Store.
package state

import "dentallab/internal/core"

// AppState is everything the client UI renders from. It is treated as
// immutable: Reduce returns a new value and never mutates its input, so a
// snapshot taken before a dispatch stays valid afterwards.
type AppState struct {
	Token string
	User  *core.User

	// AuthError is the last authentication failure message, cleared by the
	// next successful login.
	AuthError string

	Clients   []core.Client
	Products  []core.Product
	Suppliers []core.Supplier
	Orders    []core.WorkOrder

	// Initialized flips to true exactly once, after session restore and the
	// initial data load have finished (successfully or not).
	Initialized bool

	ChatOpen    bool
	ChatHistory []core.ChatMessage
	ChatLoading bool
}

// Authenticated reports whether a session is active.
func (s AppState) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// Snapshot bundles the four collections for the assistant and for reports.
func (s AppState) Snapshot() core.DataSnapshot {
	return core.DataSnapshot{
		Clients:   s.Clients,
		Products:  s.Products,
		Suppliers: s.Suppliers,
		Orders:    s.Orders,
	}
}

// Reduce applies one action and returns the next state. It is total: unknown
// IDs and repeated deletes are no-ops, never errors.
func Reduce(s AppState, action Action) AppState {
	switch a := action.(type) {
	case LoginSuccess:
		s.Token = a.Token
		u := a.User
		s.User = &u
		s.AuthError = ""

	case Logout:
		s.Token = ""
		s.User = nil
		s.AuthError = ""
		s.Clients = nil
		s.Products = nil
		s.Suppliers = nil
		s.Orders = nil

	case AuthError:
		s.Token = ""
		s.User = nil
		s.AuthError = a.Message

	case SetInitialState:
		s.Clients = a.Snapshot.Clients
		s.Products = a.Snapshot.Products
		s.Suppliers = a.Snapshot.Suppliers
		s.Orders = a.Snapshot.Orders

	case InitializationComplete:
		s.Initialized = true

	case AddClient:
		s.Clients = appendCopy(s.Clients, a.Client)
	case UpdateClient:
		s.Clients = replaceByID(s.Clients, a.Client, func(c core.Client) string { return c.ID })
	case DeleteClient:
		s.Clients = removeByID(s.Clients, a.ID, func(c core.Client) string { return c.ID })

	case AddProduct:
		s.Products = appendCopy(s.Products, a.Product)
	case UpdateProduct:
		s.Products = replaceByID(s.Products, a.Product, func(p core.Product) string { return p.ID })
	case DeleteProduct:
		s.Products = removeByID(s.Products, a.ID, func(p core.Product) string { return p.ID })

	case AddSupplier:
		s.Suppliers = appendCopy(s.Suppliers, a.Supplier)
	case UpdateSupplier:
		s.Suppliers = replaceByID(s.Suppliers, a.Supplier, func(sp core.Supplier) string { return sp.ID })
	case DeleteSupplier:
		s.Suppliers = removeByID(s.Suppliers, a.ID, func(sp core.Supplier) string { return sp.ID })

	case AddOrder:
		s.Orders = appendCopy(s.Orders, a.Order)
	case UpdateOrder:
		s.Orders = replaceByID(s.Orders, a.Order, func(o core.WorkOrder) string { return o.ID })
	case DeleteOrder:
		s.Orders = removeByID(s.Orders, a.ID, func(o core.WorkOrder) string { return o.ID })

	case ToggleChat:
		s.ChatOpen = !s.ChatOpen

	case ChatStart:
		s.ChatHistory = appendCopy(s.ChatHistory, core.ChatMessage{Role: core.ChatRoleUser, Content: a.Text})
		s.ChatLoading = true

	case ChatSuccess:
		s.ChatHistory = appendCopy(s.ChatHistory, core.ChatMessage{Role: core.ChatRoleModel, Content: a.Reply})
		s.ChatLoading = false

	case ChatError:
		s.ChatHistory = appendCopy(s.ChatHistory, core.ChatMessage{Role: core.ChatRoleModel, Content: "Error: " + a.Message})
		s.ChatLoading = false
	}
	return s
}

// appendCopy appends without aliasing the input slice's backing array.
func appendCopy[T any](in []T, v T) []T {
	out := make([]T, len(in), len(in)+1)
	copy(out, in)
	return append(out, v)
}

// replaceByID swaps the element whose ID matches; unknown IDs leave the
// slice unchanged.
func replaceByID[T any](in []T, v T, id func(T) string) []T {
	target := id(v)
	for i := range in {
		if id(in[i]) == target {
			out := make([]T, len(in))
			copy(out, in)
			out[i] = v
			return out
		}
	}
	return in
}

// removeByID drops the element whose ID matches; removing an absent ID is a
// no-op, so a repeated delete converges to the same state.
func removeByID[T any](in []T, target string, id func(T) string) []T {
	for i := range in {
		if id(in[i]) == target {
			out := make([]T, 0, len(in)-1)
			out = append(out, in[:i]...)
			return append(out, in[i+1:]...)
		}
	}
	return in
}
