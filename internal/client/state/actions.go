package state

import "dentallab/internal/core"

// Action is a state transition request. The set is closed: only the types in
// this file implement it, so Reduce can switch exhaustively.
type Action interface {
	isAction()
}

// LoginSuccess installs the authenticated session.
type LoginSuccess struct {
	Token string
	User  core.User
}

// Logout clears the session and all loaded collections. Initialized is
// preserved so the UI does not flash back into its loading state.
type Logout struct{}

// AuthError clears the authenticated session and records why. The entity
// collections are left alone so the UI keeps rendering what it has.
type AuthError struct {
	Message string
}

// SetInitialState replaces all four collections with a fresh snapshot.
type SetInitialState struct {
	Snapshot core.DataSnapshot
}

// InitializationComplete marks startup as finished, whether or not a session
// was restored.
type InitializationComplete struct{}

type AddClient struct{ Client core.Client }
type UpdateClient struct{ Client core.Client }
type DeleteClient struct{ ID string }

type AddProduct struct{ Product core.Product }
type UpdateProduct struct{ Product core.Product }
type DeleteProduct struct{ ID string }

type AddSupplier struct{ Supplier core.Supplier }
type UpdateSupplier struct{ Supplier core.Supplier }
type DeleteSupplier struct{ ID string }

type AddOrder struct{ Order core.WorkOrder }
type UpdateOrder struct{ Order core.WorkOrder }
type DeleteOrder struct{ ID string }

// ToggleChat opens or closes the chat panel.
type ToggleChat struct{}

// ChatStart records the user's message and marks the assistant as thinking.
type ChatStart struct{ Text string }

// ChatSuccess records the assistant's reply.
type ChatSuccess struct{ Reply string }

// ChatError surfaces a failure inside the conversation itself; the assistant
// never breaks the UI.
type ChatError struct{ Message string }

func (LoginSuccess) isAction()           {}
func (Logout) isAction()                 {}
func (AuthError) isAction()              {}
func (SetInitialState) isAction()        {}
func (InitializationComplete) isAction() {}
func (AddClient) isAction()              {}
func (UpdateClient) isAction()           {}
func (DeleteClient) isAction()           {}
func (AddProduct) isAction()             {}
func (UpdateProduct) isAction()          {}
func (DeleteProduct) isAction()          {}
func (AddSupplier) isAction()            {}
func (UpdateSupplier) isAction()         {}
func (DeleteSupplier) isAction()         {}
func (AddOrder) isAction()               {}
func (UpdateOrder) isAction()            {}
func (DeleteOrder) isAction()            {}
func (ToggleChat) isAction()             {}
func (ChatStart) isAction()              {}
func (ChatSuccess) isAction()            {}
func (ChatError) isAction()              {}
