package app

import (
	"context"

	"dentallab/internal/core"
)

// ApplicationService is the single interface the web adapter calls. It
// decouples transport from business logic; implementations contain no HTTP
// concerns and no display logic.
type ApplicationService interface {
	// RegisterUser creates a new account. Role defaults to "user" when empty.
	RegisterUser(ctx context.Context, email, password, role string) (*core.User, error)

	// AuthenticateUser verifies credentials and returns the user on success.
	AuthenticateUser(ctx context.Context, email, password string) (*core.User, error)

	// GetUser returns the user profile by ID.
	GetUser(ctx context.Context, id string) (*core.User, error)

	ListClients(ctx context.Context) ([]core.Client, error)
	CreateClient(ctx context.Context, input core.Client) (*core.Client, error)
	UpdateClient(ctx context.Context, id string, input core.Client) (*core.Client, error)
	DeleteClient(ctx context.Context, id string) error

	ListProducts(ctx context.Context) ([]core.Product, error)
	CreateProduct(ctx context.Context, input core.Product) (*core.Product, error)
	UpdateProduct(ctx context.Context, id string, input core.Product) (*core.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListSuppliers(ctx context.Context) ([]core.Supplier, error)
	CreateSupplier(ctx context.Context, input core.Supplier) (*core.Supplier, error)
	UpdateSupplier(ctx context.Context, id string, input core.Supplier) (*core.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error

	// ListOrders returns work orders sorted by ascending due date.
	ListOrders(ctx context.Context) ([]core.WorkOrder, error)
	CreateOrder(ctx context.Context, input core.WorkOrder) (*core.WorkOrder, error)
	UpdateOrder(ctx context.Context, id string, input core.WorkOrder) (*core.WorkOrder, error)
	DeleteOrder(ctx context.Context, id string) error

	// FinancialSummary computes KPIs and monthly realized-revenue buckets over
	// the current collections, after applying the filter.
	FinancialSummary(ctx context.Context, filter core.FinancialFilter) (*FinancialSummaryResult, error)
}

// FinancialSummaryResult is returned by FinancialSummary.
type FinancialSummaryResult struct {
	KPIs    core.FinancialKPIs   `json:"kpis"`
	Monthly []core.RevenueBucket `json:"monthlyRevenue"`
}
