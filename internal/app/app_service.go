package app

import (
	"context"

	"dentallab/internal/core"
)

type appService struct {
	users     core.UserService
	clients   core.ClientService
	products  core.ProductService
	suppliers core.SupplierService
	orders    core.OrderService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	users core.UserService,
	clients core.ClientService,
	products core.ProductService,
	suppliers core.SupplierService,
	orders core.OrderService,
) ApplicationService {
	return &appService{
		users:     users,
		clients:   clients,
		products:  products,
		suppliers: suppliers,
		orders:    orders,
	}
}

func (s *appService) RegisterUser(ctx context.Context, email, password, role string) (*core.User, error) {
	return s.users.Register(ctx, email, password, role)
}

func (s *appService) AuthenticateUser(ctx context.Context, email, password string) (*core.User, error) {
	return s.users.Authenticate(ctx, email, password)
}

func (s *appService) GetUser(ctx context.Context, id string) (*core.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *appService) ListClients(ctx context.Context) ([]core.Client, error) {
	return s.clients.ListClients(ctx)
}

func (s *appService) CreateClient(ctx context.Context, input core.Client) (*core.Client, error) {
	return s.clients.CreateClient(ctx, input)
}

func (s *appService) UpdateClient(ctx context.Context, id string, input core.Client) (*core.Client, error) {
	return s.clients.UpdateClient(ctx, id, input)
}

func (s *appService) DeleteClient(ctx context.Context, id string) error {
	return s.clients.DeleteClient(ctx, id)
}

func (s *appService) ListProducts(ctx context.Context) ([]core.Product, error) {
	return s.products.ListProducts(ctx)
}

func (s *appService) CreateProduct(ctx context.Context, input core.Product) (*core.Product, error) {
	return s.products.CreateProduct(ctx, input)
}

func (s *appService) UpdateProduct(ctx context.Context, id string, input core.Product) (*core.Product, error) {
	return s.products.UpdateProduct(ctx, id, input)
}

func (s *appService) DeleteProduct(ctx context.Context, id string) error {
	return s.products.DeleteProduct(ctx, id)
}

func (s *appService) ListSuppliers(ctx context.Context) ([]core.Supplier, error) {
	return s.suppliers.ListSuppliers(ctx)
}

func (s *appService) CreateSupplier(ctx context.Context, input core.Supplier) (*core.Supplier, error) {
	return s.suppliers.CreateSupplier(ctx, input)
}

func (s *appService) UpdateSupplier(ctx context.Context, id string, input core.Supplier) (*core.Supplier, error) {
	return s.suppliers.UpdateSupplier(ctx, id, input)
}

func (s *appService) DeleteSupplier(ctx context.Context, id string) error {
	return s.suppliers.DeleteSupplier(ctx, id)
}

func (s *appService) ListOrders(ctx context.Context) ([]core.WorkOrder, error) {
	return s.orders.ListOrders(ctx)
}

func (s *appService) CreateOrder(ctx context.Context, input core.WorkOrder) (*core.WorkOrder, error) {
	return s.orders.CreateOrder(ctx, input)
}

func (s *appService) UpdateOrder(ctx context.Context, id string, input core.WorkOrder) (*core.WorkOrder, error) {
	return s.orders.UpdateOrder(ctx, id, input)
}

func (s *appService) DeleteOrder(ctx context.Context, id string) error {
	return s.orders.DeleteOrder(ctx, id)
}

// FinancialSummary loads the live collections and delegates to the pure
// calculators — the same functions the client uses for its financial view.
func (s *appService) FinancialSummary(ctx context.Context, filter core.FinancialFilter) (*FinancialSummaryResult, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	idx := core.NewProductIndex(products)
	filtered := core.FilterOrders(orders, filter)
	return &FinancialSummaryResult{
		KPIs:    core.Summarize(filtered, idx),
		Monthly: core.MonthlyRevenue(filtered, idx),
	}, nil
}
