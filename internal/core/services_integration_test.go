package core_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"dentallab/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE work_order_items, work_orders, clients, products, suppliers, users CASCADE;
	`)
	if err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}

	return pool
}

func TestClientService_CRUD(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	svc := core.NewClientService(pool)

	var createdID string

	t.Run("Create_Success", func(t *testing.T) {
		c, err := svc.CreateClient(ctx, core.Client{
			Name:   "Smile Dental",
			Clinic: "Smile Clinic",
			Phone:  "555-0101",
			Email:  "front@smile.example",
		})
		if err != nil {
			t.Fatalf("CreateClient: %v", err)
		}
		if c.ID == "" {
			t.Error("expected generated ID")
		}
		if c.Name != "Smile Dental" {
			t.Errorf("name = %q", c.Name)
		}
		createdID = c.ID
	})

	t.Run("Create_MissingName_Fails", func(t *testing.T) {
		_, err := svc.CreateClient(ctx, core.Client{Clinic: "No Name"})
		if !core.IsValidation(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("Update_ReturnsStoredRecord", func(t *testing.T) {
		c, err := svc.UpdateClient(ctx, createdID, core.Client{Name: "Smile Dental Renamed"})
		if err != nil {
			t.Fatalf("UpdateClient: %v", err)
		}
		if c.Name != "Smile Dental Renamed" {
			t.Errorf("name = %q", c.Name)
		}
	})

	t.Run("Update_Unknown_NotFound", func(t *testing.T) {
		_, err := svc.UpdateClient(ctx, "does-not-exist", core.Client{Name: "x"})
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete_ThenGone", func(t *testing.T) {
		if err := svc.DeleteClient(ctx, createdID); err != nil {
			t.Fatalf("DeleteClient: %v", err)
		}
		if err := svc.DeleteClient(ctx, createdID); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("second delete: expected ErrNotFound, got %v", err)
		}
	})
}

func TestOrderService_Lifecycle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	clients := core.NewClientService(pool)
	products := core.NewProductService(pool)
	orders := core.NewOrderService(pool)

	client, err := clients.CreateClient(ctx, core.Client{Name: "Bright Clinic"})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}
	crown, err := products.CreateProduct(ctx, core.Product{
		Name: "Zirconia Crown", Material: "Zirconia", Price: decimal.RequireFromString("120.50"),
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	var orderID string

	t.Run("Create_WithItems", func(t *testing.T) {
		o, err := orders.CreateOrder(ctx, core.WorkOrder{
			PatientName: "Ana Petrova",
			ClientID:    client.ID,
			Items:       []core.OrderItem{{ProductID: crown.ID, Quantity: 2}},
			DueDate:     due,
			Status:      core.StatusReceived,
		})
		if err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
		if len(o.Items) != 1 || o.Items[0].Quantity != 2 {
			t.Errorf("items = %+v", o.Items)
		}
		orderID = o.ID
	})

	t.Run("Create_NoItems_Fails", func(t *testing.T) {
		_, err := orders.CreateOrder(ctx, core.WorkOrder{
			PatientName: "No Items",
			ClientID:    client.ID,
			DueDate:     due,
			Status:      core.StatusReceived,
		})
		if !core.IsValidation(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("Create_BadStatus_Fails", func(t *testing.T) {
		_, err := orders.CreateOrder(ctx, core.WorkOrder{
			PatientName: "Bad Status",
			ClientID:    client.ID,
			Items:       []core.OrderItem{{ProductID: crown.ID, Quantity: 1}},
			DueDate:     due,
			Status:      core.OrderStatus("Shipped"),
		})
		if !core.IsValidation(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("Update_ReplacesItemSet", func(t *testing.T) {
		o, err := orders.UpdateOrder(ctx, orderID, core.WorkOrder{
			PatientName: "Ana Petrova",
			ClientID:    client.ID,
			Items: []core.OrderItem{
				{ProductID: crown.ID, Quantity: 3},
			},
			DueDate: due,
			Status:  core.StatusInProcess,
		})
		if err != nil {
			t.Fatalf("UpdateOrder: %v", err)
		}
		if o.Status != core.StatusInProcess {
			t.Errorf("status = %q", o.Status)
		}
		if len(o.Items) != 1 || o.Items[0].Quantity != 3 {
			t.Errorf("items = %+v", o.Items)
		}
	})

	t.Run("List_SortedByDueDate", func(t *testing.T) {
		earlier := due.AddDate(0, -1, 0)
		if _, err := orders.CreateOrder(ctx, core.WorkOrder{
			PatientName: "Earlier Due",
			ClientID:    client.ID,
			Items:       []core.OrderItem{{ProductID: crown.ID, Quantity: 1}},
			DueDate:     earlier,
			Status:      core.StatusReceived,
		}); err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}

		list, err := orders.ListOrders(ctx)
		if err != nil {
			t.Fatalf("ListOrders: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("len = %d", len(list))
		}
		if list[0].PatientName != "Earlier Due" {
			t.Errorf("first order = %+v, want earliest due date first", list[0])
		}
	})

	t.Run("Delete_RemovesItems", func(t *testing.T) {
		if err := orders.DeleteOrder(ctx, orderID); err != nil {
			t.Fatalf("DeleteOrder: %v", err)
		}
		var remaining int
		if err := pool.QueryRow(ctx,
			"SELECT count(*) FROM work_order_items WHERE order_id = $1", orderID).Scan(&remaining); err != nil {
			t.Fatalf("count items: %v", err)
		}
		if remaining != 0 {
			t.Errorf("items remaining = %d", remaining)
		}
	})
}

func TestUserService(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	svc := core.NewUserService(pool)

	t.Run("Register_DefaultsRole", func(t *testing.T) {
		u, err := svc.Register(ctx, "Tech@Lab.Example", "secret1", "")
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if u.Role != core.RoleUser {
			t.Errorf("role = %q", u.Role)
		}
		if u.Email != "tech@lab.example" {
			t.Errorf("email = %q, want lowercased", u.Email)
		}
	})

	t.Run("Register_DuplicateEmail_Fails", func(t *testing.T) {
		_, err := svc.Register(ctx, "tech@lab.example", "secret1", "")
		if !errors.Is(err, core.ErrDuplicateEmail) {
			t.Errorf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("Register_ShortPassword_Fails", func(t *testing.T) {
		_, err := svc.Register(ctx, "short@lab.example", "abc", "")
		if !core.IsValidation(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("Authenticate", func(t *testing.T) {
		u, err := svc.Authenticate(ctx, "tech@lab.example", "secret1")
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		if u.PasswordHash != "" {
			t.Error("password hash must not leave the service")
		}

		if _, err := svc.Authenticate(ctx, "tech@lab.example", "wrong"); !errors.Is(err, core.ErrInvalidCredentials) {
			t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
		}
		if _, err := svc.Authenticate(ctx, "ghost@lab.example", "secret1"); !errors.Is(err, core.ErrInvalidCredentials) {
			t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("EnsureAdmin_IdempotentAndBootstrappable", func(t *testing.T) {
		// The bootstrap password is operator-chosen and may be shorter than
		// the signup policy allows.
		if err := svc.EnsureAdmin(ctx, "admin@admin.com", "admin"); err != nil {
			t.Fatalf("EnsureAdmin: %v", err)
		}
		if err := svc.EnsureAdmin(ctx, "admin@admin.com", "admin"); err != nil {
			t.Fatalf("EnsureAdmin (second run): %v", err)
		}

		u, err := svc.Authenticate(ctx, "admin@admin.com", "admin")
		if err != nil {
			t.Fatalf("Authenticate admin: %v", err)
		}
		if u.Role != core.RoleAdmin {
			t.Errorf("role = %q", u.Role)
		}
	})
}
