package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderService manages work orders and their line items. List results come
// back ordered by ascending due date, the ordering the order list imposes.
type OrderService interface {
	ListOrders(ctx context.Context) ([]WorkOrder, error)
	GetOrder(ctx context.Context, id string) (*WorkOrder, error)
	CreateOrder(ctx context.Context, input WorkOrder) (*WorkOrder, error)
	// UpdateOrder replaces the order header and its full line item set.
	UpdateOrder(ctx context.Context, id string, input WorkOrder) (*WorkOrder, error)
	DeleteOrder(ctx context.Context, id string) error
}

type orderService struct {
	pool *pgxpool.Pool
}

func NewOrderService(pool *pgxpool.Pool) OrderService {
	return &orderService{pool: pool}
}

func validateOrder(input WorkOrder) error {
	if strings.TrimSpace(input.PatientName) == "" {
		return Validationf("patient name is required")
	}
	if strings.TrimSpace(input.ClientID) == "" {
		return Validationf("client reference is required")
	}
	if input.DueDate.IsZero() {
		return Validationf("due date is required")
	}
	if !input.Status.Valid() {
		return Validationf(fmt.Sprintf("invalid order status %q", input.Status))
	}
	if len(input.Items) == 0 {
		return Validationf("order must have at least one line item")
	}
	for i, item := range input.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return Validationf(fmt.Sprintf("line %d: product reference is required", i+1))
		}
		if item.Quantity <= 0 {
			return Validationf(fmt.Sprintf("line %d: quantity must be positive", i+1))
		}
	}
	return nil
}

func (s *orderService) ListOrders(ctx context.Context) ([]WorkOrder, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, patient_name, client_id, due_date, status, notes
		FROM work_orders
		ORDER BY due_date ASC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []WorkOrder
	for rows.Next() {
		var o WorkOrder
		if err := rows.Scan(&o.ID, &o.PatientName, &o.ClientID, &o.DueDate, &o.Status, &o.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order row iteration error: %w", err)
	}

	for i := range orders {
		items, err := s.fetchItems(ctx, s.pool, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*WorkOrder, error) {
	var o WorkOrder
	err := s.pool.QueryRow(ctx, `
		SELECT id, patient_name, client_id, due_date, status, notes
		FROM work_orders
		WHERE id = $1
	`, id).Scan(&o.ID, &o.PatientName, &o.ClientID, &o.DueDate, &o.Status, &o.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch order %s: %w", id, err)
	}

	items, err := s.fetchItems(ctx, s.pool, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (s *orderService) CreateOrder(ctx context.Context, input WorkOrder) (*WorkOrder, error) {
	if err := validateOrder(input); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	id := uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO work_orders (id, patient_name, client_id, due_date, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, input.PatientName, input.ClientID, input.DueDate, input.Status, input.Notes)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	if err := insertItems(ctx, tx, id, input.Items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order creation: %w", err)
	}
	return s.GetOrder(ctx, id)
}

func (s *orderService) UpdateOrder(ctx context.Context, id string, input WorkOrder) (*WorkOrder, error) {
	if err := validateOrder(input); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE work_orders
		SET patient_name = $2, client_id = $3, due_date = $4, status = $5, notes = $6
		WHERE id = $1
	`, id, input.PatientName, input.ClientID, input.DueDate, input.Status, input.Notes)
	if err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	// Replace the full line item set.
	if _, err := tx.Exec(ctx, "DELETE FROM work_order_items WHERE order_id = $1", id); err != nil {
		return nil, fmt.Errorf("failed to clear order lines: %w", err)
	}
	if err := insertItems(ctx, tx, id, input.Items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order update: %w", err)
	}
	return s.GetOrder(ctx, id)
}

func (s *orderService) DeleteOrder(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM work_orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func insertItems(ctx context.Context, tx pgx.Tx, orderID string, items []OrderItem) error {
	for i, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO work_order_items (order_id, line_number, product_id, quantity)
			VALUES ($1, $2, $3, $4)
		`, orderID, i+1, item.ProductID, item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to insert order line %d: %w", i+1, err)
		}
	}
	return nil
}

// pgxRowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgxRowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *orderService) fetchItems(ctx context.Context, q pgxRowQuerier, orderID string) ([]OrderItem, error) {
	rows, err := q.Query(ctx, `
		SELECT product_id, quantity
		FROM work_order_items
		WHERE order_id = $1
		ORDER BY line_number
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
