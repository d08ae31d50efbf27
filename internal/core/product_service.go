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

// ProductService manages the laboratory's product catalog.
// Deleting a product does not touch work orders that reference it; order
// totals simply stop counting the vanished line.
type ProductService interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	CreateProduct(ctx context.Context, input Product) (*Product, error)
	UpdateProduct(ctx context.Context, id string, input Product) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type productService struct {
	pool *pgxpool.Pool
}

func NewProductService(pool *pgxpool.Pool) ProductService {
	return &productService{pool: pool}
}

func validateProduct(input Product) error {
	if strings.TrimSpace(input.Name) == "" {
		return Validationf("product name is required")
	}
	if input.Price.IsNegative() {
		return Validationf("product price must not be negative")
	}
	return nil
}

func (s *productService) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, material, price
		FROM products
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Material, &p.Price); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *productService) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, material, price
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Material, &p.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}
	return &p, nil
}

func (s *productService) CreateProduct(ctx context.Context, input Product) (*Product, error) {
	if err := validateProduct(input); err != nil {
		return nil, err
	}

	var p Product
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (id, name, material, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, material, price
	`, uuid.NewString(), input.Name, input.Material, input.Price).Scan(
		&p.ID, &p.Name, &p.Material, &p.Price,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &p, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, input Product) (*Product, error) {
	if err := validateProduct(input); err != nil {
		return nil, err
	}

	var p Product
	err := s.pool.QueryRow(ctx, `
		UPDATE products
		SET name = $2, material = $3, price = $4
		WHERE id = $1
		RETURNING id, name, material, price
	`, id, input.Name, input.Material, input.Price).Scan(
		&p.ID, &p.Name, &p.Material, &p.Price,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return &p, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
