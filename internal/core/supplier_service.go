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

// SupplierService manages the vendor address book. Suppliers carry no
// references to or from other entities.
type SupplierService interface {
	ListSuppliers(ctx context.Context) ([]Supplier, error)
	GetSupplier(ctx context.Context, id string) (*Supplier, error)
	CreateSupplier(ctx context.Context, input Supplier) (*Supplier, error)
	UpdateSupplier(ctx context.Context, id string, input Supplier) (*Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error
}

type supplierService struct {
	pool *pgxpool.Pool
}

func NewSupplierService(pool *pgxpool.Pool) SupplierService {
	return &supplierService{pool: pool}
}

func validateSupplier(input Supplier) error {
	if strings.TrimSpace(input.Name) == "" {
		return Validationf("supplier name is required")
	}
	return nil
}

func (s *supplierService) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, contact_person, phone, website
		FROM suppliers
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		var sp Supplier
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.ContactPerson, &sp.Phone, &sp.Website); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, sp)
	}
	return suppliers, rows.Err()
}

func (s *supplierService) GetSupplier(ctx context.Context, id string) (*Supplier, error) {
	var sp Supplier
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, contact_person, phone, website
		FROM suppliers
		WHERE id = $1
	`, id).Scan(&sp.ID, &sp.Name, &sp.ContactPerson, &sp.Phone, &sp.Website)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch supplier %s: %w", id, err)
	}
	return &sp, nil
}

func (s *supplierService) CreateSupplier(ctx context.Context, input Supplier) (*Supplier, error) {
	if err := validateSupplier(input); err != nil {
		return nil, err
	}

	var sp Supplier
	err := s.pool.QueryRow(ctx, `
		INSERT INTO suppliers (id, name, contact_person, phone, website)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, contact_person, phone, website
	`, uuid.NewString(), input.Name, input.ContactPerson, input.Phone, input.Website).Scan(
		&sp.ID, &sp.Name, &sp.ContactPerson, &sp.Phone, &sp.Website,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return &sp, nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, id string, input Supplier) (*Supplier, error) {
	if err := validateSupplier(input); err != nil {
		return nil, err
	}

	var sp Supplier
	err := s.pool.QueryRow(ctx, `
		UPDATE suppliers
		SET name = $2, contact_person = $3, phone = $4, website = $5
		WHERE id = $1
		RETURNING id, name, contact_person, phone, website
	`, id, input.Name, input.ContactPerson, input.Phone, input.Website).Scan(
		&sp.ID, &sp.Name, &sp.ContactPerson, &sp.Phone, &sp.Website,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update supplier %s: %w", id, err)
	}
	return &sp, nil
}

func (s *supplierService) DeleteSupplier(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM suppliers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete supplier %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
