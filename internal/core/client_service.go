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

// ClientService manages the dental clinic master data.
type ClientService interface {
	ListClients(ctx context.Context) ([]Client, error)
	GetClient(ctx context.Context, id string) (*Client, error)
	CreateClient(ctx context.Context, input Client) (*Client, error)
	// UpdateClient replaces the record with the given ID and returns the
	// stored representation. ErrNotFound if no record matches.
	UpdateClient(ctx context.Context, id string, input Client) (*Client, error)
	DeleteClient(ctx context.Context, id string) error
}

type clientService struct {
	pool *pgxpool.Pool
}

func NewClientService(pool *pgxpool.Pool) ClientService {
	return &clientService{pool: pool}
}

func validateClient(input Client) error {
	if strings.TrimSpace(input.Name) == "" {
		return Validationf("client name is required")
	}
	return nil
}

func (s *clientService) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, clinic, phone, email
		FROM clients
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Clinic, &c.Phone, &c.Email); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *clientService) GetClient(ctx context.Context, id string) (*Client, error) {
	var c Client
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, clinic, phone, email
		FROM clients
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Clinic, &c.Phone, &c.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch client %s: %w", id, err)
	}
	return &c, nil
}

func (s *clientService) CreateClient(ctx context.Context, input Client) (*Client, error) {
	if err := validateClient(input); err != nil {
		return nil, err
	}

	var c Client
	err := s.pool.QueryRow(ctx, `
		INSERT INTO clients (id, name, clinic, phone, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, clinic, phone, email
	`, uuid.NewString(), input.Name, input.Clinic, input.Phone, input.Email).Scan(
		&c.ID, &c.Name, &c.Clinic, &c.Phone, &c.Email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &c, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id string, input Client) (*Client, error) {
	if err := validateClient(input); err != nil {
		return nil, err
	}

	var c Client
	err := s.pool.QueryRow(ctx, `
		UPDATE clients
		SET name = $2, clinic = $3, phone = $4, email = $5
		WHERE id = $1
		RETURNING id, name, clinic, phone, email
	`, id, input.Name, input.Clinic, input.Phone, input.Email).Scan(
		&c.ID, &c.Name, &c.Clinic, &c.Phone, &c.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update client %s: %w", id, err)
	}
	return &c, nil
}

func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM clients WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete client %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
