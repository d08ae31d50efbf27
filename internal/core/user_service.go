package core

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// UserService handles registration and credential verification.
type UserService interface {
	// Register creates a new user. Role defaults to "user" when empty.
	// ErrDuplicateEmail if the email is taken; *ValidationError for a
	// malformed email or a password shorter than 6 characters.
	Register(ctx context.Context, email, password, role string) (*User, error)

	// Authenticate verifies email and password. ErrInvalidCredentials on any
	// mismatch — it never reveals which half was wrong.
	Authenticate(ctx context.Context, email, password string) (*User, error)

	GetByID(ctx context.Context, id string) (*User, error)

	// EnsureAdmin registers the default administrator if it does not exist.
	// Called once at server startup.
	EnsureAdmin(ctx context.Context, email, password string) error
}

type userService struct {
	pool *pgxpool.Pool
}

func NewUserService(pool *pgxpool.Pool) UserService {
	return &userService{pool: pool}
}

func (s *userService) Register(ctx context.Context, email, password, role string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, Validationf("a valid email is required")
	}
	if len(password) < 6 {
		return nil, Validationf("password must be at least 6 characters")
	}
	switch role {
	case "":
		role = RoleUser
	case RoleAdmin, RoleUser:
	default:
		return nil, Validationf(fmt.Sprintf("invalid role %q", role))
	}

	var exists bool
	if err := s.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{ID: uuid.NewString(), Email: email, Role: role, PasswordHash: string(hash)}
	if _, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
	`, u.ID, u.Email, u.PasswordHash, u.Role); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var u User
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, role
		FROM users
		WHERE email = $1
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	u.PasswordHash = ""
	return &u, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, role
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user %s: %w", id, err)
	}
	return &u, nil
}

// EnsureAdmin seeds directly instead of going through Register so the
// operator-chosen bootstrap password is not subject to the signup policy.
func (s *userService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var exists bool
	if err := s.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	if _, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO NOTHING
	`, uuid.NewString(), email, string(hash), RoleAdmin); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	return nil
}
