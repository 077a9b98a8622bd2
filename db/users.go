package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Divy2003/realstate/config"
	"github.com/Divy2003/realstate/model"
	"github.com/Divy2003/realstate/pkg/apperr"
)

// GetUserByEmail returns the account with the given email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, role, created_at, updated_at
		FROM users WHERE email = ?
	`, email).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUser returns the account with the given identifier.
func (db *DB) GetUser(ctx context.Context, id string) (*model.User, error) {
	u := &model.User{}
	err := db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, role, created_at, updated_at
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// CreateUser persists a new account with a bcrypt-hashed password.
func (db *DB) CreateUser(ctx context.Context, email, name, password, role string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("email already exists")
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// UpdatePassword replaces the account's password hash.
func (db *DB) UpdatePassword(ctx context.Context, id, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res, err := db.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?",
		string(hash), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

// SeedAdmin creates the bootstrap admin account if no user with the
// configured email exists yet. A missing password skips seeding so an
// unconfigured deploy never ships a guessable default.
func (db *DB) SeedAdmin(ctx context.Context, cfg *config.AdminConfig) error {
	if cfg.Password == "" {
		slog.Warn("admin bootstrap skipped: no admin password configured")
		return nil
	}

	_, err := db.GetUserByEmail(ctx, cfg.Email)
	if err == nil {
		return nil // already seeded
	}
	if !apperr.IsNotFound(err) {
		return err
	}

	if _, err := db.CreateUser(ctx, cfg.Email, cfg.Name, cfg.Password, model.RoleAdmin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	slog.Info("admin account created", "email", cfg.Email)
	return nil
}
