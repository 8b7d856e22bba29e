package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uad-deukouway/housing-api/internal/models"
)

const userColumns = `id, email, password_hash, first_name, last_name, phone, role, bio, avatar_url, verified, blocked, blocked_at, blocked_by, created_at, updated_at`

// UserRepository provides database access for accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new account.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	const query = `INSERT INTO users (id, email, password_hash, first_name, last_name, phone, role, bio, avatar_url, verified, blocked, created_at, updated_at) VALUES (:id, :email, :password_hash, :first_name, :last_name, :phone, :role, :bio, :avatar_url, :verified, :blocked, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByEmail returns an account by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns an account by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// UpdateProfile updates the self-service profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, id, firstName, lastName, phone, bio string) error {
	const query = `UPDATE users SET first_name = $2, last_name = $3, phone = $4, bio = $5, updated_at = $6 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, firstName, lastName, phone, bio, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListNonAdmins returns every non-admin account, newest first.
func (r *UserRepository) ListNonAdmins(ctx context.Context) ([]models.AdminUser, error) {
	const query = `SELECT id, email, first_name, last_name, phone, role, verified, blocked, blocked_at, created_at FROM users WHERE role <> 'admin' ORDER BY created_at DESC`
	var users []models.AdminUser
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SetBlocked applies or clears the blocked state with its audit fields.
func (r *UserRepository) SetBlocked(ctx context.Context, id string, blocked bool, by *string, at *time.Time) error {
	const query = `UPDATE users SET blocked = $2, blocked_at = $3, blocked_by = $4, updated_at = $5 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, blocked, at, by, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set blocked: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListEmails returns every known address for the broadcast, blanks included;
// the notifier filters them.
func (r *UserRepository) ListEmails(ctx context.Context) ([]string, error) {
	const query = `SELECT email FROM users`
	var emails []string
	if err := r.db.SelectContext(ctx, &emails, query); err != nil {
		return nil, fmt.Errorf("list emails: %w", err)
	}
	return emails, nil
}
