package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/raihanm/shopline-golang/internal/models"
)

// UserStore covers the slice of the identity subsystem the checkout core
// consumes: look up the current user and their billing profile, plus the
// minimal register path that makes the repo self-contained.
type UserStore struct {
	DB *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{DB: db}
}

const userColumns = `id, email, password_hash, company_id, status,
	full_name, phone_number, address_line1, address_line2, city, state, postcode,
	created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.CompanyID, &u.Status,
		&u.Profile.FullName, &u.Profile.PhoneNumber,
		&u.Profile.AddressLine1, &u.Profile.AddressLine2,
		&u.Profile.City, &u.Profile.State, &u.Profile.Postcode,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// Get returns the user by ID, billing profile included.
func (s *UserStore) Get(ctx context.Context, userID int64) (*models.User, error) {
	row := s.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", userID)
	return scanUser(row)
}

// GetByEmail returns the user by email for the login path.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

// Create inserts a new account and returns its ID.
func (s *UserStore) Create(ctx context.Context, u *models.User) (int64, error) {
	now := time.Now()
	result, err := s.DB.ExecContext(ctx, `
		INSERT INTO users
			(email, password_hash, company_id, status,
			 full_name, phone_number, address_line1, address_line2,
			 city, state, postcode, created_at, updated_at)
		VALUES (?, ?, ?, 'active', ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Email, u.PasswordHash, u.CompanyID,
		u.Profile.FullName, u.Profile.PhoneNumber,
		u.Profile.AddressLine1, u.Profile.AddressLine2,
		u.Profile.City, u.Profile.State, u.Profile.Postcode, now, now)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return 0, ErrDuplicateEmail
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return result.LastInsertId()
}
