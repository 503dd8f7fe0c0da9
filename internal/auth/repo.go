package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-erp/campus-erp/internal/shared"
)

// User is the persisted account record exposed by the user store.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	Status       Status
	Department   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal builds the immutable request identity from the stored record.
func (u *User) Principal() Principal {
	return Principal{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Status:     u.Status,
		Department: u.Department,
	}
}

// UserStore defines the external user-lookup collaborator.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) (int64, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// PGUserStore implements UserStore using PostgreSQL.
type PGUserStore struct {
	pool *pgxpool.Pool
}

// NewPGUserStore constructs a PostgreSQL user store.
func NewPGUserStore(pool *pgxpool.Pool) *PGUserStore {
	return &PGUserStore{pool: pool}
}

const userColumns = `id, email, name, password_hash, role, status, department, created_at, updated_at`

// GetByID fetches a user by primary key.
func (s *PGUserStore) GetByID(ctx context.Context, id int64) (*User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail fetches a user by normalized email.
func (s *PGUserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, shared.NormalizeEmail(email))
	return scanUser(row)
}

// Create inserts a new account and returns its id. Duplicate emails map to
// shared.ErrAlreadyExists.
func (s *PGUserStore) Create(ctx context.Context, user *User) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash, role, status, department, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW()) RETURNING id`,
		shared.NormalizeEmail(user.Email), user.Name, user.PasswordHash,
		string(user.Role), string(user.Status), user.Department,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, shared.ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

// UpdatePassword replaces the stored credential digest.
func (s *PGUserStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	var (
		user   User
		role   string
		status string
	)
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&role, &status, &user.Department, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	user.Role = Role(role)
	user.Status = Status(status)
	return &user, nil
}

var _ UserStore = (*PGUserStore)(nil)
