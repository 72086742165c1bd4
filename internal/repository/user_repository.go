package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"storyshelf/internal/auth"
	"storyshelf/internal/entity"
)

// uniqueViolation is the postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (entity.User, error) {
	query := `
		SELECT id, email, password_hash, role, created_at
		FROM users
		WHERE email = $1
		LIMIT 1
	`

	var u entity.User
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, auth.ErrUserNotFound
	}
	if err != nil {
		return entity.User{}, err
	}

	return u, nil
}

// Create inserts a user. The UNIQUE constraint on email is the duplicate
// guard; a violation surfaces as auth.ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash, role string) (entity.User, error) {
	query := `
		INSERT INTO users (email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	u := entity.User{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	err := r.db.QueryRowContext(ctx, query, email, passwordHash, role, time.Now()).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return entity.User{}, auth.ErrEmailTaken
		}
		return entity.User{}, err
	}

	return u, nil
}
