// Package auth implements the signup and login flows: input validation,
// email normalization, password hashing and the single generic failure
// message for bad credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storyshelf/internal/entity"
	"storyshelf/internal/password"
)

var (
	// ErrUserNotFound is returned by a UserStore lookup with no match.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned by a UserStore insert that violates the
	// email uniqueness constraint.
	ErrEmailTaken = errors.New("email already taken")
)

// UserStore is the persistence the flows need. The postgres implementation
// lives in internal/repository; tests use an in-memory fake.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (entity.User, error)
	Create(ctx context.Context, email, passwordHash, role string) (entity.User, error)
}

// ValidationError is a user-caused failure. Message is shown as-is on the
// form and Values carries the entries to redisplay.
type ValidationError struct {
	Message string
	Values  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NormalizeEmail trims and lowercases, the canonical form for lookup and
// storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type Service struct {
	users      UserStore
	adminEmail string
}

// NewService wires the store and the one address that signs up as admin.
func NewService(users UserStore, adminEmail string) *Service {
	return &Service{users: users, adminEmail: adminEmail}
}

// SignUp validates the form, hashes the password and creates the account.
// The unique constraint on users.email is the real duplicate guard; the
// FindByEmail pre-check only exists to answer the common case before paying
// for a hash.
func (s *Service) SignUp(ctx context.Context, email, pass, confirm string) (entity.User, error) {
	values := map[string]string{"email": email}
	normalized := NormalizeEmail(email)

	if normalized == "" || pass == "" || confirm == "" {
		return entity.User{}, &ValidationError{Message: "Please fill in all fields.", Values: values}
	}
	if pass != confirm {
		return entity.User{}, &ValidationError{Message: "Passwords do not match.", Values: values}
	}
	if len(pass) < 8 {
		return entity.User{}, &ValidationError{Message: "Password must be at least 8 characters.", Values: values}
	}

	_, err := s.users.FindByEmail(ctx, normalized)
	switch {
	case err == nil:
		return entity.User{}, &ValidationError{Message: "An account already exists for that email.", Values: values}
	case !errors.Is(err, ErrUserNotFound):
		return entity.User{}, fmt.Errorf("look up email: %w", err)
	}

	hash, err := password.Hash(pass)
	if err != nil {
		return entity.User{}, fmt.Errorf("hash password: %w", err)
	}

	role := entity.RoleMember
	if normalized == s.adminEmail {
		role = entity.RoleAdmin
	}

	user, err := s.users.Create(ctx, normalized, hash, role)
	if errors.Is(err, ErrEmailTaken) {
		// Lost the race against a concurrent signup for the same email.
		return entity.User{}, &ValidationError{Message: "An account already exists for that email.", Values: values}
	}
	if err != nil {
		return entity.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// LogIn verifies credentials. An unknown email and a wrong password produce
// the same message so the response does not reveal whether an account
// exists.
func (s *Service) LogIn(ctx context.Context, email, pass string) (entity.User, error) {
	values := map[string]string{"email": email}
	normalized := NormalizeEmail(email)

	if normalized == "" || pass == "" {
		return entity.User{}, &ValidationError{Message: "Please enter your email and password.", Values: values}
	}

	user, err := s.users.FindByEmail(ctx, normalized)
	if errors.Is(err, ErrUserNotFound) {
		return entity.User{}, &ValidationError{Message: "Email or password is incorrect.", Values: values}
	}
	if err != nil {
		return entity.User{}, fmt.Errorf("look up email: %w", err)
	}

	if !password.Verify(pass, user.PasswordHash) {
		return entity.User{}, &ValidationError{Message: "Email or password is incorrect.", Values: values}
	}
	return user, nil
}
