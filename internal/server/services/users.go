// Package services contains server-side business logic. UserService handles
// registration and login; RecordService enforces ownership over encrypted
// vault records.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/passvault-io/passvault/internal/common"
	"github.com/passvault-io/passvault/internal/server/auth"
	"github.com/passvault-io/passvault/internal/server/models"
	"github.com/passvault-io/passvault/internal/server/repositories/users"
)

// UserService provides account registration and credential verification.
type UserService struct {
	repo users.Repository
}

func NewUserService(repo users.Repository) *UserService {
	return &UserService{repo: repo}
}

// Register hashes the password and creates an account with a case-normalized
// email. A duplicate email yields common.ErrorAlreadyExists. Input format
// validation happens before this point, at the API boundary.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.repo.Create(ctx, &models.User{
		Email:        normalizeEmail(email),
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and returns the account. Unknown email and
// wrong password both yield common.ErrorUnauthorized so a caller cannot probe
// for account existence; a dummy bcrypt comparison keeps the unknown-email
// path from returning measurably faster.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.VerifyPassword(password, dummyHash())
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var (
	dummyHashOnce sync.Once
	dummyHashVal  string
)

func dummyHash() string {
	dummyHashOnce.Do(func() {
		dummyHashVal, _ = auth.HashPassword("dummy-timing-equalizer")
	})
	return dummyHashVal
}
