// Package user handles customer accounts: registration and password login.
package user

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/MikeMC777/choco-delisias/internal/apperr"
)

var ErrInvalidCredentials = apperr.New(apperr.KindValidation, "invalid_credentials", "invalid email or password")

// TokenIssuer signs session tokens for a user.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type Service struct {
	repo   Repository
	tokens TokenIssuer
}

func NewService(repo Repository, tokens TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, in RegisterRequest) (*User, error) {
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	u := &User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks the password and returns a signed token. Unknown emails and
// wrong passwords produce the same error.
func (s *Service) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	u, err := s.repo.GetByEmail(ctx, in.Email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(u.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, errors.Wrap(err, "issue token")
	}
	return &LoginResponse{Token: token, User: *u}, nil
}
