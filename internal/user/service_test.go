package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type memRepo struct {
	byEmail map[string]*User
}

func (m *memRepo) Create(_ context.Context, u *User) error {
	if _, ok := m.byEmail[normalizeEmail(u.Email)]; ok {
		return ErrAlreadyExist
	}
	u.Email = normalizeEmail(u.Email)
	m.byEmail[u.Email] = u
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	if u, ok := m.byEmail[normalizeEmail(email)]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

type staticIssuer struct{}

func (staticIssuer) Issue(userID, email string) (string, error) { return "tok-" + userID, nil }

func TestService_RegisterAndLogin(t *testing.T) {
	svc := NewService(&memRepo{byEmail: map[string]*User{}}, staticIssuer{})
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterRequest{Name: " Ana ", Email: "Ana@Example.pe", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, "ana@example.pe", u.Email)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)

	_, err = svc.Register(ctx, RegisterRequest{Name: "Otra", Email: "ana@example.pe", Password: "another-pass"})
	assert.ErrorIs(t, err, ErrAlreadyExist)

	res, err := svc.Login(ctx, LoginRequest{Email: "ana@example.pe", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "tok-"+u.ID, res.Token)
	assert.Equal(t, u.ID, res.User.ID)

	_, err = svc.Login(ctx, LoginRequest{Email: "ana@example.pe", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.pe", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPassword(t *testing.T) {
	h, err := HashPassword("chocolate")
	require.NoError(t, err)
	assert.True(t, CheckPassword(h, "chocolate"))
	assert.False(t, CheckPassword(h, "vainilla"))
}
