package services

import (
	"context"
	"errors"
	"testing"

	"mikopo-backend/internal/adapters/persistence/models"
	"mikopo-backend/internal/adapters/persistence/repositories"
	"mikopo-backend/internal/config"
	"mikopo-backend/internal/core/domain"
	"mikopo-backend/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(repos *repositories.Repositories) *AuthService {
	return NewAuthService(repos.Users, repos.Sessions, &fakeTxManager{repos: repos}, config.JWTConfig{
		Secret:          "test-secret",
		AccessTokenMins: 15,
		SessionDays:     7,
	})
}

func validRegisterInput() *RegisterInput {
	return &RegisterInput{
		FirstName:   "Grace",
		LastName:    "Mwakasege",
		Email:       "Grace@Example.com",
		Phone:       "+255700000001",
		AccountType: domain.ClientTypeIndividual,
		Password:    "hunter2hunter2",
	}
}

func TestRegisterCreatesUserAndClient(t *testing.T) {
	repos, s := newFakeRepos()
	svc := newTestAuthService(repos)

	result, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	assert.Equal(t, "grace@example.com", result.User.Email)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.SessionToken)

	require.Len(t, s.users, 1)
	require.Len(t, s.clients, 1)
	require.Len(t, s.sessions, 1)
	for _, client := range s.clients {
		assert.Equal(t, "grace@example.com", client.Email)
		assert.Equal(t, "Grace Mwakasege", client.Name)
		assert.Equal(t, domain.ClientStatusActive, client.Status)
	}
	for _, u := range s.users {
		// Never store the plaintext password.
		assert.NotEqual(t, "hunter2hunter2", u.Password)
		assert.Equal(t, string(domain.RoleClient), u.Role)
	}
}

// rollbackTxManager snapshots the user and client tables and restores
// them when the callback fails, mimicking a database rollback.
type rollbackTxManager struct {
	repos *repositories.Repositories
	s     *store
}

func (m *rollbackTxManager) Do(_ context.Context, fn func(tx *repositories.Repositories) error) error {
	users := make(map[uint]*models.User, len(m.s.users))
	for id, u := range m.s.users {
		users[id] = u
	}
	clients := make(map[uint]*models.Client, len(m.s.clients))
	for id, c := range m.s.clients {
		clients[id] = c
	}
	if err := fn(m.repos); err != nil {
		m.s.users = users
		m.s.clients = clients
		return err
	}
	return nil
}

type failingClients struct {
	repositories.ClientRepository
}

func (f *failingClients) Create(context.Context, *models.Client) error {
	return errors.New("insert failed")
}

func TestRegisterRollsBackWhenProfileInsertFails(t *testing.T) {
	repos, s := newFakeRepos()
	repos.Clients = &failingClients{ClientRepository: repos.Clients}
	svc := NewAuthService(repos.Users, repos.Sessions, &rollbackTxManager{repos: repos, s: s}, config.JWTConfig{
		Secret:          "test-secret",
		AccessTokenMins: 15,
		SessionDays:     7,
	})

	_, err := svc.Register(context.Background(), validRegisterInput())
	require.Error(t, err)

	// No half-registered account: the user insert goes down with the
	// failed profile insert.
	assert.Empty(t, s.users)
	assert.Empty(t, s.clients)
	assert.Empty(t, s.sessions)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repos, _ := newFakeRepos()
	svc := newTestAuthService(repos)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	_, err = svc.Register(ctx, validRegisterInput())
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	repos, _ := newFakeRepos()
	svc := newTestAuthService(repos)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	result, err := svc.Login(ctx, &LoginInput{Email: "GRACE@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", result.User.Email)

	claims, err := jwt.ValidateAccessToken(result.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", claims.Email)
	assert.Equal(t, string(domain.RoleClient), claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	repos, _ := newFakeRepos()
	svc := newTestAuthService(repos)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginInput{Email: "grace@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	repos, _ := newFakeRepos()
	svc := newTestAuthService(repos)

	_, err := svc.Login(context.Background(), &LoginInput{Email: "nobody@example.com", Password: "whatever9"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesSession(t *testing.T) {
	repos, s := newFakeRepos()
	svc := newTestAuthService(repos)
	ctx := context.Background()

	reg, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, reg.SessionToken)
	require.NoError(t, err)
	assert.NotEqual(t, reg.SessionToken, refreshed.SessionToken)
	require.Len(t, s.sessions, 1)

	// The old token stopped working when the new one was issued.
	_, err = svc.Refresh(ctx, reg.SessionToken)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRefreshUnknownToken(t *testing.T) {
	repos, _ := newFakeRepos()
	svc := newTestAuthService(repos)

	_, err := svc.Refresh(context.Background(), "not-a-real-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLogoutRevokesSession(t *testing.T) {
	repos, s := newFakeRepos()
	svc := newTestAuthService(repos)
	ctx := context.Background()

	reg, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, reg.SessionToken))
	assert.Empty(t, s.sessions)

	// Logout is idempotent.
	require.NoError(t, svc.Logout(ctx, reg.SessionToken))

	_, err = svc.Refresh(ctx, reg.SessionToken)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
