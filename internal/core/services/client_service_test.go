package services

import (
	"context"
	"testing"
	"time"

	"mikopo-backend/internal/adapters/persistence/repositories"
	"mikopo-backend/internal/core/domain"
	"mikopo-backend/internal/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClientService(repos *repositories.Repositories) *ClientService {
	return NewClientService(repos.Clients, repos.Loans, repos.Activities)
}

func TestAddClientRequiresAdmin(t *testing.T) {
	repos, _ := newFakeRepos()
	svc := newTestClientService(repos)

	input := &AddClientInput{Name: "Juma Hassan", Email: "juma@example.com", Phone: "+255700000002", Type: domain.ClientTypeIndividual}
	_, err := svc.Add(context.Background(), clientSession("grace@example.com"), input)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAddClient(t *testing.T) {
	repos, s := newFakeRepos()
	svc := newTestClientService(repos)

	input := &AddClientInput{Name: "Juma Hassan", Email: "Juma@Example.com", Phone: "+255700000002", Type: domain.ClientTypeSME}
	client, err := svc.Add(context.Background(), adminSession(), input)
	require.NoError(t, err)

	assert.Equal(t, "juma@example.com", client.Email)
	assert.Equal(t, domain.ClientStatusActive, client.Status)
	require.Len(t, s.activities, 1)
	assert.Equal(t, "Client Added", s.activities[0].Action)
}

func TestAddClientValidation(t *testing.T) {
	repos, _ := newFakeRepos()
	svc := newTestClientService(repos)

	input := &AddClientInput{Name: "J", Email: "not-an-email", Phone: "123", Type: "Startup"}
	_, err := svc.Add(context.Background(), adminSession(), input)

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 4)
}

func TestDeleteClientWithActiveLoansIsBlocked(t *testing.T) {
	repos, s := newFakeRepos()
	svc := newTestClientService(repos)
	now := time.Now()

	client := seedClient(s, "Grace Mwakasege", "grace@example.com")
	seedLoan(s, client.ID, 2000000, domain.LoanStatusActive, now, now.AddDate(0, 12, 0))

	err := svc.Delete(context.Background(), adminSession(), client.ID)
	assert.ErrorIs(t, err, ErrClientHasActiveLoans)
	assert.Contains(t, s.clients, client.ID)
}

func TestDeleteClientWithOverdueLoansIsBlocked(t *testing.T) {
	repos, s := newFakeRepos()
	svc := newTestClientService(repos)
	now := time.Now()

	client := seedClient(s, "Grace Mwakasege", "grace@example.com")
	seedLoan(s, client.ID, 2000000, domain.LoanStatusOverdue, now.AddDate(0, -13, 0), now.AddDate(0, -1, 0))

	err := svc.Delete(context.Background(), adminSession(), client.ID)
	assert.ErrorIs(t, err, ErrClientHasActiveLoans)
}

func TestDeleteClientWithSettledLoans(t *testing.T) {
	repos, s := newFakeRepos()
	svc := newTestClientService(repos)
	now := time.Now()

	client := seedClient(s, "Grace Mwakasege", "grace@example.com")
	seedLoan(s, client.ID, 2000000, domain.LoanStatusCompleted, now.AddDate(0, -13, 0), now.AddDate(0, -1, 0))

	require.NoError(t, svc.Delete(context.Background(), adminSession(), client.ID))
	assert.NotContains(t, s.clients, client.ID)
}

func TestDeleteClientNotFound(t *testing.T) {
	repos, _ := newFakeRepos()
	svc := newTestClientService(repos)

	err := svc.Delete(context.Background(), adminSession(), 42)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestGetProfileFallsBackToSession(t *testing.T) {
	repos, _ := newFakeRepos()
	svc := newTestClientService(repos)

	profile, err := svc.GetProfile(context.Background(), clientSession("new@example.com"))
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", profile.Email)
	assert.Equal(t, "Test Client", profile.Name)
	assert.Nil(t, profile.RegisteredDate)
}

func TestUpdateProfile(t *testing.T) {
	repos, s := newFakeRepos()
	svc := newTestClientService(repos)

	client := seedClient(s, "Grace Mwakasege", "grace@example.com")

	input := &UpdateProfileInput{FirstName: "Grace", LastName: "Mushi", Phone: "+255711111111", AccountType: domain.ClientTypeSME}
	profile, err := svc.UpdateProfile(context.Background(), clientSession("grace@example.com"), input)
	require.NoError(t, err)

	assert.Equal(t, "Grace Mushi", profile.Name)
	assert.Equal(t, "+255711111111", profile.Phone)
	assert.Equal(t, domain.ClientTypeSME, profile.Type)
	// The email key never changes through profile updates.
	assert.Equal(t, "grace@example.com", s.clients[client.ID].Email)
}

func TestUpdateProfileWithoutClientRecord(t *testing.T) {
	repos, _ := newFakeRepos()
	svc := newTestClientService(repos)

	input := &UpdateProfileInput{FirstName: "Grace", LastName: "Mushi", Phone: "+255711111111", AccountType: domain.ClientTypeIndividual}
	_, err := svc.UpdateProfile(context.Background(), clientSession("ghost@example.com"), input)
	assert.ErrorIs(t, err, ErrClientNotFound)
}
