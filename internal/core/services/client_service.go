package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mikopo-backend/internal/adapters/persistence/models"
	"mikopo-backend/internal/adapters/persistence/repositories"
	"mikopo-backend/internal/core/domain"
	"mikopo-backend/internal/pkg/validation"

	"gorm.io/gorm"
)

// Client service errors
var (
	ErrClientNotFound       = errors.New("client not found")
	ErrClientHasActiveLoans = errors.New("client has active loans and cannot be removed")
)

// ClientService manages the client portfolio
type ClientService struct {
	clientRepo   repositories.ClientRepository
	loanRepo     repositories.LoanRepository
	activityRepo repositories.ActivityRepository
}

// NewClientService creates a new client service
func NewClientService(
	clientRepo repositories.ClientRepository,
	loanRepo repositories.LoanRepository,
	activityRepo repositories.ActivityRepository,
) *ClientService {
	return &ClientService{
		clientRepo:   clientRepo,
		loanRepo:     loanRepo,
		activityRepo: activityRepo,
	}
}

// AddClientInput represents the add-client form
type AddClientInput struct {
	Name  string `json:"name" validate:"required,min=3"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=10"`
	Type  string `json:"type" validate:"required,oneof=Individual SME Group"`
}

// List lists all clients, newest first
func (s *ClientService) List(ctx context.Context) ([]*models.Client, error) {
	return s.clientRepo.List(ctx)
}

// GetByID gets a client by ID
func (s *ClientService) GetByID(ctx context.Context, id uint) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// Add registers a new client in the portfolio (admin onboarding path)
func (s *ClientService) Add(ctx context.Context, sess *domain.Session, input *AddClientInput) (*models.Client, error) {
	if sess == nil {
		return nil, domain.ErrUnauthorized
	}
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	client := &models.Client{
		Name:           input.Name,
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:          input.Phone,
		Type:           input.Type,
		RegisteredDate: time.Now(),
		Status:         domain.ClientStatusActive,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	entry := &models.Activity{
		Action:  "Client Added",
		Details: fmt.Sprintf("Added client %s to the portfolio", client.Name),
		User:    sess.ActorName(),
		Time:    time.Now(),
	}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	return client, nil
}

// Delete removes a client. Clients carrying active or overdue loans are
// protected; their loans must close first.
func (s *ClientService) Delete(ctx context.Context, sess *domain.Session, id uint) error {
	if sess == nil {
		return domain.ErrUnauthorized
	}
	if !sess.IsAdmin() {
		return domain.ErrForbidden
	}

	client, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	loans, err := s.loanRepo.ListByClient(ctx, id)
	if err != nil {
		return err
	}
	for _, loan := range loans {
		if loan.Status == domain.LoanStatusActive || loan.Status == domain.LoanStatusOverdue {
			return ErrClientHasActiveLoans
		}
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return err
	}

	entry := &models.Activity{
		Action:  "Client Removed",
		Details: fmt.Sprintf("Removed client %s from the portfolio", client.Name),
		User:    sess.ActorName(),
		Time:    time.Now(),
	}
	return s.activityRepo.Create(ctx, entry)
}

// Profile is the borrower-facing view of their own client record
type Profile struct {
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Type           string     `json:"type"`
	RegisteredDate *time.Time `json:"registered_date,omitempty"`
	Status         string     `json:"status"`
}

// UpdateProfileInput represents the profile settings form
type UpdateProfileInput struct {
	FirstName   string `json:"first_name" validate:"required,min=2"`
	LastName    string `json:"last_name" validate:"required,min=2"`
	Phone       string `json:"phone" validate:"required,min=10"`
	AccountType string `json:"account_type" validate:"required,oneof=Individual SME Group"`
}

// GetProfile returns the session user's client profile. Users without a
// client record (admins, or accounts created before onboarding) get a
// profile synthesized from the session identity.
func (s *ClientService) GetProfile(ctx context.Context, sess *domain.Session) (*Profile, error) {
	if sess == nil {
		return nil, domain.ErrUnauthorized
	}

	client, err := s.clientRepo.GetByEmail(ctx, sess.User.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Profile{
				Name:   sess.User.Name,
				Email:  sess.User.Email,
				Type:   domain.ClientTypeIndividual,
				Status: domain.ClientStatusActive,
			}, nil
		}
		return nil, err
	}

	registered := client.RegisteredDate
	return &Profile{
		Name:           client.Name,
		Email:          client.Email,
		Phone:          client.Phone,
		Type:           client.Type,
		RegisteredDate: &registered,
		Status:         client.Status,
	}, nil
}

// UpdateProfile updates the session user's client record. The email is
// the identity key and cannot be changed here.
func (s *ClientService) UpdateProfile(ctx context.Context, sess *domain.Session, input *UpdateProfileInput) (*Profile, error) {
	if sess == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if _, err := s.clientRepo.GetByEmail(ctx, sess.User.Email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{
		"name":  strings.TrimSpace(input.FirstName + " " + input.LastName),
		"phone": input.Phone,
		"type":  input.AccountType,
	}
	if err := s.clientRepo.UpdateProfileByEmail(ctx, sess.User.Email, fields); err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, sess)
}
