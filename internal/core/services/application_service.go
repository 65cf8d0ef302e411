package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mikopo-backend/internal/adapters/persistence/models"
	"mikopo-backend/internal/adapters/persistence/repositories"
	"mikopo-backend/internal/core/domain"
	"mikopo-backend/internal/pkg/validation"

	"gorm.io/gorm"
)

// Application service errors
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrInvalidStatus       = errors.New("invalid application status")
	ErrAlreadyDecided      = errors.New("application already decided")
	ErrStatusConflict      = errors.New("application status changed concurrently")
)

// ApplicationService handles the loan application lifecycle. Approval
// side effects touch clients, loans, products and the audit log, all
// through the transactional repository bundle.
type ApplicationService struct {
	applicationRepo repositories.ApplicationRepository
	txManager       repositories.TransactionManager
}

// NewApplicationService creates a new application service
func NewApplicationService(applicationRepo repositories.ApplicationRepository, txManager repositories.TransactionManager) *ApplicationService {
	return &ApplicationService{
		applicationRepo: applicationRepo,
		txManager:       txManager,
	}
}

// SubmitApplicationInput represents the application form
type SubmitApplicationInput struct {
	// Loan selection
	LoanType string `json:"loan_type" validate:"required"`
	Amount   string `json:"amount" validate:"required,money"`
	Tenure   string `json:"tenure" validate:"required"`
	Purpose  string `json:"purpose" validate:"required,min=10"`

	// Personal info
	FullName    string `json:"full_name" validate:"required,min=3"`
	DateOfBirth string `json:"date_of_birth" validate:"required"`
	NationalID  string `json:"national_id" validate:"required,min=5"`
	Address     string `json:"address" validate:"required,min=5"`
	City        string `json:"city" validate:"required,min=2"`

	// Financial details
	EmploymentStatus string `json:"employment_status" validate:"required"`
	EmployerName     string `json:"employer_name,omitempty"`
	MonthlyIncome    string `json:"monthly_income" validate:"required,money"`
	ExistingLoans    string `json:"existing_loans,omitempty"`
	BankName         string `json:"bank_name" validate:"required"`
	AccountNumber    string `json:"account_number" validate:"required,min=5"`

	// Agreements
	TermsAccepted      bool `json:"terms_accepted" validate:"eq=true"`
	CreditCheckConsent bool `json:"credit_check_consent" validate:"eq=true"`
}

// Submit creates a Pending application for the session's user. The
// applicant email always comes from the session, never from the form.
func (s *ApplicationService) Submit(ctx context.Context, sess *domain.Session, input *SubmitApplicationInput) (*models.Application, error) {
	if sess == nil {
		return nil, domain.ErrUnauthorized
	}

	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	amount := validation.ParseAmount(input.Amount)
	income := validation.ParseAmount(input.MonthlyIncome)

	app := &models.Application{
		ClientName:       input.FullName,
		Email:            sess.User.Email,
		Phone:            "N/A", // not collected on the application form
		Type:             input.LoanType,
		Amount:           formatTZS(amount),
		AmountNumber:     amount,
		Purpose:          input.Purpose,
		Status:           domain.AppStatusPending,
		SubmittedDate:    time.Now(),
		Risk:             domain.RiskLow,
		CreditScore:      domain.DefaultCreditScore,
		EmploymentStatus: input.EmploymentStatus,
		MonthlyIncome:    formatTZS(income),
	}

	if err := s.applicationRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	return app, nil
}

// GetByID gets an application by ID
func (s *ApplicationService) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// List lists all applications, newest first
func (s *ApplicationService) List(ctx context.Context) ([]*models.Application, error) {
	return s.applicationRepo.List(ctx)
}

// UpdateStatus transitions an application and, on approval, disburses the
// loan. The whole approval side effect (status change, loan row, client
// counters, audit entries) runs in one transaction; a conditional status
// update serializes concurrent decisions so at most one loan is ever
// created per application.
func (s *ApplicationService) UpdateStatus(ctx context.Context, sess *domain.Session, id uint, newStatus, notes string) (*models.Application, error) {
	if sess == nil {
		return nil, domain.ErrUnauthorized
	}
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !domain.ValidAppStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	app, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Terminal statuses are frozen. This also makes approval idempotent:
	// a repeated Approved request cannot disburse a second loan.
	if domain.TerminalAppStatus(app.Status) {
		return nil, ErrAlreadyDecided
	}

	err = s.txManager.Do(ctx, func(tx *repositories.Repositories) error {
		ok, err := tx.Applications.UpdateStatusIf(ctx, id, app.Status, newStatus)
		if err != nil {
			return err
		}
		if !ok {
			return ErrStatusConflict
		}

		entry := &models.Activity{
			Action:  "Update Application Status",
			Details: fmt.Sprintf("Changed status of application %d to %s", id, newStatus),
			User:    sess.ActorName(),
			Time:    time.Now(),
		}
		if err := tx.Activities.Create(ctx, entry); err != nil {
			return err
		}

		if newStatus == domain.AppStatusApproved {
			return s.disburseLoan(ctx, tx, app)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	app.Status = newStatus
	return app, nil
}

// disburseLoan creates the loan for an approved application and keeps the
// client aggregates consistent. An application whose email matches no
// client is approved without a loan; onboarding is decoupled from
// approval.
func (s *ApplicationService) disburseLoan(ctx context.Context, tx *repositories.Repositories, app *models.Application) error {
	client, err := tx.Clients.GetByEmail(ctx, app.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	rate, tenureMonths := s.loanTerms(ctx, tx, app.Type)
	now := time.Now()

	loan := &models.Loan{
		ClientID:      client.ID,
		ClientName:    client.Name,
		LoanType:      app.Type,
		Amount:        app.AmountNumber,
		DisbursedDate: now,
		DueDate:       now.AddDate(0, tenureMonths, 0),
		InterestRate:  rate,
		Status:        domain.LoanStatusActive,
	}
	if err := tx.Loans.Create(ctx, loan); err != nil {
		return err
	}

	if err := tx.Clients.IncrementLoanStats(ctx, client.ID, app.AmountNumber); err != nil {
		return err
	}

	entry := &models.Activity{
		Action:  "Loan Created",
		Details: fmt.Sprintf("Automatically created loan for %s following application approval", client.Name),
		User:    "System",
		Time:    time.Now(),
	}
	return tx.Activities.Create(ctx, entry)
}

// loanTerms resolves disbursement terms from the loan product policy
// table, falling back to the flat defaults when the type is unknown.
func (s *ApplicationService) loanTerms(ctx context.Context, tx *repositories.Repositories, loanType string) (float64, int) {
	product, err := tx.LoanProducts.GetByName(ctx, loanType)
	if err != nil || product == nil {
		return domain.DefaultInterestRate, domain.DefaultTenureMonths
	}
	return product.InterestRate, product.TenureMonths
}

// formatTZS renders an amount the way the client UI displays money,
// e.g. 2000000 -> "TZS 2,000,000".
func formatTZS(amount float64) string {
	n := int64(amount)
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := fmt.Sprintf("%d", n)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	return "TZS " + sign + string(out)
}
