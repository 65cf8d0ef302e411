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

	"gorm.io/gorm"
)

// Loan service errors
var (
	ErrLoanNotFound         = errors.New("loan not found")
	ErrInvalidPaymentAmount = errors.New("payment amount must be greater than zero")
)

// LoanService manages disbursed loans and repayments
type LoanService struct {
	loanRepo        repositories.LoanRepository
	clientRepo      repositories.ClientRepository
	applicationRepo repositories.ApplicationRepository
	activityRepo    repositories.ActivityRepository
	txManager       repositories.TransactionManager
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo repositories.LoanRepository,
	clientRepo repositories.ClientRepository,
	applicationRepo repositories.ApplicationRepository,
	activityRepo repositories.ActivityRepository,
	txManager repositories.TransactionManager,
) *LoanService {
	return &LoanService{
		loanRepo:        loanRepo,
		clientRepo:      clientRepo,
		applicationRepo: applicationRepo,
		activityRepo:    activityRepo,
		txManager:       txManager,
	}
}

// List lists all loans, newest first
func (s *LoanService) List(ctx context.Context) ([]*models.Loan, error) {
	return s.loanRepo.List(ctx)
}

// GetByID gets a loan by ID
func (s *LoanService) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// RecordPayment applies a repayment to a loan. The running total only
// ever grows; once it covers the principal the loan completes and stays
// completed. A partial payment on an overdue loan brings it back to
// active. The loan row is locked for the duration of the transaction so
// concurrent payments serialize instead of losing updates.
func (s *LoanService) RecordPayment(ctx context.Context, loanID uint, amount float64) (*models.Loan, error) {
	if amount <= 0 {
		return nil, ErrInvalidPaymentAmount
	}

	var updated *models.Loan
	err := s.txManager.Do(ctx, func(tx *repositories.Repositories) error {
		loan, err := tx.Loans.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLoanNotFound
			}
			return err
		}

		loan.AmountPaid += amount
		switch {
		case loan.AmountPaid >= loan.Amount:
			loan.Status = domain.LoanStatusCompleted
		case loan.Status == domain.LoanStatusOverdue:
			loan.Status = domain.LoanStatusActive
		}

		if err := tx.Loans.Update(ctx, loan); err != nil {
			return err
		}

		entry := &models.Activity{
			Action:  "Payment Recorded",
			Details: fmt.Sprintf("Recorded payment of %s on loan %d for %s", formatTZS(amount), loan.ID, loan.ClientName),
			User:    "System",
			Time:    time.Now(),
		}
		if err := tx.Activities.Create(ctx, entry); err != nil {
			return err
		}

		updated = loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// MarkOverdueLoans flags every active loan past its due date as overdue.
// Runs from the daily scheduler. Returns the number of loans flagged.
func (s *LoanService) MarkOverdueLoans(ctx context.Context) (int64, error) {
	count, err := s.loanRepo.MarkOverdue(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	if count > 0 {
		entry := &models.Activity{
			Action:  "Loans Marked Overdue",
			Details: fmt.Sprintf("Flagged %d loan(s) past due date as overdue", count),
			User:    "System",
			Time:    time.Now(),
		}
		if err := s.activityRepo.Create(ctx, entry); err != nil {
			return count, err
		}
	}
	return count, nil
}

// UserLoanEntry is a row in the borrower's merged loan view. Approved
// applications appear as real loans; everything else shows with its
// application status so the borrower can track progress in one list.
type UserLoanEntry struct {
	ID             string     `json:"id"`
	Type           string     `json:"type"`
	Amount         string     `json:"amount"`
	AmountNumber   float64    `json:"amount_number"`
	Status         string     `json:"status"`
	SubmittedDate  *time.Time `json:"submitted_date,omitempty"`
	DisbursedDate  *time.Time `json:"disbursed_date,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	InterestRate   float64    `json:"interest_rate,omitempty"`
	AmountPaid     float64    `json:"amount_paid"`
	RemainingDebt  float64    `json:"remaining_debt"`
	Purpose        string     `json:"purpose,omitempty"`
	IsApplication  bool       `json:"is_application"`
}

// GetUserLoans returns the merged list of the user's pending/rejected
// applications and disbursed loans, pending work first.
func (s *LoanService) GetUserLoans(ctx context.Context, sess *domain.Session) ([]UserLoanEntry, error) {
	if sess == nil {
		return nil, domain.ErrUnauthorized
	}

	apps, err := s.applicationRepo.ListByEmail(ctx, sess.User.Email)
	if err != nil {
		return nil, err
	}

	entries := make([]UserLoanEntry, 0, len(apps))
	for _, app := range apps {
		// Approved applications surface as their loan rows below.
		if app.Status == domain.AppStatusApproved {
			continue
		}
		submitted := app.SubmittedDate
		entries = append(entries, UserLoanEntry{
			ID:            fmt.Sprintf("APP-%d", app.ID),
			Type:          app.Type,
			Amount:        app.Amount,
			AmountNumber:  app.AmountNumber,
			Status:        app.Status,
			SubmittedDate: &submitted,
			Purpose:       app.Purpose,
			IsApplication: true,
		})
	}

	client, err := s.clientRepo.GetByEmail(ctx, sess.User.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entries, nil
		}
		return nil, err
	}

	loans, err := s.loanRepo.ListByClient(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	for _, loan := range loans {
		disbursed := loan.DisbursedDate
		due := loan.DueDate
		remaining := loan.Amount - loan.AmountPaid
		if remaining < 0 {
			remaining = 0
		}
		entries = append(entries, UserLoanEntry{
			ID:            fmt.Sprintf("LN-%d", loan.ID),
			Type:          loan.LoanType,
			Amount:        formatTZS(loan.Amount),
			AmountNumber:  loan.Amount,
			Status:        titleCase(loan.Status),
			DisbursedDate: &disbursed,
			DueDate:       &due,
			InterestRate:  loan.InterestRate,
			AmountPaid:    loan.AmountPaid,
			RemainingDebt: remaining,
		})
	}

	return entries, nil
}

// titleCase uppercases the first letter of a status for display.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
