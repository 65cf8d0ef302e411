package services

import (
	"context"
	"errors"
	"log"
	"time"

	"mikopo-backend/internal/adapters/persistence/models"
	"mikopo-backend/internal/adapters/persistence/repositories"
	"mikopo-backend/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardService computes the admin and borrower dashboard figures
type DashboardService struct {
	clientRepo      repositories.ClientRepository
	loanRepo        repositories.LoanRepository
	applicationRepo repositories.ApplicationRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	clientRepo repositories.ClientRepository,
	loanRepo repositories.LoanRepository,
	applicationRepo repositories.ApplicationRepository,
) *DashboardService {
	return &DashboardService{
		clientRepo:      clientRepo,
		loanRepo:        loanRepo,
		applicationRepo: applicationRepo,
	}
}

// AdminStats is the admin dashboard headline block
type AdminStats struct {
	TotalClients        int64   `json:"total_clients"`
	ActiveLoans         int64   `json:"active_loans"`
	DisbursedThisMonth  float64 `json:"disbursed_this_month"`
	PendingApplications int64   `json:"pending_applications"`
}

// GetAdminStats computes portfolio-wide counts. A failing metric logs and
// reads as zero; the dashboard renders with whatever is available.
func (s *DashboardService) GetAdminStats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{}

	if n, err := s.clientRepo.Count(ctx); err != nil {
		log.Printf("⚠️ Dashboard: client count failed: %v", err)
	} else {
		stats.TotalClients = n
	}

	if n, err := s.loanRepo.CountByStatus(ctx, domain.LoanStatusActive); err != nil {
		log.Printf("⚠️ Dashboard: active loan count failed: %v", err)
	} else {
		stats.ActiveLoans = n
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if sum, err := s.loanRepo.SumDisbursedSince(ctx, monthStart); err != nil {
		log.Printf("⚠️ Dashboard: disbursement sum failed: %v", err)
	} else {
		stats.DisbursedThisMonth = sum
	}

	if n, err := s.applicationRepo.CountByStatus(ctx, domain.AppStatusPending); err != nil {
		log.Printf("⚠️ Dashboard: pending application count failed: %v", err)
	} else {
		stats.PendingApplications = n
	}

	return stats, nil
}

// UpcomingPayment is one row in the borrower's payment schedule
type UpcomingPayment struct {
	LoanID  uint       `json:"loan_id"`
	Type    string     `json:"type"`
	Amount  *float64   `json:"amount,omitempty"`
	DueDate *time.Time `json:"due_date,omitempty"`
}

// UserStats is the borrower dashboard block
type UserStats struct {
	ActiveLoans       int64             `json:"active_loans"`
	TotalBorrowed     float64           `json:"total_borrowed"`
	TotalPaid         float64           `json:"total_paid"`
	CreditScore       int               `json:"credit_score"`
	NextPaymentDate   *time.Time        `json:"next_payment_date,omitempty"`
	NextPaymentAmount *float64          `json:"next_payment_amount,omitempty"`
	RecentLoans       []*models.Loan    `json:"recent_loans"`
	UpcomingPayments  []UpcomingPayment `json:"upcoming_payments"`
}

// GetUserStats computes the borrower's own figures from their loans.
// Users with no client record yet see an empty dashboard, not an error.
func (s *DashboardService) GetUserStats(ctx context.Context, sess *domain.Session) (*UserStats, error) {
	if sess == nil {
		return nil, domain.ErrUnauthorized
	}

	stats := &UserStats{
		// Placeholder until real underwriting feeds the score.
		CreditScore:      720,
		RecentLoans:      []*models.Loan{},
		UpcomingPayments: []UpcomingPayment{},
	}

	client, err := s.clientRepo.GetByEmail(ctx, sess.User.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return stats, nil
		}
		return nil, err
	}

	loans, err := s.loanRepo.ListByClient(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	for _, loan := range loans {
		// Lifetime figures cover every loan, settled ones included.
		stats.TotalBorrowed += loan.Amount
		stats.TotalPaid += loan.AmountPaid
		if len(stats.RecentLoans) < 5 {
			stats.RecentLoans = append(stats.RecentLoans, loan)
		}
		if loan.Status == domain.LoanStatusActive || loan.Status == domain.LoanStatusOverdue {
			stats.ActiveLoans++
			stats.UpcomingPayments = append(stats.UpcomingPayments, UpcomingPayment{
				LoanID:  loan.ID,
				Type:    loan.LoanType,
				Amount:  loan.NextAmount,
				DueDate: loan.NextPayment,
			})
			// Next payment is the active loan with the earliest scheduled
			// date; first match wins ties.
			if loan.NextPayment != nil &&
				(stats.NextPaymentDate == nil || loan.NextPayment.Before(*stats.NextPaymentDate)) {
				stats.NextPaymentDate = loan.NextPayment
				stats.NextPaymentAmount = loan.NextAmount
			}
		}
	}

	return stats, nil
}
