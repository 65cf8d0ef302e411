package services

import (
	"context"
	"log"
	"math"
	"time"

	"mikopo-backend/internal/adapters/persistence/models"
	"mikopo-backend/internal/adapters/persistence/repositories"
	"mikopo-backend/internal/core/domain"
)

// ReportService computes portfolio analytics for the reports page. All
// figures derive from the loan and client tables at read time; nothing
// is precomputed, so a failing read degrades to zeroed series instead of
// failing the whole report.
type ReportService struct {
	loanRepo   repositories.LoanRepository
	clientRepo repositories.ClientRepository
}

// NewReportService creates a new report service
func NewReportService(loanRepo repositories.LoanRepository, clientRepo repositories.ClientRepository) *ReportService {
	return &ReportService{loanRepo: loanRepo, clientRepo: clientRepo}
}

// MonthPoint is one month in a time series
type MonthPoint struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// TypeSlice is one slice of the loan type distribution
type TypeSlice struct {
	Name    string `json:"name"`
	Percent int    `json:"percent"`
	Color   string `json:"color"`
}

// ReportData is the full reports payload
type ReportData struct {
	TotalDisbursed       float64      `json:"total_disbursed"`
	TotalCollected       float64      `json:"total_collected"`
	ActiveClients        int64        `json:"active_clients"`
	DefaultRate          float64      `json:"default_rate"`
	MonthlyDisbursements []MonthPoint `json:"monthly_disbursements"`
	MonthlyCollections   []MonthPoint `json:"monthly_collections"`
	LoanTypeDistribution []TypeSlice  `json:"loan_type_distribution"`
	ClientGrowth         []MonthPoint `json:"client_growth"`
	RepaymentRates       []MonthPoint `json:"repayment_rates"`
}

var distributionColors = map[string]string{
	"Personal Loan":  "#8b5cf6",
	"Business Loan":  "#06b6d4",
	"Emergency Loan": "#f59e0b",
	"SME Loan":       "#10b981",
}

// GetReportData builds the six-month analytics report ending with the
// current month. An empty portfolio yields zeroed series and a default
// rate of zero, never an error.
func (s *ReportService) GetReportData(ctx context.Context) *ReportData {
	loans, err := s.loanRepo.List(ctx)
	if err != nil {
		log.Printf("⚠️ Report: loan query failed: %v", err)
		loans = nil
	}
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		log.Printf("⚠️ Report: client query failed: %v", err)
		clients = nil
	}

	report := &ReportData{
		MonthlyDisbursements: []MonthPoint{},
		MonthlyCollections:   []MonthPoint{},
		LoanTypeDistribution: []TypeSlice{},
		ClientGrowth:         []MonthPoint{},
		RepaymentRates:       []MonthPoint{},
	}

	overdue := int64(0)
	for _, loan := range loans {
		report.TotalDisbursed += loan.Amount
		report.TotalCollected += loan.AmountPaid
		if loan.Status == domain.LoanStatusOverdue {
			overdue++
		}
	}
	if len(loans) > 0 {
		report.DefaultRate = round1(float64(overdue) / float64(len(loans)) * 100)
	}

	for _, client := range clients {
		if client.Status == domain.ClientStatusActive {
			report.ActiveClients++
		}
	}

	months := lastSixMonths(time.Now())
	report.MonthlyDisbursements, report.MonthlyCollections = monthlyAmounts(loans, months)
	report.LoanTypeDistribution = loanTypeDistribution(loans)
	report.ClientGrowth = clientGrowth(clients, months)
	report.RepaymentRates = repaymentRates(loans, months)

	return report
}

// lastSixMonths returns the first day of each of the last six calendar
// months, oldest first, ending with the current month.
func lastSixMonths(now time.Time) []time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	months := make([]time.Time, 6)
	for i := 0; i < 6; i++ {
		months[i] = first.AddDate(0, i-5, 0)
	}
	return months
}

func sameMonth(t, month time.Time) bool {
	return t.Year() == month.Year() && t.Month() == month.Month()
}

// monthlyAmounts buckets disbursed and collected amounts by the calendar
// month of disbursement.
func monthlyAmounts(loans []*models.Loan, months []time.Time) (disbursed, collected []MonthPoint) {
	disbursed = make([]MonthPoint, 0, len(months))
	collected = make([]MonthPoint, 0, len(months))
	for _, m := range months {
		var out, in float64
		for _, loan := range loans {
			if sameMonth(loan.DisbursedDate, m) {
				out += loan.Amount
				in += loan.AmountPaid
			}
		}
		disbursed = append(disbursed, MonthPoint{Month: m.Format("Jan"), Value: out})
		collected = append(collected, MonthPoint{Month: m.Format("Jan"), Value: in})
	}
	return disbursed, collected
}

// loanTypeDistribution counts loans per type and normalizes to whole
// percentages. Division uses max(total, 1) so an empty portfolio yields
// all-zero slices rather than NaN.
func loanTypeDistribution(loans []*models.Loan) []TypeSlice {
	counts := map[string]int{}
	for _, loan := range loans {
		counts[loan.LoanType]++
	}

	divisor := len(loans)
	if divisor == 0 {
		divisor = 1
	}

	slices := make([]TypeSlice, 0, len(distributionColors))
	for _, name := range []string{"Personal Loan", "Business Loan", "Emergency Loan", "SME Loan"} {
		slices = append(slices, TypeSlice{
			Name:    name,
			Percent: int(math.Round(float64(counts[name]) / float64(divisor) * 100)),
			Color:   distributionColors[name],
		})
	}
	return slices
}

// clientGrowth is the cumulative client count at the end of each month.
func clientGrowth(clients []*models.Client, months []time.Time) []MonthPoint {
	series := make([]MonthPoint, 0, len(months))
	for _, m := range months {
		monthEnd := m.AddDate(0, 1, 0)
		var count float64
		for _, client := range clients {
			if client.RegisteredDate.Before(monthEnd) {
				count++
			}
		}
		series = append(series, MonthPoint{Month: m.Format("Jan"), Value: count})
	}
	return series
}

// repaymentRates computes, per month, how much of that month's
// disbursements has been collected so far. Months with no disbursements
// read as zero.
func repaymentRates(loans []*models.Loan, months []time.Time) []MonthPoint {
	series := make([]MonthPoint, 0, len(months))
	for _, m := range months {
		var disbursed, collected float64
		for _, loan := range loans {
			if sameMonth(loan.DisbursedDate, m) {
				disbursed += loan.Amount
				collected += loan.AmountPaid
			}
		}
		var rate float64
		if disbursed > 0 {
			rate = math.Round(collected / disbursed * 100)
		}
		series = append(series, MonthPoint{Month: m.Format("Jan"), Value: rate})
	}
	return series
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
