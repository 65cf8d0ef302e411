package repositories

import (
	"context"
	"time"

	"mikopo-backend/internal/adapters/persistence/models"
	"mikopo-backend/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID gets a loan by ID
func (r *loanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// GetByIDForUpdate gets a loan by ID with a row lock. Only meaningful
// inside a transaction.
func (r *loanRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// Update updates a loan
func (r *loanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

// List lists loans with their clients, newest disbursement first
func (r *loanRepository) List(ctx context.Context) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("Client").
		Order("disbursed_date DESC").
		Find(&loans).Error
	return loans, err
}

// ListByClient lists loans for one client, newest disbursement first
func (r *loanRepository) ListByClient(ctx context.Context, clientID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("disbursed_date DESC").
		Find(&loans).Error
	return loans, err
}

// CountByStatus counts loans in a given status
func (r *loanRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// SumDisbursedSince sums loan amounts disbursed at or after since
func (r *loanRepository) SumDisbursedSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("disbursed_date >= ?", since).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// MarkOverdue flips active loans past their due date to overdue
func (r *loanRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("status = ? AND due_date < ?", domain.LoanStatusActive, now).
		Update("status", domain.LoanStatusOverdue)
	return res.RowsAffected, res.Error
}
