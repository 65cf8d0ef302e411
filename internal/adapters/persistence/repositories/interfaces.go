package repositories

import (
	"context"
	"time"

	"mikopo-backend/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// SessionRepository defines session repository interface
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error)
	Delete(ctx context.Context, id uint) error
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context) error
}

// ClientRepository defines client repository interface
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id uint) (*models.Client, error)
	GetByEmail(ctx context.Context, email string) (*models.Client, error)
	List(ctx context.Context) ([]*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	UpdateProfileByEmail(ctx context.Context, email string, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	// IncrementLoanStats bumps activeLoans/totalLoans by one and
	// totalBorrowed by amount with SQL expressions, so concurrent
	// approvals never lose updates.
	IncrementLoanStats(ctx context.Context, id uint, amount float64) error
}

// ApplicationRepository defines application repository interface
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id uint) (*models.Application, error)
	List(ctx context.Context) ([]*models.Application, error)
	ListByEmail(ctx context.Context, email string) ([]*models.Application, error)
	// UpdateStatusIf updates the status only when the stored status still
	// equals expected, and reports whether a row was changed. This is the
	// optimistic guard that serializes concurrent decisions.
	UpdateStatusIf(ctx context.Context, id uint, expected, newStatus string) (bool, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

// LoanRepository defines loan repository interface
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	// GetByIDForUpdate locks the row for the duration of the surrounding
	// transaction so concurrent payments serialize.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Loan, error)
	Update(ctx context.Context, loan *models.Loan) error
	List(ctx context.Context) ([]*models.Loan, error)
	ListByClient(ctx context.Context, clientID uint) ([]*models.Loan, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	SumDisbursedSince(ctx context.Context, since time.Time) (float64, error)
	// MarkOverdue flips active loans past their due date to overdue and
	// returns how many rows changed.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

// ActivityRepository defines activity repository interface
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	ListRecent(ctx context.Context, limit int) ([]*models.Activity, error)
}

// LoanProductRepository defines loan product repository interface
type LoanProductRepository interface {
	GetByName(ctx context.Context, name string) (*models.LoanProduct, error)
	List(ctx context.Context) ([]*models.LoanProduct, error)
}
