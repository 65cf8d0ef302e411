package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles every repository bound to one *gorm.DB handle.
// TransactionManager.Do rebinds the bundle to the transaction handle so a
// whole business operation commits or rolls back as a unit.
type Repositories struct {
	Users        UserRepository
	Sessions     SessionRepository
	Clients      ClientRepository
	Applications ApplicationRepository
	Loans        LoanRepository
	Activities   ActivityRepository
	LoanProducts LoanProductRepository
}

// NewRepositories creates the repository bundle for db.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(db),
		Sessions:     NewSessionRepository(db),
		Clients:      NewClientRepository(db),
		Applications: NewApplicationRepository(db),
		Loans:        NewLoanRepository(db),
		Activities:   NewActivityRepository(db),
		LoanProducts: NewLoanProductRepository(db),
	}
}

// TransactionManager runs a function against a transactional repository
// bundle.
type TransactionManager interface {
	Do(ctx context.Context, fn func(tx *Repositories) error) error
}

type gormTransactionManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a TransactionManager backed by db.
func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &gormTransactionManager{db: db}
}

func (m *gormTransactionManager) Do(ctx context.Context, fn func(tx *Repositories) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
