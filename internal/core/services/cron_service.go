package services

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// CronService runs the scheduled maintenance jobs: the daily overdue
// sweep and expired session cleanup.
type CronService struct {
	cron        *cron.Cron
	loanService *LoanService
	authService *AuthService
}

// NewCronService creates a new cron service
func NewCronService(loanService *LoanService, authService *AuthService) *CronService {
	return &CronService{
		cron:        cron.New(),
		loanService: loanService,
		authService: authService,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	// Overdue sweep shortly after midnight so due dates are evaluated
	// against the new day.
	if _, err := s.cron.AddFunc("15 0 * * *", s.runOverdueSweep); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc("45 0 * * *", s.runSessionCleanup); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Cron scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("✅ Cron scheduler stopped")
}

func (s *CronService) runOverdueSweep() {
	count, err := s.loanService.MarkOverdueLoans(context.Background())
	if err != nil {
		log.Printf("⚠️ Overdue sweep failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("✅ Overdue sweep flagged %d loan(s)", count)
	}
}

func (s *CronService) runSessionCleanup() {
	if err := s.authService.CleanupExpiredSessions(context.Background()); err != nil {
		log.Printf("⚠️ Session cleanup failed: %v", err)
	}
}
