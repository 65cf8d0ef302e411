package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Application statuses
const (
	AppStatusPending     = "Pending"
	AppStatusUnderReview = "Under Review"
	AppStatusApproved    = "Approved"
	AppStatusRejected    = "Rejected"
)

// Loan statuses
const (
	LoanStatusActive    = "active"
	LoanStatusOverdue   = "overdue"
	LoanStatusCompleted = "completed"
)

// Client statuses
const (
	ClientStatusActive    = "active"
	ClientStatusInactive  = "inactive"
	ClientStatusDefaulter = "defaulter"
)

// Client account types
const (
	ClientTypeIndividual = "Individual"
	ClientTypeSME        = "SME"
	ClientTypeGroup      = "Group"
)

// Risk ratings assigned to applications
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// DefaultCreditScore is assigned to every new application until real
// underwriting exists.
const DefaultCreditScore = 700

// Fallback loan terms used when no loan product matches the application type.
const (
	DefaultInterestRate = 15.0
	DefaultTenureMonths = 12
)

// SessionUser is the identity resolved from a validated access token.
type SessionUser struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Name  string `json:"name,omitempty"`
}

// Session is the capability object passed into every lifecycle operation.
// The HTTP layer builds it from the validated token; services never read
// identity from ambient state.
type Session struct {
	User SessionUser
}

// IsAdmin reports whether the session belongs to an admin user.
func (s *Session) IsAdmin() bool {
	return s != nil && s.User.Role == RoleAdmin
}

// ActorName returns the display name used for activity log entries.
func (s *Session) ActorName() string {
	if s == nil {
		return ""
	}
	if s.User.Name != "" {
		return s.User.Name
	}
	return s.User.Email
}

// SessionRecord represents a stored session in the domain layer.
type SessionRecord struct {
	ID        uint
	UserID    uint
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the session has passed its expiry time.
func (s *SessionRecord) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// ValidAppStatus reports whether s is one of the four application statuses.
func ValidAppStatus(s string) bool {
	switch s {
	case AppStatusPending, AppStatusUnderReview, AppStatusApproved, AppStatusRejected:
		return true
	}
	return false
}

// TerminalAppStatus reports whether s is a terminal application status.
// Terminal applications can never transition again.
func TerminalAppStatus(s string) bool {
	return s == AppStatusApproved || s == AppStatusRejected
}
