package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth Tables
// ============================================================

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'client'" json:"role"`
	Name      string         `gorm:"size:100" json:"name,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

// Session represents sessions table. The raw token never touches the
// database, only its SHA-256 hash.
type Session struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	TokenHash string    `gorm:"size:255;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// ============================================================
// Portfolio Tables
// ============================================================

// Client represents clients table. TotalBorrowed/TotalLoans/ActiveLoans are
// counters mutated only by the lifecycle engine, in the same transaction as
// loan creation.
type Client struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Email          string    `gorm:"size:100;not null;index" json:"email"`
	Phone          string    `gorm:"size:30" json:"phone"`
	Type           string    `gorm:"size:20;default:'Individual'" json:"type"`
	RegisteredDate time.Time `gorm:"not null" json:"registered_date"`
	Status         string    `gorm:"size:20;default:'active'" json:"status"`
	TotalBorrowed  float64   `gorm:"type:decimal(15,2);default:0" json:"total_borrowed"`
	TotalLoans     int       `gorm:"default:0" json:"total_loans"`
	ActiveLoans    int       `gorm:"default:0" json:"active_loans"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Loans []Loan `gorm:"foreignKey:ClientID" json:"loans,omitempty"`
}

func (Client) TableName() string {
	return "clients"
}

// Application represents applications table. Status is the only mutable
// field after submission.
type Application struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ClientName       string    `gorm:"size:100;not null" json:"client"`
	Email            string    `gorm:"size:100;not null;index" json:"email"`
	Phone            string    `gorm:"size:30" json:"phone"`
	Type             string    `gorm:"size:50;not null" json:"type"`
	Amount           string    `gorm:"size:50" json:"amount"`
	AmountNumber     float64   `gorm:"type:decimal(15,2);not null" json:"amount_number"`
	Purpose          string    `gorm:"type:text" json:"purpose"`
	Status           string    `gorm:"size:20;default:'Pending';index" json:"status"`
	SubmittedDate    time.Time `gorm:"not null" json:"submitted_date"`
	Risk             string    `gorm:"size:10;default:'Low'" json:"risk"`
	CreditScore      int       `gorm:"default:700" json:"credit_score"`
	EmploymentStatus string    `gorm:"size:50" json:"employment_status"`
	MonthlyIncome    string    `gorm:"size:50" json:"monthly_income"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Application) TableName() string {
	return "applications"
}

// Loan represents loans table. Created exactly once per approved
// application; AmountPaid only ever grows.
type Loan struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ClientID      uint       `gorm:"not null;index" json:"client_id"`
	ClientName    string     `gorm:"size:100;not null" json:"client_name"`
	LoanType      string     `gorm:"size:50;not null" json:"loan_type"`
	Amount        float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	DisbursedDate time.Time  `gorm:"not null;index" json:"disbursed_date"`
	DueDate       time.Time  `gorm:"not null" json:"due_date"`
	InterestRate  float64    `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	AmountPaid    float64    `gorm:"type:decimal(15,2);default:0" json:"amount_paid"`
	Status        string     `gorm:"size:20;default:'active';index" json:"status"`
	NextPayment   *time.Time `json:"next_payment"`
	NextAmount    *float64   `gorm:"type:decimal(15,2)" json:"next_amount"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// Activity represents activities table (append-only audit log)
type Activity struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	Action  string    `gorm:"size:100;not null" json:"action"`
	Details string    `gorm:"type:text" json:"details"`
	User    string    `gorm:"size:100;not null" json:"user"`
	Time    time.Time `gorm:"not null;index" json:"time"`
}

func (Activity) TableName() string {
	return "activities"
}

// ============================================================
// Master Tables
// ============================================================

// LoanProduct is the policy table mapping a loan type to the terms applied
// on approval. DisplayRate is the catalog rate shown to applicants; the
// engine disburses at InterestRate/TenureMonths.
type LoanProduct struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Code         string         `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name         string         `gorm:"size:100;not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	InterestRate float64        `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	TenureMonths int            `gorm:"not null" json:"tenure_months"`
	DisplayRate  string         `gorm:"size:20" json:"display_rate"`
	MaxAmount    float64        `gorm:"type:decimal(15,2)" json:"max_amount"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LoanProduct) TableName() string {
	return "loan_products"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Session{},
		&Client{},
		&Application{},
		&Loan{},
		&Activity{},
		&LoanProduct{},
	)
}
