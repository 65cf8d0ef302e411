package config

import (
	"log"

	"mikopo-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// SeedLoanProducts seeds the loan product policy table. Every product
// currently disburses at the flat 15% / 12-month terms; the per-product
// catalog rates are display-only until underwriting sets real terms.
func SeedLoanProducts(db *gorm.DB) error {
	products := []models.LoanProduct{
		{
			Code:         "PERSONAL",
			Name:         "Personal Loan",
			Description:  "For personal needs and emergencies",
			InterestRate: 15,
			TenureMonths: 12,
			DisplayRate:  "16% p.a.",
			MaxAmount:    2000000,
			IsActive:     true,
		},
		{
			Code:         "BUSINESS",
			Name:         "Business Loan",
			Description:  "Working capital and business expansion",
			InterestRate: 15,
			TenureMonths: 12,
			DisplayRate:  "18% p.a.",
			MaxAmount:    10000000,
			IsActive:     true,
		},
		{
			Code:         "EMERGENCY",
			Name:         "Emergency Loan",
			Description:  "Fast disbursement for urgent needs",
			InterestRate: 15,
			TenureMonths: 12,
			DisplayRate:  "15% p.a.",
			MaxAmount:    500000,
			IsActive:     true,
		},
		{
			Code:         "SME",
			Name:         "SME Loan",
			Description:  "Growth financing for small and medium enterprises",
			InterestRate: 15,
			TenureMonths: 12,
			DisplayRate:  "17% p.a.",
			MaxAmount:    20000000,
			IsActive:     true,
		},
	}

	for _, p := range products {
		var existing models.LoanProduct
		if err := db.Where("code = ?", p.Code).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := db.Create(&p).Error; err != nil {
					return err
				}
				log.Printf("   Created loan_product: %s", p.Name)
			}
		}
	}

	log.Println("✅ Loan products seeded successfully")
	return nil
}
