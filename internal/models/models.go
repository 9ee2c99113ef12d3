package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ReferralPending   = "pending"
	ReferralConverted = "converted"
)

type User struct {
	gorm.Model
	Email        string  `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password     string  `gorm:"size:255;not null" json:"-"`
	ReferralCode string  `gorm:"uniqueIndex;size:32;not null" json:"referralCode"`
	ReferredBy   *uint64 `gorm:"index" json:"referredBy,omitempty"`
	Credits      int64   `gorm:"not null;default:10" json:"credits"`
}

type Referral struct {
	gorm.Model
	ReferrerID uint64 `gorm:"index;not null" json:"referrerId"`
	ReferredID uint64 `gorm:"uniqueIndex;not null" json:"referredId"`
	Status     string `gorm:"size:16;not null;default:pending" json:"status"` // pending | converted
	Credited   bool   `gorm:"not null;default:false" json:"credited"`
}

type Purchase struct {
	gorm.Model
	UserID      uint64 `gorm:"index;not null" json:"userId"`
	ProductSlug string `gorm:"size:64" json:"productSlug,omitempty"`
	Amount      int64  `gorm:"not null" json:"amount"`
}

type Product struct {
	gorm.Model
	Slug        string          `gorm:"uniqueIndex;size:64;not null" json:"slug"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description string          `gorm:"size:1024" json:"description"`
	ImageURL    string          `gorm:"size:512" json:"imageUrl"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	CreditCost  int64           `gorm:"not null;default:10" json:"creditCost"`
}
