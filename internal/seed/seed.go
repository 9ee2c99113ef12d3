package seed

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/shopspring/decimal"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/configs"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/logger"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/models"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/referral"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	seedPassword  = "password123"
	referrerEmail = "alice@demo.local"
	referredEmail = "bob@demo.local"
)

var demoProducts = []struct {
	Slug  string
	Title string
	Desc  string
	Image string
	Price string
	Cost  int64
}{
	{"demo-product-a", "Demo Product A", "A short description of demo product A.", "/images/phone.jpeg", "10.00", 10},
	{"demo-product-b", "Demo Product B", "A short description of demo product B.", "/images/laptop.jpg", "15.00", 15},
	{"demo-product-c", "Demo Product C", "A short description of demo product C.", "/images/headset.jpeg", "20.00", 20},
}

// Run seeds the demo catalog plus a referrer/referred user pair with a
// pending referral between them. Safe to call on every boot.
func Run() {
	db := store.DB

	var count int64
	if err := db.Model(&models.User{}).Where("email IN ?", []string{referrerEmail, referredEmail}).Count(&count).Error; err != nil {
		logger.Log.Fatal("seed check failed", zap.Error(err))
	}
	if count >= 2 {
		logger.Log.Info("seed already applied, skipping")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Fatal("failed to hash seed password", zap.Error(err))
	}
	hashed := string(hash)

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, p := range demoProducts {
			product := models.Product{
				Slug:        p.Slug,
				Title:       p.Title,
				Description: p.Desc,
				ImageURL:    p.Image,
				Price:       decimal.RequireFromString(p.Price),
				CreditCost:  p.Cost,
			}
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
		}

		aliceCode, err := referral.EnsureUnique(tx, referral.Code(referrerEmail))
		if err != nil {
			return err
		}
		alice := models.User{
			Email:        referrerEmail,
			Password:     hashed,
			ReferralCode: aliceCode,
			Credits:      configs.AppConfig.Credits.Initial,
		}
		if err := tx.Create(&alice).Error; err != nil {
			return err
		}

		bobCode, err := referral.EnsureUnique(tx, referral.Code(referredEmail))
		if err != nil {
			return err
		}
		aliceID := uint64(alice.ID)
		bob := models.User{
			Email:        referredEmail,
			Password:     hashed,
			ReferralCode: bobCode,
			ReferredBy:   &aliceID,
			Credits:      configs.AppConfig.Credits.Initial,
		}
		if err := tx.Create(&bob).Error; err != nil {
			return err
		}

		ref := models.Referral{
			ReferrerID: aliceID,
			ReferredID: uint64(bob.ID),
			Status:     models.ReferralPending,
			Credited:   false,
		}
		return tx.Create(&ref).Error
	})
	if err != nil {
		logger.Log.Fatal("seed failed", zap.Error(err))
	}
	logger.Log.Info("seeded demo catalog and users", zap.String("password", seedPassword))
}
