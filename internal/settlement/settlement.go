// Package settlement implements the purchase flow: debit the buyer,
// record the purchase, and on a first purchase pay out the referral
// bonus exactly once.
package settlement

import (
	"errors"

	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/logger"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInsufficientCredits = errors.New("insufficient credits")

type Result struct {
	PurchaseID    uint64
	IsFirst       bool
	ReferralBonus bool
	Credits       int64
}

// Buy runs the whole settlement as one transaction. The debit carries a
// credits >= amount predicate and the referral payout a compare-and-set
// on the credited flag, so concurrent purchases can neither overdraw
// the balance nor pay the bonus twice.
func Buy(db *gorm.DB, userID uint64, amount int64, productSlug string, bonus int64) (Result, error) {
	var res Result

	err := db.Transaction(func(tx *gorm.DB) error {
		debit := tx.Model(&models.User{}).
			Where("id = ? AND credits >= ?", userID, amount).
			UpdateColumn("credits", gorm.Expr("credits - ?", amount))
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected == 0 {
			return ErrInsufficientCredits
		}

		var prior int64
		if err := tx.Model(&models.Purchase{}).Where("user_id = ?", userID).Count(&prior).Error; err != nil {
			return err
		}
		res.IsFirst = prior == 0

		purchase := models.Purchase{UserID: userID, ProductSlug: productSlug, Amount: amount}
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}
		res.PurchaseID = uint64(purchase.ID)

		if res.IsFirst {
			if err := awardBonus(tx, userID, bonus, &res); err != nil {
				// The debit and purchase roll back with us, but this
				// condition gets its own log line so a half-settled
				// purchase is never silent.
				logger.Log.Error("referral bonus award failed",
					zap.Uint64("user_id", userID),
					zap.Error(err))
				return err
			}
		}

		var buyer models.User
		if err := tx.First(&buyer, userID).Error; err != nil {
			return err
		}
		res.Credits = buyer.Credits
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func awardBonus(tx *gorm.DB, userID uint64, bonus int64, res *Result) error {
	var ref models.Referral
	err := tx.Where("referred_id = ?", userID).First(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if ref.Credited {
		return nil
	}

	cas := tx.Model(&models.Referral{}).
		Where("id = ? AND credited = ?", ref.ID, false).
		Updates(map[string]any{"status": models.ReferralConverted, "credited": true})
	if cas.Error != nil {
		return cas.Error
	}
	if cas.RowsAffected == 0 {
		// Lost the race to a concurrent first purchase; bonus already paid.
		return nil
	}

	if err := tx.Model(&models.User{}).Where("id = ?", ref.ReferrerID).
		UpdateColumn("credits", gorm.Expr("credits + ?", bonus)).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("credits", gorm.Expr("credits + ?", bonus)).Error; err != nil {
		return err
	}

	res.ReferralBonus = true
	return nil
}
