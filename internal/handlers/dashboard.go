package handlers

import (
	"net/http"

	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/httputil"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/logger"
	appmw "github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/middleware"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/models"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/store"
	"go.uber.org/zap"
)

type DashboardResponse struct {
	TotalReferred int64  `json:"totalReferred"`
	Converted     int64  `json:"converted"`
	Credits       int64  `json:"credits"`
	ReferralCode  string `json:"referralCode"`
}

func DashboardHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := appmw.UserFrom(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var totalReferred int64
	if err := store.DB.Model(&models.Referral{}).
		Where("referrer_id = ?", user.ID).
		Count(&totalReferred).Error; err != nil {
		logger.Log.Error("failed to count referrals", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	var converted int64
	if err := store.DB.Model(&models.Referral{}).
		Where("referrer_id = ? AND status = ?", user.ID, models.ReferralConverted).
		Count(&converted).Error; err != nil {
		logger.Log.Error("failed to count conversions", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	// The context user may predate a settlement in the same session;
	// re-read the balance.
	var fresh models.User
	if err := store.DB.First(&fresh, user.ID).Error; err != nil {
		logger.Log.Error("failed to load user", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, DashboardResponse{
		TotalReferred: totalReferred,
		Converted:     converted,
		Credits:       fresh.Credits,
		ReferralCode:  fresh.ReferralCode,
	})
}
