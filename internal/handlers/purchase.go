package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/udayasri-pagilla/refferal-credict-system-fixed/configs"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/httputil"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/logger"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/metrics"
	appmw "github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/middleware"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/settlement"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/store"
	"go.uber.org/zap"
)

type BuyRequest struct {
	Amount    int64  `json:"amount"`
	ProductID string `json:"productId,omitempty"`
}

type BuyPurchase struct {
	ID            uint64 `json:"id"`
	IsFirst       bool   `json:"isFirst"`
	ReferralBonus bool   `json:"referralBonus"`
}

type BuyResponse struct {
	OK       bool        `json:"ok"`
	Purchase BuyPurchase `json:"purchase"`
	Credits  int64       `json:"credits"`
	Message  string      `json:"message"`
}

func BuyHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := appmw.UserFrom(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req BuyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	amount := req.Amount
	if amount == 0 {
		amount = configs.AppConfig.Purchase.DefaultAmount
	}

	res, err := settlement.Buy(store.DB, uint64(user.ID), amount, req.ProductID,
		configs.AppConfig.Referral.Bonus)
	if errors.Is(err, settlement.ErrInsufficientCredits) {
		metrics.InsufficientCreditsTotal.Inc()
		httputil.WriteError(w, http.StatusBadRequest, "insufficient credits")
		return
	}
	if err != nil {
		logger.Log.Error("purchase failed",
			zap.Uint("user_id", user.ID),
			zap.Int64("amount", amount),
			zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "purchase failed")
		return
	}

	metrics.PurchasesTotal.Inc()
	if res.ReferralBonus {
		metrics.ReferralConversionsTotal.Inc()
		logger.Log.Info("referral converted",
			zap.Uint("referred_id", user.ID),
			zap.Uint64("purchase_id", res.PurchaseID))
	}

	httputil.WriteJSON(w, http.StatusOK, BuyResponse{
		OK: true,
		Purchase: BuyPurchase{
			ID:            res.PurchaseID,
			IsFirst:       res.IsFirst,
			ReferralBonus: res.ReferralBonus,
		},
		Credits: res.Credits,
		Message: "Purchase successful",
	})
}
