package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PurchasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "referral_shop_purchases_total",
		Help: "Completed purchases.",
	})

	ReferralConversionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "referral_shop_referral_conversions_total",
		Help: "Referrals converted by a first purchase.",
	})

	InsufficientCreditsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "referral_shop_insufficient_credits_total",
		Help: "Purchases rejected for insufficient credits.",
	})

	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "referral_shop_registrations_total",
		Help: "Successful registrations.",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
