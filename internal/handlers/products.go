package handlers

import (
	"net/http"

	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/httputil"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/logger"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/models"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/store"
	"go.uber.org/zap"
)

func ProductsHandler(w http.ResponseWriter, r *http.Request) {
	var products []models.Product
	if err := store.DB.Order("id").Find(&products).Error; err != nil {
		logger.Log.Error("failed to fetch products", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, products)
}
