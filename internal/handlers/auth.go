package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/configs"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/httputil"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/logger"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/metrics"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/models"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/referral"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	ReferralCode string `json:"referralCode,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthUser struct {
	Email        string `json:"email"`
	ReferralCode string `json:"referralCode"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid email")
		return
	}
	if len(req.Password) < configs.AppConfig.Auth.PasswordMinLength {
		httputil.WriteError(w, http.StatusBadRequest, "password too short")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "server error")
		return
	}

	var user models.User
	err = store.DB.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errDuplicateEmail
		}

		code, err := referral.EnsureUnique(tx, referral.Code(email))
		if err != nil {
			return err
		}

		user = models.User{
			Email:        email,
			Password:     string(hash),
			ReferralCode: code,
			Credits:      configs.AppConfig.Credits.Initial,
		}

		if req.ReferralCode != "" {
			var referrer models.User
			err := tx.Where("referral_code = ?", strings.ToUpper(strings.TrimSpace(req.ReferralCode))).
				First(&referrer).Error
			switch {
			case err == nil:
				id := uint64(referrer.ID)
				user.ReferredBy = &id
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return err
			}
		}

		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		if user.ReferredBy != nil {
			ref := models.Referral{
				ReferrerID: *user.ReferredBy,
				ReferredID: uint64(user.ID),
				Status:     models.ReferralPending,
				Credited:   false,
			}
			if err := tx.Create(&ref).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, errDuplicateEmail) {
		httputil.WriteError(w, http.StatusBadRequest, "email already registered")
		return
	}
	if err != nil {
		logger.Log.Error("registration failed", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "server error")
		return
	}

	token, err := signToken(uint64(user.ID))
	if err != nil {
		logger.Log.Error("failed to sign jwt", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	metrics.RegistrationsTotal.Inc()
	logger.Log.Info("user registered",
		zap.Uint("user_id", user.ID),
		zap.Bool("referred", user.ReferredBy != nil))

	httputil.WriteJSON(w, http.StatusOK, AuthResponse{
		Token: token,
		User:  AuthUser{Email: user.Email, ReferralCode: user.ReferralCode},
	})
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	// Unknown email and wrong password share one response on purpose.
	var user models.User
	if err := store.DB.Where("email = ?", email).First(&user).Error; err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid credentials")
		return
	}

	token, err := signToken(uint64(user.ID))
	if err != nil {
		logger.Log.Error("failed to sign jwt", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, AuthResponse{
		Token: token,
		User:  AuthUser{Email: user.Email, ReferralCode: user.ReferralCode},
	})
}

var errDuplicateEmail = errors.New("email already registered")

func signToken(userID uint64) (string, error) {
	ttl := time.Duration(configs.AppConfig.JWT.TTLHours) * time.Hour
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.AppConfig.JWT.SECRET))
}
