package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/configs"
	applogger "github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/logger"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/models"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/routes"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/store"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setup(t *testing.T) http.Handler {
	t.Helper()
	applogger.Log = zap.NewNop()

	configs.AppConfig = configs.Config{}
	configs.AppConfig.JWT.SECRET = "test-secret"
	configs.AppConfig.JWT.TTLHours = 168
	configs.AppConfig.Auth.PasswordMinLength = 6
	configs.AppConfig.Credits.Initial = 10
	configs.AppConfig.Referral.Bonus = 2
	configs.AppConfig.Purchase.DefaultAmount = 10

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Referral{}, &models.Purchase{}, &models.Product{}))
	store.DB = db

	return routes.NewRoutes()
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body, out any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		Email        string `json:"email"`
		ReferralCode string `json:"referralCode"`
	} `json:"user"`
}

func register(t *testing.T, h http.Handler, email, password, referralCode string) authResponse {
	t.Helper()
	body := map[string]string{"email": email, "password": password}
	if referralCode != "" {
		body["referralCode"] = referralCode
	}
	var res authResponse
	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "", body, &res)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return res
}

func TestRegisterWithoutReferral(t *testing.T) {
	h := setup(t)

	res := register(t, h, "alice@example.com", "secret1", "")
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.NotEmpty(t, res.User.ReferralCode)

	var user models.User
	require.NoError(t, store.DB.Where("email = ?", "alice@example.com").First(&user).Error)
	assert.Nil(t, user.ReferredBy)
	assert.EqualValues(t, 10, user.Credits)

	var refs int64
	require.NoError(t, store.DB.Model(&models.Referral{}).Count(&refs).Error)
	assert.EqualValues(t, 0, refs)
}

func TestRegisterWithReferralCode(t *testing.T) {
	h := setup(t)

	alice := register(t, h, "alice@example.com", "secret1", "")
	register(t, h, "bob@example.com", "secret1", alice.User.ReferralCode)

	var aliceRow, bobRow models.User
	require.NoError(t, store.DB.Where("email = ?", "alice@example.com").First(&aliceRow).Error)
	require.NoError(t, store.DB.Where("email = ?", "bob@example.com").First(&bobRow).Error)

	require.NotNil(t, bobRow.ReferredBy)
	assert.EqualValues(t, aliceRow.ID, *bobRow.ReferredBy)

	var refs []models.Referral
	require.NoError(t, store.DB.Find(&refs).Error)
	require.Len(t, refs, 1)
	assert.EqualValues(t, aliceRow.ID, refs[0].ReferrerID)
	assert.EqualValues(t, bobRow.ID, refs[0].ReferredID)
	assert.Equal(t, models.ReferralPending, refs[0].Status)
	assert.False(t, refs[0].Credited)
}

func TestRegisterUnknownReferralCode(t *testing.T) {
	h := setup(t)

	register(t, h, "bob@example.com", "secret1", "NOSUCH0000")

	var bob models.User
	require.NoError(t, store.DB.Where("email = ?", "bob@example.com").First(&bob).Error)
	assert.Nil(t, bob.ReferredBy)

	var refs int64
	require.NoError(t, store.DB.Model(&models.Referral{}).Count(&refs).Error)
	assert.EqualValues(t, 0, refs)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := setup(t)
	register(t, h, "alice@example.com", "secret1", "")

	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "",
		map[string]string{"email": "Alice@Example.com", "password": "secret1"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email already registered")
}

func TestRegisterValidation(t *testing.T) {
	h := setup(t)

	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "",
		map[string]string{"email": "not-an-email", "password": "secret1"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/register", "",
		map[string]string{"email": "ok@example.com", "password": "short"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReferralCodesDistinct(t *testing.T) {
	h := setup(t)

	// Same local part forces a prefix collision; the suffix retry must
	// still hand out distinct codes.
	a := register(t, h, "sam@one.example", "secret1", "")
	b := register(t, h, "sam@two.example", "secret1", "")
	c := register(t, h, "sam@one.example.net", "secret1", "")

	assert.NotEqual(t, a.User.ReferralCode, b.User.ReferralCode)
	assert.NotEqual(t, a.User.ReferralCode, c.User.ReferralCode)
	assert.NotEqual(t, b.User.ReferralCode, c.User.ReferralCode)
}

func TestLoginUniformFailures(t *testing.T) {
	h := setup(t)
	register(t, h, "alice@example.com", "secret1", "")

	wrongPass := doJSON(t, h, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "alice@example.com", "password": "wrong"}, nil)
	noUser := doJSON(t, h, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "ghost@example.com", "password": "secret1"}, nil)

	assert.Equal(t, http.StatusBadRequest, wrongPass.Code)
	assert.Equal(t, http.StatusBadRequest, noUser.Code)
	// Same body either way; the response must not reveal which check failed.
	assert.Equal(t, wrongPass.Body.String(), noUser.Body.String())
}

func TestLoginSuccess(t *testing.T) {
	h := setup(t)
	register(t, h, "alice@example.com", "secret1", "")

	var res authResponse
	rec := doJSON(t, h, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "alice@example.com", "password": "secret1"}, &res)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice@example.com", res.User.Email)
}

func TestAuthRequired(t *testing.T) {
	h := setup(t)

	rec := doJSON(t, h, http.MethodGet, "/api/dashboard", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, "/api/purchase/buy", "", map[string]int{"amount": 10}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type buyResponse struct {
	OK       bool `json:"ok"`
	Purchase struct {
		ID            uint64 `json:"id"`
		IsFirst       bool   `json:"isFirst"`
		ReferralBonus bool   `json:"referralBonus"`
	} `json:"purchase"`
	Credits int64  `json:"credits"`
	Message string `json:"message"`
}

func TestBuyFlow(t *testing.T) {
	h := setup(t)

	alice := register(t, h, "alice@example.com", "secret1", "")
	bob := register(t, h, "bob@example.com", "secret1", alice.User.ReferralCode)

	var res buyResponse
	rec := doJSON(t, h, http.MethodPost, "/api/purchase/buy", bob.Token,
		map[string]any{"amount": 10, "productId": "demo-product-a"}, &res)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.True(t, res.OK)
	assert.True(t, res.Purchase.IsFirst)
	assert.True(t, res.Purchase.ReferralBonus)
	assert.EqualValues(t, 2, res.Credits)
	assert.Equal(t, "Purchase successful", res.Message)

	// 2 credits left; another 10-credit purchase has to fail and leave
	// the balance alone.
	rec = doJSON(t, h, http.MethodPost, "/api/purchase/buy", bob.Token,
		map[string]any{"amount": 10}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient credits")

	var bobRow models.User
	require.NoError(t, store.DB.Where("email = ?", "bob@example.com").First(&bobRow).Error)
	assert.EqualValues(t, 2, bobRow.Credits)
}

func TestBuyDefaultAmount(t *testing.T) {
	h := setup(t)
	alice := register(t, h, "alice@example.com", "secret1", "")

	var res buyResponse
	rec := doJSON(t, h, http.MethodPost, "/api/purchase/buy", alice.Token,
		map[string]any{}, &res)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, res.Credits, "absent amount falls back to the configured 10")
}

type dashboardResponse struct {
	TotalReferred int64  `json:"totalReferred"`
	Converted     int64  `json:"converted"`
	Credits       int64  `json:"credits"`
	ReferralCode  string `json:"referralCode"`
}

func TestDashboardCounts(t *testing.T) {
	h := setup(t)

	alice := register(t, h, "alice@example.com", "secret1", "")
	bob := register(t, h, "bob@example.com", "secret1", alice.User.ReferralCode)
	register(t, h, "carol@example.com", "secret1", alice.User.ReferralCode)

	var before dashboardResponse
	rec := doJSON(t, h, http.MethodGet, "/api/dashboard", alice.Token, nil, &before)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, before.TotalReferred)
	assert.EqualValues(t, 0, before.Converted)
	assert.EqualValues(t, 10, before.Credits)
	assert.Equal(t, alice.User.ReferralCode, before.ReferralCode)

	// Bob's first purchase converts his referral and pays Alice.
	rec = doJSON(t, h, http.MethodPost, "/api/purchase/buy", bob.Token,
		map[string]any{"amount": 10}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var after dashboardResponse
	rec = doJSON(t, h, http.MethodGet, "/api/dashboard", alice.Token, nil, &after)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, after.TotalReferred)
	assert.EqualValues(t, 1, after.Converted)
	assert.EqualValues(t, 12, after.Credits)
}
