// Package client is a small Go client for the referral shop API, used
// by the refctl binary and by integration tests.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Session    *Session
}

// New builds a client around an injected session; pass a fresh
// &Session{} for anonymous use.
func New(baseURL string, session *Session) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Session:    session,
	}
}

type AuthUser struct {
	Email        string `json:"email"`
	ReferralCode string `json:"referralCode"`
}

type AuthResult struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

type BuyResult struct {
	OK       bool `json:"ok"`
	Purchase struct {
		ID            uint64 `json:"id"`
		IsFirst       bool   `json:"isFirst"`
		ReferralBonus bool   `json:"referralBonus"`
	} `json:"purchase"`
	Credits int64  `json:"credits"`
	Message string `json:"message"`
}

type DashboardResult struct {
	TotalReferred int64  `json:"totalReferred"`
	Converted     int64  `json:"converted"`
	Credits       int64  `json:"credits"`
	ReferralCode  string `json:"referralCode"`
}

type Product struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Price       string `json:"price"`
	CreditCost  int64  `json:"creditCost"`
}

// APIError carries the server's error body and status code.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

func (c *Client) Register(ctx context.Context, email, password, referralCode string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	if referralCode != "" {
		body["referralCode"] = referralCode
	}
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &out); err != nil {
		return nil, err
	}
	c.setAuth(&out)
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	c.setAuth(&out)
	return &out, nil
}

func (c *Client) Buy(ctx context.Context, amount int64, productID string) (*BuyResult, error) {
	body := map[string]any{"amount": amount}
	if productID != "" {
		body["productId"] = productID
	}
	var out BuyResult
	if err := c.do(ctx, http.MethodPost, "/api/purchase/buy", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Dashboard(ctx context.Context) (*DashboardResult, error) {
	var out DashboardResult
	if err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) setAuth(res *AuthResult) {
	c.Session.Token = res.Token
	c.Session.Email = res.User.Email
	c.Session.ReferralCode = res.User.ReferralCode
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Session.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+c.Session.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		msg := "request failed"
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil && errBody.Error != "" {
			msg = errBody.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
