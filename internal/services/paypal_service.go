package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"accounthilfe/internal/models"
)

type PayPalConfig struct {
	ClientID     string
	ClientSecret string

	// REST base, e.g. https://api-m.paypal.com (prod) or
	// https://api-m.sandbox.paypal.com.
	BaseURL string

	BrandName string
	ReturnURL string
	CancelURL string

	Client *http.Client
	Logger *slog.Logger
}

// PayPalService creates and captures orders through the PayPal Orders v2 API.
type PayPalService struct {
	clientID     string
	clientSecret string
	baseURL      string
	brandName    string
	returnURL    string
	cancelURL    string

	httpClient *http.Client
	logger     *slog.Logger

	// oauth token cache
	mu          sync.Mutex
	accessToken string
	tokenExp    time.Time
}

type PayPalError struct {
	StatusCode int
	Name       string
	Message    string
}

func (e *PayPalError) Error() string {
	return fmt.Sprintf("paypal: %s (%s, http %d)", e.Message, e.Name, e.StatusCode)
}

func NewPayPalService(cfg PayPalConfig) (*PayPalService, error) {
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, fmt.Errorf("paypal: client id and secret are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api-m.paypal.com"
	}
	return &PayPalService{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		baseURL:      strings.TrimRight(baseURL, "/"),
		brandName:    cfg.BrandName,
		returnURL:    cfg.ReturnURL,
		cancelURL:    cfg.CancelURL,
		httpClient:   client,
		logger:       logger,
	}, nil
}

func (s *PayPalService) token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accessToken != "" && time.Now().Before(s.tokenExp) {
		return s.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(s.clientID, s.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal token request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", &PayPalError{StatusCode: resp.StatusCode, Name: "TOKEN", Message: string(data)}
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(data, &tok); err != nil {
		return "", fmt.Errorf("paypal decode token: %w", err)
	}

	s.accessToken = tok.AccessToken
	// refresh one minute early
	s.tokenExp = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)
	return s.accessToken, nil
}

type paypalOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Rel  string `json:"rel"`
		Href string `json:"href"`
	} `json:"links"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID string `json:"id"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CreateOrder creates a CAPTURE-intent order for the fee total and returns
// the order id with the approval redirect URL.
func (s *PayPalService) CreateOrder(ctx context.Context, amountCents int64, kontotyp string) (orderID, approvalURL string, err error) {
	description := "Außergerichtliche Vertretung (Privat)"
	if kontotyp == "GEWERBLICH" {
		description = "Außergerichtliche Vertretung (Gewerblich)"
	}

	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"amount": map[string]string{
				"currency_code": "EUR",
				"value":         fmt.Sprintf("%d.%02d", amountCents/100, amountCents%100),
			},
			"description": description,
		}},
		"application_context": map[string]string{
			"return_url":   s.returnURL,
			"cancel_url":   s.cancelURL,
			"brand_name":   s.brandName,
			"landing_page": "LOGIN",
			"user_action":  "PAY_NOW",
		},
	}

	var order paypalOrder
	if err := s.do(ctx, http.MethodPost, "/v2/checkout/orders", body, &order); err != nil {
		return "", "", err
	}
	for _, link := range order.Links {
		if link.Rel == "approve" {
			return order.ID, link.Href, nil
		}
	}
	return "", "", fmt.Errorf("paypal: no approval url in order response")
}

// CaptureResult is the outcome of an order capture.
type CaptureResult struct {
	Status    string
	CaptureID string
}

// CaptureOrder captures an approved order.
func (s *PayPalService) CaptureOrder(ctx context.Context, orderID string) (CaptureResult, error) {
	var order paypalOrder
	if err := s.do(ctx, http.MethodPost, "/v2/checkout/orders/"+url.PathEscape(orderID)+"/capture", map[string]any{}, &order); err != nil {
		return CaptureResult{}, err
	}
	res := CaptureResult{Status: order.Status}
	if len(order.PurchaseUnits) > 0 && len(order.PurchaseUnits[0].Payments.Captures) > 0 {
		res.CaptureID = order.PurchaseUnits[0].Payments.Captures[0].ID
	}
	if res.CaptureID == "" {
		res.CaptureID = order.ID
	}
	return res, nil
}

// VerifyWalletPayment captures the order and reports whether it completed.
// The capture id becomes the payment reference for idempotency.
func (s *PayPalService) VerifyWalletPayment(ctx context.Context, orderID string) (PaymentConfirmation, error) {
	capture, err := s.CaptureOrder(ctx, orderID)
	if err != nil {
		return PaymentConfirmation{}, err
	}
	if capture.Status != "COMPLETED" {
		return PaymentConfirmation{Paid: false}, models.ErrPaymentNotCompleted
	}
	return PaymentConfirmation{Paid: true, Reference: capture.CaptureID, Method: models.PaymentMethodPaypal}, nil
}

func (s *PayPalService) do(ctx context.Context, method, path string, body any, out any) error {
	token, err := s.token(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("paypal request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("paypal read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Name    string `json:"name"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &apiErr)
		s.logger.Error("paypal API error", "path", path, "status", resp.StatusCode, "name", apiErr.Name)
		return &PayPalError{StatusCode: resp.StatusCode, Name: apiErr.Name, Message: apiErr.Message}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("paypal decode response: %w", err)
		}
	}
	return nil
}
