package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"accounthilfe/internal/models"
)

// PaymentConfirmation is the provider-independent result of a payment check.
type PaymentConfirmation struct {
	Paid      bool
	Reference string
	Method    string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string

	// Checkout redirect targets (frontend).
	SuccessURL string
	CancelURL  string

	BaseURL string // default https://api.stripe.com

	Client *http.Client
	Logger *slog.Logger
}

// StripeService talks to the Stripe REST API for checkout sessions. Only the
// operations the intake flow needs are covered.
type StripeService struct {
	secretKey     string
	webhookSecret string
	successURL    string
	cancelURL     string
	baseURL       string

	httpClient *http.Client
	logger     *slog.Logger
}

type StripeError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StripeError) Error() string {
	return fmt.Sprintf("stripe: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}

func NewStripeService(cfg StripeConfig) (*StripeService, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, fmt.Errorf("stripe: secret key is required")
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
		baseURL = "https://api.stripe.com"
	}
	return &StripeService{
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    client,
		logger:        logger,
	}, nil
}

// CheckoutSession is the subset of Stripe's checkout session object the flow
// reads.
type CheckoutSession struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
	PaymentIntent string `json:"payment_intent"`
}

type CheckoutParams struct {
	AmountCents   int64
	Kontotyp      string
	CustomerEmail string
}

// CreateCheckoutSession creates a hosted payment page for the fee total and
// returns the redirect URL.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (CheckoutSession, error) {
	productName := "Außergerichtliche Vertretung (Privat)"
	if p.Kontotyp == "GEWERBLICH" {
		productName = "Außergerichtliche Vertretung (Gewerblich)"
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("customer_email", p.CustomerEmail)
	form.Set("payment_method_types[0]", "card")
	form.Set("payment_method_types[1]", "sepa_debit")
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", "eur")
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(p.AmountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", productName)
	form.Set("line_items[0][price_data][product_data][description]", "Anwaltliche Abmahnung zur Kontowiederherstellung")
	form.Set("metadata[kontotyp]", p.Kontotyp)
	form.Set("success_url", s.successURL+"?session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", s.cancelURL)

	var session CheckoutSession
	if err := s.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &session); err != nil {
		return CheckoutSession{}, err
	}
	if session.URL == "" {
		return CheckoutSession{}, fmt.Errorf("stripe: checkout session has no url")
	}
	return session, nil
}

// RetrieveSession fetches a checkout session by id.
func (s *StripeService) RetrieveSession(ctx context.Context, sessionID string) (CheckoutSession, error) {
	var session CheckoutSession
	err := s.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(sessionID), nil, &session)
	return session, err
}

// VerifyCardPayment checks that the checkout session completed. The returned
// reference is the payment intent id (the session id when absent) and is what
// keeps case creation idempotent.
func (s *StripeService) VerifyCardPayment(ctx context.Context, sessionID string) (PaymentConfirmation, error) {
	session, err := s.RetrieveSession(ctx, sessionID)
	if err != nil {
		return PaymentConfirmation{}, err
	}
	if session.PaymentStatus != "paid" {
		return PaymentConfirmation{Paid: false}, models.ErrPaymentNotCompleted
	}
	reference := session.PaymentIntent
	if reference == "" {
		reference = session.ID
	}
	return PaymentConfirmation{Paid: true, Reference: reference, Method: models.PaymentMethodStripe}, nil
}

func (s *StripeService) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stripe request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("stripe read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(data, &apiErr)
		s.logger.Error("stripe API error", "path", path, "status", resp.StatusCode, "code", apiErr.Error.Code)
		return &StripeError{StatusCode: resp.StatusCode, Code: apiErr.Error.Code, Message: apiErr.Error.Message}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("stripe decode response: %w", err)
		}
	}
	return nil
}

// VerifyWebhookSignature checks the Stripe-Signature header (t=<ts>,v1=<hex>)
// against HMAC-SHA256 of "<ts>.<payload>" using the webhook secret.
func (s *StripeService) VerifyWebhookSignature(payload []byte, header string, now time.Time, tolerance time.Duration) error {
	if s.webhookSecret == "" {
		return fmt.Errorf("stripe: webhook secret not configured")
	}

	var ts string
	var sigs []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts = kv[1]
		case "v1":
			sigs = append(sigs, kv[1])
		}
	}
	if ts == "" || len(sigs) == 0 {
		return fmt.Errorf("stripe: malformed signature header")
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("stripe: malformed signature timestamp")
	}
	if tolerance > 0 {
		age := now.Sub(time.Unix(unix, 0))
		if age > tolerance || age < -tolerance {
			return fmt.Errorf("stripe: signature timestamp outside tolerance")
		}
	}

	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range sigs {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return fmt.Errorf("stripe: signature mismatch")
}
