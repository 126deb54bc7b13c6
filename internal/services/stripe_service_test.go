package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func signPayload(secret string, ts int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateCheckoutSessionForm(t *testing.T) {
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer sk_test_") {
			t.Error("missing bearer auth")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		form = r.PostForm
		fmt.Fprint(w, `{"id":"cs_test_1","url":"https://checkout.stripe.com/pay/cs_test_1","payment_status":"unpaid"}`)
	}))
	defer srv.Close()

	svc, err := NewStripeService(StripeConfig{
		SecretKey:  "sk_test_x",
		SuccessURL: "https://example.com/danke",
		CancelURL:  "https://example.com/abbruch",
		BaseURL:    srv.URL,
		Logger:     testLogger(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	session, err := svc.CreateCheckoutSession(context.Background(), CheckoutParams{
		AmountCents:   57221,
		Kontotyp:      "PRIVAT",
		CustomerEmail: "max@example.com",
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if session.ID != "cs_test_1" || session.URL == "" {
		t.Fatalf("session = %+v", session)
	}

	if got := form.Get("line_items[0][price_data][unit_amount]"); got != "57221" {
		t.Fatalf("unit_amount = %s, want 57221", got)
	}
	if got := form.Get("metadata[kontotyp]"); got != "PRIVAT" {
		t.Fatalf("metadata[kontotyp] = %s", got)
	}
	for key, vals := range form {
		for _, v := range vals {
			if v == "" {
				t.Errorf("form field %s sent empty", key)
			}
		}
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	svc, err := NewStripeService(StripeConfig{
		SecretKey:     "sk_test_x",
		WebhookSecret: "whsec_test",
		Logger:        testLogger(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ts := now.Unix()
	sig := signPayload("whsec_test", ts, payload)

	header := fmt.Sprintf("t=%d,v1=%s", ts, sig)
	if err := svc.VerifyWebhookSignature(payload, header, now, 5*time.Minute); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}

	if err := svc.VerifyWebhookSignature([]byte(`{"tampered":true}`), header, now, 5*time.Minute); err == nil {
		t.Fatal("tampered payload accepted")
	}

	stale := fmt.Sprintf("t=%d,v1=%s", ts, signPayload("whsec_test", ts, payload))
	if err := svc.VerifyWebhookSignature(payload, stale, now.Add(time.Hour), 5*time.Minute); err == nil {
		t.Fatal("stale timestamp accepted")
	}

	if err := svc.VerifyWebhookSignature(payload, "v1=deadbeef", now, 5*time.Minute); err == nil {
		t.Fatal("malformed header accepted")
	}

	wrong := fmt.Sprintf("t=%d,v1=%s", ts, signPayload("whsec_other", ts, payload))
	if err := svc.VerifyWebhookSignature(payload, wrong, now, 5*time.Minute); err == nil {
		t.Fatal("signature from wrong secret accepted")
	}
}
