package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"accounthilfe/internal/services"
)

// WebhookHandler receives provider event notifications. The client-driven
// confirmation flow is authoritative; webhooks are the audit trail for
// sessions the client never returned from.
type WebhookHandler struct {
	Stripe *services.StripeService
	Logger *slog.Logger
}

const webhookTolerance = 5 * time.Minute

type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// HandleStripeWebhook verifies the event signature and records the event.
func (h *WebhookHandler) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "Failed to read payload")
		return
	}

	sig := r.Header.Get("Stripe-Signature")
	if err := h.Stripe.VerifyWebhookSignature(payload, sig, time.Now(), webhookTolerance); err != nil {
		h.Logger.Warn("stripe webhook signature rejected", "err", err)
		writeError(w, http.StatusBadRequest, CodeUnauthorized, "Invalid signature")
		return
	}

	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "Invalid event payload")
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(event.Data.Object, &session)
		h.Logger.Info("stripe checkout completed", "event", event.ID, "session", session.ID)
	case "checkout.session.expired":
		h.Logger.Info("stripe checkout expired", "event", event.ID)
	default:
		h.Logger.Info("stripe event ignored", "event", event.ID, "type", event.Type)
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
