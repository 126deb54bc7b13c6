package handlers

import (
	"encoding/json"
	"net/http"

	"accounthilfe/internal/gebuehren"
	"accounthilfe/internal/models"
	"accounthilfe/internal/services"
)

// CheckoutHandler starts a hosted payment flow and parks the wizard payload
// server-side so it survives the provider redirect.
type CheckoutHandler struct {
	Stripe  *services.StripeService
	PayPal  *services.PayPalService
	Pending *services.PendingSubmissionService
}

// CreateStripeCheckout validates the submission, opens a checkout session for
// the fee total and returns the redirect URL.
func (h *CheckoutHandler) CreateStripeCheckout(w http.ResponseWriter, r *http.Request) {
	var sub models.CaseSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "Invalid body")
		return
	}
	if err := sub.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}
	satz, err := gebuehren.Satz(sub.Kontotyp)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	session, err := h.Stripe.CreateCheckoutSession(r.Context(), services.CheckoutParams{
		AmountCents:   satz.Gesamt,
		Kontotyp:      sub.Kontotyp,
		CustomerEmail: sub.Email,
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, CodeTechnical, "Failed to create checkout session")
		return
	}

	if err := h.Pending.Save(r.Context(), session.ID, "", sub); err != nil {
		writeError(w, http.StatusInternalServerError, CodeTechnical, "Failed to store submission")
		return
	}

	json.NewEncoder(w).Encode(map[string]string{
		"sessionId": session.ID,
		"url":       session.URL,
	})
}

// CreatePayPalOrder opens a PayPal order for the fee total and returns the
// approval URL.
func (h *CheckoutHandler) CreatePayPalOrder(w http.ResponseWriter, r *http.Request) {
	var sub models.CaseSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "Invalid body")
		return
	}
	if err := sub.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}
	satz, err := gebuehren.Satz(sub.Kontotyp)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	orderID, approvalURL, err := h.PayPal.CreateOrder(r.Context(), satz.Gesamt, sub.Kontotyp)
	if err != nil {
		writeError(w, http.StatusBadGateway, CodeTechnical, "Failed to create order")
		return
	}

	if err := h.Pending.Save(r.Context(), "", orderID, sub); err != nil {
		writeError(w, http.StatusInternalServerError, CodeTechnical, "Failed to store submission")
		return
	}

	json.NewEncoder(w).Encode(map[string]string{
		"orderId": orderID,
		"url":     approvalURL,
	})
}
