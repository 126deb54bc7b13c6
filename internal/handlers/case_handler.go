package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"accounthilfe/internal/models"
	"accounthilfe/internal/services"
)

type CaseHandler struct {
	Service *services.CaseService
	Pending *services.PendingSubmissionService
}

type createCaseRequest struct {
	StripeSessionID string                 `json:"stripeSessionId"`
	PayPalOrderID   string                 `json:"paypalOrderId"`
	Submission      *models.CaseSubmission `json:"submission"`
}

// resolveSubmission picks the wizard payload from the request body when the
// client still has it, otherwise recovers it server-side by session key.
func (h *CaseHandler) resolveSubmission(ctx context.Context, req createCaseRequest) (models.CaseSubmission, error) {
	if req.Submission != nil {
		return *req.Submission, nil
	}
	return h.Pending.Load(ctx, req.StripeSessionID, req.PayPalOrderID)
}

// CreateCaseStripe finalizes a case after a completed card checkout.
func (h *CaseHandler) CreateCaseStripe(w http.ResponseWriter, r *http.Request) {
	var req createCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "Invalid body")
		return
	}
	if req.StripeSessionID == "" {
		writeError(w, http.StatusBadRequest, CodeValidation, "stripeSessionId is required")
		return
	}
	h.create(w, r, services.CreateParams{
		Mode:            services.PaymentModeCard,
		StripeSessionID: req.StripeSessionID,
	}, req)
}

// CreateCasePayPal finalizes a case after an approved PayPal order.
func (h *CaseHandler) CreateCasePayPal(w http.ResponseWriter, r *http.Request) {
	var req createCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "Invalid body")
		return
	}
	if req.PayPalOrderID == "" {
		writeError(w, http.StatusBadRequest, CodeValidation, "paypalOrderId is required")
		return
	}
	h.create(w, r, services.CreateParams{
		Mode:          services.PaymentModeWallet,
		PayPalOrderID: req.PayPalOrderID,
	}, req)
}

// CreateCaseUeberweisung creates a case immediately with payment outstanding;
// the client receives the bank details by email.
func (h *CaseHandler) CreateCaseUeberweisung(w http.ResponseWriter, r *http.Request) {
	var sub models.CaseSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "Invalid body")
		return
	}
	h.create(w, r, services.CreateParams{Mode: services.PaymentModeBankTransfer},
		createCaseRequest{Submission: &sub})
}

func (h *CaseHandler) create(w http.ResponseWriter, r *http.Request, params services.CreateParams, req createCaseRequest) {
	sub, err := h.resolveSubmission(r.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrSubmissionNotFound) || errors.Is(err, models.ErrSubmissionExpired) {
			writeError(w, http.StatusGone, CodeSessionExpired, "Submission expired, please restart")
			return
		}
		writeError(w, http.StatusInternalServerError, CodeTechnical, "Failed to recover submission")
		return
	}
	params.Submission = sub
	params.Now = time.Now()

	res, err := h.Service.Create(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrPaymentNotCompleted):
			writeError(w, http.StatusPaymentRequired, CodePaymentFailed, "Payment not completed")
		case errors.Is(err, models.ErrValidation):
			writeError(w, http.StatusBadRequest, CodeValidation, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, CodeTechnical, "Failed to create case")
		}
		return
	}

	status := http.StatusCreated
	if res.AlreadyExists {
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]any{
		"caseNumber":       res.Case.CaseNumber,
		"track":            res.Case.Track,
		"abmahnfristDatum": res.Case.AbmahnfristDatum.Format("2006-01-02"),
		"paymentStatus":    res.Case.PaymentStatus,
		"alreadyExists":    res.AlreadyExists,
	})
}

type lookupRequest struct {
	Email      string `json:"email"`
	CaseNumber string `json:"caseNumber"`
}

// LookupCase is the public status lookup by case number and owner email.
func (h *CaseHandler) LookupCase(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "Invalid body")
		return
	}
	if req.Email == "" || req.CaseNumber == "" {
		writeError(w, http.StatusBadRequest, CodeValidation, "email and caseNumber are required")
		return
	}

	res, err := h.Service.Lookup(r.Context(), req.Email, req.CaseNumber)
	if err != nil {
		if errors.Is(err, models.ErrCaseNotFound) {
			writeError(w, http.StatusNotFound, CodeNotFound, "Case not found")
			return
		}
		writeError(w, http.StatusInternalServerError, CodeTechnical, "Lookup failed")
		return
	}
	json.NewEncoder(w).Encode(res)
}
