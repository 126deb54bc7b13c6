package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"accounthilfe/internal/models"
	"accounthilfe/internal/services"
)

type VerifyHandler struct {
	Service *services.VerificationService
}

type sendCodeRequest struct {
	Email string `json:"email"`
}

// SendCode mails a fresh verification code to the address.
func (h *VerifyHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req sendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "Invalid body")
		return
	}
	if !models.ValidEmail(req.Email) {
		writeError(w, http.StatusBadRequest, CodeValidation, "Invalid email address")
		return
	}

	if err := h.Service.SendCode(r.Context(), req.Email); err != nil {
		writeError(w, http.StatusInternalServerError, CodeTechnical, "Failed to send code")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"sent": true})
}

type checkCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// CheckCode verifies the submitted code; a correct code is consumed.
func (h *VerifyHandler) CheckCode(w http.ResponseWriter, r *http.Request) {
	var req checkCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "Invalid body")
		return
	}

	err := h.Service.CheckCode(r.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrVerificationCodeNotFound):
			writeError(w, http.StatusNotFound, CodeNotFound, "No code for this email, request a new one")
		case errors.Is(err, models.ErrVerificationCodeMismatch):
			writeError(w, http.StatusBadRequest, CodeValidation, "Wrong code")
		default:
			writeError(w, http.StatusInternalServerError, CodeTechnical, "Verification failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"verified": true})
}
