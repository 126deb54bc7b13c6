package handlers

import (
	"encoding/json"
	"net/http"
)

// Error codes in API responses. Clients map them to recovery actions:
// retry the payment, retry later, or restart the wizard.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodePaymentFailed    = "PAYMENT_NOT_COMPLETED"
	CodeSessionExpired   = "SESSION_EXPIRED"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeTechnical        = "TECHNICAL_ERROR"
	CodeInvalidStatus    = "INVALID_STATUS_TRANSITION"
	CodeAlreadyConfirmed = "PAYMENT_ALREADY_CONFIRMED"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
