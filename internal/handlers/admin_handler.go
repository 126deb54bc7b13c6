package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"accounthilfe/internal/models"
	"accounthilfe/internal/services"
	"accounthilfe/utils"
)

// AdminHandler serves the dashboard: login and the named case operations.
type AdminHandler struct {
	Service  *services.CaseService
	Cases    AdminCaseReader
	Users    AdminUserReader
	Invoices AdminInvoiceReader
	Tokens   *utils.Manager

	AdminEmail        string
	AdminPasswordHash string
	TokenTTL          time.Duration
}

type AdminCaseReader interface {
	ListAll(ctx context.Context) ([]models.Case, error)
	GetByID(ctx context.Context, id string) (models.Case, error)
}

type AdminUserReader interface {
	GetByID(ctx context.Context, id int) (models.User, error)
}

type AdminInvoiceReader interface {
	GetByCaseID(ctx context.Context, caseID string) (models.Invoice, error)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks the dashboard credentials and issues an admin token.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "Invalid body")
		return
	}

	if req.Email != h.AdminEmail {
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.AdminPasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.Tokens.NewJWT(req.Email, "admin", h.TokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, CodeTechnical, "Failed to issue token")
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

// ListCases returns every case, newest first.
func (h *AdminHandler) ListCases(w http.ResponseWriter, r *http.Request) {
	cases, err := h.Cases.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, CodeTechnical, "Failed to fetch cases")
		return
	}
	if cases == nil {
		cases = []models.Case{}
	}
	json.NewEncoder(w).Encode(cases)
}

// GetCase returns one case with its owner and invoice attached.
func (h *AdminHandler) GetCase(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(":id")

	c, err := h.Cases.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrCaseNotFound) {
			writeError(w, http.StatusNotFound, CodeNotFound, "Case not found")
			return
		}
		writeError(w, http.StatusInternalServerError, CodeTechnical, "Failed to fetch case")
		return
	}

	if user, err := h.Users.GetByID(r.Context(), c.UserID); err == nil {
		c.User = &user
	}

	resp := map[string]any{"case": c}
	if inv, err := h.Invoices.GetByCaseID(r.Context(), c.ID); err == nil {
		resp["invoice"] = inv
	}
	json.NewEncoder(w).Encode(resp)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// SetStatus applies a status change after the transition check.
func (h *AdminHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(":id")
	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "Invalid body")
		return
	}

	c, err := h.Service.SetStatus(r.Context(), id, req.Status, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, models.ErrCaseNotFound):
			writeError(w, http.StatusNotFound, CodeNotFound, "Case not found")
		case errors.Is(err, models.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, CodeValidation, "Unknown status")
		case errors.Is(err, models.ErrIllegalStatusTransition):
			writeError(w, http.StatusConflict, CodeInvalidStatus, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, CodeTechnical, "Failed to update status")
		}
		return
	}
	json.NewEncoder(w).Encode(c)
}

type setNotesRequest struct {
	InterneNotizen string `json:"interneNotizen"`
}

// SetNotes replaces the internal notes of a case.
func (h *AdminHandler) SetNotes(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(":id")
	var req setNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "Invalid body")
		return
	}

	if err := h.Service.SetInterneNotizen(r.Context(), id, req.InterneNotizen); err != nil {
		if errors.Is(err, models.ErrCaseNotFound) {
			writeError(w, http.StatusNotFound, CodeNotFound, "Case not found")
			return
		}
		writeError(w, http.StatusInternalServerError, CodeTechnical, "Failed to update notes")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ConfirmPayment marks a bank-transfer case as paid.
func (h *AdminHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(":id")

	c, err := h.Service.ConfirmPayment(r.Context(), id, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, models.ErrCaseNotFound):
			writeError(w, http.StatusNotFound, CodeNotFound, "Case not found")
		case errors.Is(err, models.ErrPaymentAlreadyConfirmed):
			writeError(w, http.StatusConflict, CodeAlreadyConfirmed, "Payment already confirmed")
		default:
			writeError(w, http.StatusInternalServerError, CodeTechnical, "Failed to confirm payment")
		}
		return
	}
	json.NewEncoder(w).Encode(c)
}
