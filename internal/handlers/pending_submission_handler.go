package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"accounthilfe/internal/models"
	"accounthilfe/internal/services"
)

type PendingSubmissionHandler struct {
	Pending *services.PendingSubmissionService
}

// GetPendingSubmission recovers the parked wizard payload by provider session
// key. Missing is 404, expired is 410 so the client knows to restart.
func (h *PendingSubmissionHandler) GetPendingSubmission(w http.ResponseWriter, r *http.Request) {
	stripeID := r.URL.Query().Get("stripe_session_id")
	paypalID := r.URL.Query().Get("paypal_order_id")

	sub, err := h.Pending.Load(r.Context(), stripeID, paypalID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrSubmissionExpired):
			writeError(w, http.StatusGone, CodeSessionExpired, "Submission expired, please restart")
		case errors.Is(err, models.ErrSubmissionNotFound):
			writeError(w, http.StatusNotFound, CodeNotFound, "No pending submission")
		default:
			writeError(w, http.StatusInternalServerError, CodeTechnical, "Failed to load submission")
		}
		return
	}
	json.NewEncoder(w).Encode(sub)
}

// DeletePendingSubmission removes the parked payload. Always succeeds;
// cleanup of something already gone is not an error.
func (h *PendingSubmissionHandler) DeletePendingSubmission(w http.ResponseWriter, r *http.Request) {
	stripeID := r.URL.Query().Get("stripe_session_id")
	paypalID := r.URL.Query().Get("paypal_order_id")

	_ = h.Pending.Delete(r.Context(), stripeID, paypalID)
	w.WriteHeader(http.StatusNoContent)
}
