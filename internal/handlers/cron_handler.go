package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"accounthilfe/internal/services"
)

// CronHandler exposes the deadline sweep to an external time-based trigger.
type CronHandler struct {
	Deadlines *services.DeadlineService
	Secret    string
}

// RunDeadlineSweep requires the shared cron secret as a bearer token.
func (h *CronHandler) RunDeadlineSweep(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	token := strings.TrimPrefix(auth, "Bearer ")
	if h.Secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.Secret)) != 1 {
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "Invalid cron secret")
		return
	}

	now := time.Now()
	res, err := h.Deadlines.Sweep(r.Context(), now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, CodeTechnical, "Sweep failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"checked":   res.Checked,
		"reminders": res.Reminders,
		"expired":   res.Expired,
		"timestamp": now.Format(time.RFC3339),
	})
}
