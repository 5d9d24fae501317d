package httpx

import (
	"encoding/json"
	"net/http"

	"pulperia-be/internal/notification"

	"github.com/go-chi/chi/v5"
)

type NotificationsHandler struct {
	Feed   notification.Feed
	Ledger notification.Ledger
}

func (h *NotificationsHandler) Register(r chi.Router) {
	r.Get("/notifications", h.list)
	r.Post("/notifications/mark-read", h.markRead)
}

func (h *NotificationsHandler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	notifications, err := h.Feed.List(r.Context(), user)
	if err != nil {
		// Store faults are retryable by the caller.
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationsHandler) markRead(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var ids []string
	if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.Ledger.MarkRead(r.Context(), user.UserID, ids); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "marked": len(ids)})
}
