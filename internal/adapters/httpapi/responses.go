package httpapi

import (
	"encoding/json"
	"net/http"
	"time"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Error: kind, Message: message})
}

// SessionView is the admin-facing shape of a registered session. Ids are
// exposed in full: the list is only reachable with the shared password, and
// an id alone cannot be replayed without its signature.
type SessionView struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// SessionsResponse is shared with the sessions CLI command, which decodes it
// before rendering.
type SessionsResponse struct {
	Sessions   []SessionView `json:"sessions"`
	Count      int           `json:"count"`
	Max        int           `json:"max"`
	TTLMinutes int           `json:"ttl_minutes"`
}

func (h *Handler) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	snapshot := h.registry.Snapshot()
	views := make([]SessionView, 0, len(snapshot))
	for _, session := range snapshot {
		views = append(views, SessionView{
			ID:           session.ID,
			CreatedAt:    session.CreatedAt,
			LastActiveAt: session.LastActiveAt,
		})
	}

	writeJSON(w, http.StatusOK, SessionsResponse{
		Sessions:   views,
		Count:      len(views),
		Max:        h.registry.Cap(),
		TTLMinutes: int(h.ttl.Minutes()),
	})
}

func (h *Handler) handleResetSessions(w http.ResponseWriter, _ *http.Request) {
	h.registry.ResetAll()
	h.logger.Info("session registry reset by administrator")
	w.WriteHeader(http.StatusNoContent)
}
