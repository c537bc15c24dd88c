// Package httpapi exposes the chat core over JSON HTTP. The session token
// travels either as "Authorization: Bearer <id>.<sig>" or as the query
// parameters session_id and session_sig, so a page reload can re-establish
// the session from a navigable URL without re-prompting for the password.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/shreyas-rp/ChatApp/internal/application"
	"github.com/shreyas-rp/ChatApp/internal/domain"
)

const (
	queryParamSessionID  = "session_id"
	queryParamSessionSig = "session_sig"
	adminPasswordHeader  = "X-Admin-Password"
)

type Handler struct {
	auth     *application.AuthService
	chat     *application.ChatService
	registry *application.Registry
	ttl      time.Duration
	logger   *zap.Logger
}

func NewHandler(auth *application.AuthService, chat *application.ChatService, registry *application.Registry, ttl time.Duration, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{auth: auth, chat: chat, registry: registry, ttl: ttl, logger: logger}
}

func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/login", h.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/logout", h.handleLogout).Methods(http.MethodPost)

	r.Handle("/api/history", h.requireSession(h.handleHistory)).Methods(http.MethodGet)
	r.Handle("/api/history", h.requireSession(h.handleClearHistory)).Methods(http.MethodDelete)
	r.Handle("/api/messages", h.requireSession(h.handleSendMessage)).Methods(http.MethodPost)

	r.Handle("/api/sessions", h.requireAdmin(h.handleListSessions)).Methods(http.MethodGet)
	r.Handle("/api/sessions/reset", h.requireAdmin(h.handleResetSessions)).Methods(http.MethodPost)

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK\n"))
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token            string `json:"token"`
	SessionID        string `json:"session_id"`
	SessionSignature string `json:"session_sig"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "request body must be JSON with a password field")
		return
	}

	token, err := h.auth.Login(req.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidCredential):
		writeError(w, http.StatusUnauthorized, "invalid_credential", "Invalid password.")
		return
	case errors.Is(err, domain.ErrCapacityExceeded):
		writeError(w, http.StatusForbidden, "capacity_exceeded", "Too many active sessions. Please try again later.")
		return
	case err != nil:
		h.logger.Error("login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:            token.Bearer(),
		SessionID:        token.ID,
		SessionSignature: token.Signature,
		ExpiresInMinutes: int(h.ttl.Minutes()),
	})
}

// handleLogout always succeeds: a missing, forged, or already-removed token
// leaves the registry in the same state as a real logout.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := extractToken(r); ok {
		h.auth.Logout(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

type historyResponse struct {
	Mode  domain.Mode   `json:"mode"`
	Turns []domain.Turn `json:"turns"`
	Count int           `json:"count"`
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.mode(w, r)
	if !ok {
		return
	}

	turns, err := h.chat.History(mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_mode", "Unknown chat mode.")
		return
	}
	if turns == nil {
		turns = []domain.Turn{}
	}

	writeJSON(w, http.StatusOK, historyResponse{Mode: mode, Turns: turns, Count: len(turns)})
}

func (h *Handler) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.mode(w, r)
	if !ok {
		return
	}

	if err := h.chat.Clear(mode); err != nil {
		writeError(w, http.StatusBadRequest, "unknown_mode", "Unknown chat mode.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sendMessageRequest struct {
	Mode    domain.Mode `json:"mode"`
	Content string      `json:"content"`
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "request body must be JSON with mode and content fields")
		return
	}
	if req.Mode == "" {
		req.Mode = domain.ModeQA
	}

	turn, err := h.chat.SendMessage(r.Context(), req.Mode, req.Content)
	if err != nil {
		h.writeSendFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, turn)
}

func (h *Handler) writeSendFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownMode):
		writeError(w, http.StatusBadRequest, "unknown_mode", "Unknown chat mode.")
		return
	case errors.Is(err, domain.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "empty_message", "Message content is required.")
		return
	}

	var classified *domain.CompletionError
	if errors.As(err, &classified) {
		writeError(w, completionStatus(classified.Kind), string(classified.Kind), classified.UserMessage())
		return
	}

	h.logger.Error("send message failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
}

func completionStatus(kind domain.CompletionErrorKind) int {
	switch kind {
	case domain.CompletionRateLimited:
		return http.StatusTooManyRequests
	case domain.CompletionConnection, domain.CompletionAuthentication, domain.CompletionModelUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// mode reads the mode query parameter, defaulting to qa like the original UI.
func (h *Handler) mode(w http.ResponseWriter, r *http.Request) (domain.Mode, bool) {
	raw := r.URL.Query().Get("mode")
	if raw == "" {
		return domain.ModeQA, true
	}

	mode := domain.Mode(raw)
	if !mode.Valid() {
		writeError(w, http.StatusBadRequest, "unknown_mode", "Unknown chat mode.")
		return "", false
	}
	return mode, true
}
