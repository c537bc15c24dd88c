package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shreyas-rp/ChatApp/internal/domain"
)

// requireSession verifies the request's token before the wrapped handler
// runs. Verification also refreshes the session's last activity, so any
// authenticated request keeps the session alive.
func (h *Handler) requireSession(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_token", "Please log in.")
			return
		}

		if _, err := h.auth.Verify(token); err != nil {
			switch {
			case errors.Is(err, domain.ErrSessionExpired),
				errors.Is(err, domain.ErrSessionNotRegistered),
				errors.Is(err, domain.ErrBadSignature):
				writeError(w, http.StatusUnauthorized, "session_invalid", "Please log in again.")
			default:
				writeError(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
			}
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requireAdmin gates the administrative endpoints behind the shared password
// carried in a header. Admin access is credential-based, not session-based,
// so it still works when every session slot is taken.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.auth.CheckPassword(r.Header.Get(adminPasswordHeader)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_credential", "Invalid password.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractToken(r *http.Request) (domain.SessionToken, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		if bearer, ok := strings.CutPrefix(header, "Bearer "); ok {
			token, err := domain.ParseBearerToken(strings.TrimSpace(bearer))
			return token, err == nil
		}
	}

	query := r.URL.Query()
	id := query.Get(queryParamSessionID)
	sig := query.Get(queryParamSessionSig)
	if id != "" && sig != "" {
		return domain.SessionToken{ID: id, Signature: sig}, true
	}

	return domain.SessionToken{}, false
}
