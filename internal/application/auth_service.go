package application

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shreyas-rp/ChatApp/internal/domain"
)

// AuthService validates the shared credential, mints signed session tokens,
// and consults the registry before admitting a session. The shared secret
// doubles as the HMAC signing key, so a token's signature proves it was
// issued by this process (or one sharing the secret).
type AuthService struct {
	secret       []byte
	passwordHash []byte
	registry     *Registry
	logger       *zap.Logger
}

func NewAuthService(sharedPassword string, registry *Registry, logger *zap.Logger) (*AuthService, error) {
	if sharedPassword == "" {
		return nil, fmt.Errorf("shared password is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(sharedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash shared password: %w", err)
	}

	return &AuthService{
		secret:       []byte(sharedPassword),
		passwordHash: hash,
		registry:     registry,
		logger:       logger,
	}, nil
}

// CheckPassword compares a submitted password against the shared secret in
// constant time.
func (s *AuthService) CheckPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return domain.ErrInvalidCredential
	}
	return nil
}

// Login authenticates the shared password and admits a new session, failing
// with domain.ErrCapacityExceeded when the concurrent-session cap is full.
// No session is registered on a failed admission.
func (s *AuthService) Login(password string) (domain.SessionToken, error) {
	if err := s.CheckPassword(password); err != nil {
		s.logger.Warn("login rejected: invalid credential")
		return domain.SessionToken{}, err
	}

	id := uuid.NewString()
	if !s.registry.Admit(id) {
		s.logger.Warn("login rejected: session cap reached",
			zap.Int("active_sessions", s.registry.ActiveCount()))
		return domain.SessionToken{}, domain.ErrCapacityExceeded
	}

	s.logger.Info("session admitted", zap.String("session_id", id))
	return domain.SessionToken{ID: id, Signature: s.sign(id)}, nil
}

// Verify checks the token signature before touching the registry, so a
// forged token can never probe registry state. Expiry is enforced purely via
// the registry's timestamps: a leaked but expired token fails here even
// though its signature still verifies.
func (s *AuthService) Verify(token domain.SessionToken) (domain.Session, error) {
	if !hmac.Equal([]byte(s.sign(token.ID)), []byte(token.Signature)) {
		return domain.Session{}, domain.ErrBadSignature
	}

	session, status := s.registry.Lookup(token.ID)
	switch status {
	case SessionExpired:
		s.logger.Info("session expired", zap.String("session_id", token.ID))
		return domain.Session{}, domain.ErrSessionExpired
	case SessionAbsent:
		return domain.Session{}, domain.ErrSessionNotRegistered
	}

	s.registry.Touch(token.ID)
	return session, nil
}

// Logout removes the session unconditionally; idempotent. Tokens failing the
// signature check are ignored.
func (s *AuthService) Logout(token domain.SessionToken) {
	if !hmac.Equal([]byte(s.sign(token.ID)), []byte(token.Signature)) {
		return
	}
	s.registry.Remove(token.ID)
	s.logger.Info("session removed", zap.String("session_id", token.ID))
}

func (s *AuthService) sign(id string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}
