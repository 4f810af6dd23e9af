package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"file-exchange-api/internal/application/ports"
	"file-exchange-api/internal/domain/session"
	"file-exchange-api/internal/domain/user"
	"file-exchange-api/internal/infrastructure/jwt"
	"file-exchange-api/internal/infrastructure/metrics"
	"file-exchange-api/internal/infrastructure/randtoken"
)

const bearerPrefix = "Bearer "

type AuthService struct {
	logger            *zap.Logger
	userRepository    user.Repository
	sessionRepository session.Repository
	tokens            ports.TokenIssuer
	hasher            ports.PasswordHasher
	mCounter          *prometheus.CounterVec
	tokenTTL          time.Duration
	sessionTTL        time.Duration
	now               func() time.Time
}

func NewAuthService(
	logger *zap.Logger,
	userRepository user.Repository,
	sessionRepository session.Repository,
	tokens ports.TokenIssuer,
	hasher ports.PasswordHasher,
	mCounter *prometheus.CounterVec,
	tokenTTL time.Duration,
	sessionTTL time.Duration,
) ports.Auth {
	return &AuthService{
		logger:            logger,
		userRepository:    userRepository,
		sessionRepository: sessionRepository,
		tokens:            tokens,
		hasher:            hasher,
		mCounter:          mCounter,
		tokenTTL:          tokenTTL,
		sessionTTL:        sessionTTL,
		now:               time.Now,
	}
}

func (as *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	u, err := as.userRepository.FetchUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || !as.hasher.Compare(u.PasswordHash, password) {
		as.mCounter.WithLabelValues(metrics.LoginFailed).Inc()
		return nil, ErrInvalidCredentials
	}
	if !u.CanAuthenticate() {
		as.mCounter.WithLabelValues(metrics.LoginFailed).Inc()
		return nil, ErrEmailNotVerified
	}

	token, err := as.tokens.GenerateJWT(u.ID, u.Role, as.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	sid, err := randtoken.New()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	now := as.now().UTC()
	s := session.Session{
		ID:        sid,
		UserID:    u.ID,
		Role:      u.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(as.sessionTTL),
	}
	if err = as.sessionRepository.CreateSession(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	as.mCounter.WithLabelValues(metrics.LoginOK).Inc()

	return &ports.LoginResult{
		User:             u,
		Token:            token,
		SessionID:        sid,
		SessionExpiresAt: s.ExpiresAt,
	}, nil
}

func (as *AuthService) ResolveSession(ctx context.Context, sessionID string) (*user.User, error) {
	if sessionID == "" {
		return nil, nil
	}

	s, err := as.sessionRepository.FetchSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil || s.Expired(as.now()) {
		return nil, nil
	}

	return as.liveUser(ctx, s.UserID)
}

// ResolveBearer accepts only "Bearer <token>"; anything else counts as a
// missing token.
func (as *AuthService) ResolveBearer(ctx context.Context, authHeader string) (*user.User, error) {
	raw, ok := strings.CutPrefix(authHeader, bearerPrefix)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" || strings.ContainsAny(raw, " \t") {
		return nil, ErrMissingToken
	}

	id, err := as.tokens.ValidateToken(raw)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	return as.liveUser(ctx, id.UserID)
}

func (as *AuthService) liveUser(ctx context.Context, id user.ID) (*user.User, error) {
	u, err := as.userRepository.FetchUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (as *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return as.sessionRepository.DeleteSession(ctx, sessionID)
}

func (as *AuthService) PruneSessions(ctx context.Context) (int64, error) {
	return as.sessionRepository.PruneSessions(ctx, as.now())
}
