package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"file-exchange-api/internal/apperr"
	"file-exchange-api/internal/application/ports"
	"file-exchange-api/internal/domain/download"
	"file-exchange-api/internal/domain/file"
	"file-exchange-api/internal/domain/user"
	"file-exchange-api/internal/infrastructure/metrics"
	"file-exchange-api/internal/infrastructure/randtoken"
)

type DownloadService struct {
	logger          *zap.Logger
	tokenRepository download.Repository
	fileRepository  file.Repository
	mCounter        *prometheus.CounterVec
	ttl             time.Duration
	now             func() time.Time
}

func NewDownloadService(
	logger *zap.Logger,
	tokenRepository download.Repository,
	fileRepository file.Repository,
	mCounter *prometheus.CounterVec,
	ttl time.Duration,
) ports.DownloadService {
	return &DownloadService{
		logger:          logger,
		tokenRepository: tokenRepository,
		fileRepository:  fileRepository,
		mCounter:        mCounter,
		ttl:             ttl,
		now:             time.Now,
	}
}

// IssueLink mints a fresh token on every call. Whether the bytes still
// exist is only checked at redemption.
func (ds *DownloadService) IssueLink(ctx context.Context, userID user.ID, fileID file.ID) (*download.Token, error) {
	f, err := ds.fileRepository.FetchFileByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFileNotFound
	}

	secret, err := randtoken.New()
	if err != nil {
		return nil, fmt.Errorf("generate download token: %w", err)
	}

	now := ds.now().UTC()
	t, err := ds.tokenRepository.CreateToken(ctx, download.Token{
		Token:     secret,
		FileID:    f.ID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ds.ttl),
	})
	if err != nil {
		return nil, apperr.Storage(err, "Error generating download link")
	}

	ds.mCounter.WithLabelValues(metrics.LinkIssued).Inc()

	return t, nil
}

// Redeem consumes token for userID. Expired tokens and tokens bound to
// another user are rejected without being consumed.
func (ds *DownloadService) Redeem(ctx context.Context, token string, userID user.ID) (*file.File, error) {
	if token == "" {
		ds.mCounter.WithLabelValues(metrics.RedeemUsed).Inc()
		return nil, ErrInvalidOrUsedToken
	}

	t, err := ds.tokenRepository.ConsumeToken(ctx, token, func(t download.Token) error {
		if t.Expired(ds.now()) {
			return ErrDownloadExpired
		}
		if t.UserID != userID {
			return ErrNotTokenOwner
		}
		return nil
	})
	switch {
	case errors.Is(err, ErrDownloadExpired):
		ds.mCounter.WithLabelValues(metrics.RedeemExpired).Inc()
		return nil, err
	case errors.Is(err, ErrNotTokenOwner):
		ds.mCounter.WithLabelValues(metrics.RedeemWrongOwner).Inc()
		ds.logger.Warn("download token presented by another user", zap.Int64("user_id", int64(userID)))
		return nil, err
	case err != nil:
		return nil, err
	case t == nil:
		ds.mCounter.WithLabelValues(metrics.RedeemUsed).Inc()
		return nil, ErrInvalidOrUsedToken
	}

	f, err := ds.fileRepository.FetchFileByID(ctx, t.FileID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFileNotFound
	}

	ds.mCounter.WithLabelValues(metrics.RedeemOK).Inc()

	return f, nil
}

// Prune drops consumed or expired tokens that expired more than olderThan ago.
func (ds *DownloadService) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	return ds.tokenRepository.PruneTokens(ctx, ds.now().Add(-olderThan))
}
