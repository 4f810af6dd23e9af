package services

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"file-exchange-api/internal/application/ports"
	"file-exchange-api/internal/domain/user"
	"file-exchange-api/internal/infrastructure/metrics"
	"file-exchange-api/internal/infrastructure/mq"
	"file-exchange-api/internal/infrastructure/randtoken"
)

type userEvent struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func toUserEvent(u *user.User) userEvent {
	return userEvent{ID: int64(u.ID), Username: u.Username, Email: u.Email, Role: u.Role.String()}
}

type UserService struct {
	logger         *zap.Logger
	userRepository user.Repository
	hasher         ports.PasswordHasher
	mailer         ports.Mailer
	events         ports.EventPublisher
	mCounter       *prometheus.CounterVec
	verifyURL      func(token string) string
}

func NewUserService(
	logger *zap.Logger,
	userRepository user.Repository,
	hasher ports.PasswordHasher,
	mailer ports.Mailer,
	events ports.EventPublisher,
	mCounter *prometheus.CounterVec,
	verifyURL func(token string) string,
) ports.UserService {
	return &UserService{
		logger:         logger,
		userRepository: userRepository,
		hasher:         hasher,
		mailer:         mailer,
		events:         events,
		mCounter:       mCounter,
		verifyURL:      verifyURL,
	}
}

// Signup creates an unverified client. A failed email does not undo the
// account; the link is returned either way.
func (us *UserService) Signup(ctx context.Context, in ports.NewUser) (*ports.SignupResult, error) {
	token, err := randtoken.New()
	if err != nil {
		return nil, fmt.Errorf("generate verification token: %w", err)
	}

	u, err := us.create(ctx, in, user.RoleClient, false, &token)
	if err != nil {
		return nil, err
	}

	res := &ports.SignupResult{
		User:            u,
		VerificationURL: us.verifyURL(token),
	}
	if err = us.mailer.SendVerificationEmail(ctx, *u, res.VerificationURL); err != nil {
		us.logger.Error("failed to send verification email", zap.Int64("user_id", int64(u.ID)), zap.Error(err))
	} else {
		res.EmailSent = true
	}

	us.mCounter.WithLabelValues(metrics.SignupOK).Inc()
	publish(ctx, us.logger, us.events, us.mCounter, mq.EventUserCreated, int64(u.ID), toUserEvent(u))

	return res, nil
}

func (us *UserService) VerifyEmail(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, ErrInvalidVerificationToken
	}

	u, err := us.userRepository.VerifyByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidVerificationToken
	}

	us.mCounter.WithLabelValues(metrics.VerifyOK).Inc()
	publish(ctx, us.logger, us.events, us.mCounter, mq.EventUserVerified, int64(u.ID), toUserEvent(u))

	return u, nil
}

// CreateOpsUser creates a pre-verified operations account.
func (us *UserService) CreateOpsUser(ctx context.Context, in ports.NewUser) (*user.User, error) {
	u, err := us.create(ctx, in, user.RoleOperations, true, nil)
	if err != nil {
		return nil, err
	}

	publish(ctx, us.logger, us.events, us.mCounter, mq.EventUserCreated, int64(u.ID), toUserEvent(u))

	return u, nil
}

// create checks uniqueness up front for a friendly error; the repository
// still maps a racing insert to the same error.
func (us *UserService) create(
	ctx context.Context,
	in ports.NewUser,
	role user.Role,
	verified bool,
	verificationToken *string,
) (*user.User, error) {
	existing, err := us.userRepository.FetchUserByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}
	if existing, err = us.userRepository.FetchUserByEmail(ctx, in.Email); err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := us.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return us.userRepository.CreateUser(ctx, user.User{
		Username:          in.Username,
		Email:             in.Email,
		PasswordHash:      hash,
		Role:              role,
		IsVerified:        verified,
		VerificationToken: verificationToken,
	})
}
