package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"file-exchange-api/config"
	"file-exchange-api/internal/domain/user"
)

const verificationSubject = "Verify Your Email Address"

var ErrNotConfigured = errors.New("mail server is not configured")

var verificationTmpl = template.Must(template.New("verify").Parse(`<h1>Email Verification</h1>
<p>Hi {{.Username}},</p>
<p>Thank you for registering. Please click the link below to verify your email address:</p>
<p><a href="{{.URL}}">Verify Email</a></p>
<p>If you did not create an account, please ignore this email.</p>
`))

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTP struct {
	logger *zap.Logger
	from   string
	dialer dialer
}

func NewSMTP(logger *zap.Logger, cfg config.Mail) *SMTP {
	return &SMTP{
		logger: logger,
		from:   cfg.Sender,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

func (s *SMTP) SendVerificationEmail(ctx context.Context, u user.User, verifyURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := renderVerification(u.Username, verifyURL)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", u.Email)
	m.SetHeader("Subject", verificationSubject)
	m.SetBody("text/html", body)

	if err = s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}

	s.logger.Info("verification email sent", zap.Int64("user_id", int64(u.ID)))

	return nil
}

func renderVerification(username, verifyURL string) (string, error) {
	var buf bytes.Buffer
	err := verificationTmpl.Execute(&buf, struct {
		Username string
		URL      string
	}{Username: username, URL: verifyURL})
	if err != nil {
		return "", fmt.Errorf("render verification email: %w", err)
	}
	return buf.String(), nil
}

// Disabled is used when no SMTP server is configured; every send fails so
// callers fall back to returning the link directly.
type Disabled struct{}

func (Disabled) SendVerificationEmail(context.Context, user.User, string) error {
	return ErrNotConfigured
}
