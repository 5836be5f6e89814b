package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"game2048_backend/internal/service/config"
	"game2048_backend/internal/service/logger"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPSender struct {
	dialer dialer
	from   string
}

func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.Sender(),
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from := msg.From
	if from == "" {
		from = s.from
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		logger.MailLogger.Error("Failed to send mail",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return fmt.Errorf("sending mail to %s: %w", msg.To, err)
	}

	logger.MailLogger.Info("Mail sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

// LogSender only records messages. It is used when no SMTP account is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	logger.MailLogger.Info("Mail delivery disabled, message dropped",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

const otpSubject = "Your 2048 verification code"

var otpTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #776e65;">
  <h2>Welcome to 2048, {{.Username}}!</h2>
  <p>Use the code below to verify your email address. It expires in {{.Minutes}} minutes.</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">{{.OTP}}</p>
  <p>If you did not create an account, you can ignore this email.</p>
</body>
</html>`))

// OTPMessage renders the verification email for a freshly issued code.
func OTPMessage(to, username, otp string, minutes int) (Message, error) {
	var buf bytes.Buffer
	err := otpTemplate.Execute(&buf, struct {
		Username string
		OTP      string
		Minutes  int
	}{username, otp, minutes})
	if err != nil {
		return Message{}, fmt.Errorf("rendering otp mail: %w", err)
	}

	return Message{
		To:      to,
		Subject: otpSubject,
		HTML:    buf.String(),
	}, nil
}
