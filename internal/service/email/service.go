// Package email sends transactional mail. SendGrid is the production
// provider; plain SMTP covers local development with Mailhog.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"github.com/vaani-ai/vaani/internal/domain"
	"github.com/vaani-ai/vaani/internal/ports"
)

// Provider delivers a single message.
type Provider interface {
	Send(ctx context.Context, to, subject, body string, isHTML bool) error
}

type Config struct {
	// Provider type: "sendgrid" or "smtp"
	Provider string

	FromEmail string
	FromName  string

	SendGridAPIKey string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool

	// BaseURL for links in emails
	BaseURL string
}

// DefaultConfig targets a local Mailhog instance.
func DefaultConfig() *Config {
	return &Config{
		Provider:   "smtp",
		FromEmail:  "noreply@vaani.ai",
		FromName:   "Vaani",
		SMTPHost:   "localhost",
		SMTPPort:   1025,
		SMTPUseTLS: false,
		BaseURL:    "http://localhost:3000",
	}
}

type Service struct {
	config    *Config
	provider  Provider
	templates map[string]*template.Template
	log       *zap.Logger
}

var _ ports.EmailService = (*Service)(nil)

func NewService(config *Config, log *zap.Logger) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Service{
		config:    config,
		templates: make(map[string]*template.Template),
		log:       log,
	}

	switch config.Provider {
	case "sendgrid":
		if config.SendGridAPIKey == "" {
			return nil, fmt.Errorf("email: SendGrid API key is required")
		}
		s.provider = NewSendGridProvider(config.SendGridAPIKey, config.FromEmail, config.FromName)
	case "smtp":
		s.provider = NewSMTPProvider(
			config.SMTPHost,
			config.SMTPPort,
			config.SMTPUsername,
			config.SMTPPassword,
			config.FromEmail,
			config.FromName,
			config.SMTPUseTLS,
		)
	default:
		return nil, fmt.Errorf("email: unknown provider %q", config.Provider)
	}

	s.templates["welcome"] = template.Must(template.New("welcome").Parse(welcomeTemplate))

	return s, nil
}

func (s *Service) Send(ctx context.Context, to, subject, body string) error {
	s.log.Info("sending email", zap.String("to", to), zap.String("subject", subject))

	if err := s.provider.Send(ctx, to, subject, body, false); err != nil {
		s.log.Error("email send failed", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("email: send: %w", err)
	}
	return nil
}

func (s *Service) SendHTML(ctx context.Context, to, subject, htmlBody string) error {
	s.log.Info("sending HTML email", zap.String("to", to), zap.String("subject", subject))

	if err := s.provider.Send(ctx, to, subject, htmlBody, true); err != nil {
		s.log.Error("email send failed", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("email: send: %w", err)
	}
	return nil
}

func (s *Service) SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("email: template not found: %s", templateName)
	}

	if data == nil {
		data = make(map[string]interface{})
	}
	data["BaseURL"] = s.config.BaseURL

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("email: execute template: %w", err)
	}

	subject, ok := data["Subject"].(string)
	if !ok {
		subject = "Notification from Vaani"
	}
	return s.SendHTML(ctx, to, subject, buf.String())
}

// SendWelcome greets a freshly registered user.
func (s *Service) SendWelcome(ctx context.Context, user *domain.User) error {
	data := map[string]interface{}{
		"Subject":       "Welcome to Vaani!",
		"UserName":      user.Name,
		"AssistantName": user.AssistantName,
	}
	return s.SendTemplate(ctx, user.Email, "welcome", data)
}
