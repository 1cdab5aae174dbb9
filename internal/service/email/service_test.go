package email

import (
	"context"
	"errors"
	"html/template"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/vaani-ai/vaani/internal/domain"
)

type mockProvider struct {
	sent    []mockEmail
	sendErr error
}

type mockEmail struct {
	to      string
	subject string
	body    string
	isHTML  bool
}

func (m *mockProvider) Send(ctx context.Context, to, subject, body string, isHTML bool) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, mockEmail{to: to, subject: subject, body: body, isHTML: isHTML})
	return nil
}

func newTestService(provider *mockProvider) *Service {
	s := &Service{
		config: &Config{
			Provider:  "mock",
			FromEmail: "test@vaani.ai",
			FromName:  "Vaani Test",
			BaseURL:   "http://localhost:3000",
		},
		provider:  provider,
		templates: make(map[string]*template.Template),
		log:       zap.NewNop(),
	}
	s.templates["welcome"] = template.Must(template.New("welcome").Parse(welcomeTemplate))
	return s
}

func TestSend_Success(t *testing.T) {
	provider := &mockProvider{}
	service := newTestService(provider)

	err := service.Send(context.Background(), "user@example.com", "Hello", "Body")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(provider.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(provider.sent))
	}
	if provider.sent[0].isHTML {
		t.Error("plain send flagged as HTML")
	}
}

func TestSend_ProviderError(t *testing.T) {
	provider := &mockProvider{sendErr: errors.New("provider down")}
	service := newTestService(provider)

	err := service.Send(context.Background(), "user@example.com", "Hello", "Body")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestSendWelcome_RendersNames(t *testing.T) {
	provider := &mockProvider{}
	service := newTestService(provider)

	user := &domain.User{
		Name:          "Asha",
		Email:         "asha@example.com",
		AssistantName: "Jarvis",
	}
	if err := service.SendWelcome(context.Background(), user); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(provider.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(provider.sent))
	}
	sent := provider.sent[0]
	if sent.to != "asha@example.com" {
		t.Errorf("sent to %q", sent.to)
	}
	if sent.subject != "Welcome to Vaani!" {
		t.Errorf("subject = %q", sent.subject)
	}
	if !sent.isHTML {
		t.Error("welcome mail not HTML")
	}
	if !strings.Contains(sent.body, "Asha") || !strings.Contains(sent.body, "Jarvis") {
		t.Error("welcome body missing user or assistant name")
	}
}

func TestSendTemplate_Unknown(t *testing.T) {
	service := newTestService(&mockProvider{})

	err := service.SendTemplate(context.Background(), "user@example.com", "missing", nil)
	if err == nil {
		t.Fatal("expected error for unknown template, got nil")
	}
}

func TestNewService_RequiresSendGridKey(t *testing.T) {
	_, err := NewService(&Config{Provider: "sendgrid"}, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for missing API key, got nil")
	}
}
