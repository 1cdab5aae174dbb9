package mocks

import (
	"context"

	"github.com/vaani-ai/vaani/internal/domain"
)

// MockClassifier is a mock implementation of Classifier. Calls records every
// transcript passed to Classify.
type MockClassifier struct {
	Calls        []string
	ClassifyFunc func(ctx context.Context, transcript, assistantName, userName string) domain.IntentRecord
}

func (m *MockClassifier) Classify(ctx context.Context, transcript, assistantName, userName string) domain.IntentRecord {
	m.Calls = append(m.Calls, transcript)
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, transcript, assistantName, userName)
	}
	return domain.IntentRecord{
		Kind:      domain.KindGeneral,
		UserInput: transcript,
		Response:  "ok",
	}
}

// MockMediaUploader is a mock implementation of MediaUploader
type MockMediaUploader struct {
	UploadFunc func(ctx context.Context, filename string, data []byte) (string, error)
}

func (m *MockMediaUploader) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, filename, data)
	}
	return "https://media.example.com/" + filename, nil
}

// MockEmailService is a mock implementation of EmailService
type MockEmailService struct {
	Sent            []string // recipient emails
	SendWelcomeFunc func(ctx context.Context, user *domain.User) error
}

func (m *MockEmailService) SendWelcome(ctx context.Context, user *domain.User) error {
	if m.SendWelcomeFunc != nil {
		return m.SendWelcomeFunc(ctx, user)
	}
	m.Sent = append(m.Sent, user.Email)
	return nil
}
