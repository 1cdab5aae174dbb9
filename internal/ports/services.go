package ports

import (
	"context"
	"time"

	"github.com/vaani-ai/vaani/internal/domain"
)

type AuthService interface {
	SignUp(ctx context.Context, name, email, password string) (*domain.User, string, error) // user, token, err
	SignIn(ctx context.Context, email, password string) (*domain.User, string, error)
	Logout(ctx context.Context, token string) error
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
}

// Classifier is the intent-classification boundary. It never fails: every
// transport or parse problem is absorbed into a fallback record with
// kind "general" and a fixed apology, so callers always receive a
// structurally valid record.
type Classifier interface {
	Classify(ctx context.Context, transcript, assistantName, userName string) domain.IntentRecord
}

// AssistantService runs one command turn: history append, classification,
// routing. Route alone is exposed for callers that already hold a record.
type AssistantService interface {
	Ask(ctx context.Context, userID, command string) (*domain.RoutedResponse, error)
	CurrentProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, assistantName, assistantImage string) (*domain.User, error)
	History(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error)
}

// MediaUploader pushes an image to the external media host and returns the
// hosted URL.
type MediaUploader interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

type EmailService interface {
	SendWelcome(ctx context.Context, user *domain.User) error
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
