package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vaani-ai/vaani/internal/domain"
	"github.com/vaani-ai/vaani/internal/mocks"
)

const testSecret = "test-secret-key"

func newTestService(repo *mocks.MockUserRepository, cache *mocks.MockCache) *Service {
	return NewService(repo, cache, nil, testSecret, 10*24*time.Hour, zap.NewNop())
}

func TestSignUp_Success(t *testing.T) {
	ctx := context.Background()
	var saved *domain.User

	repo := &mocks.MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, nil
		},
		SaveFunc: func(ctx context.Context, user *domain.User) error {
			saved = user
			return nil
		},
	}
	service := newTestService(repo, mocks.NewMockCache())

	user, token, err := service.SignUp(ctx, "Asha", "asha@example.com", "password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Error("expected a token, got empty string")
	}
	if saved == nil {
		t.Fatal("expected user to be saved")
	}
	if saved.Password == "password123" {
		t.Error("password stored in plain text")
	}
	if user.AssistantName != "Assistant" {
		t.Errorf("expected default assistant name, got %q", user.AssistantName)
	}

	// The issued token must validate and resolve back to the new user.
	repo.FindByIDFunc = func(ctx context.Context, id string) (*domain.User, error) {
		if id == saved.ID {
			return saved, nil
		}
		return nil, nil
	}
	got, err := service.ValidateToken(ctx, token)
	if err != nil {
		t.Fatalf("issued token failed validation: %v", err)
	}
	if got.ID != saved.ID {
		t.Errorf("token resolved to %q, want %q", got.ID, saved.ID)
	}
}

func TestSignUp_EmailTaken(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: email}, nil
		},
	}
	service := newTestService(repo, mocks.NewMockCache())

	_, _, err := service.SignUp(ctx, "Asha", "asha@example.com", "password123")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignIn_Success(t *testing.T) {
	ctx := context.Background()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	stored := &domain.User{ID: "user-1", Email: "asha@example.com", Password: string(hashed)}

	repo := &mocks.MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, nil
		},
	}
	service := newTestService(repo, mocks.NewMockCache())

	user, token, err := service.SignIn(ctx, "asha@example.com", "password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Error("expected a token, got empty string")
	}
	if user.ID != "user-1" {
		t.Errorf("got user %q, want user-1", user.ID)
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	ctx := context.Background()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	repo := &mocks.MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Password: string(hashed)}, nil
		},
	}
	service := newTestService(repo, mocks.NewMockCache())

	_, _, err := service.SignIn(ctx, "asha@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignIn_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, nil
		},
	}
	service := newTestService(repo, mocks.NewMockCache())

	_, _, err := service.SignIn(ctx, "nobody@example.com", "password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	ctx := context.Background()
	stored := &domain.User{ID: "user-1", Email: "asha@example.com"}
	repo := &mocks.MockUserRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			return stored, nil
		},
	}
	cache := mocks.NewMockCache()
	service := newTestService(repo, cache)

	token, err := service.generateToken(stored)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := service.ValidateToken(ctx, token); err != nil {
		t.Fatalf("token invalid before logout: %v", err)
	}

	if err := service.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := service.ValidateToken(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after logout, got %v", err)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	ctx := context.Background()
	service := newTestService(&mocks.MockUserRepository{}, mocks.NewMockCache())

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"jti": "jti-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	tokenStr, _ := token.SignedString([]byte(testSecret))

	if _, err := service.ValidateToken(ctx, tokenStr); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	ctx := context.Background()
	service := newTestService(&mocks.MockUserRepository{}, mocks.NewMockCache())

	if _, err := service.ValidateToken(ctx, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateToken_UserDeleted(t *testing.T) {
	ctx := context.Background()
	stored := &domain.User{ID: "user-1"}
	repo := &mocks.MockUserRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			return nil, nil
		},
	}
	service := newTestService(repo, mocks.NewMockCache())

	token, err := service.generateToken(stored)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := service.ValidateToken(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
