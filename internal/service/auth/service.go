// Package auth issues and validates the session tokens that protect the user
// and assistant endpoints. Tokens are long-lived HS256 JWTs delivered to the
// client in a cookie; logout revokes a token by denylisting its ID until it
// would have expired anyway.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vaani-ai/vaani/internal/domain"
	"github.com/vaani-ai/vaani/internal/ports"
)

const (
	denylistPrefix       = "auth:denylist:"
	defaultAssistantName = "Assistant"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
)

type Service struct {
	userRepo ports.UserRepository
	cache    ports.Cache
	email    ports.EmailService
	secret   []byte
	tokenTTL time.Duration
	log      *zap.Logger
}

var _ ports.AuthService = (*Service)(nil)

// NewService builds the auth service. email may be nil; welcome mail is then
// skipped.
func NewService(userRepo ports.UserRepository, cache ports.Cache, email ports.EmailService, jwtSecret string, tokenTTL time.Duration, log *zap.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		cache:    cache,
		email:    email,
		secret:   []byte(jwtSecret),
		tokenTTL: tokenTTL,
		log:      log,
	}
}

func (s *Service) SignUp(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("auth: lookup email: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("auth: hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:            uuid.NewString(),
		Name:          name,
		Email:         email,
		Password:      string(hashed),
		AssistantName: defaultAssistantName,
		Status:        "Active",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, "", fmt.Errorf("auth: save user: %w", err)
	}

	if s.email != nil {
		// The account exists regardless of whether the mail arrives.
		go func(u domain.User) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.email.SendWelcome(ctx, &u); err != nil {
				s.log.Warn("welcome email failed",
					zap.String("user_id", u.ID), zap.Error(err))
			}
		}(*user)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil || user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout revokes the presented token. The denylist entry lives exactly as
// long as the token would have remained valid.
func (s *Service) Logout(ctx context.Context, tokenStr string) error {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return ErrInvalidToken
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return ErrInvalidToken
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return ErrInvalidToken
	}

	remaining := time.Until(exp.Time)
	if remaining <= 0 {
		return nil
	}
	if err := s.cache.Set(ctx, denylistPrefix+jti, "revoked", remaining); err != nil {
		return fmt.Errorf("auth: denylist token: %w", err)
	}
	return nil
}

func (s *Service) ValidateToken(ctx context.Context, tokenStr string) (*domain.User, error) {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if jti, _ := claims["jti"].(string); jti != "" {
		if val, err := s.cache.Get(ctx, denylistPrefix+jti); err == nil && val != "" {
			return nil, ErrInvalidToken
		}
	}

	userID, _ := claims["sub"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("auth: lookup user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}

func (s *Service) parse(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}
