package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vaani-ai/vaani/internal/adapter/queue"
	"github.com/vaani-ai/vaani/internal/domain"
	"github.com/vaani-ai/vaani/internal/observability/telemetry"
	"github.com/vaani-ai/vaani/internal/ports"
)

var (
	ErrEmptyCommand = errors.New("command is empty")
	ErrUserNotFound = errors.New("user not found")
)

const (
	profileCacheTTL    = 5 * time.Minute
	profileCachePrefix = "user:profile:"
	commandsSubject    = "assistant.commands"
)

type Service struct {
	userRepo    ports.UserRepository
	historyRepo ports.HistoryRepository
	classifier  ports.Classifier
	cache       ports.Cache
	mq          queue.MessageQueue // nil disables event publishing
	defaultName string
	log         *zap.Logger
}

func NewService(
	userRepo ports.UserRepository,
	historyRepo ports.HistoryRepository,
	classifier ports.Classifier,
	cache ports.Cache,
	mq queue.MessageQueue,
	defaultName string,
	log *zap.Logger,
) ports.AssistantService {
	if defaultName == "" {
		defaultName = "Assistant"
	}
	return &Service{
		userRepo:    userRepo,
		historyRepo: historyRepo,
		classifier:  classifier,
		cache:       cache,
		mq:          mq,
		defaultName: defaultName,
		log:         log,
	}
}

// commandEvent is published to the queue for each accepted command.
type commandEvent struct {
	UserID  string      `json:"user_id"`
	Command string      `json:"command"`
	Kind    domain.Kind `json:"kind"`
	At      time.Time   `json:"at"`
}

// Ask runs one command turn: validate, record in history, classify, route.
// The classifier absorbs its own failures, so the only errors here are an
// empty command, an unknown user, a history write failure, or an
// unrecognized kind from the router.
func (s *Service) Ask(ctx context.Context, userID, command string) (*domain.RoutedResponse, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, ErrEmptyCommand
	}

	user, err := s.CurrentProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry := &domain.HistoryEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Command:   command,
		CreatedAt: time.Now(),
	}
	if err := s.historyRepo.Append(ctx, entry); err != nil {
		return nil, err
	}

	assistantName := user.AssistantName
	if assistantName == "" {
		assistantName = s.defaultName
	}
	userName := user.Name
	if userName == "" {
		userName = "User"
	}

	rec := s.classifier.Classify(ctx, command, assistantName, userName)

	routed, err := Route(rec, time.Now())
	if err != nil {
		telemetry.CommandsTotal.WithLabelValues(string(rec.Kind), "rejected").Inc()
		s.log.Warn("Rejected command",
			zap.String("user_id", userID),
			zap.String("kind", string(rec.Kind)),
		)
		return nil, err
	}

	telemetry.CommandsTotal.WithLabelValues(string(routed.Kind), "ok").Inc()
	s.publishEvent(userID, command, routed.Kind)

	return routed, nil
}

func (s *Service) publishEvent(userID, command string, kind domain.Kind) {
	if s.mq == nil {
		return
	}
	data, err := json.Marshal(commandEvent{
		UserID:  userID,
		Command: command,
		Kind:    kind,
		At:      time.Now(),
	})
	if err != nil {
		return
	}
	// Fire-and-forget: losing an event never fails the turn.
	if err := s.mq.Publish(commandsSubject, data); err != nil {
		s.log.Warn("Failed to publish command event", zap.Error(err))
	}
}

// CurrentProfile loads the user, serving repeated reads from the cache.
func (s *Service) CurrentProfile(ctx context.Context, userID string) (*domain.User, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, profileCachePrefix+userID); err == nil && cached != "" {
			var user domain.User
			if err := json.Unmarshal([]byte(cached), &user); err == nil {
				return &user, nil
			}
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if s.cache != nil {
		if data, err := json.Marshal(user); err == nil {
			if err := s.cache.Set(ctx, profileCachePrefix+userID, string(data), profileCacheTTL); err != nil {
				s.log.Debug("Failed to cache profile", zap.Error(err))
			}
		}
	}

	return user, nil
}

// UpdateProfile changes the assistant name and/or image. Empty fields are
// left untouched. The cached profile is invalidated.
func (s *Service) UpdateProfile(ctx context.Context, userID, assistantName, assistantImage string) (*domain.User, error) {
	fields := map[string]interface{}{}
	if assistantName != "" {
		fields["assistant_name"] = assistantName
	}
	if assistantImage != "" {
		fields["assistant_image"] = assistantImage
	}
	if len(fields) == 0 {
		return s.CurrentProfile(ctx, userID)
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, fields)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, profileCachePrefix+userID); err != nil {
			s.log.Debug("Failed to invalidate cached profile", zap.Error(err))
		}
	}

	return user, nil
}

func (s *Service) History(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error) {
	return s.historyRepo.ListByUser(ctx, userID, limit)
}
