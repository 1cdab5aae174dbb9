package health

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestLiveAlwaysUp(t *testing.T) {
	s := NewService("vaani", "v1.0.0", zap.NewNop())

	resp := s.Live()
	if resp.Status != StatusUp {
		t.Fatalf("expected up, got %s", resp.Status)
	}
	if resp.Service != "vaani" || resp.Version != "v1.0.0" {
		t.Fatalf("unexpected identity: %+v", resp)
	}
}

func TestReadyAllChecksPass(t *testing.T) {
	s := NewService("vaani", "v1.0.0", zap.NewNop())
	s.Register("database", func(ctx context.Context) error { return nil })
	s.Register("cache", func(ctx context.Context) error { return nil })

	resp := s.Ready(context.Background())
	if resp.Status != StatusUp {
		t.Fatalf("expected up, got %s", resp.Status)
	}
	if len(resp.Checks) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(resp.Checks))
	}
	for name, result := range resp.Checks {
		if result.Status != StatusUp {
			t.Errorf("check %s: expected up, got %s", name, result.Status)
		}
		if result.Latency == "" {
			t.Errorf("check %s: missing latency", name)
		}
	}
}

func TestReadyOneCheckFails(t *testing.T) {
	s := NewService("vaani", "v1.0.0", zap.NewNop())
	s.Register("database", func(ctx context.Context) error { return nil })
	s.Register("cache", func(ctx context.Context) error { return errors.New("connection refused") })

	resp := s.Ready(context.Background())
	if resp.Status != StatusDown {
		t.Fatalf("expected down, got %s", resp.Status)
	}
	if resp.Checks["database"].Status != StatusUp {
		t.Errorf("database should still be up")
	}
	if resp.Checks["cache"].Status != StatusDown {
		t.Errorf("cache should be down")
	}
	if resp.Checks["cache"].Error != "connection refused" {
		t.Errorf("expected error message, got %q", resp.Checks["cache"].Error)
	}
}

func TestReadyNilCheckerDisabled(t *testing.T) {
	s := NewService("vaani", "v1.0.0", zap.NewNop())
	s.Register("queue", nil)

	resp := s.Ready(context.Background())
	if resp.Status != StatusUp {
		t.Fatalf("disabled check must not fail readiness, got %s", resp.Status)
	}
	if resp.Checks["queue"].Status != StatusDisabled {
		t.Fatalf("expected disabled, got %s", resp.Checks["queue"].Status)
	}
}
