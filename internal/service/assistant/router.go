package assistant

import (
	"fmt"
	"time"

	"github.com/vaani-ai/vaani/internal/domain"
)

// Route maps a validated IntentRecord to its final response. Time-sensitive
// kinds are answered from now, ignoring the classifier's Response, since a
// model cannot know the wall clock. Recognized pass-through kinds
// keep the record unchanged. Anything else is ErrUnrecognizedKind, terminal
// for the turn.
//
// Route is pure and synchronous; the clock is a parameter so callers and
// tests control it.
func Route(rec domain.IntentRecord, now time.Time) (*domain.RoutedResponse, error) {
	if !rec.Kind.Valid() {
		return nil, domain.ErrUnrecognizedKind
	}

	out := &domain.RoutedResponse{
		Kind:      rec.Kind,
		UserInput: rec.UserInput,
		Response:  rec.Response,
	}

	switch rec.Kind {
	case domain.KindGetDate:
		out.Response = fmt.Sprintf("Today's date is %s", now.Format("02-01-2006"))
	case domain.KindGetTime:
		out.Response = fmt.Sprintf("Current time is %s", now.Format("03:04 PM"))
	case domain.KindGetDay:
		out.Response = fmt.Sprintf("Today is %s", now.Weekday())
	case domain.KindGetMonth:
		out.Response = fmt.Sprintf("Current month is %s", now.Month())
	}

	return out, nil
}
