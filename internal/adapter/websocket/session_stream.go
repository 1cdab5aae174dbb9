// Package websocket connects browser clients to their voice session. The
// browser owns the microphone and the synthesizer; this transport relays the
// machine's directives out and the client's speech events back in.
//
// Frames are JSON text messages. Server to client:
//
//	{"action":"start_capture"}
//	{"action":"stop_capture"}
//	{"action":"speak","text":"..."}
//	{"action":"cancel_speech"}
//	{"action":"open_url","url":"..."}
//
// Client to server:
//
//	{"event":"start" | "stop" | "arm"}
//	{"event":"transcript","text":"..."}
//	{"event":"capture_ended"}
//	{"event":"capture_error","error":"...","aborted":bool}
//	{"event":"speech_ended"}
//	{"event":"speech_error","error":"..."}
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/vaani-ai/vaani/internal/domain"
	"github.com/vaani-ai/vaani/internal/ports"
	"github.com/vaani-ai/vaani/internal/session"
)

type directive struct {
	Action string `json:"action"`
	Text   string `json:"text,omitempty"`
	URL    string `json:"url,omitempty"`
}

type clientEvent struct {
	Event   string `json:"event"`
	Text    string `json:"text,omitempty"`
	Error   string `json:"error,omitempty"`
	Aborted bool   `json:"aborted,omitempty"`
}

// remoteCapability satisfies session.Capability and session.Opener by
// sending directives over the socket. Writes are serialized; the machine
// loop and fiber's close path can race otherwise.
type remoteCapability struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

var (
	_ session.Capability = (*remoteCapability)(nil)
	_ session.Opener     = (*remoteCapability)(nil)
)

func (r *remoteCapability) send(d directive) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn.WriteMessage(websocket.TextMessage, payload)
}

func (r *remoteCapability) StartCapture() error {
	return r.send(directive{Action: "start_capture"})
}

func (r *remoteCapability) StopCapture() {
	_ = r.send(directive{Action: "stop_capture"})
}

func (r *remoteCapability) Speak(text string) error {
	return r.send(directive{Action: "speak", Text: text})
}

func (r *remoteCapability) CancelSpeech() {
	_ = r.send(directive{Action: "cancel_speech"})
}

func (r *remoteCapability) Open(url string) error {
	return r.send(directive{Action: "open_url", URL: url})
}

// SessionHandler upgrades authenticated clients into a live voice session.
type SessionHandler struct {
	assistant ports.AssistantService
	watchdog  time.Duration
	log       *zap.Logger
}

func NewSessionHandler(assistantSvc ports.AssistantService, watchdog time.Duration, log *zap.Logger) *SessionHandler {
	return &SessionHandler{assistant: assistantSvc, watchdog: watchdog, log: log}
}

// HandleSession runs one connection. The machine lives exactly as long as
// the socket; closing either tears down the other.
func (h *SessionHandler) HandleSession(c *websocket.Conn) {
	userID, _ := c.Locals("user_id").(string)
	user, _ := c.Locals("user").(*domain.User)

	assistantName := ""
	if user != nil {
		assistantName = user.AssistantName
	}

	remote := &remoteCapability{conn: c}
	machine := session.NewMachine(session.Config{
		Capability: remote,
		Opener:     remote,
		Ask: func(ctx context.Context, command string) (*domain.RoutedResponse, error) {
			return h.assistant.Ask(ctx, userID, command)
		},
		AssistantName: assistantName,
		Watchdog:      h.watchdog,
		Log:           h.log.With(zap.String("user_id", userID)),
	})
	go machine.Run()
	defer machine.Close()

	for {
		_, payload, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("session read ended", zap.Error(err))
			}
			return
		}

		var ev clientEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			h.log.Warn("malformed session event", zap.Error(err))
			continue
		}
		h.dispatch(machine, ev)
	}
}

func (h *SessionHandler) dispatch(machine *session.Machine, ev clientEvent) {
	switch ev.Event {
	case "start":
		machine.Start()
	case "stop":
		machine.Stop()
	case "arm":
		machine.ArmListening()
	case "transcript":
		if ev.Text != "" {
			machine.HandleTranscript(ev.Text)
		}
	case "capture_ended":
		machine.CaptureEnded()
	case "capture_error":
		if ev.Aborted {
			machine.CaptureError(session.ErrCaptureAborted)
		} else {
			machine.CaptureError(errors.New(ev.Error))
		}
	case "speech_ended":
		machine.SpeechEnded()
	case "speech_error":
		machine.SpeechError(errors.New(ev.Error))
	default:
		h.log.Warn("unknown session event", zap.String("event", ev.Event))
	}
}

// SetupSessionRoutes mounts the websocket endpoint behind the auth
// middleware.
func SetupSessionRoutes(app *fiber.App, handler *SessionHandler, auth fiber.Handler) {
	app.Use("/ws/session", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/session", auth, websocket.New(handler.HandleSession))
}
