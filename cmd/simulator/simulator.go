package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type SimulatorConfig struct {
	ServerURL   string
	Token       string
	Script      []string
	SpeechDelay time.Duration
	Interactive bool
}

type directive struct {
	Action string `json:"action"`
	Text   string `json:"text"`
	URL    string `json:"url"`
}

type clientEvent struct {
	Event   string `json:"event"`
	Text    string `json:"text,omitempty"`
	Error   string `json:"error,omitempty"`
	Aborted bool   `json:"aborted,omitempty"`
}

// Simulator stands in for a browser client: the server believes it is
// driving a microphone and a synthesizer.
type Simulator struct {
	config *SimulatorConfig
	conn   *websocket.Conn
	log    *zap.Logger

	mu          sync.Mutex
	capturing   bool
	speechTimer *time.Timer
	scriptPos   int

	done     chan struct{}
	stopOnce sync.Once
}

func NewSimulator(config *SimulatorConfig, log *zap.Logger) *Simulator {
	return &Simulator{
		config: config,
		log:    log,
		done:   make(chan struct{}),
	}
}

// Connect dials the session endpoint, authenticating with the JWT both as a
// Bearer header and as the session cookie.
func (s *Simulator) Connect() error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.config.Token)
	header.Set("Cookie", "token="+s.config.Token)

	conn, _, err := websocket.DefaultDialer.Dial(s.config.ServerURL, header)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.config.ServerURL, err)
	}
	s.conn = conn
	s.log.Info("connected", zap.String("url", s.config.ServerURL))

	go s.readLoop()
	return nil
}

// RunScript starts the conversation and feeds the scripted transcripts each
// time the server opens capture. It returns when the server goes quiet after
// the script ends.
func (s *Simulator) RunScript() {
	s.send(clientEvent{Event: "start"})
	<-s.done
}

// RunInteractive starts the conversation and forwards stdin lines as
// transcripts. "/stop" ends the conversation, "/quit" exits.
func (s *Simulator) RunInteractive() {
	s.send(clientEvent{Event: "start"})

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Type what the user says. /stop ends the conversation, /quit exits.")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit":
			return
		case "/stop":
			s.send(clientEvent{Event: "stop"})
		default:
			s.send(clientEvent{Event: "transcript", Text: line})
		}
	}
}

func (s *Simulator) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.conn != nil {
			s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			s.conn.Close()
		}
	})
}

func (s *Simulator) readLoop() {
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			s.log.Debug("connection closed", zap.Error(err))
			s.Stop()
			return
		}

		var d directive
		if err := json.Unmarshal(payload, &d); err != nil {
			s.log.Warn("malformed directive", zap.ByteString("payload", payload))
			continue
		}
		s.handle(d)
	}
}

func (s *Simulator) handle(d directive) {
	switch d.Action {
	case "start_capture":
		s.mu.Lock()
		s.capturing = true
		s.mu.Unlock()
		if !s.config.Interactive {
			s.feedNextLine()
		}
	case "stop_capture":
		s.mu.Lock()
		s.capturing = false
		s.mu.Unlock()
	case "speak":
		fmt.Printf("assistant: %s\n", d.Text)
		s.mu.Lock()
		s.speechTimer = time.AfterFunc(s.config.SpeechDelay, func() {
			s.send(clientEvent{Event: "speech_ended"})
		})
		s.mu.Unlock()
	case "cancel_speech":
		s.mu.Lock()
		if s.speechTimer != nil && s.speechTimer.Stop() {
			s.speechTimer = nil
			s.mu.Unlock()
			s.send(clientEvent{Event: "speech_error", Error: "interrupted"})
			return
		}
		s.mu.Unlock()
	case "open_url":
		fmt.Printf("would open: %s\n", d.URL)
	default:
		s.log.Warn("unknown directive", zap.String("action", d.Action))
	}
}

// feedNextLine speaks the next scripted transcript into the open capture,
// with a small pause so the exchange reads naturally in the logs.
func (s *Simulator) feedNextLine() {
	s.mu.Lock()
	if s.scriptPos >= len(s.config.Script) {
		s.mu.Unlock()
		// Script exhausted; hang up after the server settles.
		time.AfterFunc(2*time.Second, s.Stop)
		return
	}
	line := s.config.Script[s.scriptPos]
	s.scriptPos++
	s.mu.Unlock()

	time.AfterFunc(200*time.Millisecond, func() {
		fmt.Printf("user: %s\n", line)
		s.send(clientEvent{Event: "transcript", Text: line})
	})
}

func (s *Simulator) send(ev clientEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		s.log.Debug("write failed", zap.Error(err))
	}
}
