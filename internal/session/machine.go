package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vaani-ai/vaani/internal/domain"
	"github.com/vaani-ai/vaani/internal/observability/telemetry"
)

const (
	// GoodbyeMessage is spoken when a stop phrase ends the conversation.
	GoodbyeMessage = "Goodbye! Have a great day."

	// greetingTemplate is spoken once on explicit activation.
	greetingTemplate = "Hello, I am %s. How can I help you?"

	// rejectedMessage covers commands the router refused to handle.
	rejectedMessage = "Sorry, I didn't understand that. Please try again."

	// DefaultWatchdogInterval is how often the machine checks that a
	// conversation-active session still has an open capture.
	DefaultWatchdogInterval = 10 * time.Second
)

// stopPhrases end the conversation when they appear anywhere in a transcript.
// Matching is case-insensitive and checked before the wake-name scan.
var stopPhrases = []string{
	"stop listening",
	"goodbye",
	"bas karo",
	"ruk jao",
	"chup ho jao",
}

// AskFunc dispatches a spoken command for classification and routing and
// returns the response to speak. Implemented by the assistant service.
type AskFunc func(ctx context.Context, command string) (*domain.RoutedResponse, error)

type eventKind int

const (
	evStart eventKind = iota
	evStop
	evArmListening
	evTranscript
	evCaptureEnded
	evCaptureError
	evSpeechEnded
	evSpeechError
	evRouted
)

type event struct {
	kind   eventKind
	text   string
	err    error
	routed *domain.RoutedResponse
}

// Machine runs the interaction loop for a single user session. All state is
// owned by one goroutine; external inputs arrive as events, so no handler
// ever observes another handler half-done.
type Machine struct {
	cap           Capability
	opener        Opener
	ask           AskFunc
	assistantName string
	watchdog      time.Duration
	log           *zap.Logger

	events chan event
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	// loop-owned state below; stateMu only guards the phase and mode
	// fields so outside readers see a consistent value.
	stateMu    sync.Mutex
	phase      domain.Phase
	mode       domain.Mode
	gate       *resourceGate
	pendingURL string
}

// Config carries the collaborators of a Machine. Opener and Log are optional.
type Config struct {
	Capability    Capability
	Opener        Opener
	Ask           AskFunc
	AssistantName string
	Watchdog      time.Duration
	Log           *zap.Logger
}

// NewMachine builds a stopped machine. Run must be called before any input
// method; inputs sent after Close are discarded.
func NewMachine(cfg Config) *Machine {
	if cfg.Watchdog <= 0 {
		cfg.Watchdog = DefaultWatchdogInterval
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.AssistantName == "" {
		cfg.AssistantName = "Assistant"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Machine{
		cap:           cfg.Capability,
		opener:        cfg.Opener,
		ask:           cfg.Ask,
		assistantName: cfg.AssistantName,
		watchdog:      cfg.Watchdog,
		log:           cfg.Log,
		events:        make(chan event, 16),
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
		phase:         domain.PhaseIdle,
		mode:          domain.ModeInactive,
		gate:          newResourceGate(),
	}
}

// Run drives the event loop until Close. It must be called exactly once,
// normally on its own goroutine.
func (m *Machine) Run() {
	telemetry.ActiveVoiceSessions.Inc()
	defer telemetry.ActiveVoiceSessions.Dec()

	ticker := time.NewTicker(m.watchdog)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			m.shutdown()
			return
		case <-ticker.C:
			m.onWatchdog()
		case ev := <-m.events:
			m.dispatch(ev)
		}
	}
}

// Close ends the session. Open capture is stopped, in-flight speech is
// cancelled, and no callback fires afterwards. Safe to call more than once.
func (m *Machine) Close() {
	m.once.Do(func() {
		m.cancel()
		<-m.done
	})
}

// Phase reports the current interaction phase. Meant for tests and status
// endpoints; the value may be stale by the time the caller reads it.
func (m *Machine) Phase() domain.Phase {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	return m.phase
}

// Mode reports whether the conversation is active.
func (m *Machine) Mode() domain.Mode {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	return m.mode
}

func (m *Machine) setPhase(p domain.Phase) {
	m.stateMu.Lock()
	m.phase = p
	m.stateMu.Unlock()
}

func (m *Machine) setMode(md domain.Mode) {
	m.stateMu.Lock()
	m.mode = md
	m.stateMu.Unlock()
}

// Start activates conversation mode and greets the user.
func (m *Machine) Start() { m.post(event{kind: evStart}) }

// Stop deactivates the session as if a stop phrase had been heard.
func (m *Machine) Stop() { m.post(event{kind: evStop}) }

// ArmListening opens capture without entering conversation mode, so the
// machine waits passively for its wake name.
func (m *Machine) ArmListening() { m.post(event{kind: evArmListening}) }

// HandleTranscript feeds a finalized recognition result into the loop.
func (m *Machine) HandleTranscript(text string) {
	m.post(event{kind: evTranscript, text: text})
}

// CaptureEnded reports that the capture session closed on its own.
func (m *Machine) CaptureEnded() { m.post(event{kind: evCaptureEnded}) }

// CaptureError reports a capture failure. ErrCaptureAborted marks a
// deliberate stop and suppresses the automatic restart.
func (m *Machine) CaptureError(err error) { m.post(event{kind: evCaptureError, err: err}) }

// SpeechEnded reports that synthesis finished playing.
func (m *Machine) SpeechEnded() { m.post(event{kind: evSpeechEnded}) }

// SpeechError reports that synthesis failed or was interrupted.
func (m *Machine) SpeechError(err error) { m.post(event{kind: evSpeechError, err: err}) }

func (m *Machine) post(ev event) {
	select {
	case m.events <- ev:
	case <-m.ctx.Done():
	}
}

func (m *Machine) dispatch(ev event) {
	switch ev.kind {
	case evStart:
		m.onStart()
	case evStop:
		m.deactivate()
	case evArmListening:
		m.armCapture()
	case evTranscript:
		m.onTranscript(ev.text)
	case evCaptureEnded:
		m.onCaptureClosed(nil)
	case evCaptureError:
		m.onCaptureClosed(ev.err)
	case evSpeechEnded:
		m.onSpeechClosed(nil)
	case evSpeechError:
		m.onSpeechClosed(ev.err)
	case evRouted:
		m.onRouted(ev.routed, ev.err)
	}
}

func (m *Machine) onStart() {
	if m.Mode() == domain.ModeConversationActive {
		return
	}
	m.setMode(domain.ModeConversationActive)
	m.speak(fmt.Sprintf(greetingTemplate, m.assistantName), "")
}

func (m *Machine) onTranscript(text string) {
	lower := strings.ToLower(text)

	// Stop phrases win over everything, including the wake name.
	for _, phrase := range stopPhrases {
		if strings.Contains(lower, phrase) {
			m.deactivate()
			return
		}
	}

	if m.Mode() == domain.ModeInactive {
		if !strings.Contains(lower, strings.ToLower(m.assistantName)) {
			// Not addressed to us. Keep listening.
			m.log.Debug("transcript discarded, wake name absent")
			return
		}
		m.setMode(domain.ModeConversationActive)
	}

	m.stopCapture()
	m.setPhase(domain.PhaseProcessing)

	// Classification is a network round trip; run it off the loop and feed
	// the result back as an event so the watchdog keeps ticking.
	go func() {
		routed, err := m.ask(m.ctx, text)
		m.post(event{kind: evRouted, routed: routed, err: err})
	}()
}

func (m *Machine) onRouted(routed *domain.RoutedResponse, err error) {
	// A stop phrase may have ended the conversation while the classify was
	// in flight; the late reply is dropped, not spoken over the goodbye.
	if m.Mode() == domain.ModeInactive {
		m.log.Debug("dropping routed result after deactivation")
		return
	}
	if err != nil {
		m.log.Warn("command dispatch failed", zap.Error(err))
		m.speak(rejectedMessage, "")
		return
	}
	var target string
	if routed.Kind.OpensURL() {
		if u, ok := ActionURL(routed.Kind, routed.UserInput); ok {
			target = u
		}
	}
	m.speak(routed.Response, target)
}

// deactivate ends the conversation: capture halts, mode drops to Inactive,
// and the goodbye message plays. A second stop while already inactive is a
// no-op so the goodbye never doubles.
func (m *Machine) deactivate() {
	if m.Mode() == domain.ModeInactive {
		return
	}
	m.stopCapture()
	m.setMode(domain.ModeInactive)
	m.speak(GoodbyeMessage, "")
}

func (m *Machine) onCaptureClosed(err error) {
	m.gate.ReleaseCapture()
	if m.Phase() == domain.PhaseListening {
		m.setPhase(domain.PhaseIdle)
	}
	if err == ErrCaptureAborted {
		return
	}
	if err != nil {
		m.log.Warn("capture failed", zap.Error(err))
	}
	if m.Mode() == domain.ModeConversationActive && !m.gate.Speaking() {
		m.armCapture()
	}
}

func (m *Machine) onSpeechClosed(err error) {
	m.gate.ReleaseSpeech()
	if err != nil {
		m.log.Warn("speech failed", zap.Error(err))
		m.pendingURL = ""
	}
	if m.pendingURL != "" {
		if m.opener != nil {
			if openErr := m.opener.Open(m.pendingURL); openErr != nil {
				m.log.Warn("side effect failed",
					zap.String("url", m.pendingURL), zap.Error(openErr))
			}
		}
		m.pendingURL = ""
	}
	m.setPhase(domain.PhaseIdle)
	if m.Mode() == domain.ModeConversationActive {
		m.armCapture()
	}
}

// speak stops any open capture, claims the synthesizer and plays text. The
// URL, if any, is held until the speech finishes cleanly.
func (m *Machine) speak(text, url string) {
	m.stopCapture()
	if !m.gate.AcquireSpeech() {
		// A previous utterance is still playing. Cut it; its closing
		// event will release the gate we re-acquire here.
		m.cap.CancelSpeech()
		m.gate.ReleaseSpeech()
		m.gate.AcquireSpeech()
	}
	m.pendingURL = url
	m.setPhase(domain.PhaseSpeaking)
	if err := m.cap.Speak(text); err != nil {
		m.log.Warn("speech refused", zap.Error(err))
		m.onSpeechClosed(err)
	}
}

// armCapture opens the microphone when both resources are free. Refusal is
// normal; the watchdog retries.
func (m *Machine) armCapture() {
	if !m.gate.AcquireCapture() {
		return
	}
	if err := m.cap.StartCapture(); err != nil {
		m.gate.ReleaseCapture()
		m.log.Warn("capture refused", zap.Error(err))
		return
	}
	m.setPhase(domain.PhaseListening)
}

// onWatchdog restores capture for an active conversation that lost it, for
// example after a recognizer that closed without an event reaching us.
func (m *Machine) onWatchdog() {
	if m.Mode() != domain.ModeConversationActive {
		return
	}
	if m.gate.Capturing() || m.gate.Speaking() {
		return
	}
	m.armCapture()
}

func (m *Machine) shutdown() {
	if m.gate.Capturing() {
		m.cap.StopCapture()
		m.gate.ReleaseCapture()
	}
	if m.gate.Speaking() {
		m.cap.CancelSpeech()
		m.gate.ReleaseSpeech()
	}
	m.setPhase(domain.PhaseIdle)
	m.setMode(domain.ModeInactive)
	close(m.done)
}

func (m *Machine) stopCapture() {
	if !m.gate.Capturing() {
		return
	}
	m.cap.StopCapture()
	m.gate.ReleaseCapture()
	if m.Phase() == domain.PhaseListening {
		m.setPhase(domain.PhaseIdle)
	}
}
