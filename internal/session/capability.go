// Package session implements the voice interaction loop for one connected
// client: capture, dispatch, speech, side effects, in a single event-driven
// goroutine.
//
// The host platform's speech objects are reached through the Capability
// interface so the machine can be driven in tests by a scripted fake. The
// capability reports completions back by calling the machine's event methods
// (CaptureEnded, SpeechEnded, ...); it must never call them after Close.
package session

import "errors"

// ErrCaptureAborted is reported by the capability when a capture session was
// stopped deliberately. The machine does not re-arm after it.
var ErrCaptureAborted = errors.New("capture aborted")

// Capability is the injected speech surface of the client. StartCapture and
// Speak begin asynchronous work; their completions arrive as machine events.
// StopCapture and CancelSpeech must be safe to call when nothing is open.
type Capability interface {
	StartCapture() error
	StopCapture()
	Speak(text string) error
	CancelSpeech()
}

// Opener opens a side-effect URL in a new browsing context on the client.
// Failures are reported so the machine can log them; they are never fatal.
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(url string) error

func (f OpenerFunc) Open(url string) error { return f(url) }
