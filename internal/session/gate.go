package session

import "sync"

// resourceGate tracks the two exclusive client resources, the microphone and
// the synthesizer. Capture may only open while both are free; speech may only
// open while no speech is in flight. Holders must release on every exit path,
// including error paths, or the session wedges.
type resourceGate struct {
	mu        sync.Mutex
	capturing bool
	speaking  bool
}

func newResourceGate() *resourceGate { return &resourceGate{} }

// AcquireCapture claims the microphone. It refuses while a capture is already
// open or while speech is in flight, so capture never overlaps either.
func (g *resourceGate) AcquireCapture() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.capturing || g.speaking {
		return false
	}
	g.capturing = true
	return true
}

func (g *resourceGate) ReleaseCapture() {
	g.mu.Lock()
	g.capturing = false
	g.mu.Unlock()
}

// AcquireSpeech claims the synthesizer. Capture may still be open at this
// point; the caller is expected to stop it before speaking.
func (g *resourceGate) AcquireSpeech() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.speaking {
		return false
	}
	g.speaking = true
	return true
}

func (g *resourceGate) ReleaseSpeech() {
	g.mu.Lock()
	g.speaking = false
	g.mu.Unlock()
}

func (g *resourceGate) Capturing() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.capturing
}

func (g *resourceGate) Speaking() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.speaking
}
