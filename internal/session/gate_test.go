package session

import "testing"

func TestGateCaptureExcludesSpeech(t *testing.T) {
	g := newResourceGate()

	if !g.AcquireSpeech() {
		t.Fatal("fresh gate refused speech")
	}
	if g.AcquireCapture() {
		t.Fatal("capture opened while speaking")
	}
	g.ReleaseSpeech()
	if !g.AcquireCapture() {
		t.Fatal("capture refused after speech released")
	}
}

func TestGateRefusesDoubleAcquire(t *testing.T) {
	g := newResourceGate()

	if !g.AcquireCapture() {
		t.Fatal("fresh gate refused capture")
	}
	if g.AcquireCapture() {
		t.Fatal("second capture acquire succeeded")
	}

	if !g.AcquireSpeech() {
		t.Fatal("speech refused while capturing")
	}
	if g.AcquireSpeech() {
		t.Fatal("second speech acquire succeeded")
	}
}

func TestGateReleaseRestoresAvailability(t *testing.T) {
	g := newResourceGate()

	g.AcquireCapture()
	g.ReleaseCapture()
	if g.Capturing() {
		t.Fatal("capturing after release")
	}
	if !g.AcquireCapture() {
		t.Fatal("capture refused after release")
	}
}
