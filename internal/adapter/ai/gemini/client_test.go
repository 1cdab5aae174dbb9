package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/vaani-ai/vaani/internal/domain"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

// candidateReply wraps text in a generateContent response envelope.
func candidateReply(t *testing.T, text string) []byte {
	t.Helper()
	payload := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal reply: %v", err)
	}
	return data
}

func newClientFor(ts *httptest.Server) *Client {
	return NewClient(ts.URL, "test-key", "gemini-2.0-flash", 5*time.Second, newTestLogger())
}

func TestClassify_Success(t *testing.T) {
	reply := `{"type":"youtube-search","userInput":"search cat videos on YouTube","response":"Searching YouTube for cat videos."}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Write(candidateReply(t, reply))
	}))
	defer ts.Close()

	rec := newClientFor(ts).Classify(context.Background(), "search cat videos on YouTube", "Alexa", "Ravi")

	if rec.Kind != domain.KindYouTubeSearch {
		t.Errorf("expected kind youtube-search, got %q", rec.Kind)
	}
	if rec.UserInput != "search cat videos on YouTube" {
		t.Errorf("expected verbatim user input, got %q", rec.UserInput)
	}
	if rec.Response != "Searching YouTube for cat videos." {
		t.Errorf("unexpected response: %q", rec.Response)
	}
}

func TestClassify_StripsCodeFences(t *testing.T) {
	fenced := "```json\n{\"type\":\"general\",\"userInput\":\"hi\",\"response\":\"Hello!\"}\n```"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateReply(t, fenced))
	}))
	defer ts.Close()

	rec := newClientFor(ts).Classify(context.Background(), "hi", "Alexa", "Ravi")

	if rec.Kind != domain.KindGeneral {
		t.Errorf("expected kind general, got %q", rec.Kind)
	}
	if rec.Response != "Hello!" {
		t.Errorf("unexpected response: %q", rec.Response)
	}
}

func TestClassify_OverwritesEchoedInput(t *testing.T) {
	reply := `{"type":"general","userInput":"something the model made up","response":"Sure."}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateReply(t, reply))
	}))
	defer ts.Close()

	rec := newClientFor(ts).Classify(context.Background(), "tell me a joke", "Alexa", "Ravi")

	if rec.UserInput != "tell me a joke" {
		t.Errorf("expected verbatim transcript, got %q", rec.UserInput)
	}
}

func TestClassify_TransportError_Fallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	rec := newClientFor(ts).Classify(context.Background(), "open calculator", "Alexa", "Ravi")

	if rec.Kind != domain.KindGeneral {
		t.Errorf("expected fallback kind general, got %q", rec.Kind)
	}
	if rec.UserInput != "open calculator" {
		t.Errorf("expected transcript in fallback, got %q", rec.UserInput)
	}
	if rec.Response != apologyOutage {
		t.Errorf("expected outage apology, got %q", rec.Response)
	}
}

func TestClassify_MalformedJSON_Fallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateReply(t, "I am not JSON at all"))
	}))
	defer ts.Close()

	rec := newClientFor(ts).Classify(context.Background(), "open calculator", "Alexa", "Ravi")

	if rec.Kind != domain.KindGeneral {
		t.Errorf("expected fallback kind general, got %q", rec.Kind)
	}
	if rec.Response != apologyParse {
		t.Errorf("expected parse apology, got %q", rec.Response)
	}
}

func TestClassify_MissingFields_Fallback(t *testing.T) {
	reply := `{"type":"google-search","userInput":"x"}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateReply(t, reply))
	}))
	defer ts.Close()

	rec := newClientFor(ts).Classify(context.Background(), "search news", "Alexa", "Ravi")

	if rec.Kind != domain.KindGeneral {
		t.Errorf("expected fallback kind general, got %q", rec.Kind)
	}
	if !rec.Complete() {
		t.Error("fallback record must be structurally complete")
	}
}

func TestClassify_EmptyCandidates_Fallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer ts.Close()

	rec := newClientFor(ts).Classify(context.Background(), "hello there", "Alexa", "Ravi")

	if rec.Kind != domain.KindGeneral || rec.Response != apologyOutage {
		t.Errorf("expected outage fallback, got %+v", rec)
	}
}

func TestBuildPrompt_ContainsNamesAndCommand(t *testing.T) {
	prompt := buildPrompt("open GitHub", "Jarvis", "Priya")

	for _, want := range []string{"Jarvis", "Priya", "open GitHub", `"github-open"`, `"get-time"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
