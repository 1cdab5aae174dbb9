package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/vaani-ai/vaani/internal/domain"
	"github.com/vaani-ai/vaani/internal/observability/telemetry"
	"github.com/vaani-ai/vaani/internal/ports"
)

// Apology texts in the assistant's operating language. One for a reply that
// could not be parsed, one for a failed call. These are the Response of the
// fallback record; the caller cannot distinguish the two cases (only logs
// and the fallback counter do).
const (
	apologyParse  = "मुझे आपके अनुरोध को समझने में समस्या हुई। कृपया पुनः प्रयास करें।"
	apologyOutage = "मेरे सिस्टम में कुछ समस्या आ गई है। कृपया थोड़ी देर बाद फिर से कोशिश करें।"
)

var _ ports.Classifier = (*Client)(nil)

// Client calls the Gemini generateContent REST API to classify a command.
// A single attempt per invocation; the breaker guards the upstream while it
// is failing. Classify never returns an error: every failure resolves to a
// fallback record with kind "general".
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        *zap.Logger
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gemini-classify",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Classifier circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    cb,
		log:        log,
	}
}

// generateContent wire format (request).
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateContent wire format (response, only the fields we read).
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Classify sends transcript to the model and returns a validated
// IntentRecord. The caller is responsible for trimming; transcript must be
// non-empty. UserInput of the returned record is always the verbatim
// transcript, regardless of what the model echoed.
func (c *Client) Classify(ctx context.Context, transcript, assistantName, userName string) domain.IntentRecord {
	start := time.Now()
	defer func() {
		telemetry.ClassifierLatency.Observe(time.Since(start).Seconds())
	}()

	raw, err := c.generate(ctx, buildPrompt(transcript, assistantName, userName))
	if err != nil {
		c.log.Warn("Classifier call failed", zap.Error(err))
		return c.fallback(transcript, "transport", apologyOutage)
	}

	var rec domain.IntentRecord
	if err := json.Unmarshal([]byte(stripFences(raw)), &rec); err != nil {
		c.log.Warn("Classifier reply is not valid JSON",
			zap.String("reply", raw),
			zap.Error(err),
		)
		return c.fallback(transcript, "parse", apologyParse)
	}

	rec.UserInput = transcript
	if !rec.Complete() {
		c.log.Warn("Classifier reply is missing required fields", zap.String("reply", raw))
		return c.fallback(transcript, "incomplete", apologyParse)
	}

	return rec
}

// generate performs one generateContent call through the breaker and returns
// the first candidate's text.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, data)
		}
		return data, nil
	})
	if err != nil {
		return "", err
	}

	var gr generateResponse
	if err := json.Unmarshal(result.([]byte), &gr); err != nil {
		return "", fmt.Errorf("malformed gemini envelope: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response has no candidates")
	}
	text := gr.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini response is empty")
	}
	return text, nil
}

func (c *Client) fallback(transcript, cause, apology string) domain.IntentRecord {
	telemetry.ClassifierFallbacksTotal.WithLabelValues(cause).Inc()
	return domain.IntentRecord{
		Kind:      domain.KindGeneral,
		UserInput: transcript,
		Response:  apology,
	}
}

// stripFences removes markdown code-fence wrappers the model sometimes puts
// around the JSON payload.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
