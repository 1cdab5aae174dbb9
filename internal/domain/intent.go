package domain

import "errors"

// Kind classifies a user command. The set is closed: the classifier prompt
// enumerates exactly these values and anything else is rejected before routing.
type Kind string

const (
	KindGetDate        Kind = "get-date"
	KindGetTime        Kind = "get-time"
	KindGetDay         Kind = "get-day"
	KindGetMonth       Kind = "get-month"
	KindGoogleSearch   Kind = "google-search"
	KindYouTubeSearch  Kind = "youtube-search"
	KindYouTubePlay    Kind = "youtube-play"
	KindCalculatorOpen Kind = "calculator-open"
	KindInstagramOpen  Kind = "instagram-open"
	KindFacebookOpen   Kind = "facebook-open"
	KindWeatherShow    Kind = "weather-show"
	KindLinkedInOpen   Kind = "linkedin-open"
	KindGitHubOpen     Kind = "github-open"
	KindWhatsAppOpen   Kind = "whatsapp-open"
	KindMapsOpen       Kind = "maps-open"
	KindGeneral        Kind = "general"
)

// ErrUnrecognizedKind is returned by the router for a kind outside the
// enumeration. The caller treats it as terminal for the turn; no retry.
var ErrUnrecognizedKind = errors.New("unrecognized command type")

var allKinds = map[Kind]struct{}{
	KindGetDate:        {},
	KindGetTime:        {},
	KindGetDay:         {},
	KindGetMonth:       {},
	KindGoogleSearch:   {},
	KindYouTubeSearch:  {},
	KindYouTubePlay:    {},
	KindCalculatorOpen: {},
	KindInstagramOpen:  {},
	KindFacebookOpen:   {},
	KindWeatherShow:    {},
	KindLinkedInOpen:   {},
	KindGitHubOpen:     {},
	KindWhatsAppOpen:   {},
	KindMapsOpen:       {},
	KindGeneral:        {},
}

// Valid reports whether k is a member of the closed kind set.
func (k Kind) Valid() bool {
	_, ok := allKinds[k]
	return ok
}

// Deterministic reports whether the response for k must be computed from the
// wall clock instead of the classifier output.
func (k Kind) Deterministic() bool {
	switch k {
	case KindGetDate, KindGetTime, KindGetDay, KindGetMonth:
		return true
	}
	return false
}

// OpensURL reports whether k triggers a browsing side effect after the
// response has been spoken. KindGeneral is speak-only.
func (k Kind) OpensURL() bool {
	return k.Valid() && !k.Deterministic() && k != KindGeneral
}

// IntentRecord is the unit exchanged between the classifier and the router.
// The JSON keys match the classifier contract (type / userInput / response).
type IntentRecord struct {
	Kind      Kind   `json:"type"`
	UserInput string `json:"userInput"`
	Response  string `json:"response"`
}

// Complete reports whether every required field is present and non-empty.
// A record failing this check must not reach the router.
func (r IntentRecord) Complete() bool {
	return r.Kind != "" && r.UserInput != "" && r.Response != ""
}

// RoutedResponse is an IntentRecord after routing: for deterministic kinds
// the Response has been replaced with a locally computed answer, for all
// other recognized kinds the record passed through unchanged.
type RoutedResponse struct {
	Kind      Kind   `json:"type"`
	UserInput string `json:"userInput"`
	Response  string `json:"response"`
}
