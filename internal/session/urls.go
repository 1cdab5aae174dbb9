package session

import (
	"net/url"

	"github.com/vaani-ai/vaani/internal/domain"
)

// fixedURLs are the destinations of intents that open a site directly.
var fixedURLs = map[domain.Kind]string{
	domain.KindCalculatorOpen: "https://www.google.com/search?q=calculator",
	domain.KindWeatherShow:    "https://www.google.com/search?q=weather",
	domain.KindInstagramOpen:  "https://www.instagram.com/",
	domain.KindFacebookOpen:   "https://www.facebook.com/",
	domain.KindMapsOpen:       "https://www.google.com/maps",
	domain.KindLinkedInOpen:   "https://www.linkedin.com/",
	domain.KindGitHubOpen:     "https://github.com/",
	domain.KindWhatsAppOpen:   "https://web.whatsapp.com/",
}

// ActionURL resolves the URL a routed intent should open on the client, using
// the verbatim user input as the query for search-style intents. The second
// return is false for intents with no navigation side effect.
func ActionURL(kind domain.Kind, userInput string) (string, bool) {
	switch kind {
	case domain.KindGoogleSearch:
		return "https://www.google.com/search?q=" + url.QueryEscape(userInput), true
	case domain.KindYouTubeSearch, domain.KindYouTubePlay:
		return "https://www.youtube.com/results?search_query=" + url.QueryEscape(userInput), true
	}
	if u, ok := fixedURLs[kind]; ok {
		return u, true
	}
	return "", false
}
