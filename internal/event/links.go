package event

import (
	"net/url"
	"strings"
)

// StreamingLinks are search URLs for an artist on the main streaming platforms
type StreamingLinks struct {
	Spotify    string `json:"spotify"`
	YouTube    string `json:"youtube"`
	Deezer     string `json:"deezer"`
	AppleMusic string `json:"appleMusic"`
}

// NewStreamingLinks builds search links from an event title. Only the headliner
// is searched: anything after the first "+" (support acts) is dropped.
func NewStreamingLinks(title string) StreamingLinks {
	name := strings.TrimSpace(strings.SplitN(title, "+", 2)[0])
	q := strings.ReplaceAll(url.QueryEscape(name), "+", "%20")

	return StreamingLinks{
		Spotify:    "https://open.spotify.com/search/" + q,
		YouTube:    "https://music.youtube.com/search?q=" + q,
		Deezer:     "https://www.deezer.com/search/" + q,
		AppleMusic: "https://music.apple.com/search?term=" + q,
	}
}
