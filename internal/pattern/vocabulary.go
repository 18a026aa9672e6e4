package pattern

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultEventType is used when no event type term appears in the text.
const DefaultEventType = "Concert"

// Vocabulary is an ordered list of substrings. Order is significant.
type Vocabulary []string

// Match returns the first term of the vocabulary contained in text,
// scanning in declared order. Matching is case-sensitive.
func (v Vocabulary) Match(text string) string {
	for _, term := range v {
		if term != "" && strings.Contains(text, term) {
			return term
		}
	}
	return ""
}

// Vocabularies groups every fixed list used to classify an event's text.
type Vocabularies struct {
	Genres           Vocabulary `yaml:"genres"`
	Venues           Vocabulary `yaml:"venues"`
	EventTypes       Vocabulary `yaml:"event_types"`
	SoldOutMarkers   []string   `yaml:"sold_out_markers"`
	DefaultEventType string     `yaml:"default_event_type"`
}

// DefaultVocabularies returns the built-in lists for the venue's listing page.
// Each call returns fresh slices so callers may not alias each other's copies.
func DefaultVocabularies() Vocabularies {
	return Vocabularies{
		Genres: Vocabulary{
			"Pop", "Metal", "Techno", "Rap", "Rock", "Électro", "Electro",
			"Hip-hop", "Hip hop", "Jazz", "Indie", "Punk", "Folk", "Blues",
			"Reggae", "Soul", "Funk", "House", "Drum", "Bass",
		},
		Venues:           Vocabulary{"Grande Salle", "Bar", "Le Labo de La Belle", "Labo"},
		EventTypes:       Vocabulary{"Dressing Club", "Formation", "Projection", "Concert"},
		SoldOutMarkers:   []string{"COMPLET", "complet", "Sold out", "sold out"},
		DefaultEventType: DefaultEventType,
	}
}

// Genre resolves the genre of text, or "".
func (v Vocabularies) Genre(text string) string {
	return v.Genres.Match(text)
}

// Venue resolves the room of text, or "".
func (v Vocabularies) Venue(text string) string {
	return v.Venues.Match(text)
}

// EventType resolves the event category of text, falling back to the default type.
func (v Vocabularies) EventType(text string) string {
	if t := v.EventTypes.Match(text); t != "" {
		return t
	}
	return v.DefaultEventType
}

// SoldOut reports whether text carries one of the sold-out markers.
func (v Vocabularies) SoldOut(text string) bool {
	return IsSoldOut(text, v.SoldOutMarkers)
}

// IsSoldOut reports whether any marker appears in text. Markers are matched
// literally, so "Complet" does not match unless it is listed itself.
func IsSoldOut(text string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// LoadVocabularies reads a YAML file and overlays it on the built-in lists.
// A key present in the file replaces the built-in list as a whole; absent keys
// keep their defaults.
func LoadVocabularies(path string) (Vocabularies, error) {
	vocab := DefaultVocabularies()
	if path == "" {
		return vocab, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabularies{}, fmt.Errorf("reading vocabulary file: %w", err)
	}

	var override Vocabularies
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Vocabularies{}, fmt.Errorf("parsing vocabulary file: %w", err)
	}

	if override.Genres != nil {
		vocab.Genres = override.Genres
	}
	if override.Venues != nil {
		vocab.Venues = override.Venues
	}
	if override.EventTypes != nil {
		vocab.EventTypes = override.EventTypes
	}
	if override.SoldOutMarkers != nil {
		vocab.SoldOutMarkers = override.SoldOutMarkers
	}
	if override.DefaultEventType != "" {
		vocab.DefaultEventType = override.DefaultEventType
	}

	return vocab, nil
}
