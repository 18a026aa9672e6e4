package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/belle-events/internal/event"
)

// DataFile is the name of the generated event list
const DataFile = "concerts.json"

// ErrNoData is returned when no data file has been generated yet.
var ErrNoData = errors.New("no generated data file")

// Storage handles persistence of generated event lists
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Path returns the path to the data file
func (s *Storage) Path() string {
	return filepath.Join(s.dataDir, DataFile)
}

// LoadEvents reads the generated event list. The result is never nil on success.
func (s *Storage) LoadEvents() ([]*event.Event, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoData, s.Path())
		}
		return nil, fmt.Errorf("reading data file: %w", err)
	}

	events := make([]*event.Event, 0)
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parsing data file: %w", err)
	}
	if events == nil {
		events = make([]*event.Event, 0)
	}

	return events, nil
}

// SaveEvents writes the event list, replacing any previous file.
// The file is written next to its destination and renamed into place so
// readers never observe a partial list.
func (s *Storage) SaveEvents(events []*event.Event) error {
	if events == nil {
		events = []*event.Event{}
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding events: %w", err)
	}

	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing data file: %w", err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing data file: %w", err)
	}

	return nil
}

// GetEventByID retrieves an event by ID from the generated list
func (s *Storage) GetEventByID(eventID string) (*event.Event, error) {
	events, err := s.LoadEvents()
	if err != nil {
		return nil, fmt.Errorf("loading events: %w", err)
	}

	for _, evt := range events {
		if evt.ID == eventID {
			return evt, nil
		}
	}

	return nil, fmt.Errorf("event not found: %s", eventID)
}

// FileSource serves the generated list wherever a live scraper is expected.
type FileSource struct {
	storage *Storage
}

func NewFileSource(s *Storage) *FileSource {
	return &FileSource{storage: s}
}

// FetchEvents loads the data file. Like the scraper, it returns an empty
// non-nil slice alongside any error.
func (f *FileSource) FetchEvents(ctx context.Context) ([]*event.Event, error) {
	if err := ctx.Err(); err != nil {
		return []*event.Event{}, err
	}
	events, err := f.storage.LoadEvents()
	if err != nil {
		return []*event.Event{}, err
	}
	return events, nil
}
