// Package storage provides JSON-based persistence for extraction results.
//
// A generated data file (concerts.json) holds the event list of one run as an
// indented JSON array. It lets the HTTP server and the CLI work from a
// previously generated listing instead of scraping on every request. The
// default storage location is ~/.local/share/belle-events/.
package storage
