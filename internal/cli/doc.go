// Package cli implements the command-line interface for belle-events.
//
// The cli package provides the Cobra-based CLI: scraping the venue's programme
// and printing it (text/JSON, filtered and sorted), generating the static
// concerts.json data file, exporting iCalendar files, and serving the HTTP API.
// It coordinates the config, scraper, storage, calendar and server packages.
package cli
