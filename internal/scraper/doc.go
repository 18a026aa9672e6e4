// Package scraper extracts concert events from the venue's programme page.
//
// One extraction run acquires the listing document (plain HTTP fetch, or a
// headless Chromium session for script-populated pages), locates the elements
// that each look like one event, normalizes every candidate into an
// event.Event, drops rejects and duplicates, and sorts the survivors by date.
//
// The page's markup is not stable, so candidates are located by a cascade of
// strategies from most to least specific; the first strategy producing a
// plausible set wins. A malformed candidate is skipped and never aborts the run.
package scraper
