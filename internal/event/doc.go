// Package event defines the concert record extracted from the venue's listing.
//
// An Event is built once per extraction run and never mutated afterwards. Its ID
// combines the event date with the element's position in the run, so it is
// unique within one batch only and must not be stored as a durable key.
// Dates use the listing's DD.MM.YY notation and always resolve to 20YY.
package event
