// Package pattern classifies free text found on the venue's listing page.
//
// It recognizes the listing's date/time notation ("17.10.25 / 20h" and the
// multi-day "Du 17.10.25 / 20h au 19.10.25 / 23h"), detects sold-out markers,
// and resolves genre, venue and event type against fixed ordered vocabularies.
// Vocabulary matching is first-match-wins in declared order, so the order of
// every list is part of its meaning.
package pattern
