package scraper

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/belle-events/internal/event"
	"github.com/pfrederiksen/belle-events/internal/pattern"
	"golang.org/x/net/html"
)

// Rejection reasons returned by Normalize.
var (
	ErrNoLink      = errors.New("no link")
	ErrForeignLink = errors.New("link outside source origin")
	ErrNoTitle     = errors.New("no title")
	ErrNoDate      = errors.New("no date")
)

const titleSelector = `h1, h2, h3, h4, .title, [class*="title"]`

// Normalizer turns one candidate element into an Event.
type Normalizer struct {
	origin *url.URL
	vocab  pattern.Vocabularies
}

// NewNormalizer creates a normalizer validating links against origin.
func NewNormalizer(origin string, vocab pattern.Vocabularies) (*Normalizer, error) {
	u, err := url.Parse(strings.TrimRight(origin, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing origin: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("origin %q must be an absolute URL", origin)
	}
	return &Normalizer{origin: u, vocab: vocab}, nil
}

// Normalize builds the Event for a candidate at position index. It has no side
// effects: the same element and index always yield the same Event.
func (n *Normalizer) Normalize(sel *goquery.Selection, index int) (*event.Event, error) {
	eventURL, err := n.resolveLink(sel)
	if err != nil {
		return nil, err
	}

	title := collapse(sel.Find(titleSelector).First().Text())
	if title == "" {
		return nil, ErrNoTitle
	}

	text := visibleText(sel)
	dt, ok := pattern.ParseDateTime(text)
	if !ok || !event.ValidDate(dt.Date) {
		return nil, ErrNoDate
	}

	evt := &event.Event{
		ID:        event.GenerateID(dt.Date, index),
		Title:     title,
		Date:      dt.Date,
		Time:      dt.Time,
		Genre:     n.vocab.Genre(text),
		Venue:     n.vocab.Venue(text),
		EventType: n.vocab.EventType(text),
		ImageURL:  n.resolveImage(sel),
		EventURL:  eventURL,
		IsSoldOut: n.vocab.SoldOut(text),
	}
	if dt.IsRange() && event.ValidDate(dt.EndDate) {
		evt.StartDate = dt.StartDate
		evt.EndDate = dt.EndDate
	}

	return evt, nil
}

func (n *Normalizer) resolveLink(sel *goquery.Selection) (string, error) {
	link := sel
	if !isLink(sel) {
		link = sel.Find("a[href]").First()
	}
	href, ok := link.Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return "", ErrNoLink
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", ErrNoLink
	}
	abs := n.origin.ResolveReference(ref)
	if !strings.EqualFold(abs.Scheme, n.origin.Scheme) || !strings.EqualFold(abs.Host, n.origin.Host) {
		return "", ErrForeignLink
	}
	return abs.String(), nil
}

// resolveImage reads src, falling back to lazy-load attributes when src is
// missing or an inline placeholder.
func (n *Normalizer) resolveImage(sel *goquery.Selection) string {
	img := sel.Find("img").First()
	if img.Length() == 0 {
		return ""
	}

	var src string
	for _, attr := range []string{"src", "data-src", "data-lazy-src"} {
		v := strings.TrimSpace(img.AttrOr(attr, ""))
		if v != "" && !strings.HasPrefix(v, "data:") {
			src = v
			break
		}
	}
	if src == "" {
		return ""
	}

	ref, err := url.Parse(src)
	if err != nil {
		return ""
	}
	return n.origin.ResolveReference(ref).String()
}

// rejectionReason maps a normalization error to a metric label.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrNoLink):
		return "no_link"
	case errors.Is(err, ErrForeignLink):
		return "foreign_link"
	case errors.Is(err, ErrNoTitle):
		return "no_title"
	case errors.Is(err, ErrNoDate):
		return "no_date"
	default:
		return "malformed"
	}
}

// visibleText joins the element's text nodes with spaces, skipping scripts and
// styles. Joining keeps adjacent blocks ("17.10.25" and "20h") from fusing.
func visibleText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		switch node.Type {
		case html.TextNode:
			if s := strings.TrimSpace(node.Data); s != "" {
				parts = append(parts, s)
			}
			return
		case html.ElementNode:
			switch node.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range sel.Nodes {
		walk(node)
	}
	return collapse(strings.Join(parts, " "))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
