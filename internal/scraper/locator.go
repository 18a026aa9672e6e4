package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/belle-events/internal/pattern"
	"golang.org/x/net/html"
)

// Strategy names, also used as metric labels.
const (
	StrategyDirectLinks      = "direct-links"
	StrategyDateAnchors      = "date-anchors"
	StrategyContainers       = "containers"
	StrategyImageDateAnchors = "image-date-anchors"
)

const containerSelector = `article, [class*="card"], [class*="Card"], [class*="event"], [class*="Event"], li`

// maxImageAncestors bounds how far an image anchor looks upward for its date.
const maxImageAncestors = 3

// Strategy is one way of finding candidate elements in the listing.
type Strategy struct {
	Name string
	Find func(doc *goquery.Document) []*goquery.Selection
}

// Locator runs strategies in order and keeps the first plausible result.
type Locator struct {
	strategies []Strategy
}

// NewLocator builds the default cascade for a site whose event detail pages
// live under eventPath.
func NewLocator(eventPath string) *Locator {
	return NewLocatorWith(
		DirectLinks(eventPath),
		DateAnchors(),
		Containers(),
		ImageDateAnchors(),
	)
}

// NewLocatorWith builds a locator from an explicit strategy list.
func NewLocatorWith(strategies ...Strategy) *Locator {
	return &Locator{strategies: strategies}
}

// Locate returns the candidates of the first strategy whose plausible set is
// non-empty, along with that strategy's name. Both are empty when nothing matched.
func (l *Locator) Locate(doc *goquery.Document) ([]*goquery.Selection, string) {
	for _, s := range l.strategies {
		var plausible []*goquery.Selection
		for _, sel := range s.Find(doc) {
			if isPlausible(sel) {
				plausible = append(plausible, sel)
			}
		}
		if len(plausible) > 0 {
			return plausible, s.Name
		}
	}
	return nil, ""
}

// isPlausible requires a date somewhere in the text and a link on or under the element.
func isPlausible(sel *goquery.Selection) bool {
	if !pattern.HasDate(visibleText(sel)) {
		return false
	}
	return isLink(sel) || sel.Find("a[href]").Length() > 0
}

func isLink(sel *goquery.Selection) bool {
	return sel.Is("a[href]")
}

// DirectLinks selects anchors pointing at an event detail page.
func DirectLinks(eventPath string) Strategy {
	return Strategy{
		Name: StrategyDirectLinks,
		Find: func(doc *goquery.Document) []*goquery.Selection {
			var out []*goquery.Selection
			doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
				href, _ := a.Attr("href")
				if isEventPath(href, eventPath) {
					out = append(out, a)
				}
			})
			return out
		},
	}
}

// isEventPath matches hrefs strictly below eventPath, so the listing itself is excluded.
func isEventPath(href, eventPath string) bool {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil || eventPath == "" {
		return false
	}
	return strings.HasPrefix(u.Path, eventPath) && len(strings.Trim(u.Path[len(eventPath):], "/")) > 0
}

// DateAnchors selects anchors whose own text carries a date.
func DateAnchors() Strategy {
	return Strategy{
		Name: StrategyDateAnchors,
		Find: func(doc *goquery.Document) []*goquery.Selection {
			var out []*goquery.Selection
			doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
				if pattern.HasDate(visibleText(a)) {
					out = append(out, a)
				}
			})
			return out
		},
	}
}

// Containers selects card-like elements holding both a date and a link.
// When containers nest, only the innermost ones are kept.
func Containers() Strategy {
	return Strategy{
		Name: StrategyContainers,
		Find: func(doc *goquery.Document) []*goquery.Selection {
			var matched []*goquery.Selection
			set := make(map[*html.Node]bool)
			doc.Find(containerSelector).Each(func(_ int, c *goquery.Selection) {
				if c.Find("a[href]").Length() == 0 || !pattern.HasDate(visibleText(c)) {
					return
				}
				matched = append(matched, c)
				set[c.Get(0)] = true
			})

			outer := make(map[*html.Node]bool)
			for _, c := range matched {
				for p := c.Get(0).Parent; p != nil; p = p.Parent {
					if set[p] {
						outer[p] = true
					}
				}
			}

			out := make([]*goquery.Selection, 0, len(matched))
			for _, c := range matched {
				if !outer[c.Get(0)] {
					out = append(out, c)
				}
			}
			return out
		},
	}
}

// ImageDateAnchors selects anchors wrapping an image. The date may sit next to
// the anchor rather than inside it, so up to a few ancestors are searched and
// the first one carrying a date becomes the candidate.
func ImageDateAnchors() Strategy {
	return Strategy{
		Name: StrategyImageDateAnchors,
		Find: func(doc *goquery.Document) []*goquery.Selection {
			var out []*goquery.Selection
			seen := make(map[*html.Node]bool)
			doc.Find("a[href]").Has("img").Each(func(_ int, a *goquery.Selection) {
				candidate := a
				for i := 0; i < maxImageAncestors && !pattern.HasDate(visibleText(candidate)); i++ {
					parent := candidate.Parent()
					if parent.Length() == 0 || parent.Is("body, html") {
						break
					}
					candidate = parent
				}
				if !pattern.HasDate(visibleText(candidate)) || seen[candidate.Get(0)] {
					return
				}
				seen[candidate.Get(0)] = true
				out = append(out, candidate)
			})
			return out
		},
	}
}
