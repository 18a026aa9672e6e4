package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + body + "</body></html>"))
	require.NoError(t, err)
	return doc
}

func TestLocator_Cascade(t *testing.T) {
	tests := []struct {
		name         string
		html         string
		wantStrategy string
		wantCount    int
	}{
		{
			name: "direct links to detail pages",
			html: `
				<a href="/fr/programmation/">Programmation 01.01.25</a>
				<a href="/fr/programmation?page=2">Suite 02.01.25</a>
				<a href="/fr/programmation/foo"><h3>Foo</h3><p>17.10.25 / 20h</p></a>
				<a href="/fr/programmation/bar"><h3>Bar</h3></a>`,
			wantStrategy: StrategyDirectLinks,
			wantCount:    1,
		},
		{
			name: "anchors carrying a date",
			html: `
				<a href="/agenda/x"><h3>X</h3> 18.10.25</a>
				<a href="/contact">Contact</a>`,
			wantStrategy: StrategyDateAnchors,
			wantCount:    1,
		},
		{
			name: "french month name counts as a date",
			html: `<a href="/agenda/y"><h3>Y</h3> 18 octobre</a>`,
			wantStrategy: StrategyDateAnchors,
			wantCount:    1,
		},
		{
			name: "innermost containers only",
			html: `
				<div class="events-list">
					<div class="event-card"><h3>A</h3><span>17.10.25</span><a href="/agenda/a">Infos</a></div>
					<div class="event-card"><h3>B</h3><span>18.10.25</span><a href="/agenda/b">Infos</a></div>
				</div>`,
			wantStrategy: StrategyContainers,
			wantCount:    2,
		},
		{
			name: "image anchor with date beside it",
			html: `
				<div class="grid">
					<div><a href="/agenda/a"><img src="a.jpg"></a><span>17.10.25</span></div>
				</div>
				<a href="/agenda/b"><img src="b.jpg"></a>`,
			wantStrategy: StrategyImageDateAnchors,
			wantCount:    1,
		},
		{
			name:         "nothing plausible",
			html:         `<p>Aucun événement 17.10.25</p><a href="/x">lien</a>`,
			wantStrategy: "",
			wantCount:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := NewLocator(DefaultEventPath)

			got, strategy := loc.Locate(mustDoc(t, tt.html))

			assert.Len(t, got, tt.wantCount)
			if tt.wantCount == 0 {
				assert.Empty(t, strategy)
				return
			}
			assert.Equal(t, tt.wantStrategy, strategy)
		})
	}
}

func TestLocator_FirstPlausibleStrategyWins(t *testing.T) {
	doc := mustDoc(t, `
		<article class="event-card">
			<a href="/fr/programmation/foo"><h3>Foo</h3><p>17.10.25 / 20h</p></a>
		</article>`)

	got, strategy := NewLocator(DefaultEventPath).Locate(doc)

	require.Len(t, got, 1)
	assert.Equal(t, StrategyDirectLinks, strategy)
	assert.True(t, got[0].Is("a"))
}

func TestLocator_CustomStrategies(t *testing.T) {
	never := Strategy{
		Name: "never",
		Find: func(*goquery.Document) []*goquery.Selection { return nil },
	}
	doc := mustDoc(t, `<a href="/x">17.10.25</a>`)

	got, strategy := NewLocatorWith(never, DateAnchors()).Locate(doc)

	assert.Len(t, got, 1)
	assert.Equal(t, StrategyDateAnchors, strategy)
}

func TestIsEventPath(t *testing.T) {
	tests := []struct {
		href string
		want bool
	}{
		{"/fr/programmation/the-hives", true},
		{"https://www.la-belle-electrique.com/fr/programmation/ibeyi?x=1", true},
		{"/fr/programmation/", false},
		{"/fr/programmation", false},
		{"/fr/infos", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			assert.Equal(t, tt.want, isEventPath(tt.href, DefaultEventPath))
		})
	}
}
