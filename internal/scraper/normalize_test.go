package scraper

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/belle-events/internal/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewNormalizer(DefaultOrigin, pattern.DefaultVocabularies())
	require.NoError(t, err)
	return n
}

func candidate(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	return mustDoc(t, html).Find("body").Children().First()
}

func TestNormalize_FullEvent(t *testing.T) {
	n := newTestNormalizer(t)
	sel := candidate(t, `
		<a href="/fr/programmation/foo-fighters">
			<img src="data:image/gif;base64,R0lGOD" data-src="/media/foo.jpg">
			<h3>  Foo
			  Fighters </h3>
			<p>17.10.25 / 20h30</p>
			<span>Rock</span><span>Grande Salle</span><span>COMPLET</span>
		</a>`)

	evt, err := n.Normalize(sel, 3)
	require.NoError(t, err)

	assert.Equal(t, "17.10.25-3", evt.ID)
	assert.Equal(t, "Foo Fighters", evt.Title)
	assert.Equal(t, "17.10.25", evt.Date)
	assert.Equal(t, "20h30", evt.Time)
	assert.Empty(t, evt.StartDate)
	assert.Empty(t, evt.EndDate)
	assert.Equal(t, "Rock", evt.Genre)
	assert.Equal(t, "Grande Salle", evt.Venue)
	assert.Equal(t, "Concert", evt.EventType)
	assert.Equal(t, "https://www.la-belle-electrique.com/media/foo.jpg", evt.ImageURL)
	assert.Equal(t, "https://www.la-belle-electrique.com/fr/programmation/foo-fighters", evt.EventURL)
	assert.True(t, evt.IsSoldOut)
}

func TestNormalize_MultiDay(t *testing.T) {
	n := newTestNormalizer(t)
	sel := candidate(t, `
		<a href="/fr/programmation/festival">
			<h2>Festival</h2>
			<p>Du 17.10.25 / 20h au 19.10.25 / 23h</p>
		</a>`)

	evt, err := n.Normalize(sel, 0)
	require.NoError(t, err)

	assert.Equal(t, "17.10.25", evt.Date)
	assert.Equal(t, "20h", evt.Time)
	assert.Equal(t, "17.10.25", evt.StartDate)
	assert.Equal(t, "19.10.25", evt.EndDate)
	assert.True(t, evt.IsMultiDay())
}

func TestNormalize_SeparateDateAndTimeBlocks(t *testing.T) {
	n := newTestNormalizer(t)
	sel := candidate(t, `<a href="/x"><h3>X</h3><span>17.10.25</span><span>/ 21h</span></a>`)

	evt, err := n.Normalize(sel, 0)
	require.NoError(t, err)

	assert.Equal(t, "17.10.25", evt.Date)
	assert.Equal(t, "21h", evt.Time)
}

func TestNormalize_ContainerCandidate(t *testing.T) {
	n := newTestNormalizer(t)
	sel := candidate(t, `
		<div class="event-card">
			<img src="https://cdn.example.com/a.jpg">
			<div class="card-title">Formation son</div>
			<span>05.12.25 / 14h</span>
			<span>Le Labo de La Belle</span>
			<a href="https://www.la-belle-electrique.com/fr/programmation/formation">Infos</a>
		</div>`)

	evt, err := n.Normalize(sel, 1)
	require.NoError(t, err)

	assert.Equal(t, "Formation son", evt.Title)
	assert.Equal(t, "Formation", evt.EventType)
	assert.Equal(t, "Le Labo de La Belle", evt.Venue)
	assert.Equal(t, "https://cdn.example.com/a.jpg", evt.ImageURL)
	assert.Equal(t, "https://www.la-belle-electrique.com/fr/programmation/formation", evt.EventURL)
}

func TestNormalize_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		wantErr error
	}{
		{
			name:    "no link",
			html:    `<div><h3>X</h3>17.10.25</div>`,
			wantErr: ErrNoLink,
		},
		{
			name:    "empty href",
			html:    `<a href=" "><h3>X</h3>17.10.25</a>`,
			wantErr: ErrNoLink,
		},
		{
			name:    "foreign host",
			html:    `<a href="https://tickets.example.com/fr/programmation/x"><h3>X</h3>17.10.25</a>`,
			wantErr: ErrForeignLink,
		},
		{
			name:    "different scheme",
			html:    `<a href="http://www.la-belle-electrique.com/fr/programmation/x"><h3>X</h3>17.10.25</a>`,
			wantErr: ErrForeignLink,
		},
		{
			name:    "no title",
			html:    `<a href="/fr/programmation/x"><img src="/x.jpg"><p>17.10.25 / 20h</p></a>`,
			wantErr: ErrNoTitle,
		},
		{
			name:    "blank title",
			html:    `<a href="/fr/programmation/x"><h3>   </h3><p>17.10.25 / 20h</p></a>`,
			wantErr: ErrNoTitle,
		},
		{
			name:    "title but no date",
			html:    `<a href="/fr/programmation/x"><h3>X</h3><p>Bientôt</p></a>`,
			wantErr: ErrNoDate,
		},
		{
			name:    "impossible calendar date",
			html:    `<a href="/fr/programmation/x"><h3>X</h3><p>31.02.25 / 20h</p></a>`,
			wantErr: ErrNoDate,
		},
		{
			name:    "only a phone number",
			html:    `<a href="/fr/programmation/x"><h3>X</h3><p>Infos 04.76.90.96.73</p></a>`,
			wantErr: ErrNoDate,
		},
	}

	n := newTestNormalizer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt, err := n.Normalize(candidate(t, tt.html), 0)
			assert.Nil(t, evt)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNormalize_DateNotShadowedByOtherNumbers(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		wantDate string
		wantTime string
	}{
		{
			name:     "phone number before the date",
			html:     `<li><a href="/fr/programmation/ibeyi"><h3>Ibeyi</h3></a><p>Infos 04.76.90.96.73</p><p>17.10.25 / 20h30</p></li>`,
			wantDate: "17.10.25",
			wantTime: "20h30",
		},
		{
			name:     "ticketing date before the show date",
			html:     `<li><a href="/fr/programmation/ibeyi"><h3>Ibeyi</h3></a><p>Ouverture billetterie 10.10.25</p><p>Concert 17.10.25 / 20h</p></li>`,
			wantDate: "17.10.25",
			wantTime: "20h",
		},
	}

	n := newTestNormalizer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt, err := n.Normalize(candidate(t, tt.html), 1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDate, evt.Date)
			assert.Equal(t, tt.wantTime, evt.Time)
			assert.Equal(t, tt.wantDate+"-1", evt.ID)
		})
	}
}

func TestNormalize_SoldOutMarkersAreLiteral(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		text string
		want bool
	}{
		{"COMPLET", true},
		{"complet", true},
		{"Sold out", true},
		{"Complet", false},
		{"Places disponibles", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			sel := candidate(t, `<a href="/x"><h3>X</h3><p>17.10.25</p><span>`+tt.text+`</span></a>`)
			evt, err := n.Normalize(sel, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, evt.IsSoldOut)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := newTestNormalizer(t)
	sel := candidate(t, `<a href="/fr/programmation/x"><img src="/x.jpg"><h3>X</h3><p>Du 17.10.25 / 20h au 18.10.25 / 2h</p><span>Jazz</span></a>`)

	first, err := n.Normalize(sel, 7)
	require.NoError(t, err)
	second, err := n.Normalize(sel, 7)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNewNormalizer_InvalidOrigin(t *testing.T) {
	_, err := NewNormalizer("la-belle-electrique.com", pattern.DefaultVocabularies())
	assert.Error(t, err)
}

func TestRejectionReason(t *testing.T) {
	assert.Equal(t, "no_link", rejectionReason(ErrNoLink))
	assert.Equal(t, "foreign_link", rejectionReason(ErrForeignLink))
	assert.Equal(t, "no_title", rejectionReason(ErrNoTitle))
	assert.Equal(t, "no_date", rejectionReason(ErrNoDate))
	assert.Equal(t, "malformed", rejectionReason(assert.AnError))
}

func TestVisibleText(t *testing.T) {
	sel := candidate(t, `<div><h3>Titre</h3><script>var d = "01.01.25";</script><p>17.10.25</p><style>p{}</style><span>/ 20h</span></div>`)

	assert.Equal(t, "Titre 17.10.25 / 20h", visibleText(sel))
}
