package server

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pfrederiksen/belle-events/internal/event"
	"github.com/pfrederiksen/belle-events/internal/filter"
)

// concertsQuery is the query string shared by the listing endpoints.
type concertsQuery struct {
	ID           string `form:"id" validate:"max=64"`
	Search       string `form:"search" validate:"max=200"`
	Genre        string `form:"genre" validate:"max=64"`
	Venue        string `form:"venue" validate:"max=64"`
	EventType    string `form:"type" validate:"max=64"`
	From         string `form:"from" validate:"omitempty,datetime=02.01.06"`
	To           string `form:"to" validate:"omitempty,datetime=02.01.06"`
	Range        string `form:"range" validate:"max=64"`
	HideSoldOut  bool   `form:"hideSoldOut"`
	WeekendsOnly bool   `form:"weekends"`
	Upcoming     int    `form:"upcoming" validate:"gte=0,lte=500"`
	Links        bool   `form:"links"`
}

var queryValidator = validator.New()

func (q *concertsQuery) validate() error {
	return queryValidator.Struct(q)
}

// toFilter builds the filter. An explicit range wins over from/to.
func (q *concertsQuery) toFilter(now time.Time) (*filter.Filter, error) {
	f := filter.NewFilter()
	f.Search = q.Search
	f.Genre = q.Genre
	f.Venue = q.Venue
	f.EventType = q.EventType
	f.HideSoldOut = q.HideSoldOut
	f.WeekendsOnly = q.WeekendsOnly

	if q.Range != "" {
		from, to, err := filter.ParseDateRangeAt(q.Range, now)
		if err != nil {
			return nil, err
		}
		f.DateFrom, f.DateTo = from, to
		return f, nil
	}

	if q.From != "" {
		from := event.ParseDate(q.From)
		f.DateFrom = &from
	}
	if q.To != "" {
		to := event.ParseDate(q.To).Add(24*time.Hour - time.Second)
		f.DateTo = &to
	}
	return f, nil
}
