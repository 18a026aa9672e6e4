package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pfrederiksen/belle-events/internal/calendar"
	"github.com/pfrederiksen/belle-events/internal/event"
	"github.com/pfrederiksen/belle-events/internal/filter"
	"github.com/pfrederiksen/belle-events/internal/logger"
)

// highlightSize is the default length of the upcoming highlight in stats.
const highlightSize = 3

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConcerts(c *gin.Context) {
	events, q, ok := s.filteredEvents(c)
	if !ok {
		return
	}

	if q.Upcoming > 0 {
		events = filter.Upcoming(events, q.Upcoming, s.opts.Now())
	}
	if q.Links {
		withLinks := make([]*event.Event, len(events))
		for i, evt := range events {
			withLinks[i] = evt.WithLinks()
		}
		events = withLinks
	}

	s.setCacheHeaders(c)
	c.JSON(http.StatusOK, events)
}

func (s *Server) handleCalendar(c *gin.Context) {
	events, q, ok := s.filteredEvents(c)
	if !ok {
		return
	}

	filename := "concerts.ics"
	if q.ID != "" {
		var found *event.Event
		for _, evt := range events {
			if evt.ID == q.ID {
				found = evt
				break
			}
		}
		if found == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "concert not found"})
			return
		}
		events = []*event.Event{found}
		filename = calendar.Filename(found)
	}

	body := calendar.GenerateMultipleICS(events, s.opts.Calendar)

	s.setCacheHeaders(c)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

func (s *Server) handleStats(c *gin.Context) {
	events, q, ok := s.filteredEvents(c)
	if !ok {
		return
	}

	n := q.Upcoming
	if n <= 0 {
		n = highlightSize
	}
	now := s.opts.Now()

	s.setCacheHeaders(c)
	c.JSON(http.StatusOK, gin.H{
		"stats":    filter.ComputeStats(events, now),
		"facets":   filter.Facets(events),
		"upcoming": filter.Upcoming(events, n, now),
	})
}

// filteredEvents binds the query, loads events and applies the filter. It
// writes the error response itself and reports false when it did.
func (s *Server) filteredEvents(c *gin.Context) ([]*event.Event, *concertsQuery, bool) {
	var q concertsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "details": err.Error()})
		return nil, nil, false
	}
	if err := q.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "details": err.Error()})
		return nil, nil, false
	}

	f, err := q.toFilter(s.opts.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid range", "details": err.Error()})
		return nil, nil, false
	}

	events, err := s.loadEvents(c.Request.Context())
	if err != nil {
		s.log.Error("Failed to fetch concerts", logger.Fields{
			"request_id": RequestIDValue(c),
		}, err)
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to fetch concerts"})
		return nil, nil, false
	}

	return f.Apply(events), &q, true
}

func (s *Server) setCacheHeaders(c *gin.Context) {
	c.Header("Cache-Control", "public, s-maxage="+seconds(s.opts.CacheTTL.Seconds())+
		", stale-while-revalidate="+seconds(s.opts.StaleWhileRevalidate.Seconds()))
}

func seconds(f float64) string {
	return strconv.Itoa(int(f))
}
