package http

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quakeboard/api/internal/business/quakes"
	"github.com/quakeboard/api/pkg/model"
	"github.com/quakeboard/api/pkg/util"
)

type feedQuery struct {
	quakes.FilterParams
	Query string `form:"q"`
	Limit int    `form:"limit"`
}

// derived is the result of applying a feedQuery to the current feed state.
type derived struct {
	snapshot quakes.Snapshot
	total    int
	items    []model.Feature
	// rendered is false while a fetch is in flight or before the first one.
	rendered bool
}

// derive binds the query params and runs the derivation against the current
// feed. It writes a 400 and returns false on malformed params.
func (r *Router) derive(c *gin.Context) (derived, bool) {
	var q feedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query: " + err.Error()})
		return derived{}, false
	}
	spec, err := q.FilterParams.Spec()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return derived{}, false
	}
	if q.Limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must not be negative"})
		return derived{}, false
	}

	snap := r.feed.Snapshot()
	out := derived{snapshot: snap, items: []model.Feature{}}
	if _, loading := snap.State.(quakes.Loading); loading {
		return out, true
	}
	collection := quakes.Renderable(snap.State)
	if collection == nil {
		return out, true
	}

	out.rendered = true
	out.total = collection.Len()
	out.items = quakes.Derive(collection.Items(), q.Query, spec)
	if q.Limit > 0 && len(out.items) > q.Limit {
		out.items = out.items[:q.Limit]
	}
	return out, true
}

func (r *Router) getFeed(c *gin.Context) {
	snap := r.feed.Snapshot()
	body := gin.H{
		"status":  snap.State.Status(),
		"version": snap.Version,
	}
	switch st := snap.State.(type) {
	case quakes.Loading:
		body["requestId"] = st.RequestID
	case quakes.Loaded:
		body["requestId"] = st.RequestID
		body["count"] = st.Collection.Len()
		body["metadata"] = st.Collection.Metadata
		body["fingerprint"] = st.Collection.Fingerprint
		body["fetchedAt"] = st.FetchedAt
		c.Header("ETag", strconv.Quote(st.Collection.Fingerprint))
	case quakes.Failed:
		body["requestId"] = st.RequestID
		body["error"] = st.Message
		body["failedAt"] = st.FailedAt
		body["staleCount"] = st.Stale.Len()
	}
	c.JSON(http.StatusOK, body)
}

func (r *Router) refreshFeed(c *gin.Context) {
	if c.Query("wait") != "true" {
		id := r.feed.RefreshAsync(c.Request.Context())
		c.JSON(http.StatusAccepted, gin.H{"requestId": id, "status": quakes.StatusLoading})
		return
	}

	id, err := r.feed.Refresh(c.Request.Context())
	switch {
	case errors.Is(err, quakes.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"requestId": id, "error": err.Error()})
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"requestId": id, "error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{
			"requestId": id,
			"status":    quakes.StatusSucceeded,
			"count":     quakes.Renderable(r.feed.State()).Len(),
		})
	}
}

func (r *Router) listEarthquakes(c *gin.Context) {
	d, ok := r.derive(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":        d.snapshot.State.Status(),
		"error":         quakes.ErrorMessage(d.snapshot.State),
		"totalCount":    d.total,
		"filteredCount": len(d.items),
		"items":         d.items,
	})
}

func (r *Router) getMap(c *gin.Context) {
	d, ok := r.derive(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  d.snapshot.State.Status(),
		"markers": quakes.BuildMarkers(d.items),
	})
}

func (r *Router) getStats(c *gin.Context) {
	d, ok := r.derive(c)
	if !ok {
		return
	}
	if !d.rendered {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": d.snapshot.State.Status(), "error": "earthquake data not loaded"})
		return
	}
	c.JSON(http.StatusOK, quakes.AggregateStatistics(d.items, time.Now()))
}

func (r *Router) getCharts(c *gin.Context) {
	d, ok := r.derive(c)
	if !ok {
		return
	}
	if !d.rendered {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": d.snapshot.State.Status(), "error": "earthquake data not loaded"})
		return
	}
	c.JSON(http.StatusOK, quakes.BuildCharts(d.items))
}

func (r *Router) exportEarthquakes(c *gin.Context) {
	d, ok := r.derive(c)
	if !ok {
		return
	}
	if !d.rendered {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": d.snapshot.State.Status(), "error": "earthquake data not loaded"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=earthquakes.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	if err := writer.Write([]string{"time", "magnitude", "severity", "place", "region", "latitude", "longitude", "depth_km", "url"}); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	for _, f := range d.items {
		row := []string{
			f.OccurredTime().Format(time.RFC3339),
			util.MagnitudeText(f.Magnitude),
			quakes.SeverityOf(f.Magnitude).String(),
			f.Place,
			util.Region(f.Place),
			strconv.FormatFloat(f.Latitude, 'f', 4, 64),
			strconv.FormatFloat(f.Longitude, 'f', 4, 64),
			strconv.FormatFloat(f.DepthKm, 'f', 2, 64),
			f.DetailURL,
		}
		if err := writer.Write(row); err != nil {
			r.logger.Error().Err(err).Msg("write csv row")
			return
		}
	}
}
