package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quakeboard/api/internal/business/quakes"
	"github.com/quakeboard/api/internal/business/theme"
)

func (r *Router) createSession(c *gin.Context) {
	s := r.sessions.Create()
	c.JSON(http.StatusCreated, s.View())
}

// session looks up the :id session, answering 404 when it is unknown.
func (r *Router) session(c *gin.Context) (*quakes.Session, bool) {
	s, ok := r.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return s, true
}

func (r *Router) getSession(c *gin.Context) {
	if s, ok := r.session(c); ok {
		c.JSON(http.StatusOK, s.View())
	}
}

func (r *Router) deleteSession(c *gin.Context) {
	if !r.sessions.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

type searchReq struct {
	Query string `json:"query"`
}

func (r *Router) setSessionSearch(c *gin.Context) {
	s, ok := r.session(c)
	if !ok {
		return
	}
	var req searchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	c.JSON(http.StatusOK, s.SetSearch(req.Query))
}

func (r *Router) setSessionFilters(c *gin.Context) {
	s, ok := r.session(c)
	if !ok {
		return
	}
	var params quakes.FilterParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	spec, err := params.Spec()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.SetFilters(spec))
}

func (r *Router) clearSessionFilters(c *gin.Context) {
	if s, ok := r.session(c); ok {
		c.JSON(http.StatusOK, s.ClearFilters())
	}
}

func (r *Router) signalSessionSentinel(c *gin.Context) {
	if s, ok := r.session(c); ok {
		c.JSON(http.StatusOK, s.SignalSentinel())
	}
}

type themeReq struct {
	Theme string `json:"theme"`
}

func (r *Router) getTheme(c *gin.Context) {
	t, err := r.themes.Get(c.Request.Context())
	if err != nil {
		r.logger.Error().Err(err).Msg("read theme")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": t})
}

func (r *Router) setTheme(c *gin.Context) {
	var req themeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	t, err := theme.Parse(req.Theme)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := r.themes.Set(c.Request.Context(), t); err != nil {
		r.logger.Error().Err(err).Msg("save theme")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": t})
}

func (r *Router) toggleTheme(c *gin.Context) {
	t, err := r.themes.Toggle(c.Request.Context())
	if err != nil {
		r.logger.Error().Err(err).Msg("toggle theme")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": t})
}
