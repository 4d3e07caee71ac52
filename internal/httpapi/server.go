// Package httpapi is the optional HTTP wrapper around the Playlist
// Driver (spec §1's "optional thin HTTP layer for integrators"),
// off by default behind HTTP_API_ENABLED. Grounded on routes/routes.go's
// gin.Engine/route-group setup and controllers/duration.go's bulk-job
// start/poll-progress pair (StartBulkResolution/GetBulkProgress),
// reshaped from a DB-backed job table into an in-memory run registry
// since this matcher does not persist state between runs.
package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"catalogmatch/catalog"
	"catalogmatch/internal/driver"
)

// run tracks one in-flight or completed driver.Run call.
type run struct {
	mu       sync.Mutex
	progress catalog.ProgressInfo
	results  []catalog.MatchResult
	done     bool
	startedAt time.Time
}

// Server exposes the Playlist Driver over HTTP.
type Server struct {
	driver *driver.Driver

	mu   sync.Mutex
	runs map[string]*run
}

func NewServer(d *driver.Driver) *Server {
	return &Server{driver: d, runs: make(map[string]*run)}
}

// Engine builds the gin.Engine serving this API, mirroring
// routes/routes.go's SetupRoutes shape (a single function wiring a
// flat list of routes); it creates and returns its own *gin.Engine
// rather than taking one from the caller.
func (s *Server) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().Unix()})
	})

	runs := r.Group("/runs")
	{
		runs.POST("", s.createRun)
		runs.GET("/:id/progress", s.getProgress)
		runs.GET("/:id", s.getResult)
	}

	return r
}

type createRunRequest struct {
	Tracks []catalog.InputTrack `json:"tracks" binding:"required"`
}

// createRun starts a new match run in the background and returns its
// id immediately (spec's driver runs are long-lived; callers poll for
// progress rather than blocking the request).
func (s *Server) createRun(c *gin.Context) {
	var req createRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if len(req.Tracks) == 0 {
		badRequest(c, "tracks must not be empty")
		return
	}

	id := uuid.New().String()
	r := &run{startedAt: time.Now()}

	s.mu.Lock()
	s.runs[id] = r
	s.mu.Unlock()

	go func() {
		progress := func(info catalog.ProgressInfo) {
			r.mu.Lock()
			r.progress = info
			r.mu.Unlock()
		}
		results := s.driver.Run(context.Background(), req.Tracks, progress)
		r.mu.Lock()
		r.results = results
		r.done = true
		r.mu.Unlock()
	}()

	c.JSON(http.StatusAccepted, gin.H{"run_id": id})
}

func (s *Server) lookupRun(c *gin.Context) *run {
	id := c.Param("id")
	s.mu.Lock()
	r := s.runs[id]
	s.mu.Unlock()
	if r == nil {
		notFound(c, "run not found")
	}
	return r
}

func (s *Server) getProgress(c *gin.Context) {
	r := s.lookupRun(c)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"progress": r.progress, "done": r.done})
}

func (s *Server) getResult(c *gin.Context) {
	r := s.lookupRun(c)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.done {
		c.JSON(http.StatusAccepted, gin.H{"done": false, "progress": r.progress})
		return
	}
	c.JSON(http.StatusOK, gin.H{"done": true, "results": r.results})
}
