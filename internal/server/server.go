// Package server exposes the precomputed chart datasets over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sartorproj/macrolens/internal/config"
	"github.com/sartorproj/macrolens/internal/dashboard"
	"github.com/sartorproj/macrolens/timeseries"
)

// Server serves chart datasets built once at startup. Handlers only read.
type Server struct {
	cfg        config.ServerConfig
	log        logrus.FieldLogger
	router     *gin.Engine
	httpServer *http.Server
	metrics    *metrics
	dash       *dashboard.Context
	charts     []*dashboard.Chart
	byID       map[string]*dashboard.Chart
	startedAt  time.Time
}

// chartSummary is one entry of the chart index.
type chartSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
}

// New builds every chart of dash and sets up the routes. Any chart failure
// aborts startup.
func New(cfg config.ServerConfig, dash *dashboard.Context, log logrus.FieldLogger) (*Server, error) {
	charts, err := dash.Charts()
	if err != nil {
		return nil, fmt.Errorf("failed to build charts: %w", err)
	}

	switch cfg.Mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(cfg.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:       cfg,
		log:       log,
		router:    gin.New(),
		metrics:   newMetrics(),
		dash:      dash,
		charts:    charts,
		byID:      make(map[string]*dashboard.Chart, len(charts)),
		startedAt: time.Now(),
	}
	for _, c := range charts {
		s.byID[c.ID] = c
	}
	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
	s.router.Use(s.metrics.middleware())

	api := s.router.Group("/api")
	{
		api.GET("/charts", s.listCharts)
		api.GET("/charts/:id", s.getChart)
		api.GET("/events", s.listEvents)
		api.GET("/events/:name", s.getEvents)
	}

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
			"uptime": time.Since(s.startedAt).Round(time.Second).String(),
			"charts": len(s.charts),
		})
	})
	s.router.GET("/metrics", gin.WrapH(s.metrics.handler()))
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("Handled request")
	}
}

func (s *Server) listCharts(c *gin.Context) {
	out := make([]chartSummary, len(s.charts))
	for i, ch := range s.charts {
		out[i] = chartSummary{ID: ch.ID, Title: ch.Title, Subtitle: ch.Subtitle}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getChart(c *gin.Context) {
	id := c.Param("id")
	ch, ok := s.byID[id]
	if !ok {
		s.fail(c, &timeseries.NotFoundError{Source: "chart:" + id})
		return
	}

	format := c.DefaultQuery("format", "json")
	switch format {
	case "json":
		c.JSON(http.StatusOK, ch)
	case "csv":
		if ch.Wide == nil {
			s.fail(c, &timeseries.NotFoundError{Source: "chart:" + id + ":wide"})
			return
		}
		var buf bytes.Buffer
		if err := ch.Wide.WriteCSV(&buf); err != nil {
			s.fail(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".csv"))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported format %q", format)})
		return
	}
	s.metrics.chartsServed.WithLabelValues(id, format).Inc()
}

func (s *Server) listEvents(c *gin.Context) {
	c.JSON(http.StatusOK, s.dash.Events().Names())
}

func (s *Server) getEvents(c *gin.Context) {
	t, err := s.dash.Events().Get(c.Param("name"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t.Events)
}

// fail maps an error kind to its status code. Only missing resources are
// client errors.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, timeseries.ErrNotFound) {
		status = http.StatusNotFound
	} else {
		s.log.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// Start listens on the configured address until Stop is called.
func (s *Server) Start() error {
	s.log.WithField("addr", s.cfg.Addr).Info("Starting API server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
