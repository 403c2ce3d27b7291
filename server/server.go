// Package server serves the generated document over HTTP together with a
// browser viewer and the generation metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Gobd/apispec/config"
	"github.com/Gobd/apispec/openapi"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// MetricsRoute is where the Prometheus metrics are exposed.
const MetricsRoute = "/metrics"

// GenerateFunc produces a fresh document.
type GenerateFunc func(ctx context.Context) (*openapi3.T, openapi.Report, error)

// Server is the documentation HTTP server.
type Server struct {
	echo    *echo.Echo
	cfg     *config.Config
	log     zerolog.Logger
	gen     GenerateFunc
	reg     *prometheus.Registry
	metrics *Metrics
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithGenerator enables POST on the spec route, which regenerates and
// rewrites the document.
func WithGenerator(gen GenerateFunc) Option {
	return func(s *Server) { s.gen = gen }
}

// WithRegistry sets the registry the metrics are registered on and served
// from. Each Server gets its own registry otherwise.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.reg = reg }
}

// New returns a Server for cfg with its routes registered.
func New(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		cfg: cfg,
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reg == nil {
		s.reg = prometheus.NewRegistry()
	}
	s.metrics = NewMetrics(s.reg)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler
	e.Use(s.requestLogger)
	s.echo = e

	s.routes()
	return s
}

func (s *Server) routes() {
	spec := s.cfg.Server.SpecRoute
	s.echo.GET(spec, s.serveSpec)
	if s.gen != nil {
		s.echo.POST(spec, s.regenerate)
	}

	viewer := strings.TrimRight(s.cfg.Server.ViewerRoute, "/")
	if viewer == "" {
		s.echo.GET("/", s.serveViewer)
	} else {
		s.echo.GET(viewer, s.serveViewer)
		s.echo.GET(viewer+"/", s.serveViewer)
	}

	s.echo.GET(MetricsRoute, echo.WrapHandler(promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})))

	s.log.Debug().
		Str("spec", spec).
		Str("viewer", s.cfg.Server.ViewerRoute).
		Bool("regenerate", s.gen != nil).
		Msg("routes registered")
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on the configured address and blocks until the server is
// shut down. A graceful shutdown returns nil.
func (s *Server) Start() error {
	s.log.Info().
		Str("address", s.cfg.Server.Address).
		Str("spec", s.cfg.Server.SpecRoute).
		Str("viewer", s.cfg.Server.ViewerRoute).
		Msg("starting server")

	srv := &http.Server{
		Addr:              s.cfg.Server.Address,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.echo.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// serveSpec returns the stored document verbatim.
func (s *Server) serveSpec(c echo.Context) error {
	path := s.cfg.Output.Path
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return echo.NewHTTPError(http.StatusNotFound, "API documentation has not been generated yet")
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	contentType := echo.MIMEApplicationJSON
	if openapi.IsYAML(path) {
		contentType = "application/yaml"
	}
	return c.Blob(http.StatusOK, contentType, data)
}

func (s *Server) serveViewer(c echo.Context) error {
	return c.HTML(http.StatusOK, viewerPage(s.cfg.Info.Title, s.cfg.Server.SpecRoute))
}

type regenerated struct {
	Path       string `json:"path"`
	Documented int    `json:"documented"`
	Skipped    int    `json:"skipped"`
}

// regenerate runs a generation, validates the result and replaces the
// stored document. An invalid document is never written.
func (s *Server) regenerate(c echo.Context) error {
	ctx := c.Request().Context()
	doc, report, err := s.gen(ctx)
	if err == nil {
		err = openapi.Validate(ctx, doc)
	}
	if err == nil {
		err = openapi.Write(doc, s.cfg.Output.Path)
	}
	s.metrics.Observe(report, err)
	if err != nil {
		return err
	}

	s.log.Info().
		Str("path", s.cfg.Output.Path).
		Int("documented", report.Count(openapi.Documented)).
		Int("skipped", report.Count(openapi.Skipped)).
		Msg("document regenerated")

	return c.JSON(http.StatusOK, regenerated{
		Path:       s.cfg.Output.Path,
		Documented: report.Count(openapi.Documented),
		Skipped:    report.Count(openapi.Skipped),
	})
}

type errorResponse struct {
	Message string `json:"message"`
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		default:
			msg = http.StatusText(status)
		}
	}
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, errorResponse{Message: msg})
	}
	if err != nil {
		s.log.Error().Err(err).Msg("write error response")
	}
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.log.Debug().
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Int("status", c.Response().Status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return nil
	}
}
