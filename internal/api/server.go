// Package api exposes the resolution engine over HTTP and WebSocket: a
// JSON API for stateless operations (resolve, expand, probe, dispatch)
// and a hub-backed bridge carrying the interactive menu flow to the
// injected player client.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/streamgrab/streamgrab/internal/config"
	"github.com/streamgrab/streamgrab/internal/dispatch"
	"github.com/streamgrab/streamgrab/internal/hls"
	"github.com/streamgrab/streamgrab/internal/host"
	"github.com/streamgrab/streamgrab/internal/logger"
	"github.com/streamgrab/streamgrab/internal/menu"
	"github.com/streamgrab/streamgrab/internal/probe"
	"github.com/streamgrab/streamgrab/internal/resolve"
	"github.com/streamgrab/streamgrab/internal/websocket"
)

// Server handles HTTP requests for the streamgrab API.
type Server struct {
	echo      *echo.Echo
	hub       *websocket.Hub
	logger    zerolog.Logger
	cfg       *config.Config
	logs      *logger.LogBroadcaster
	startTime time.Time

	bridge      *Bridge
	collector   *resolve.Collector
	hlsResolver *hls.Resolver
	prober      *probe.Prober
	dispatcher  *dispatch.Dispatcher
	interceptor *menu.Interceptor
}

// NewServer creates a new API server instance.
func NewServer(hub *websocket.Hub, cfg *config.Config, logs *logger.LogBroadcaster, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		hub:       hub,
		logger:    log,
		cfg:       cfg,
		logs:      logs,
		startTime: time.Now(),
	}

	s.bridge = NewBridge(hub, log)
	s.collector = resolve.NewCollector(log)
	s.hlsResolver = hls.NewResolver(hls.Config{Timeout: cfg.Resolver.ManifestTimeout}, log)
	s.prober = probe.NewProber(probe.Config{Timeout: cfg.Resolver.ProbeTimeout}, log)

	registry, err := dispatch.LoadRegistry(cfg.Dispatch.TargetsFile)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.Dispatch.TargetsFile).Msg("failed to load targets file, using built-in targets")
		registry = dispatch.NewRegistry(nil)
	}

	s.dispatcher = dispatch.NewDispatcher(
		registry, s.bridge, s.bridge, s.bridge, s.bridge,
		dispatch.Config{SubtitleStagger: cfg.Dispatch.SubtitleStagger}, log,
	)

	s.interceptor = menu.NewInterceptor(
		s.collector, s.hlsResolver, s.prober, s.dispatcher,
		s.bridge, s.bridge,
		menu.Config{
			ActionLabels:       cfg.Menu.ActionLabels,
			CopyLinkLabels:     cfg.Menu.CopyLinkLabels,
			DownloadLabel:      cfg.Menu.DownloadLabel,
			CorrelationTimeout: cfg.Menu.CorrelationTimeout,
		},
		log,
	)

	s.setupHubHandlers()
	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// menuEventPayload is the client's report of a host menu event: the menu
// plus the best-effort playback payload captured alongside it.
type menuEventPayload struct {
	Menu     *host.Menu     `json:"menu"`
	PlayData *host.PlayData `json:"playData"`
}

// setupHubHandlers wires the interactive menu flow onto the hub. The
// interception may fetch manifests or probe sizes, so each event runs
// off the hub loop.
func (s *Server) setupHubHandlers() {
	s.hub.Handle("menu:beforeShow", func(_ string, payload json.RawMessage) {
		var ev menuEventPayload
		if err := json.Unmarshal(payload, &ev); err != nil || ev.Menu == nil {
			return
		}

		go func() {
			action := s.interceptor.BeforeShow(ev.Menu, ev.PlayData)
			_ = s.hub.Broadcast("menu:beforeShow:result", map[string]any{
				"menuId":   ev.Menu.ID,
				"suppress": action == host.ShowSuppress,
				"menu":     ev.Menu,
			})
		}()
	})

	s.hub.Handle("menu:download", func(_ string, payload json.RawMessage) {
		var ev menuEventPayload
		if err := json.Unmarshal(payload, &ev); err != nil || ev.Menu == nil {
			return
		}
		go s.interceptor.OnDownload(ev.Menu, ev.PlayData)
	})
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Request ID
	s.echo.Use(middleware.RequestID())

	// Request body size limit (2MB)
	s.echo.Use(middleware.BodyLimit("2M"))

	// CORS - the client script is injected into arbitrary player origins
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Request logging
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	// Gzip compression
	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			// Skip compression for WebSocket
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ws", s.hub.HandleWebSocket)

	api := s.echo.Group("/api/v1")
	api.GET("/status", s.getStatus)
	api.GET("/targets", s.getTargets)
	api.GET("/logs", s.getLogs)

	api.POST("/resolve", s.resolveStreams)
	api.POST("/expand", s.expandManifest)
	api.POST("/probe", s.probeSizes)
	api.POST("/dispatch", s.dispatchDownload)
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
