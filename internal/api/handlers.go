package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/streamgrab/streamgrab/internal/dispatch"
	"github.com/streamgrab/streamgrab/internal/host"
	"github.com/streamgrab/streamgrab/internal/menu"
	"github.com/streamgrab/streamgrab/internal/resolve"
	"github.com/streamgrab/streamgrab/internal/stream"
)

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(c echo.Context) error {
	state := "idle"
	if s.interceptor.State() == menu.StateAwaitingMenu {
		state = "awaitingMenu"
	}

	return c.JSON(http.StatusOK, map[string]any{
		"version":    "0.1.0",
		"startTime":  s.startTime.Format(time.RFC3339),
		"clients":    s.hub.ClientCount(),
		"menuState":  state,
		"probedUrls": s.prober.CachedLen(),
	})
}

func (s *Server) getTargets(c echo.Context) error {
	return c.JSON(http.StatusOK, s.dispatcher.Registry().All())
}

func (s *Server) getLogs(c echo.Context) error {
	if s.logs == nil {
		return c.JSON(http.StatusOK, []any{})
	}
	return c.JSON(http.StatusOK, s.logs.GetRecentLogs())
}

// resolveRequest carries a playback payload and optionally the open menu
// to run the full strategy chain against.
type resolveRequest struct {
	PlayData *host.PlayData `json:"playData"`
	Menu     *host.Menu     `json:"menu"`
}

type resolveResponse struct {
	Candidates []stream.Candidate  `json:"candidates"`
	Context    stream.MediaContext `json:"context"`
	Headers    stream.Headers      `json:"headers,omitempty"`
	Subtitles  []stream.Subtitle   `json:"subtitles,omitempty"`
}

func (s *Server) resolveStreams(c echo.Context) error {
	var req resolveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.PlayData == nil && req.Menu == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "playData or menu required"})
	}

	candidates := s.collector.Collect(req.PlayData, req.Menu)
	if candidates == nil {
		candidates = []stream.Candidate{}
	}

	resp := resolveResponse{Candidates: candidates}
	if req.PlayData != nil {
		resp.Context = resolve.MediaContext(req.PlayData, nil)
		resp.Headers = resolve.TransportHeaders(req.PlayData)
		resp.Subtitles = resolve.Subtitles(req.PlayData)
	}

	return c.JSON(http.StatusOK, resp)
}

type expandRequest struct {
	URL string `json:"url"`
}

func (s *Server) expandManifest(c echo.Context) error {
	var req expandRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if !stream.IsHTTPURL(req.URL) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "url must be absolute http(s)"})
	}

	variants := s.hlsResolver.Resolve(c.Request().Context(), req.URL)
	return c.JSON(http.StatusOK, map[string]any{"candidates": variants})
}

type probeRequest struct {
	URLs []string `json:"urls"`
}

func (s *Server) probeSizes(c echo.Context) error {
	var req probeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	sizes := make([]int64, len(req.URLs))
	s.prober.SizeAll(c.Request().Context(), req.URLs, func(index int, size int64) {
		sizes[index] = size
	})

	return c.JSON(http.StatusOK, map[string]any{"sizes": sizes})
}

// dispatchRequest selects one terminal action for a resolved candidate.
// Action is one of: send, copyUrl, copyFilename, copyDetails, share.
type dispatchRequest struct {
	Action    string              `json:"action"`
	TargetID  string              `json:"targetId,omitempty"`
	Candidate stream.Candidate    `json:"candidate"`
	Context   stream.MediaContext `json:"context"`
	Headers   stream.Headers      `json:"headers,omitempty"`
	Subtitles []stream.Subtitle   `json:"subtitles,omitempty"`
}

func (s *Server) dispatchDownload(c echo.Context) error {
	var req dispatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	dr := dispatch.Request{
		Candidate: req.Candidate,
		Context:   req.Context,
		Headers:   req.Headers,
		Subtitles: req.Subtitles,
	}

	var err error
	switch req.Action {
	case "", "send":
		target, ok := s.dispatcher.Registry().ByID(req.TargetID)
		if !ok {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown target"})
		}
		err = s.dispatcher.Send(dr, target)
	case "copyUrl":
		err = s.dispatcher.CopyURL(dr)
	case "copyFilename":
		err = s.dispatcher.CopyFilename(dr)
	case "copyDetails":
		err = s.dispatcher.CopyDetails(dr)
	case "share":
		err = s.dispatcher.Share(dr)
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown action"})
	}

	switch {
	case errors.Is(err, dispatch.ErrInvalidURL):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrNoClient):
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "dispatched"})
}
