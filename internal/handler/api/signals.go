package api

import (
	"encoding/json"
	"net/http"
	"time"

	"SignalPulse/internal/domain/models"
	domrepo "SignalPulse/internal/domain/repository"
	icache "SignalPulse/internal/service/cache"
	"SignalPulse/internal/service/metrics"
	"SignalPulse/internal/service/ratelimit"
	"SignalPulse/internal/usecase"
	xhttp "SignalPulse/pkg/http"
	xlogger "SignalPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SignalsHandler serves the analysis surface: latest signal per symbol,
// recent batch reports, and on-demand batch runs.
type SignalsHandler struct {
	sink         domrepo.ResultSink
	orchestrator *usecase.Orchestrator
	cache        icache.BytesCache
	rl           *ratelimit.Limiter
	l            *xlogger.Logger
}

func NewSignalsHandler(l *xlogger.Logger, sink domrepo.ResultSink, orchestrator *usecase.Orchestrator) *SignalsHandler {
	metrics.Register()
	return &SignalsHandler{sink: sink, orchestrator: orchestrator, rl: ratelimit.New(), l: l}
}

// SetCache injects the response cache for the read endpoints.
func (h *SignalsHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *SignalsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signal", h.Signal)
	g.GET("/report", h.Report)
	g.POST("/run", h.Run)
}

// Signal returns the most recent fused signal for a symbol.
func (h *SignalsHandler) Signal(c echo.Context) error {
	start := time.Now()
	endpoint := "signal"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":signal", 5, 2) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
	}

	cacheKey := "signal:" + req.Symbol
	if cached, ok := h.fromCache(c, cacheKey); ok {
		return cached
	}

	signal, err := h.sink.LatestSignal(c.Request().Context(), req.Symbol)
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.l.Error("signal read error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if signal == nil {
		return xhttp.NotFoundResponse(c, xhttp.NotFoundErrorf("no signal for %s", req.Symbol))
	}

	h.toCache(cacheKey, signal, 30*time.Second)
	return xhttp.SuccessResponse(c, signal)
}

// Report returns the most recent batch reports.
func (h *SignalsHandler) Report(c echo.Context) error {
	start := time.Now()
	endpoint := "report"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.ReportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":report", 5, 2) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
	}

	reports, err := h.sink.LatestReports(c.Request().Context(), req.Limit)
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.l.Error("report read error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, reports)
}

// Run triggers a batch analysis synchronously and returns its report.
func (h *SignalsHandler) Run(c echo.Context) error {
	start := time.Now()
	endpoint := "run"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.RunRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	// Batch runs are expensive; one token per minute per caller.
	if !h.rl.Allow(c.RealIP()+":run", 1, 1.0/60) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
	}

	report, err := h.orchestrator.Run(c.Request().Context(), req.Symbols, usecase.FusionMode(req.Mode))
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.l.Error("run error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, report)
}

func (h *SignalsHandler) fromCache(c echo.Context, key string) (error, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		h.l.Warn("response cache read error", xlogger.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return c.JSONBlob(http.StatusOK, b), true
}

func (h *SignalsHandler) toCache(key string, v interface{}, ttl time.Duration) {
	if h.cache == nil {
		return
	}
	b, err := json.Marshal(xhttp.APIResponse{
		Status:  http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    v,
	})
	if err != nil {
		return
	}
	if err := h.cache.SetBytes(key, b, ttl); err != nil {
		h.l.Warn("response cache write error", xlogger.Error(err))
	}
}
