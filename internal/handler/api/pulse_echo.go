package api

import (
    "net/http"
    "time"

    models "CryptoPulse/internal/domain/models"
    apimetrics "CryptoPulse/internal/service/metrics"
    "CryptoPulse/internal/service/ratelimit"
    "CryptoPulse/internal/usecase"
    pkgcache "CryptoPulse/pkg/cache"
    xhttp "CryptoPulse/pkg/http"
    xlogger "CryptoPulse/pkg/logger"

    "github.com/labstack/echo/v4"
)

// PulseEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type PulseEchoHandler struct {
	logger  *xlogger.Logger
	agg     *usecase.PulseAggregator
	limiter *ratelimit.Limiter

	// Force-refresh allowance per client, tokens per second.
	refreshRPS float64
}

func NewPulseEchoHandler(logger *xlogger.Logger, agg *usecase.PulseAggregator, refreshRPS float64) *PulseEchoHandler {
	apimetrics.Register()
	if refreshRPS <= 0 {
		refreshRPS = 0.2
	}
	return &PulseEchoHandler{
		logger:     logger,
		agg:        agg,
		limiter:    ratelimit.New(),
		refreshRPS: refreshRPS,
	}
}

func (h *PulseEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/pulse", h.Pulse)
	g.GET("/news", h.News)
	g.GET("/insights", h.Insights)
	e.GET("/healthz", h.Health)
}

// Pulse returns the full aggregated result. force=true recomputes, but is
// token-bucket limited per client so a hot loop cannot bypass the cache.
func (h *PulseEchoHandler) Pulse(c echo.Context) error {
	start := time.Now()
	defer func() {
		apimetrics.APILatency.WithLabelValues("pulse").Observe(time.Since(start).Seconds())
	}()

	req := &models.PulseRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		apimetrics.APIErrors.WithLabelValues("pulse").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}

	force := req.Force && h.allowForce(c)
	res := h.agg.Aggregate(c.Request().Context(), force)

	if req.Limit > 0 {
		res = trimPulse(res, req.Limit)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

// News returns only the curated news list.
func (h *PulseEchoHandler) News(c echo.Context) error {
	start := time.Now()
	defer func() {
		apimetrics.APILatency.WithLabelValues("news").Observe(time.Since(start).Seconds())
	}()

	req := &models.NewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		apimetrics.APIErrors.WithLabelValues("news").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}

	res := h.agg.Aggregate(c.Request().Context(), false)
	news := res.CuratedNews
	if req.Limit > 0 && len(news) > req.Limit {
		news = news[:req.Limit]
	}
	return xhttp.SuccessResponse(c, news)
}

// Insights returns only the synthesized insight list.
func (h *PulseEchoHandler) Insights(c echo.Context) error {
	start := time.Now()
	defer func() {
		apimetrics.APILatency.WithLabelValues("insights").Observe(time.Since(start).Seconds())
	}()

	req := &models.InsightsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		apimetrics.APIErrors.WithLabelValues("insights").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}

	force := req.Force && h.allowForce(c)
	res := h.agg.Aggregate(c.Request().Context(), force)
	return xhttp.SuccessResponse(c, res.Insights)
}

// Health reports liveness. Degraded sources are not a health failure; the
// aggregator always serves a result.
func (h *PulseEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *PulseEchoHandler) allowForce(c echo.Context) bool {
	key := pkgcache.GenerateKey("refresh", c.RealIP())
	if h.limiter.Allow(key, 2, h.refreshRPS) {
		return true
	}
	h.logger.Warn("force refresh throttled", xlogger.String("ip", c.RealIP()))
	return false
}

// trimPulse shallow-copies the result with entity lists capped at limit.
// The cached copy stays intact.
func trimPulse(res *models.PulseResult, limit int) *models.PulseResult {
	out := *res
	if len(out.Narratives) > limit {
		out.Narratives = out.Narratives[:limit]
	}
	if len(out.Tokens) > limit {
		out.Tokens = out.Tokens[:limit]
	}
	return &out
}
