package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/shortlink/internal/app/service"
	"github.com/atinyakov/shortlink/internal/models"
)

const requestTimeout = 3 * time.Second

type GetHandler struct {
	resolver service.URLResolverIface
	service  service.URLServiceIface
	logger   *zap.Logger
}

func NewGet(r service.URLResolverIface, s service.URLServiceIface, l *zap.Logger) *GetHandler {
	return &GetHandler{
		resolver: r,
		service:  s,
		logger:   l,
	}
}

// Redirect handles GET /{code}.
func (h *GetHandler) Redirect(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	code := chi.URLParam(req, "code")

	original, err := h.resolver.ResolveForRedirect(ctx, code)
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	res.Header().Set("Location", original)
	res.WriteHeader(http.StatusFound)
}

// Stats handles GET /stats/{code}.
func (h *GetHandler) Stats(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	stats, err := h.resolver.GetStats(ctx, chi.URLParam(req, "code"))
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	writeJSON(res, h.logger, http.StatusOK, models.StatsResponse{
		ShortCode:   stats.ShortCode,
		OriginalURL: stats.OriginalURL,
		TotalClicks: stats.TotalClicks,
		CreatedAt:   stats.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *GetHandler) PingDB(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()
	if err := h.service.PingContext(ctx); err != nil {
		h.logger.Warn("ping failed", zap.Error(err))
		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	res.WriteHeader(http.StatusOK)
}

// InternalStats handles GET /api/internal/stats. Access control is left to
// the router.
func (h *GetHandler) InternalStats(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	stats, err := h.service.InternalStats(ctx)
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	writeJSON(res, h.logger, http.StatusOK, models.InternalStats{Links: stats.Links, Clicks: stats.Clicks})
}
