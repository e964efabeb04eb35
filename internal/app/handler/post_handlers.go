package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/shortlink/internal/app/service"
	"github.com/atinyakov/shortlink/internal/models"
)

type PostHandler struct {
	service service.URLServiceIface
	logger  *zap.Logger
}

func NewPost(s service.URLServiceIface, l *zap.Logger) *PostHandler {
	return &PostHandler{
		service: s,
		logger:  l,
	}
}

// Shorten handles POST /shorten.
func (h *PostHandler) Shorten(res http.ResponseWriter, req *http.Request) {
	var request models.ShortenRequest

	if err := decodeJSONBody(res, req, &request); err != nil {
		writeDecodeError(res, h.logger, err)
		return
	}

	var alias string
	if request.CustomAlias != nil {
		alias = *request.CustomAlias
	}

	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	r, err := h.service.Shorten(ctx, request.URL, alias)
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	h.logger.Info("link created",
		zap.String("short_code", r.ShortCode),
		zap.Bool("custom", r.IsCustom),
	)

	writeJSON(res, h.logger, http.StatusCreated, models.ShortenResponse{
		ShortURL:    h.service.ShortURL(r.ShortCode),
		ShortCode:   r.ShortCode,
		OriginalURL: r.OriginalURL,
	})
}
