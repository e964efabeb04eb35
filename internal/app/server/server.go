// Package server wires the HTTP handlers into a chi router.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/atinyakov/shortlink/internal/app/handler"
	"github.com/atinyakov/shortlink/internal/app/service"
	"github.com/atinyakov/shortlink/internal/metrics"
	"github.com/atinyakov/shortlink/internal/middleware"
)

type Options struct {
	TrustedSubnet middleware.TrustedSubnet
	EnablePprof   bool
}

func Init(urlService service.URLServiceIface, resolver service.URLResolverIface, logger *zap.Logger, opts Options) *chi.Mux {
	post := handler.NewPost(urlService, logger)
	get := handler.NewGet(resolver, urlService, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Encoding"},
		MaxAge:         300,
	}))
	r.Use(middleware.WithGZIP)

	r.Post("/shorten", post.Shorten)
	r.Get("/ping", get.PingDB)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.With(middleware.WithSubnet(opts.TrustedSubnet)).Get("/api/internal/stats", get.InternalStats)

	if opts.EnablePprof {
		r.Mount("/debug", chimw.Profiler())
	}

	r.Get("/stats/{code}", get.Stats)
	r.Get("/{code}", get.Redirect)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte(`{"code":"MethodNotAllowed","detail":"method not allowed"}`))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"NotFound","detail":"route not found"}`))
	})

	return r
}
