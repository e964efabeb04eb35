package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/atinyakov/shortlink/internal/app/bootstrap"
	"github.com/atinyakov/shortlink/internal/app/server"
	grpcserver "github.com/atinyakov/shortlink/internal/app/server/grpc"
	"github.com/atinyakov/shortlink/internal/app/service"
	"github.com/atinyakov/shortlink/internal/codegen"
	"github.com/atinyakov/shortlink/internal/config"
	"github.com/atinyakov/shortlink/internal/logger"
	"github.com/atinyakov/shortlink/internal/middleware"
	"github.com/atinyakov/shortlink/internal/worker"
)

var buildVersion string
var buildDate string
var buildCommit string

const shutdownTimeout = 10 * time.Second

func main() {
	options := config.MustParse()

	fmt.Printf("Build version: %s\n", orNA(buildVersion))
	fmt.Printf("Build date: %s\n", orNA(buildDate))
	fmt.Printf("Build commit: %s\n", orNA(buildCommit))

	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	a, err := newApp(ctx, options, log.Log)
	if err != nil {
		log.Log.Error("cannot start", zap.Error(err))
		panic(err)
	}

	if err := a.run(ctx); err != nil {
		log.Log.Error("server stopped with error", zap.Error(err))
		panic(err)
	}

	log.Log.Info("server stopped")
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

type app struct {
	opts    *config.Options
	logger  *zap.Logger
	store   bootstrap.Store
	clicks  *worker.ClickWorker
	handler http.Handler
	grpc    *grpcserver.Server
}

func newApp(ctx context.Context, opts *config.Options, logger *zap.Logger) (*app, error) {
	subnet, err := middleware.ParseTrustedSubnet(opts.TrustedSubnet)
	if err != nil {
		return nil, err
	}

	store, err := bootstrap.OpenStorage(ctx, opts, logger)
	if err != nil {
		return nil, err
	}

	gen := codegen.New(opts.CodeStrategy, opts.CodeLength)
	urlService := service.NewURL(store, gen, logger, opts.ResultHostname, service.Limits{
		MaxAliasLength: opts.MaxAliasLength,
		MaxAttempts:    opts.MaxAttempts,
	})

	clicks := worker.NewClickWorker(logger, store, opts.ClickWorkers, opts.ClickBuffer, opts.StoreTimeout.Duration)
	clicks.Start()

	resolver := service.NewURLResolver(store, clicks, logger)

	a := &app{
		opts:   opts,
		logger: logger,
		store:  store,
		clicks: clicks,
		handler: server.Init(urlService, resolver, logger, server.Options{
			TrustedSubnet: subnet,
			EnablePprof:   opts.EnablePprof,
		}),
	}

	if opts.GRPCPort > 0 {
		a.grpc = grpcserver.New(urlService, resolver, subnet, logger, opts.GRPCPort)
	}

	return a, nil
}

// run serves until ctx is cancelled, then stops intake, drains pending
// clicks and closes the store.
func (a *app) run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.opts.Port,
		Handler:           a.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if a.opts.EnableHTTPS {
			srv.Addr = ":443"
			srv.TLSConfig = a.certManager().TLSConfig()
			a.logger.Info("Server is running with TLS", zap.String("addr", srv.Addr))
			err = srv.ListenAndServeTLS("", "")
		} else {
			a.logger.Info("Server is running", zap.String("addr", srv.Addr))
			err = srv.ListenAndServe()
		}

		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	if a.grpc != nil {
		g.Go(func() error {
			if err := a.grpc.Start(); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		if a.grpc != nil {
			a.grpc.GracefulStop()
		}
		if err := a.clicks.Close(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("drain clicks: %w", err))
		}
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}

		return errors.Join(errs...)
	})

	return g.Wait()
}

func (a *app) certManager() *autocert.Manager {
	hosts := []string{}
	if u, err := url.Parse(a.opts.ResultHostname); err == nil && u.Hostname() != "" {
		hosts = append(hosts, u.Hostname())
	}

	return &autocert.Manager{
		Cache:      autocert.DirCache("cache-dir"),
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(hosts...),
	}
}
