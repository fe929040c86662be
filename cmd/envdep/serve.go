package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/gburgyan/go-envdep"
	"github.com/gburgyan/go-envdep/config"
)

// Greeting is the demo dependency served by helloHandler.
type Greeting struct {
	Text string
}

type helloHandler struct {
	Greeting *Greeting `inject:""`
}

func (h *helloHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	if h.Greeting == nil {
		http.Error(w, "injection unavailable", http.StatusServiceUnavailable)
		return
	}
	_, _ = fmt.Fprintln(w, h.Greeting.Text)
}

// newDemo assembles the demo application and bootstraps it.
func newDemo(ctx context.Context, cfg *config.Config) (*envdep.WebContext, *envdep.Bootstrap, error) {
	web := envdep.NewWebContext()
	web.Handle("/hello", &helloHandler{})
	if cfg.MetricsAddr == "" {
		web.Handle("/metrics", promhttp.Handler())
	}

	manager := envdep.NewManager(&Greeting{Text: "hello from envdep"})
	cc := envdep.NewContainerContext(web, manager,
		envdep.WithCapabilities(cfg.Prober(envdep.DefaultRegistry)),
		envdep.WithLogger(log.Logger),
	)

	bootstrap := envdep.NewBootstrap(cfg.BootstrapOptions()...)
	if _, err := bootstrap.Start(ctx, cc); err != nil {
		return nil, nil, err
	}
	return web, bootstrap, nil
}

func runServe(parent context.Context, cfg *config.Config, addr string) error {
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	web, bootstrap, err := newDemo(ctx, cfg)
	if err != nil {
		return err
	}
	defer bootstrap.Stop(context.Background())

	servers := []*http.Server{{Addr: addr, Handler: web.Handler(), ReadHeaderTimeout: 10 * time.Second}}
	if cfg.MetricsAddr != "" {
		servers = append(servers, &http.Server{Addr: cfg.MetricsAddr, Handler: promhttp.Handler(), ReadHeaderTimeout: 10 * time.Second})
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			log.Info().Str("addr", srv.Addr).Msg("listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(srv)
	}

	select {
	case <-ctx.Done():
	case err = <-errCh:
	}

	shutdownCtx, shutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdown()
	for _, srv := range servers {
		_ = srv.Shutdown(shutdownCtx)
	}
	return err
}
