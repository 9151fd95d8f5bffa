// CLAUDE:SUMMARY serve and mcp subcommands: HTTP API, /metrics and MCP over one listener, hot reload on SIGHUP or directory changes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazyhaar/covidgraph/pkg/api"
	"github.com/hazyhaar/covidgraph/pkg/loader"
	"github.com/hazyhaar/covidgraph/pkg/region"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func newMCPServer(reg *loader.Registry, a *app) *server.MCPServer {
	srv := server.NewMCPServer("covidgraph", version, server.WithToolCapabilities(false))
	api.RegisterMCPTools(srv, reg, a.logger)
	return srv
}

func cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	addr := fs.String("addr", "", "listen address (overrides addr)")
	watch := fs.Bool("watch", false, "reload when the data directory changes")
	fs.Parse(args)

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a, err := newApp(*cfgPath, loader.NewMetrics(promReg))
	if err != nil {
		return err
	}
	defer a.Close()
	if *addr != "" {
		a.cfg.Addr = *addr
	}
	logger := a.logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := loader.NewRegistry(a.loader, a.cfg.DataDir)
	if err := reg.Load(ctx); err != nil {
		return err
	}
	cat := reg.Catalog()
	logger.Info("reports loaded", "dir", a.cfg.DataDir,
		"countries", cat.Len(region.Country), "states", cat.Len(region.State))

	mux := http.NewServeMux()
	mux.Handle("/v1/", api.NewRouter(reg, logger))
	mux.Handle("GET /metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{Registry: promReg}))
	mux.Handle("/mcp", server.NewStreamableHTTPServer(newMCPServer(reg, a)))

	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var watcher *loader.Watcher
	if *watch || a.cfg.Watch {
		watcher, err = loader.NewWatcher(reg, a.cfg.Pattern, a.cfg.WatchDebounce, logger)
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("covidgraph listening", "addr", a.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// SIGHUP: reload reports.
	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	defer signal.Stop(sighup)
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-sighup:
				logger.Info("SIGHUP received, reloading reports")
				if err := reg.Reload(gctx); err != nil {
					logger.Error("reload failed", "error", err)
				}
			}
		}
	})

	if watcher != nil {
		g.Go(func() error { return watcher.Run(gctx) })
	}

	return g.Wait()
}

func cmdMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	a, err := newApp(*cfgPath, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	reg := loader.NewRegistry(a.loader, a.cfg.DataDir)
	if err := reg.Load(context.Background()); err != nil {
		return err
	}
	return server.ServeStdio(newMCPServer(reg, a))
}
