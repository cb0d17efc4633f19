package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/klauspost/compress/gzip"

	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/hints"
	"github.com/alnah/go-md2site/internal/watch"
)

// Server timeouts.
const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// gzipMinSize matches gzhttp's default; smaller responses are sent as is.
const gzipMinSize = 1024

// runServeCmd handles the serve command. It stops on SIGINT or SIGTERM.
func runServeCmd(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env)
	if err != nil {
		return err
	}

	cfg, source, err := loadSiteConfig(flags.common, &flags.site, env)
	if err != nil {
		return err
	}
	setString(&cfg.Serve.Addr, flags.addr)
	configureLogging(flags.common, cfg, env.Logger)
	env.Logger.Debug("configuration loaded", "source", source)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serveSite(ctx, cfg, flags.watch, env, nil)
}

// serveSite builds once, then serves the output directory until ctx is
// done. ready, when non-nil, receives the bound address.
func serveSite(ctx context.Context, cfg *config.Config, watchFiles bool, env *Environment, ready func(addr string)) error {
	log := env.Logger

	rebuild := func() error {
		report, err := buildSite(ctx, cfg, log)
		if err != nil {
			return err
		}
		if n := report.Failed(); n > 0 {
			log.Error("build finished with failures", "failed", n, "pages", len(report.Pages))
			return nil
		}
		log.Info("site built", "pages", len(report.Pages), "static", report.StaticFiles, "duration", report.Duration.Round(time.Millisecond))
		return nil
	}

	if err := rebuild(); err != nil {
		return err
	}

	handler, err := newSiteHandler(cfg.Output.Dir)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Serve.Addr)
	if err != nil {
		hint := ""
		if errors.Is(err, syscall.EADDRINUSE) {
			hint = hints.ForAddrInUse(cfg.Serve.Addr)
		}
		return fmt.Errorf("%w: %w%s", ErrListen, err, hint)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	addr := ln.Addr().String()
	log.Info("serving site", "url", "http://"+addr, "dir", cfg.Output.Dir)
	if ready != nil {
		ready(addr)
	}

	watchDone := make(chan struct{})
	if watchFiles {
		w, err := newSiteWatcher(cfg, env, func() {
			if err := rebuild(); err != nil {
				log.Error("rebuild failed", "error", err)
			}
		})
		if err != nil {
			_ = srv.Close()
			return err
		}
		go func() {
			defer close(watchDone)
			_ = w.Run(ctx)
		}()
	} else {
		close(watchDone)
	}

	select {
	case err := <-serveErr:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	// A rebuild in flight sees the canceled context and stops early.
	<-watchDone
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// newSiteHandler serves dir with gzip compression for clients that accept it.
func newSiteHandler(dir string) (http.Handler, error) {
	wrapper, err := gzhttp.NewWrapper(
		gzhttp.MinSize(gzipMinSize),
		gzhttp.CompressionLevel(gzip.DefaultCompression),
	)
	if err != nil {
		return nil, fmt.Errorf("creating gzip handler: %w", err)
	}
	return wrapper(http.FileServer(http.Dir(dir))), nil
}

// newSiteWatcher watches the content, static and asset directories,
// ignoring the output directory.
func newSiteWatcher(cfg *config.Config, env *Environment, onChange func()) (*watch.Watcher, error) {
	log := env.Logger
	w, err := watch.New(func(paths []string) {
		log.Info("change detected, rebuilding", "files", len(paths))
		log.Debug("changed files", "paths", paths)
		onChange()
	}, watch.WithIgnore(cfg.Output.Dir), watch.WithLogger(log))
	if err != nil {
		return nil, err
	}

	roots := []string{cfg.Content.Dir}
	if fileutil.DirExists(cfg.Static.Dir) {
		roots = append(roots, cfg.Static.Dir)
	}
	if cfg.Assets.BasePath != "" {
		roots = append(roots, cfg.Assets.BasePath)
	}
	for _, root := range roots {
		if err := w.Add(root); err != nil {
			_ = w.Close()
			hint := ""
			if errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EMFILE) {
				hint = hints.ForWatchLimit()
			}
			return nil, fmt.Errorf("%w%s", err, hint)
		}
		log.Debug("watching", "root", root)
	}
	return w, nil
}
