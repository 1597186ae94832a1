package main

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/dvue/internal/config"
	"github.com/vango-dev/dvue/internal/dev"
	"github.com/vango-dev/dvue/internal/errors"
	"github.com/vango-dev/dvue/internal/source"
	"github.com/vango-dev/dvue/pkg/middleware"
	"github.com/vango-dev/dvue/pkg/server"
)

type serveOptions struct {
	port  int
	host  string
	watch bool
}

func serveCmd(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the app",
		Long: `Serve the app over HTTP. Every page load mounts a fresh instance
and mirrors it into the browser over a WebSocket.

With --watch, local template and data files are reloaded on change.
Pages loaded afterwards use the new version.

Examples:
  dvue serve
  dvue serve --port=8080 --watch
  dvue serve -c site/dvue.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, global.configPath, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&opts.host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Reload template and data on change")

	return cmd
}

func runServe(ctx context.Context, configPath string, opts *serveOptions, out, logOut io.Writer) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if opts.port > 0 {
		cfg.Server.Port = opts.port
	}
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if opts.watch {
		cfg.Watch = true
	}

	logger, err := newLogger(cfg, logOut)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, source.NewLoaderFromConfig(cfg.S3, logger), logger)
	if err != nil {
		return err
	}

	var w *dev.Watcher
	if cfg.Watch {
		if w, err = newWatcher(cfg, a, logger); err != nil {
			return err
		}
	}

	srv := newServer(cfg, a, logger)
	info(out, "dvue serving %s on %s", cfg.TemplatePath(), cfg.URL())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serverError(srv.Run(ctx))
	})
	if w != nil {
		g.Go(func() error {
			if err := w.Start(ctx); err != nil && !stderrors.Is(err, context.Canceled) {
				return errors.New("E181").Wrap(err)
			}
			return nil
		})
		info(out, "watching for changes")
	}
	return g.Wait()
}

// newServer wires the session server with the configured middleware.
func newServer(cfg *config.Config, a *app, logger *slog.Logger) *server.Server {
	scfg := &server.ServerConfig{
		Address:        cfg.Address(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxSessions:    cfg.Server.MaxSessions,
		SessionConfig: &server.SessionConfig{
			ReadTimeout:       cfg.ReadTimeout(),
			WriteTimeout:      cfg.WriteTimeout(),
			HeartbeatInterval: cfg.Heartbeat(),
			MaxEventQueue:     cfg.Server.MaxEventQueue,
		},
	}

	if dir := cfg.StaticDir(); dir != "" {
		scfg.Static = &server.StaticConfig{
			Dir:    dir,
			Prefix: cfg.Static.Prefix,
			Cache:  cacheControl(cfg.Static.Cache, cfg.Watch),
		}
	}

	var metrics *middleware.Metrics
	if cfg.Metrics.Enabled {
		metrics = middleware.NewMetrics(
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithRegistry(prometheus.NewRegistry()),
		)
		scfg.Middleware = append(scfg.Middleware, metrics.Middleware())
		scfg.OnSessionStart = metrics.SessionStarted
		scfg.OnSessionClose = metrics.SessionClosed
	}
	if cfg.Tracing.Enabled {
		scfg.Middleware = append(scfg.Middleware,
			middleware.OpenTelemetry(middleware.WithTracerName(cfg.Tracing.TracerName)))
	}

	srv := server.NewWithLogger(scfg, a.mount, logger)
	if metrics != nil {
		srv.Router().Handle(cfg.Metrics.Path, metrics.Handler())
	}
	return srv
}

// newWatcher reloads the app when a local source or the config file
// changes. Remote sources are not watched.
func newWatcher(cfg *config.Config, a *app, logger *slog.Logger) (*dev.Watcher, error) {
	files := make(map[string]dev.ChangeType)
	if p := cfg.TemplatePath(); !isRemote(p) {
		files[p] = dev.ChangeTemplate
	}
	if p := cfg.DataPath(); p != "" && !isRemote(p) {
		files[p] = dev.ChangeData
	}
	if len(files) == 0 {
		logger.Warn("nothing to watch: template and data are remote")
	}

	w, err := dev.NewWatcher(dev.WatcherConfig{Files: files, Logger: logger})
	if err != nil {
		return nil, errors.New("E181").Wrap(err)
	}
	w.OnChange(func(changes []dev.Change) {
		for _, c := range changes {
			logger.Info("source changed", "path", c.Path, "type", c.Type.String(), "removed", c.Removed)
		}
		if err := a.reload(context.Background()); err != nil {
			logger.Error("reload failed, keeping previous version", "error", err)
			return
		}
		logger.Info("reloaded")
	})
	return w, nil
}

// cacheControl maps static.cache. Watch mode disables caching unless
// a policy is configured.
func cacheControl(policy string, watch bool) server.CacheControl {
	switch {
	case policy == "production":
		return server.CacheProduction
	case policy == "none", watch:
		return server.CacheNone
	default:
		return server.CacheDefault
	}
}

func isRemote(ref string) bool {
	r, err := source.ParseRef(ref)
	return err == nil && r.IsS3()
}

// serverError maps listen failures to CLI errors.
func serverError(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, syscall.EADDRINUSE):
		return errors.New("E161").
			WithSuggestion("Pick another port with --port or " + config.EnvPort).
			Wrap(err)
	default:
		return errors.New("E160").Wrap(err)
	}
}
