package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tsunami_usgs/internal/config"
	"tsunami_usgs/internal/display"
	"tsunami_usgs/internal/handlers"
	"tsunami_usgs/internal/logger"
	"tsunami_usgs/internal/metrics"
	"tsunami_usgs/internal/models"
	"tsunami_usgs/internal/presenter"
	"tsunami_usgs/internal/repository"
	"tsunami_usgs/internal/repository/db"
	"tsunami_usgs/internal/server"
	"tsunami_usgs/internal/service"
	"tsunami_usgs/internal/usgs"
)

const shutdownTimeout = 10 * time.Second

// @title        Tsunami USGS
// @version      1.0
// @description  Latest significant earthquake from the USGS feed, shown as title, date and tsunami alert.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load configs/config.yml (optional) + TSUNAMI_* env
	loader := config.NewLoader("configs", ".")
	cfg, err := loader.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.Log.Level)
	log.Infow("config_loaded", "file", loader.File(), "level", log.Level())
	loader.Watch(func(c config.Config) {
		log.SetLevel(c.Log.Level)
		log.Infow("config_reloaded", "level", log.Level())
	}, func(err error) {
		log.Warnw("config_reload_failed", "err", err)
	})

	// open DB
	conn, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	loc, _ := cfg.Location() // validated by Load

	// wire dependencies
	board := display.NewBoard()
	var surface display.Surface = board
	if cfg.Display.Console {
		surface = display.Multi(board, display.NewConsole(os.Stdout))
	}
	feed := usgs.NewClient(usgs.Options{
		ConnectTimeout: cfg.USGS.ConnectTimeout,
		ReadTimeout:    cfg.USGS.ReadTimeout,
		UserAgent:      cfg.USGS.UserAgent,
	})
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, feed, board, service.AuthOptions{
		SigningKey: cfg.Auth.SigningKey,
		TokenTTL:   cfg.Auth.TokenTTL,
	}, log)
	pres := presenter.New(loc, log)
	apiHandler := handlers.NewHandler(services, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start HTTP server
	srv := server.New(server.Options{
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	})
	runHTTPServer(srv, cfg.Server.Port, apiHandler, log)

	// one fetch per launch; the result is rendered here once the task completes
	go func() {
		shown := service.Present(ctx, services.Start(ctx), func(ev models.EarthquakeEvent) {
			pres.Render(surface, ev)
			metrics.EventsDisplayed.Inc()
		})
		log.Infow("quake_presented", "displayed", shown)
	}()

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

// openDB initializes the diagnostics store; ":memory:" keeps nothing across launches.
func openDB(cfg config.Config, log *logger.Logger) (*sql.DB, error) {
	if cfg.DB.Path == "" {
		log.Infow("db.path not set in config; using in-memory store")
		cfg.DB.Path = ":memory:"
	}
	return db.InitDB(cfg.DB.Path)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http_listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the fetch if it is still running
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
