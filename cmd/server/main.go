package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	"github.com/xtding233/booster-sim/internal/catalog"
	"github.com/xtding233/booster-sim/internal/config"
	"github.com/xtding233/booster-sim/internal/game"
	"github.com/xtding233/booster-sim/internal/rpc"
	"github.com/xtding233/booster-sim/internal/server"
	"github.com/xtding233/booster-sim/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := catalog.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	var store catalog.Store = db
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, cache entries will miss", "addr", cfg.RedisAddr, "err", err)
		}
		store = catalog.NewCached(db, rdb, cfg.CacheTTL, log)
		log.Info("catalog cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	}

	loader := game.NewLoader(cfg.RulesDir)
	if w, err := game.WatchLoader(loader, log); err != nil {
		log.Warn("rule hot reload disabled", "dir", loader.Paths().GamesDir(), "err", err)
	} else {
		go func() {
			if err := w.Run(ctx); err != nil {
				log.Error("rule watcher", "err", err)
			}
		}()
	}

	sessions := session.NewManager(store, loader, session.WithTTL(cfg.SessionTTL), session.WithLogger(log))
	go sessions.Run(ctx)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.NewRouter(server.Options{Store: store, Sessions: sessions, Log: log, RateLimit: cfg.RateLimit}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(rpc.LogUnary(log)))
	rpc.Register(grpcSrv, rpc.NewService(sessions))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}

	errc := make(chan error, 2)
	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	go func() {
		log.Info("grpc listening", "addr", cfg.GRPCAddr)
		if err := grpcSrv.Serve(lis); err != nil {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err = <-errc:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if serr := httpSrv.Shutdown(shutdownCtx); serr != nil {
		log.Warn("http shutdown", "err", serr)
	}
	grpcSrv.GracefulStop()
	return err
}
