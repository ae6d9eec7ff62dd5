// The dashboard gateway is a per-operator process: it owns that operator's
// token store and session, talks to the monitoring API through the
// authorizing pipeline, and serves the dashboard routes behind guards.
// Several gateways for the same operator converge through the redis auth
// channel.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"hydrogen-dashboard/internal/config"
	"hydrogen-dashboard/pkg/apiclient"
	"hydrogen-dashboard/pkg/authsession"
	"hydrogen-dashboard/pkg/authtoken"
	"hydrogen-dashboard/pkg/guard"
	"hydrogen-dashboard/pkg/logger"
	"hydrogen-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadClient()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Session end forces navigation to the login route on the next page
	// request, the gateway's stand-in for a hard location change.
	var needLogin atomic.Bool

	var transport authtoken.Transport = authtoken.NoopTransport{}
	if addr := cfg.RedisAddr(); addr != "" {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: addr})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		transport = authtoken.NewRedisTransport(rdb, cfg.AuthChannel)
	}

	store := authtoken.New(
		authtoken.NewFileStorage(cfg.StateDir),
		transport,
		authtoken.WithRedirect(func() { needLogin.Store(true) }),
		authtoken.WithLogger(log),
	)
	go func() {
		if err := store.Listen(rootCtx); err != nil {
			log.Error("auth channel listener failed", "err", err)
		}
	}()

	client := apiclient.New(apiclient.Config{
		BaseURL:       cfg.APIBaseURL,
		EnableRefresh: cfg.EnableRefresh,
		RefreshMargin: cfg.RefreshMargin,
		Timeout:       cfg.HTTPTimeout,
	}, store, apiclient.WithLogger(log))
	authAPI := apiclient.NewAuthAPI(client)

	session := authsession.New(store,
		authsession.WithNotifier(authAPI),
		authsession.WithLogger(log),
	)
	if err := session.Init(rootCtx); err != nil {
		log.Error("session init failed", "err", err)
		os.Exit(1)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(func(c *gin.Context) {
		if needLogin.Swap(false) && c.Request.URL.Path != guard.LoginRoute {
			c.Redirect(http.StatusFound, guard.LoginRoute)
			c.Abort()
			return
		}
		c.Next()
	})

	registerRoutes(r, session, client, authAPI)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("gateway listening", "addr", srv.Addr, "api", cfg.APIBaseURL, "refresh", cfg.EnableRefresh)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
