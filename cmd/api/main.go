package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"telephony-insights-go/internal/config"
	"telephony-insights-go/internal/handler"
	"telephony-insights-go/internal/logger"
	"telephony-insights-go/internal/repository"
	"telephony-insights-go/internal/service"
)

func main() {
	cfg, err := config.Load(envOr("CONFIG_PATH", "configs/config.yml"))
	if err != nil {
		logger.New().WithError(err).Fatal("failed to load config")
	}

	log := logger.NewWith(logger.Options{Environment: cfg.Environment, Level: cfg.LogLevel})
	log.WithField("service", "telephony-insights-go").Info("starting service")

	annotators, err := service.NewAnnotators(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to build annotators")
	}

	repo, err := repository.NewAnnotationRepository(cfg.Database.Path, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open annotation repository")
	}
	defer repo.Close()

	if cfg.Environment == "local" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	handler.NewHandler(annotators.All(), repo, log).RegisterRoutes(router)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Annotation.CallTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server terminated")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	log.Info("server exited")
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
