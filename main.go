package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"phimstream/api"
	"phimstream/config"
	"phimstream/handlers"
	"phimstream/services/catalog"
	"phimstream/utils"
)

func main() {
	configPath := flag.String("config", "config.json", "path to config file")
	flag.Parse()

	cfgManager, err := config.NewManager(*configPath)
	if err != nil {
		log.Fatalf("[main] config: %v", err)
	}
	cfg := cfgManager.Get()

	if cfg.Log.File != "" {
		log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		}))
	}

	svc := catalog.NewService(catalog.Options{
		BaseURL:        cfg.Upstream.BaseURL,
		ImageOrigin:    cfg.Images.Origin,
		ImageUpload:    cfg.Images.UploadPath,
		DefaultBanner:  cfg.Images.DefaultBanner,
		CacheDir:       cfg.Cache.Dir,
		CacheTTL:       cfgManager.CacheTTL(),
		RequestTimeout: cfgManager.UpstreamTimeout(),
	})

	router := utils.NewRouter()
	router.Use(api.RequestIDMiddleware)
	router.Use(api.AccessLogMiddleware)

	limiter := api.NewLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)
	router.Use(limiter.Middleware)

	handlers.NewCatalogHandler(svc).RegisterRoutes(router)
	router.HandleFunc("/api/version", handlers.NewVersionHandler().GetVersion).Methods(http.MethodGet)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           utils.CORS(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[main] listening on %s (upstream %s)", cfg.ListenAddr, cfg.Upstream.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Printf("[main] shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[main] shutdown: %v", err)
	}
}
