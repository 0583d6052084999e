package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/theprincepratap/AlexNet-Visualization/internal/alexnet"
	"github.com/theprincepratap/AlexNet-Visualization/internal/config"
	"github.com/theprincepratap/AlexNet-Visualization/internal/handlers"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	labels := loadLabels(log, cfg)

	log.Info("loading weights", "path", cfg.WeightsPath)
	net, err := alexnet.Load(cfg.WeightsPath, labels)
	if err != nil {
		log.Error("load weights", "error", err)
		os.Exit(1)
	}
	log.Info("model loaded", "classes", alexnet.NumClasses)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors)
	r.Mount("/", handlers.New(net, log, cfg.MaxUploadMB).Routes())

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	go func() {
		log.Info("server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown", "error", err)
	}
}

// loadLabels resolves class labels: a local file wins, then a network
// fetch, then numbered placeholders. Label failures never block
// startup.
func loadLabels(log *slog.Logger, cfg *config.Config) []string {
	if cfg.LabelsPath != "" {
		labels, err := alexnet.LoadLabelsFile(cfg.LabelsPath)
		if err == nil {
			log.Info("labels loaded", "path", cfg.LabelsPath, "count", len(labels))
			return labels
		}
		log.Warn("load labels file", "path", cfg.LabelsPath, "error", err)
	}

	labels, err := alexnet.FetchLabels(cfg.LabelsURL)
	if err == nil {
		log.Info("labels fetched", "url", cfg.LabelsURL, "count", len(labels))
		return labels
	}
	log.Warn("fetch labels", "url", cfg.LabelsURL, "error", err)

	log.Warn("using placeholder labels")
	return alexnet.PlaceholderLabels(alexnet.NumClasses)
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
