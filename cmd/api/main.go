package main

import (
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"macropulse/backend-go/internal/config"
	internalhttp "macropulse/backend-go/internal/http"
	"macropulse/backend-go/internal/services"
)

func main() {
	_ = godotenv.Load(
		".env",
		".env.local",
		"../.env",
		"../.env.local",
		"backend-go/.env",
		"backend-go/.env.local",
	)
	cfg := config.Load()
	if cfg.FredAPIKey == "" {
		logrus.Warn("FRED_API_KEY not set, /api/macro-data will return configuration errors")
	}

	cache := services.NewSnapshotCache(cfg)
	fred := services.NewFredClient(cfg)

	h := internalhttp.NewRouter(cfg, cache, fred)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logrus.WithFields(logrus.Fields{
		"addr":  srv.Addr,
		"cache": cache.Backend(),
	}).Info("macropulse backend listening")
	if err := srv.ListenAndServe(); err != nil {
		logrus.Fatal(err)
	}
}
