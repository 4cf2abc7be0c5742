package main

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/fleshka4/stableswap-estimator/internal/config"
	"github.com/fleshka4/stableswap-estimator/internal/infra/curvepool"
	"github.com/fleshka4/stableswap-estimator/internal/logging"
	"github.com/fleshka4/stableswap-estimator/internal/service"
	"github.com/fleshka4/stableswap-estimator/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("godotenv.Load: %v", err)
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "cfg/config.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config.Load: %v", err)
	}

	logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	client, err := curvepool.NewClient(cfg.RPCURL, cfg.CallTimeout)
	if err != nil {
		log.Fatalf("curvepool.NewClient: %v", err)
	}

	est := service.NewEstimatorService(client, cfg.DefaultFee())

	srv, err := http.NewServer(est, cfg)
	if err != nil {
		log.Fatalf("http.NewServer: %v", err)
	}

	err = srv.ListenAndServe(cfg.ListenAddr)
	if err != nil {
		log.Fatalf("srv.ListenAndServe: %v", err)
	}
}
