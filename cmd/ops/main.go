package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vantagefleet/build-orders/internal/config"
	kafkax "github.com/vantagefleet/build-orders/internal/kafka"
	"github.com/vantagefleet/build-orders/internal/opsworker"
	"github.com/vantagefleet/build-orders/internal/orders"
	"github.com/vantagefleet/build-orders/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &opsworker.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-ops",
	}

	group := getenv("OPS_GROUP", "ops-cache")
	workers := mustAtoi(os.Getenv("OPS_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicStatusChanged, workers)

	go func() {
		log.Printf("ops consumer started: group=%s topic=%s workers=%d", group, orders.TopicStatusChanged, workers)
		if err := cons.Start(ctx, svc.HandleStatusEvent); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
