package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vantagefleet/build-orders/internal/catalog"
	"github.com/vantagefleet/build-orders/internal/config"
	"github.com/vantagefleet/build-orders/internal/httpx"
	kafkax "github.com/vantagefleet/build-orders/internal/kafka"
	"github.com/vantagefleet/build-orders/internal/orders"
	"github.com/vantagefleet/build-orders/internal/postgres"
	"github.com/vantagefleet/build-orders/internal/pricing"
	"github.com/vantagefleet/build-orders/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	pIntake := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderIntake, 1024)
	pIntake.Start(ctx)
	pStatus := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicStatusChanged, 1024)
	pStatus.Start(ctx)

	// Catalog
	cat, err := catalog.Load(cfg.CatalogDir)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}

	// Service & handlers
	svc := orders.NewService(
		&orders.PgStore{DB: db},
		orders.GapsFromDays(cfg.OemToUpfitDays, cfg.UpfitToDeliverDays),
		cfg.DealerCode,
		cfg.ServiceName,
	)
	svc.Sink = &kafkax.OrderSink{Intake: pIntake, Status: pStatus}

	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{Svc: svc, Redis: rdb}
	oh.Register(router)
	ch := &httpx.CatalogHandler{
		Catalog: cat,
		Pricing: pricing.Config{FreightFee: cfg.FreightFee, TaxRate: cfg.TaxRate},
		Redis:   rdb,
	}
	ch.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pIntake.Close() // flush & close writers
	pStatus.Close()
	cancel()
	pIntake.WaitClosed()
	pStatus.WaitClosed()
}
