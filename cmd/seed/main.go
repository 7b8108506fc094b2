package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/vantagefleet/build-orders/internal/config"
	"github.com/vantagefleet/build-orders/internal/orders"
	"github.com/vantagefleet/build-orders/internal/postgres"
)

// Seeds the demo dataset and repairs collection-wide invariants. Run by
// hand or from a deploy hook; the API never triggers it.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	repairOnly := flag.Bool("repair-only", false, "reconcile the existing dataset without seeding")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	svc := orders.NewService(
		&orders.PgStore{DB: db},
		orders.GapsFromDays(cfg.OemToUpfitDays, cfg.UpfitToDeliverDays),
		cfg.DealerCode,
		cfg.ServiceName+"-seed",
	)
	seeder := &orders.Seeder{
		Svc:           svc,
		Target:        cfg.SeedTarget,
		MinStockRatio: cfg.MinStockRatio,
	}

	var created, repaired int
	if *repairOnly {
		repaired, err = seeder.Reconcile(ctx)
	} else {
		created, repaired, err = seeder.Run(ctx)
	}
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	all, err := svc.GetOrders(ctx, orders.Filter{})
	if err != nil {
		log.Fatalf("list: %v", err)
	}
	log.Printf("seed done: created=%d repaired=%d (%s)", created, repaired, orders.DescribeDataset(all))
}
