package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"SupplierScout/internal/app"
	"SupplierScout/internal/config"
	"SupplierScout/internal/domain"
	"SupplierScout/internal/logging"
)

func main() {
	_ = godotenv.Load()

	var (
		query    = flag.String("query", "", "free-text product description (required)")
		amount   = flag.String("amount", "", "desired amount, e.g. \"50\" or \"2 tons\"")
		date     = flag.String("date", "", "delivery date, e.g. 25.07.2025")
		loc      = flag.String("location", "", "city, country or region")
		strategy = flag.String("strategy", "direct", "query strategy: direct, catalog, trusted, local")
		mode     = flag.String("mode", "", "extraction mode: qualify or snippet")
	)
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := application.Search(ctx, domain.SearchRequest{
		Query:        *query,
		Amount:       *amount,
		DeliveryDate: *date,
		Location:     *loc,
		Strategy:     domain.Strategy(*strategy),
		Mode:         domain.ExtractionMode(*mode),
	})
	if err != nil {
		logger.Error("search failed", "error", err)
		os.Exit(1)
	}

	printReport(report)
}

func printReport(report domain.SearchReport) {
	fmt.Printf("Session %s: %d supplier(s), %d rejection(s) in %s\n",
		report.SessionID, len(report.Suppliers), len(report.Rejections), report.Elapsed)
	for _, s := range report.Suppliers {
		fmt.Printf("- %s\n  %s\n  %s\n", s.Name, s.Website, s.ContactInfo)
	}
}
