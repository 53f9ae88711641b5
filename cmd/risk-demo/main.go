package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/meridianhq/risk-engine/internal/config"
	"github.com/meridianhq/risk-engine/internal/execsource"
	"github.com/meridianhq/risk-engine/internal/observ"
	"github.com/meridianhq/risk-engine/internal/risk"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults when empty)")
	userID := flag.String("user", "demo", "user identity to evaluate")
	metricsAddr := flag.String("metrics", "", "serve metrics snapshot on this address (e.g. :9090)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	observ.InitLogging(observ.LogConfig{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})

	source, sourceName := buildSource(cfg)
	engine := risk.NewEngine(source, risk.EngineConfig{
		Policy:         cfg.RiskLimits,
		Sectors:        cfg.SectorMap(),
		ReferencePrice: cfg.FallbackPrice,
		RiskFreeRate:   cfg.RiskFreeRate,
	})

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observ.Handler())
			log.Printf("metrics on %s/metrics", *metricsAddr)
			log.Fatal(http.ListenAndServe(*metricsAddr, mux))
		}()
	}

	fmt.Println("🚀 Portfolio Risk & Analytics Demo")
	fmt.Println("==================================")
	fmt.Printf("execution source: %s\n", sourceName)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	printSection("Account Info", engine.GetAccountInfo(ctx, *userID))
	printSection("Portfolio Summary", engine.GetPortfolioSummary(ctx, *userID))
	printSection("Portfolio Analytics", engine.GetPortfolioAnalytics(ctx, *userID))
	printSection("Risk Metrics", engine.CalculateRiskMetrics(ctx, *userID))
	printSection("Portfolio Greeks", engine.CalculatePortfolioGreeks(ctx, *userID))

	order := risk.OrderRequest{Symbol: "NVDA", Qty: 200, LimitPrice: 100}
	printSection(fmt.Sprintf("Risk Gate (%s qty=%.0f limit=%.2f)", order.Symbol, order.Qty, order.LimitPrice),
		engine.CheckRiskLimits(ctx, *userID, order))

	if *metricsAddr != "" {
		fmt.Println("\nserving metrics; ctrl-c to exit")
		select {}
	}
}

// buildSource picks the Execution Source: Alpaca when configured and
// credentialed, otherwise the deterministic mock. The engine degrades to
// the paper snapshot on its own if the source turns out to be unreachable.
func buildSource(cfg config.Root) (execsource.Source, string) {
	if cfg.Source.Provider == "alpaca" {
		keyID := os.Getenv("APCA_API_KEY_ID")
		secret := os.Getenv("APCA_API_SECRET_KEY")
		source, err := execsource.NewAlpacaSource(execsource.AlpacaConfig{
			BaseURL:            cfg.Source.BaseURL,
			KeyID:              keyID,
			SecretKey:          secret,
			TimeoutMs:          cfg.Source.TimeoutMs,
			RateLimitPerMinute: cfg.Source.RateLimitPerMinute,
			MaxRetries:         cfg.Source.MaxRetries,
			BackoffBaseMs:      cfg.Source.BackoffBaseMs,
		})
		if err != nil {
			log.Printf("alpaca source unavailable (%v), using mock", err)
			return execsource.NewMockSource(), "mock"
		}
		return source, "alpaca"
	}
	return execsource.NewMockSource(), "mock"
}

func printSection(title string, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("marshal %s: %v", title, err)
	}
	fmt.Printf("\n📊 %s\n%s\n", title, b)
}
