// The capforge API server prices orders and parses chat quotes for the
// storefront. Configuration comes from the environment; a local .env is
// loaded when present.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"capforge/api"
	"capforge/internal/catalog"
	"capforge/internal/pricing"
	"capforge/internal/quote"
	"capforge/internal/store"
	"capforge/pkg/platform"
)

func main() {
	// Best effort: production injects real environment variables.
	_ = godotenv.Load()

	log := platform.NewLogger(platform.GetEnv("LOG_LEVEL", "info"), false)

	dataDir := platform.GetEnv("CAPFORGE_DATA_DIR", "data")
	cache := catalog.NewCache(dataDir, log)
	engine := pricing.NewEngine(cache, log)
	if platform.GetEnvBool("CAPFORGE_BAKE_MARGIN", false) {
		engine = engine.WithBakedMargin()
	}
	parser := quote.NewParser(log)

	var quotes *store.Quotes
	if dbPath := platform.GetEnv("CAPFORGE_DB_PATH", "capforge.db"); dbPath != "" {
		db, err := store.Open(dbPath)
		if err != nil {
			log.Fatal().Err(err).Msg("opening quote store failed")
		}
		defer db.Close()
		if err := store.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migrating quote store failed")
		}
		quotes = store.NewQuotes(db)
	}

	cfg := api.DefaultConfig()
	cfg.Port = platform.GetEnvInt("PORT", cfg.Port)
	cfg.APIKey = platform.GetEnv("CAPFORGE_API_KEY", "")
	server := api.NewServer(engine, parser, cache, quotes, log, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("api server failed")
	}
	log.Info().Msg("api server stopped")
}
