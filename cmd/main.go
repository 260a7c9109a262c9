package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/edgepay/edgepay-gobackend/internal/config"
	"github.com/edgepay/edgepay-gobackend/internal/handlers"
	"github.com/edgepay/edgepay-gobackend/internal/services"
	"github.com/edgepay/edgepay-gobackend/internal/store"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load .env
	if err := godotenv.Load(".env"); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Str("level", cfg.LogLevel).Msg("invalid log level")
	}
	log = log.Level(level)

	// Connect to MongoDB
	client, err := store.Connect(context.Background(), cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("error disconnecting from MongoDB")
		}
	}()
	log.Info().Msg("connected to MongoDB")

	linkStore := store.NewMongoStore(client.Database(cfg.DatabaseName))
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := linkStore.EnsureIndexes(ctx); err != nil {
			log.Error().Err(err).Msg("failed to create indexes")
		}
		cancel()
	}

	linkService := services.NewLinkService(linkStore, log)
	linkHandler := handlers.NewLinkHandler(linkService, log)
	router := handlers.NewRouter(linkHandler, log, cfg.JWTSecret)

	server := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	log.Info().Int("port", cfg.Port).Msg("server running")
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
