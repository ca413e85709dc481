// main.go
package main

import (
	"log"
	"net/http"
	"time"

	"casaora/cmd"
	"casaora/internal/cms"
	"casaora/internal/data/repository"
	"casaora/internal/events"
	"casaora/internal/jobs"
	"casaora/internal/payments"
	"casaora/internal/search"
	"casaora/internal/usecase"
	"casaora/internal/wire"
	"casaora/pkg/database"
	"casaora/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Redis backs the professional search index
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})
	defer rdb.Close()

	// Event publisher is best-effort: the API stays up without the broker
	publisher, err := events.NewPublisher(config.AMQP.URL, config.AMQP.Exchange, logger)
	if err != nil {
		logger.Warn("Event publisher unavailable, events will be dropped", zap.Error(err))
	} else {
		defer publisher.Close()
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	deps := usecase.Deps{
		Intents: payments.NewIntentClient(httpClient, config.Payments.BaseURL, config.Payments.MerchantID, config.Payments.Secret),
		Orders:  payments.NewOrderClient(httpClient, config.Orders.BaseURL, config.Orders.ClientID, config.Orders.Secret),
		Events:  publisher,
		Index:   search.NewIndex(rdb, logger),
		CMS:     cms.NewClient(httpClient, config.CMS.BaseURL, config.CMS.Token),
	}

	// Wire all dependencies
	app := wire.Wiring(repos, config, deps, logger)

	// Schedule background jobs
	scheduler, err := jobs.NewScheduler(config, app.Service.Payout, repos.Session, logger)
	if err != nil {
		logger.Fatal("Failed to build scheduler", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port, logger)
}
