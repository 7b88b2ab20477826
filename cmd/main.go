package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KotFed0t/trade_journal/config"
	"github.com/KotFed0t/trade_journal/data"
	"github.com/KotFed0t/trade_journal/data/cache"
	"github.com/KotFed0t/trade_journal/data/repository/memory"
	"github.com/KotFed0t/trade_journal/data/repository/postgres"
	"github.com/KotFed0t/trade_journal/data/session"
	"github.com/KotFed0t/trade_journal/internal/auth/jwtAuth"
	"github.com/KotFed0t/trade_journal/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/KotFed0t/trade_journal/internal/externalApi/moexApi"
	"github.com/KotFed0t/trade_journal/internal/externalApi/yahooApi"
	"github.com/KotFed0t/trade_journal/internal/reportGenerator/xslsxGenerator"
	"github.com/KotFed0t/trade_journal/internal/scheduler"
	"github.com/KotFed0t/trade_journal/internal/service/tradeJournalService"
	"github.com/KotFed0t/trade_journal/internal/tgbot"
	"github.com/KotFed0t/trade_journal/internal/transport/rest"
	"github.com/KotFed0t/trade_journal/internal/transport/telegram"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.String("storage", cfg.Storage), slog.String("priceProvider", cfg.Prices.Provider))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var repo tradeJournalService.Repository
	switch cfg.Storage {
	case config.StorageMemory:
		slog.Warn("using in-memory storage, data is lost on restart")
		repo = memory.New()
	default:
		pgClient := data.NewPostgresClient(cfg)
		defer pgClient.Close()
		repo = postgres.NewPostgres(pgClient)
	}

	var prices tradeJournalService.PriceProvider
	switch cfg.Prices.Provider {
	case config.PriceProviderMoex:
		prices = moexApi.New(cfg)
	default:
		prices = yahooApi.New(cfg)
	}

	opts := make([]tradeJournalService.Option, 0, 3)

	if cfg.Redis.Enabled {
		redisClient := data.NewRedisClient(cfg)
		defer redisClient.Close()

		opts = append(opts,
			tradeJournalService.WithPriceCache(cache.NewRedisCache(redisClient, cfg)),
			tradeJournalService.WithSessionStore(session.NewRedisSession(redisClient, cfg)),
		)
	}

	if cfg.GoogleDrive.Enabled {
		opts = append(opts, tradeJournalService.WithReportStorage(googleDriveApi.New(ctx, cfg)))
	}

	tradeJournalSrv := tradeJournalService.New(cfg, repo, prices, xslsxGenerator.New(), opts...)

	sched := scheduler.New(cfg.Jobs.Timeout)
	sched.NewIntervalJob("refresh price cache", tradeJournalSrv.RefreshPriceCache, cfg.Jobs.RefreshPricesInterval, true)
	sched.NewIntervalJob("delete old reports", tradeJournalSrv.DeleteOldReports, cfg.Jobs.DeleteOldReportsInterval, false)
	sched.Start()
	defer sched.Stop()

	auth := jwtAuth.New(cfg)

	gin.SetMode(cfg.HTTP.GinMode)
	server := rest.NewServer(cfg, rest.NewRouter(rest.NewHandler(tradeJournalSrv, auth)))
	server.Start()

	if cfg.Telegram.Enabled {
		tgController := telegram.NewController(cfg, tradeJournalSrv, auth)
		tgBot := tgbot.New(cfg, tgController, tradeJournalSrv)
		tgBot.Start()
		defer tgBot.Stop()
	}

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt

	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	server.Stop(shutdownCtx)
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
