package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/PandaWhoCodes/discord-personality-check/internal/bot"
	"github.com/PandaWhoCodes/discord-personality-check/internal/config"
	"github.com/PandaWhoCodes/discord-personality-check/internal/content"
	"github.com/PandaWhoCodes/discord-personality-check/internal/database"
	"github.com/PandaWhoCodes/discord-personality-check/internal/scheduler"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// Content problems are fatal: the bot must not accept test commands
	// without well-formed questions and all 16 profiles.
	store, err := content.Load(cfg.ContentDir)
	if err != nil {
		logger.Fatal("failed to load content", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("questions", content.FullQuestionCount),
		zap.Int("quick_questions", content.QuickQuestionCount))

	if err := database.Connect(cfg.TursoURL, cfg.TursoToken, cfg.DatabasePath); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	b, err := bot.New(cfg, store, logger)
	if err != nil {
		logger.Fatal("failed to create bot", zap.Error(err))
	}

	sweeper := scheduler.New(b.Manager(), cfg.SweepInterval, logger)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sweeper.Stop()

	if err := b.Start(); err != nil {
		logger.Fatal("failed to start bot", zap.Error(err))
	}
	logger.Info("bot started, press ctrl+c to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("shutting down", zap.String("signal", sig.String()))

	if err := b.Stop(); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	logger.Info("bot stopped")
}
