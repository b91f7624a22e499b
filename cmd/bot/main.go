package main

import (
	"github.com/sirupsen/logrus"

	"lunchbot/internal/bot"
	"lunchbot/internal/config"
	"lunchbot/internal/dgis"
	"lunchbot/internal/logcfg"
	"lunchbot/internal/repository"
	"lunchbot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	logcfg.Setup(cfg.LogLevel, cfg.LogFileName)

	var repo service.Repository
	if cfg.SupabaseURL != "" {
		repo, err = repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			logrus.Fatal(err)
		}
	} else {
		logrus.Warn("SUPABASE_URL не задан, состояния хранятся только в памяти процесса")
		repo = repository.NewMemoryRepository()
	}

	client := dgis.NewClient(cfg.DgisAPIKey)
	engine := service.NewEngine(repo, client, client)

	b, err := bot.NewBot(cfg.TelegramToken, engine)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := b.Start(); err != nil {
		logrus.Fatal(err)
	}
}
