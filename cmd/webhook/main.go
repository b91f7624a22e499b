package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"lunchbot/internal/bot"
	"lunchbot/internal/config"
	"lunchbot/internal/dgis"
	"lunchbot/internal/logcfg"
	"lunchbot/internal/repository"
	"lunchbot/internal/service"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

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

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Post("/api", func(w http.ResponseWriter, r *http.Request) {
		// Невалидный секрет отсекается до любой работы с состоянием
		if cfg.SecretToken != "" && r.Header.Get(secretTokenHeader) != cfg.SecretToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		// Telegram повторяет доставку при неуспешном статусе, поэтому
		// ошибки обработки логируем, но отвечаем 200
		if err := b.HandleWebhook(body); err != nil {
			logrus.WithError(err).Error("ошибка обработки webhook-обновления")
		}
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{Addr: cfg.RunAddress, Handler: router}
	go func() {
		logrus.Infof("webhook-сервер слушает %s", cfg.RunAddress)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("HTTP server: %v", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	<-signalChan
	logrus.Info("останавливаю webhook-сервер...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("HTTP server Shutdown: %v", err)
	}
	logrus.Info("сервер остановлен")
}
