package main

import (
	"context"

	"lunchbot/internal/bot"
	"lunchbot/internal/config"
	"lunchbot/internal/dgis"
	"lunchbot/internal/repository"
	"lunchbot/internal/service"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// Request — структура входящего запроса от API Gateway
type Request struct {
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Response — структура ответа для API Gateway
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Handler обрабатывает один webhook-вызов. Все объекты собираются заново
// на каждый запрос, долговременное состояние живет только в хранилище.
func Handler(ctx context.Context, request Request) (*Response, error) {
	cfg, err := config.Load()
	if err != nil {
		return errorResponse(err)
	}

	// Проверка общего секрета до любой работы с состоянием
	if cfg.SecretToken != "" && request.Headers[secretTokenHeader] != cfg.SecretToken {
		return &Response{StatusCode: 401, Body: "unauthorized"}, nil
	}

	repo, err := repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		return errorResponse(err)
	}

	client := dgis.NewClient(cfg.DgisAPIKey)
	engine := service.NewEngine(repo, client, client)

	b, err := bot.NewBot(cfg.TelegramToken, engine)
	if err != nil {
		return errorResponse(err)
	}

	if err := b.HandleWebhook([]byte(request.Body)); err != nil {
		return errorResponse(err)
	}

	return &Response{
		StatusCode: 200,
		Body:       "",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func errorResponse(err error) (*Response, error) {
	return &Response{
		StatusCode: 500,
		Body:       err.Error(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// Точка входа для локального тестирования
}
