// Package bot связывает Telegram с движком диалога: декодирует обновления,
// передает их движку и доставляет ответ.
package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"lunchbot/internal/model"
	"lunchbot/internal/service"
)

// Бюджет времени на обработку одного обновления, включая внешние запросы
const handleTimeout = 25 * time.Second

type Bot struct {
	api    *tgbotapi.BotAPI
	engine *service.Engine
}

func NewBot(token string, engine *service.Engine) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api:    api,
		engine: engine,
	}, nil
}

// Start запускает бота в режиме long polling
func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	logrus.Infof("бот %s запущен, жду обновлений", b.api.Self.UserName)

	for update := range updates {
		if err := b.handleUpdate(update); err != nil {
			// Логируем ошибку, но продолжаем работу
			logrus.WithError(err).Error("ошибка обработки обновления")
		}
	}

	return nil
}

// HandleWebhook — точка входа для одного входящего webhook-обновления
func (b *Bot) HandleWebhook(body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("decode update: %w", err)
	}

	return b.handleUpdate(update)
}

func (b *Bot) handleUpdate(update tgbotapi.Update) error {
	event, chatID, ok := eventFromUpdate(update)
	if !ok {
		return nil
	}

	logger := logrus.WithFields(logrus.Fields{
		"correlation_id": uuid.NewString(),
		"user_id":        event.UserID,
		"kind":           event.Kind,
	})
	logger.Info("обрабатываю событие")

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	reply := b.engine.Handle(ctx, event)

	if update.CallbackQuery != nil {
		// Снимаем индикатор загрузки с кнопки
		if _, err := b.api.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, "")); err != nil {
			logger.WithError(err).Warn("не удалось ответить на callback")
		}
	}

	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if reply.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdownV2
	}
	if len(reply.Buttons) > 0 {
		msg.ReplyMarkup = inlineKeyboard(reply.Buttons)
	}

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send reply to chat %d: %w", chatID, err)
	}
	return nil
}

// eventFromUpdate переводит Telegram-обновление в событие движка.
// Возвращает false для обновлений, которые бот не обрабатывает.
func eventFromUpdate(update tgbotapi.Update) (model.Event, int64, bool) {
	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		return model.Event{
			UserID: cb.From.ID,
			Kind:   model.EventCallback,
			Data:   cb.Data,
		}, cb.Message.Chat.ID, true
	case update.Message != nil && update.Message.IsCommand():
		msg := update.Message
		return model.Event{
			UserID:  msg.From.ID,
			Kind:    model.EventCommand,
			Command: msg.Command(),
		}, msg.Chat.ID, true
	case update.Message != nil && update.Message.Text != "":
		msg := update.Message
		return model.Event{
			UserID: msg.From.ID,
			Kind:   model.EventText,
			Text:   msg.Text,
		}, msg.Chat.ID, true
	}
	return model.Event{}, 0, false
}
