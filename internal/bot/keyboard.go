package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lunchbot/internal/model"
)

// inlineKeyboard выкладывает кнопки ответа одной строкой
func inlineKeyboard(buttons []model.Button) tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, button := range buttons {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(button.Label, button.Data))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}
