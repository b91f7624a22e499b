package service

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"strconv"
	"strings"

	"lunchbot/internal/geo"
	"lunchbot/internal/model"
)

// Заголовки уже размечены в MarkdownV2
const (
	titleNewSearch = "🎉 *Выбор сделан\\!* 🎉"
	titleRepeat    = "🎉 *Новый вариант\\!* 🎉"
)

// search выполняет один цикл поиска: собирает кандидатов, выбирает одного
// случайно и форматирует ответ с кнопками повтора и смены радиуса.
func (e *Engine) search(ctx context.Context, state *model.UserState, point model.Coordinates, title string) model.Reply {
	radiusMeters := int(state.RadiusKm * 1000)
	places := e.finder.FindPlaces(ctx, point, radiusMeters)
	if len(places) == 0 {
		return model.Reply{Text: fmt.Sprintf("К сожалению, я не нашел заведений в радиусе %s км.", formatRadius(state.RadiusKm))}
	}

	place := places[rand.Intn(len(places))]

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n📍 *Название:* ")
	b.WriteString(escapeMarkdown(place.Name))
	b.WriteString("\n")
	if place.AddressName != "" {
		b.WriteString("🏠 *Адрес:* ")
		b.WriteString(escapeMarkdown(place.AddressName))
		b.WriteString("\n")
	}
	if place.Point != nil {
		distance := geo.DistanceMeters(point, *place.Point)
		b.WriteString("📏 *Расстояние:* ")
		b.WriteString(escapeMarkdown(fmt.Sprintf("~%d м", distance)))
		b.WriteString("\n")
	}

	mapURL := place.URL
	if mapURL == "" {
		mapURL = "https://2gis.kz/search/" + url.QueryEscape(state.LastAddress)
	}
	b.WriteString("\n[Посмотреть на карте 2GIS](")
	b.WriteString(mapURL)
	b.WriteString(")")

	return model.Reply{
		Text:     b.String(),
		Markdown: true,
		Buttons: []model.Button{
			{Label: "Повторить поиск 🔁", Data: model.ActionRepeatSearch},
			{Label: "Сменить радиус 📏", Data: model.ActionChangeRadius},
		},
	}
}

func radiusPrompt(radiusKm float64) string {
	return fmt.Sprintf(
		"Текущий радиус поиска: %s км.\n"+
			"Отправьте новое значение в километрах (например, 0.5 или 3).\n\n"+
			"Чтобы отменить, введите /cancel.",
		formatRadius(radiusKm))
}

func formatRadius(radiusKm float64) string {
	return strconv.FormatFloat(radiusKm, 'f', -1, 64)
}

var markdownEscaper = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(", ")", "\\)",
	"~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
	"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}", ".", "\\.", "!", "\\!",
)

// escapeMarkdown экранирует спецсимволы Telegram MarkdownV2
func escapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}
