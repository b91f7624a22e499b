// Package service реализует машину состояний диалога: решает, что спросить
// у пользователя дальше, запускает поиск заведений и формирует ответ.
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"lunchbot/internal/model"
)

// Geocoder разрешает текстовый адрес в координаты
type Geocoder interface {
	Geocode(ctx context.Context, address string) (model.Coordinates, error)
}

// PlaceFinder собирает заведения вокруг точки в заданном радиусе (в метрах).
// Пустой список означает «ничего не найдено», ошибки наружу не выходят.
type PlaceFinder interface {
	FindPlaces(ctx context.Context, point model.Coordinates, radiusMeters int) []model.Place
}

// Repository определяет интерфейс для работы с хранилищем состояний
type Repository interface {
	LoadState(ctx context.Context, userID int64) (*model.UserState, error)
	SaveState(ctx context.Context, state *model.UserState) error
	DeleteState(ctx context.Context, userID int64) error
}

// Engine обрабатывает входящие события чата. Состояние читается из
// хранилища один раз в начале обработки и записывается один раз в конце
// каждого пути, который его меняет. На каждое событие ровно один ответ.
type Engine struct {
	repo     Repository
	geocoder Geocoder
	finder   PlaceFinder
}

// NewEngine создает новый экземпляр Engine
func NewEngine(repo Repository, geocoder Geocoder, finder PlaceFinder) *Engine {
	return &Engine{
		repo:     repo,
		geocoder: geocoder,
		finder:   finder,
	}
}

// Handle обрабатывает одно событие и всегда возвращает ответ:
// ни одна ошибка нижних слоев не покидает движок.
func (e *Engine) Handle(ctx context.Context, event model.Event) model.Reply {
	state, err := e.repo.LoadState(ctx, event.UserID)
	if err != nil {
		// Недоступное хранилище не должно ломать диалог
		logrus.WithError(err).WithField("user_id", event.UserID).Warn("не удалось загрузить состояние, использую значения по умолчанию")
		state = model.NewUserState(event.UserID)
	}

	switch event.Kind {
	case model.EventCommand:
		return e.handleCommand(ctx, state, event.Command)
	case model.EventCallback:
		return e.handleCallback(ctx, state, event.Data)
	default:
		return e.handleText(ctx, state, event.Text)
	}
}

func (e *Engine) handleCommand(ctx context.Context, state *model.UserState, command string) model.Reply {
	switch command {
	case "start":
		return e.handleStart(ctx, state)
	case "setcity":
		state.ResetCity()
		state.PendingStep = model.StepAwaitingCity
		e.saveState(ctx, state)
		return model.Reply{Text: "Хорошо, давайте сменим город. Какой теперь выберем?"}
	case "radius":
		state.PendingStep = model.StepAwaitingRadius
		e.saveState(ctx, state)
		return model.Reply{Text: radiusPrompt(state.RadiusKm)}
	case "cancel":
		state.PendingStep = model.StepNone
		e.saveState(ctx, state)
		return model.Reply{Text: "Действие отменено."}
	default:
		return model.Reply{Text: "Я не знаю такой команды. Доступны /start, /setcity, /radius и /cancel."}
	}
}

func (e *Engine) handleStart(ctx context.Context, state *model.UserState) model.Reply {
	if state.City == "" {
		state.PendingStep = model.StepAwaitingCity
		e.saveState(ctx, state)
		return model.Reply{Text: fmt.Sprintf(
			"Привет! Я помогу тебе выбрать, где пообедать.\n"+
				"Текущий радиус поиска: %s км. Чтобы его изменить, используй команду /radius.\n\n"+
				"Для начала, пожалуйста, напиши мне свой город.",
			formatRadius(state.RadiusKm))}
	}

	state.PendingStep = model.StepAwaitingAddress
	e.saveState(ctx, state)
	return model.Reply{Text: fmt.Sprintf(
		"Привет! Текущий радиус поиска: %s км.\n"+
			"Ваш город: %s. Просто отправь мне улицу и номер дома.",
		formatRadius(state.RadiusKm), state.City)}
}

func (e *Engine) handleCallback(ctx context.Context, state *model.UserState, data string) model.Reply {
	switch data {
	case model.ActionRepeatSearch:
		if state.LastCoords == nil {
			return model.Reply{Text: "Нет сохраненных координат. Начните с /start."}
		}
		return e.search(ctx, state, *state.LastCoords, titleRepeat)
	case model.ActionChangeRadius:
		state.PendingStep = model.StepAwaitingRadius
		e.saveState(ctx, state)
		return model.Reply{Text: radiusPrompt(state.RadiusKm)}
	default:
		return model.Reply{Text: "Что-то пошло не так. Начните с /start."}
	}
}

func (e *Engine) handleText(ctx context.Context, state *model.UserState, text string) model.Reply {
	switch state.PendingStep {
	case model.StepAwaitingCity:
		state.City = text
		state.PendingStep = model.StepAwaitingAddress
		e.saveState(ctx, state)
		return model.Reply{Text: fmt.Sprintf("Город '%s' сохранен. Теперь отправьте улицу и номер дома (например, 'Абая 15').", text)}
	case model.StepAwaitingRadius:
		return e.handleRadiusInput(ctx, state, text)
	default:
		return e.handleAddress(ctx, state, text)
	}
}

func (e *Engine) handleRadiusInput(ctx context.Context, state *model.UserState, text string) model.Reply {
	// Запятая как десятичный разделитель тоже принимается
	value, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
	if err != nil || !state.SetRadius(value) {
		// Состояние не трогаем: пользователь остается в режиме ввода радиуса
		return model.Reply{Text: "Это не похоже на число. Пожалуйста, введите корректное значение (от 0.1 до 10)."}
	}

	state.PendingStep = model.StepNone
	e.saveState(ctx, state)

	if state.LastCoords == nil {
		return model.Reply{Text: fmt.Sprintf("Отлично! Новый радиус поиска сохранен: %s км.", formatRadius(state.RadiusKm))}
	}

	// Радиус сменился при сохраненных координатах — сразу ищем заново,
	// подтверждение и результат уходят одним сообщением
	reply := e.search(ctx, state, *state.LastCoords, titleNewSearch)
	prefix := fmt.Sprintf("Радиус обновлен: %s км.", formatRadius(state.RadiusKm))
	if reply.Markdown {
		prefix = escapeMarkdown(prefix)
	}
	reply.Text = prefix + "\n\n" + reply.Text
	return reply
}

func (e *Engine) handleAddress(ctx context.Context, state *model.UserState, text string) model.Reply {
	if state.City == "" {
		state.PendingStep = model.StepAwaitingCity
		e.saveState(ctx, state)
		return model.Reply{Text: "Для начала, пожалуйста, напишите мне свой город."}
	}

	fullAddress := state.City + ", " + text
	coords, err := e.geocoder.Geocode(ctx, fullAddress)
	if err != nil {
		// Шаг не меняется, пользователь может прислать адрес заново
		return model.Reply{Text: "Не смог найти такой адрес."}
	}

	state.LastCoords = &coords
	state.LastAddress = fullAddress
	state.PendingStep = model.StepNone
	e.saveState(ctx, state)

	return e.search(ctx, state, coords, titleNewSearch)
}

// saveState пишет состояние с политикой log-and-continue: ответ уже
// вычислен по состоянию в памяти, сбой записи не должен ломать диалог.
func (e *Engine) saveState(ctx context.Context, state *model.UserState) {
	if err := e.repo.SaveState(ctx, state); err != nil {
		logrus.WithError(err).WithField("user_id", state.UserID).Error("не удалось сохранить состояние пользователя")
	}
}
