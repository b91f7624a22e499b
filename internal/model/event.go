package model

// EventKind — тип входящего события от шлюза
type EventKind string

const (
	EventText     EventKind = "text"
	EventCommand  EventKind = "command"
	EventCallback EventKind = "callback"
)

// Теги callback-кнопок результата поиска
const (
	ActionRepeatSearch = "repeat_search"
	ActionChangeRadius = "change_radius"
)

// Event — одно входящее событие чата, очищенное от транспортных деталей
type Event struct {
	UserID  int64
	Kind    EventKind
	Text    string // текст сообщения для EventText
	Command string // имя команды без "/" для EventCommand
	Data    string // тег действия для EventCallback
}

// Button — интерактивная кнопка, прикрепляемая к ответу
type Button struct {
	Label string
	Data  string
}

// Reply — единственный исходящий ответ на входящее событие
type Reply struct {
	Text     string
	Markdown bool // текст размечен в MarkdownV2
	Buttons  []Button
}
