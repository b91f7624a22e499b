package model

import "time"

// Step определяет, как бот интерпретирует следующее текстовое сообщение пользователя
type Step string

const (
	StepNone            Step = ""
	StepAwaitingCity    Step = "awaiting_city"
	StepAwaitingAddress Step = "awaiting_address"
	StepAwaitingRadius  Step = "awaiting_radius"
	StepConfirmAddress  Step = "confirm_address"
)

// Valid сообщает, известно ли движку такое значение шага.
// Неизвестные значения из хранилища сбрасываются в StepNone.
func (s Step) Valid() bool {
	switch s {
	case StepNone, StepAwaitingCity, StepAwaitingAddress, StepAwaitingRadius, StepConfirmAddress:
		return true
	}
	return false
}

// Допустимые границы радиуса поиска в километрах
const (
	DefaultRadiusKm = 1.0
	MinRadiusKm     = 0.1
	MaxRadiusKm     = 10.0
)

// UserState представляет сохраняемое состояние диалога с пользователем
type UserState struct {
	UserID      int64        `json:"user_id"`
	City        string       `json:"city,omitempty"`
	PendingStep Step         `json:"pending_step,omitempty"`
	RadiusKm    float64      `json:"radius_km"`
	LastCoords  *Coordinates `json:"last_coords,omitempty"`
	LastAddress string       `json:"last_address,omitempty"`
	UpdatedAt   time.Time    `json:"updated_at,omitempty"`
}

// NewUserState создает состояние с значениями по умолчанию для нового пользователя
func NewUserState(userID int64) *UserState {
	return &UserState{
		UserID:   userID,
		RadiusKm: DefaultRadiusKm,
	}
}

// SetRadius обновляет радиус поиска. Значение вне диапазона [0.1, 10]
// отклоняется, прежний радиус сохраняется.
func (s *UserState) SetRadius(km float64) bool {
	if km < MinRadiusKm || km > MaxRadiusKm {
		return false
	}
	s.RadiusKm = km
	return true
}

// ResetCity очищает город и привязанные к нему координаты,
// радиус при этом сохраняется.
func (s *UserState) ResetCity() {
	s.City = ""
	s.LastCoords = nil
	s.LastAddress = ""
}

// Clone возвращает независимую копию состояния
func (s *UserState) Clone() *UserState {
	clone := *s
	if s.LastCoords != nil {
		coords := *s.LastCoords
		clone.LastCoords = &coords
	}
	return &clone
}
