// Package repository отвечает за долговременное хранение состояний диалога.
package repository

import (
	"context"

	"lunchbot/internal/model"
)

// Repository определяет контракт хранилища состояний по идентификатору
// пользователя. Отсутствие записи — не ошибка: LoadState возвращает
// состояние со значениями по умолчанию.
type Repository interface {
	LoadState(ctx context.Context, userID int64) (*model.UserState, error)
	SaveState(ctx context.Context, state *model.UserState) error
	DeleteState(ctx context.Context, userID int64) error
}
