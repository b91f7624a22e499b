package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/supabase-community/supabase-go"

	"lunchbot/internal/model"
)

const userStatesTable = "user_states"

// SupabaseRepository хранит состояния пользователей в таблице Supabase,
// по одной строке на пользователя.
type SupabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(url, key string) (*SupabaseRepository, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}

	return &SupabaseRepository{
		client: client,
	}, nil
}

// userStateRow — плоское представление строки таблицы user_states
type userStateRow struct {
	UserID      int64     `json:"user_id"`
	City        string    `json:"city,omitempty"`
	PendingStep string    `json:"pending_step,omitempty"`
	RadiusKm    float64   `json:"radius_km"`
	LastLat     *float64  `json:"last_lat,omitempty"`
	LastLon     *float64  `json:"last_lon,omitempty"`
	LastAddress string    `json:"last_address,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r *SupabaseRepository) LoadState(ctx context.Context, userID int64) (*model.UserState, error) {
	data, _, err := r.client.From(userStatesTable).
		Select("*", "", false).
		Eq("user_id", strconv.FormatInt(userID, 10)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to load user state: %w", err)
	}

	var rows []userStateRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse user state: %w", err)
	}
	if len(rows) == 0 {
		return model.NewUserState(userID), nil
	}
	return stateFromRow(rows[0]), nil
}

func (r *SupabaseRepository) SaveState(ctx context.Context, state *model.UserState) error {
	row := rowFromState(state)
	row.UpdatedAt = time.Now()

	_, _, err := r.client.From(userStatesTable).
		Insert(row, true, "user_id", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to save user state: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) DeleteState(ctx context.Context, userID int64) error {
	_, _, err := r.client.From(userStatesTable).
		Delete("", "").
		Eq("user_id", strconv.FormatInt(userID, 10)).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete user state: %w", err)
	}
	return nil
}

func stateFromRow(row userStateRow) *model.UserState {
	state := &model.UserState{
		UserID:      row.UserID,
		City:        row.City,
		PendingStep: model.Step(row.PendingStep),
		RadiusKm:    row.RadiusKm,
		LastAddress: row.LastAddress,
		UpdatedAt:   row.UpdatedAt,
	}
	// Строки, записанные ранними версиями бота, могут не содержать радиуса
	// или содержать неизвестный шаг
	if state.RadiusKm == 0 {
		state.RadiusKm = model.DefaultRadiusKm
	}
	if !state.PendingStep.Valid() {
		state.PendingStep = model.StepNone
	}
	if row.LastLat != nil && row.LastLon != nil {
		state.LastCoords = &model.Coordinates{Lat: *row.LastLat, Lon: *row.LastLon}
	}
	return state
}

func rowFromState(state *model.UserState) userStateRow {
	row := userStateRow{
		UserID:      state.UserID,
		City:        state.City,
		PendingStep: string(state.PendingStep),
		RadiusKm:    state.RadiusKm,
		LastAddress: state.LastAddress,
		UpdatedAt:   state.UpdatedAt,
	}
	if state.LastCoords != nil {
		lat, lon := state.LastCoords.Lat, state.LastCoords.Lon
		row.LastLat, row.LastLon = &lat, &lon
	}
	return row
}
