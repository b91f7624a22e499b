package repository

import (
	"context"
	"testing"

	"lunchbot/internal/model"
)

func TestMemoryRepositoryRoundTrip(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	state := model.NewUserState(42)
	state.City = "Алматы"
	state.PendingStep = model.StepAwaitingAddress
	state.RadiusKm = 2.5
	state.LastCoords = &model.Coordinates{Lat: 43.238949, Lon: 76.889709}
	state.LastAddress = "Алматы, Абая 15"

	if err := repo.SaveState(ctx, state); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	loaded, err := repo.LoadState(ctx, 42)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if loaded.City != state.City || loaded.PendingStep != state.PendingStep ||
		loaded.RadiusKm != state.RadiusKm || loaded.LastAddress != state.LastAddress {
		t.Errorf("loaded state %+v does not match saved %+v", loaded, state)
	}
	if loaded.LastCoords == nil || *loaded.LastCoords != *state.LastCoords {
		t.Errorf("loaded coords %+v, want %+v", loaded.LastCoords, state.LastCoords)
	}
}

func TestMemoryRepositoryDefaultsWhenAbsent(t *testing.T) {
	repo := NewMemoryRepository()

	state, err := repo.LoadState(context.Background(), 7)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if state.UserID != 7 {
		t.Errorf("UserID = %d, want 7", state.UserID)
	}
	if state.RadiusKm != model.DefaultRadiusKm {
		t.Errorf("RadiusKm = %v, want default %v", state.RadiusKm, model.DefaultRadiusKm)
	}
	if state.PendingStep != model.StepNone || state.City != "" || state.LastCoords != nil {
		t.Errorf("fresh state should be empty, got %+v", state)
	}
}

func TestMemoryRepositoryDelete(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	state := model.NewUserState(1)
	state.City = "Астана"
	if err := repo.SaveState(ctx, state); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if err := repo.DeleteState(ctx, 1); err != nil {
		t.Fatalf("DeleteState: %v", err)
	}

	loaded, err := repo.LoadState(ctx, 1)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if loaded.City != "" {
		t.Errorf("state should be reset after delete, got city %q", loaded.City)
	}
}

func TestMemoryRepositoryIsolatesStoredState(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	state := model.NewUserState(5)
	state.City = "Алматы"
	state.LastCoords = &model.Coordinates{Lat: 1, Lon: 2}
	repo.SaveState(ctx, state)

	// Мутация исходника и загруженной копии не должна менять хранимое
	state.City = "changed"
	state.LastCoords.Lat = 99

	loaded, _ := repo.LoadState(ctx, 5)
	if loaded.City != "Алматы" || loaded.LastCoords.Lat != 1 {
		t.Errorf("stored state was mutated through aliasing: %+v", loaded)
	}

	loaded.City = "changed again"
	reloaded, _ := repo.LoadState(ctx, 5)
	if reloaded.City != "Алматы" {
		t.Error("stored state was mutated through loaded copy")
	}
}
