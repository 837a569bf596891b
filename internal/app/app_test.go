package app

import (
	"testing"
	"time"

	"cleanroster/config"
	"cleanroster/internal/controllers"
	"cleanroster/internal/database"
	"cleanroster/internal/events"
	"cleanroster/internal/repositories"
	"cleanroster/internal/services"
	"cleanroster/internal/testutil"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func wiredApp(t *testing.T) *App {
	t.Helper()

	cfg := config.Config{
		ServerPort:       8288,
		JWTSecret:        "secret",
		JWTExpiryMinutes: 30,
		StoreTimeoutMS:   5000,
	}
	db := database.DB{SQL: &gorm.DB{}}
	repos := repositories.Repository{Store: repositories.NewStore(nil, nil, nil, time.Second)}
	svc := services.NewWithStore(db, cfg, services.NewTransactionService(db), testutil.NewMemStore())
	bus := events.New(nil)
	t.Cleanup(func() { _ = bus.Close() })

	return &App{
		Database:    db,
		Config:      cfg,
		EventBus:    bus,
		Services:    svc,
		Repos:       repos,
		Controllers: controllers.New(svc, repos, bus, cfg),
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, wiredApp(t).validate())

	tests := []struct {
		name  string
		unset func(a *App)
	}{
		{"database", func(a *App) { a.Database.SQL = nil }},
		{"config", func(a *App) { a.Config = config.Config{} }},
		{"event bus", func(a *App) { a.EventBus = nil }},
		{"rating service", func(a *App) { a.Services.Rating = nil }},
		{"snapshot service", func(a *App) { a.Services.Snapshot = nil }},
		{"store", func(a *App) { a.Repos.Store = nil }},
		{"group controller", func(a *App) { a.Controllers.Group = nil }},
		{"auth controller", func(a *App) { a.Controllers.Auth = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := wiredApp(t)
			tt.unset(a)
			assert.Error(t, a.validate())
		})
	}
}
