package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/g1c/g1c/internal/cloud"
	"github.com/g1c/g1c/internal/config"
	"github.com/g1c/g1c/internal/core"
	"github.com/g1c/g1c/internal/eventbus"
	"github.com/g1c/g1c/internal/update"
)

// Application manages the complete application lifecycle
type Application struct {
	settings config.Settings
	eventBus *eventbus.EventBus
	service  *core.DashboardService
	model    *AppModel
	log      zerolog.Logger
}

// NewApplication wires the provider, service and UI model together.
func NewApplication(settings config.Settings, log zerolog.Logger) (*Application, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	eb := eventbus.NewEventBus()
	provider := cloud.NewGcloudCLI(settings.Project, settings.Region, log)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := provider.CheckAuth(ctx); err != nil {
		return nil, fmt.Errorf("gcloud authentication check failed: %w", err)
	}
	version, err := provider.Version(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not determine gcloud version")
		version = "unknown"
	}

	service := core.NewDashboardService(settings, provider, eb, log)
	model := newAppModel(eb, service, update.NewModel(settings.Project, settings.Region, version))

	return &Application{
		settings: settings,
		eventBus: eb,
		service:  service,
		model:    model,
		log:      log.With().Str("component", "app").Logger(),
	}, nil
}

// Start runs the first poll and then the interactive program. It returns
// once the operator quits or the UI fails.
func (app *Application) Start() error {
	if err := app.service.Start(); err != nil {
		return err
	}

	app.log.Info().
		Str("project", app.settings.Project).
		Str("region", app.settings.Region).
		Dur("refresh", app.settings.RefreshInterval).
		Msg("dashboard starting")

	p := tea.NewProgram(app.model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Stop shuts background work down with a bounded grace period.
func (app *Application) Stop() {
	app.service.Stop()
	app.eventBus.Close()
	app.log.Info().Msg("dashboard stopped")
}
