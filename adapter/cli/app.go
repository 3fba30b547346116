package cli

import (
	"errors"
	"time"

	internalApp "github.com/felixgeelhaar/hallpass/internal/app"
	availabilityCommands "github.com/felixgeelhaar/hallpass/internal/availability/application/commands"
	availabilityQueries "github.com/felixgeelhaar/hallpass/internal/availability/application/queries"
	tallyCommands "github.com/felixgeelhaar/hallpass/internal/tally/application/commands"
	tallyQueries "github.com/felixgeelhaar/hallpass/internal/tally/application/queries"
	"github.com/felixgeelhaar/hallpass/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	// Status Query Handlers
	GetStatusHandler       *availabilityQueries.GetStatusHandler
	ListOpenWindowsHandler *availabilityQueries.ListOpenWindowsHandler

	// Schedule Query Handlers
	GetScheduleHandler *availabilityQueries.GetScheduleHandler
	ExportCSVHandler   *availabilityQueries.ExportCSVHandler

	// Schedule Command Handlers
	SaveDayHandler       *availabilityCommands.SaveDayHandler
	AddBlockHandler      *availabilityCommands.AddBlockHandler
	RemoveBlockHandler   *availabilityCommands.RemoveBlockHandler
	ImportCSVHandler     *availabilityCommands.ImportCSVHandler
	ResetScheduleHandler *availabilityCommands.ResetScheduleHandler

	// Tally Handlers
	GetCountsHandler     *tallyQueries.GetCountsHandler
	BumpCounterHandler   *tallyCommands.BumpCounterHandler
	ResetCountersHandler *tallyCommands.ResetCountersHandler

	Health *observability.HealthRegistry

	// Location is the school's time zone, used to read --at values
	// without an offset.
	Location *time.Location
}

// NewApp creates a CLI application backed by the container's handlers.
func NewApp(container *internalApp.Container) *App {
	return &App{
		GetStatusHandler:       container.GetStatusHandler,
		ListOpenWindowsHandler: container.ListOpenWindowsHandler,
		GetScheduleHandler:     container.GetScheduleHandler,
		ExportCSVHandler:       container.ExportCSVHandler,
		SaveDayHandler:         container.SaveDayHandler,
		AddBlockHandler:        container.AddBlockHandler,
		RemoveBlockHandler:     container.RemoveBlockHandler,
		ImportCSVHandler:       container.ImportCSVHandler,
		ResetScheduleHandler:   container.ResetScheduleHandler,
		GetCountsHandler:       container.GetCountsHandler,
		BumpCounterHandler:     container.BumpCounterHandler,
		ResetCountersHandler:   container.ResetCountersHandler,
		Health:                 container.Health,
		Location:               container.Engine.Location(),
	}
}

var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// ErrNotInitialized is returned by commands run without a backing store.
var ErrNotInitialized = errors.New("hallpass is not initialized; check DATABASE_URL or SQLITE_PATH")
