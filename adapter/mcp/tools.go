// Package mcp exposes hallpass status, schedule and tally operations as MCP
// tools and resources.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/hallpass/adapter/cli"
	availabilityQueries "github.com/felixgeelhaar/hallpass/internal/availability/application/queries"
	tallyCommands "github.com/felixgeelhaar/hallpass/internal/tally/application/commands"
	tallyQueries "github.com/felixgeelhaar/hallpass/internal/tally/application/queries"
	"github.com/felixgeelhaar/mcp-go"
)

// ToolDependencies provides handlers for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

var errNotInitialized = errors.New("hallpass requires a database connection")

type atInput struct {
	At string `json:"at,omitempty"`
}

type scheduleShowInput struct{}

type tallyBumpInput struct {
	Who   string `json:"who" jsonschema:"required"`
	Delta int    `json:"delta,omitempty"`
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}
	app := deps.App

	srv.Tool("status.current").
		Description("Whether the restroom is OPEN, CLOSED or OUTSIDE school hours, with the reason and next change").
		Handler(func(ctx context.Context, input atInput) (*availabilityQueries.StatusDTO, error) {
			return currentStatus(ctx, app, input)
		})

	srv.Tool("status.windows").
		Description("Every open interval of the school day").
		Handler(func(ctx context.Context, input atInput) (*availabilityQueries.WindowsDTO, error) {
			return openWindows(ctx, app, input)
		})

	srv.Tool("schedule.show").
		Description("The Monday and Tuesday–Friday bell schedules").
		Handler(func(ctx context.Context, _ scheduleShowInput) (*availabilityQueries.ScheduleDTO, error) {
			return showSchedule(ctx, app)
		})

	srv.Tool("tally.show").
		Description("Current girls and boys visit counters").
		Handler(func(ctx context.Context, _ struct{}) (*tallyQueries.CountsDTO, error) {
			return showTally(ctx, app)
		})

	srv.Tool("tally.bump").
		Description("Add or subtract one visit for girls or boys; counters never go below zero").
		Handler(func(ctx context.Context, input tallyBumpInput) (*tallyQueries.CountsDTO, error) {
			return bumpTally(ctx, app, input)
		})

	return nil
}

func currentStatus(ctx context.Context, app *cli.App, input atInput) (*availabilityQueries.StatusDTO, error) {
	if app == nil || app.GetStatusHandler == nil {
		return nil, errNotInitialized
	}
	at, err := cli.ParseAt(input.At, app.Location)
	if err != nil {
		return nil, err
	}
	return app.GetStatusHandler.Handle(ctx, availabilityQueries.GetStatusQuery{At: at})
}

func openWindows(ctx context.Context, app *cli.App, input atInput) (*availabilityQueries.WindowsDTO, error) {
	if app == nil || app.ListOpenWindowsHandler == nil {
		return nil, errNotInitialized
	}
	at, err := cli.ParseAt(input.At, app.Location)
	if err != nil {
		return nil, err
	}
	return app.ListOpenWindowsHandler.Handle(ctx, availabilityQueries.ListOpenWindowsQuery{At: at})
}

func showSchedule(ctx context.Context, app *cli.App) (*availabilityQueries.ScheduleDTO, error) {
	if app == nil || app.GetScheduleHandler == nil {
		return nil, errNotInitialized
	}
	return app.GetScheduleHandler.Handle(ctx, availabilityQueries.GetScheduleQuery{})
}

func showTally(ctx context.Context, app *cli.App) (*tallyQueries.CountsDTO, error) {
	if app == nil || app.GetCountsHandler == nil {
		return nil, errNotInitialized
	}
	return app.GetCountsHandler.Handle(ctx, tallyQueries.GetCountsQuery{})
}

func bumpTally(ctx context.Context, app *cli.App, input tallyBumpInput) (*tallyQueries.CountsDTO, error) {
	if app == nil || app.BumpCounterHandler == nil {
		return nil, errNotInitialized
	}
	delta := input.Delta
	if delta == 0 {
		delta = 1
	}

	counts, err := app.BumpCounterHandler.Handle(ctx, tallyCommands.BumpCounterCommand{Group: input.Who, Delta: delta})
	if err != nil {
		return nil, fmt.Errorf("bump %s: %w", input.Who, err)
	}
	return &tallyQueries.CountsDTO{Girls: counts.Girls, Boys: counts.Boys, Total: counts.Total()}, nil
}
