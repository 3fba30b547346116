package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterResources registers read-only MCP resources.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	app := deps.App

	srv.Resource("hallpass://status").
		Name("Restroom Status").
		Description("Status of the restroom right now").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			status, err := currentStatus(ctx, app, atInput{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, status)
		})

	srv.Resource("hallpass://windows/today").
		Name("Today's Open Windows").
		Description("Every open interval of today").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			windows, err := openWindows(ctx, app, atInput{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, windows)
		})

	srv.Resource("hallpass://schedule").
		Name("Bell Schedule").
		Description("Every row of every day variant").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			schedule, err := showSchedule(ctx, app)
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, schedule)
		})

	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s: %w", uri, err)
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
