package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common hallway questions.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("restroom_plan").
		Description("Plan when a student can step out during today's classes.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Restroom Planning",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Help me plan restroom breaks for today. Please:

1. Check the current status using the hallpass://status resource
2. List today's open windows using the hallpass://windows/today resource

Then tell me:
- Whether the restroom is open right now and until when
- The next open window and how long it lasts
- Which class periods have no open window at all`,
						},
					},
				},
			}, nil
		})

	return nil
}
