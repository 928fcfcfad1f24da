package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// UserDeleteTool handles the user_delete MCP tool.
type UserDeleteTool struct {
	deps Deps
}

// NewUserDeleteTool creates a UserDeleteTool.
func NewUserDeleteTool(deps Deps) *UserDeleteTool {
	return &UserDeleteTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *UserDeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("user_delete",
		mcp.WithDescription(
			"Permanently delete everything stored for the user: answers, profiles, history, "+
				"bookmarks and settings. Cannot be undone. Ask the user to confirm first.",
		),
		mcp.WithBoolean("confirm",
			mcp.Required(),
			mcp.Description("Must be true"),
		),
		withUser(),
	)
}

// Handle processes the user_delete tool call.
func (t *UserDeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !boolArg(req, "confirm", false) {
		return mcp.NewToolResultError("Deletion not confirmed. Pass confirm=true."), nil
	}

	userID := t.deps.userArg(req)
	if err := t.deps.Repo.Delete(ctx, userID); err != nil {
		return nil, fmt.Errorf("deleting user %q: %w", userID, err)
	}
	t.deps.logger().Info("user deleted", zap.String("user_id", userID))

	return mcp.NewToolResultText(fmt.Sprintf("All data for %s deleted.", userID)), nil
}
