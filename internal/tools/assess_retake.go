package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// AssessRetakeTool handles the assess_retake MCP tool.
type AssessRetakeTool struct {
	deps Deps
}

// NewAssessRetakeTool creates an AssessRetakeTool.
func NewAssessRetakeTool(deps Deps) *AssessRetakeTool {
	return &AssessRetakeTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *AssessRetakeTool) Definition() mcp.Tool {
	return mcp.NewTool("assess_retake",
		mcp.WithDescription(
			"Start the assessment over: clears answers and the current profile. "+
				"Earlier runs stay in the history and saved guide questions are kept. "+
				"Ask the user to confirm first.",
		),
		mcp.WithBoolean("confirm",
			mcp.Required(),
			mcp.Description("Must be true"),
		),
		withUser(),
	)
}

// Handle processes the assess_retake tool call.
func (t *AssessRetakeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !boolArg(req, "confirm", false) {
		return mcp.NewToolResultError("Retake not confirmed. Pass confirm=true."), nil
	}

	rec, err := t.deps.load(ctx, req)
	if err != nil {
		return nil, err
	}
	rec.Retake()
	if err := t.deps.save(ctx, rec); err != nil {
		return nil, err
	}
	t.deps.logger().Info("assessment reset",
		zap.String("user_id", rec.UserID),
		zap.Int("retake_count", rec.RetakeCount),
	)

	return mcp.NewToolResultText(fmt.Sprintf(
		"Assessment reset (retake #%d). Call `assess_questions` to begin again.", rec.RetakeCount,
	)), nil
}
