package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/HendryAvila/samvaad/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// GuideSummarySaveTool handles the guide_summary_save MCP tool.
// It stores the personal summary written from the guide-summary prompt so
// later sessions can show it without generating it again.
type GuideSummarySaveTool struct {
	deps Deps
}

// NewGuideSummarySaveTool creates a GuideSummarySaveTool.
func NewGuideSummarySaveTool(deps Deps) *GuideSummarySaveTool {
	return &GuideSummarySaveTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *GuideSummarySaveTool) Definition() mcp.Tool {
	return mcp.NewTool("guide_summary_save",
		mcp.WithDescription(
			"Store the personal summary you wrote with the `guide-summary` prompt. "+
				"It is shown with the guide and profile until the assessment is retaken. "+
				"Saving again replaces it.",
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description(fmt.Sprintf("The summary text, in the user's language (max %d characters)", session.MaxSummaryRunes)),
		),
		withUser(),
	)
}

// Handle processes the guide_summary_save tool call.
func (t *GuideSummarySaveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := t.deps.load(ctx, req)
	if err != nil {
		return nil, err
	}

	err = rec.SetGuideSummary(req.GetString("summary", ""))
	switch {
	case errors.Is(err, session.ErrNoProfile):
		return mcp.NewToolResultError("No profile yet. Complete the assessment first."), nil
	case errors.Is(err, session.ErrInvalidSummary):
		return mcp.NewToolResultError(fmt.Sprintf("Summary rejected: %v.", err)), nil
	case err != nil:
		return nil, err
	}
	if err := t.deps.save(ctx, rec); err != nil {
		return nil, err
	}

	t.deps.logger().Info("guide summary saved",
		zap.String("user_id", rec.UserID),
		zap.String("run_id", rec.Run.ID),
	)
	return mcp.NewToolResultText("Summary saved. It will appear with `guide_questions` and `assess_profile`."), nil
}
