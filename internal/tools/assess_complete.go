package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/samvaad/internal/bank"
	"github.com/HendryAvila/samvaad/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// AssessCompleteTool handles the assess_complete MCP tool.
// It scores the current answers and stores the resulting profile.
type AssessCompleteTool struct {
	deps Deps
}

// NewAssessCompleteTool creates an AssessCompleteTool.
func NewAssessCompleteTool(deps Deps) *AssessCompleteTool {
	return &AssessCompleteTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *AssessCompleteTool) Definition() mcp.Tool {
	return mcp.NewTool("assess_complete",
		mcp.WithDescription(
			"Finish the assessment: score every dimension and store the user's priority profile. "+
				"Partial answers are allowed; dimensions with no answers come out flexible. "+
				"Calling it again re-scores the current answers as a new run and clears any saved summary.",
		),
		withUser(),
	)
}

// Handle processes the assess_complete tool call.
func (t *AssessCompleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := t.deps.load(ctx, req)
	if err != nil {
		return nil, err
	}

	run := rec.Complete(t.deps.Scorer)
	if err := t.deps.save(ctx, rec); err != nil {
		return nil, err
	}
	t.deps.logger().Info("assessment completed",
		zap.String("user_id", rec.UserID),
		zap.String("run_id", run.ID),
		zap.Int("answered", len(rec.Answers)),
	)

	var sb strings.Builder
	sb.WriteString("# Your priorities\n\n")
	writeProfileTable(&sb, t.deps.Bank, run, rec.Language)
	sb.WriteString("\nNext: call `guide_questions` for the questions to ask at the meeting.\n")
	return mcp.NewToolResultText(sb.String()), nil
}

// writeProfileTable renders the badge per guide dimension plus the raw
// score of every dimension.
func writeProfileTable(sb *strings.Builder, b *bank.Bank, run session.ProfileRun, lang bank.Language) {
	sb.WriteString("| Dimension | Priority | Score |\n")
	sb.WriteString("|-----------|----------|-------|\n")
	for _, d := range bank.AllDimensions {
		priority := "-"
		if d != bank.Intimacy {
			priority = badge(run.Profile.Level(d), lang)
		}
		fmt.Fprintf(sb, "| %s | %s | %.2f |\n", dimensionTitle(b, d, lang), priority, run.Scores[d])
	}
}
