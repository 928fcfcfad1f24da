package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// defaultHistory is how many runs assess_profile lists when not told.
const defaultHistory = 5

// AssessProfileTool handles the assess_profile MCP tool.
// It shows the current profile and earlier runs.
type AssessProfileTool struct {
	deps Deps
}

// NewAssessProfileTool creates an AssessProfileTool.
func NewAssessProfileTool(deps Deps) *AssessProfileTool {
	return &AssessProfileTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *AssessProfileTool) Definition() mcp.Tool {
	return mcp.NewTool("assess_profile",
		mcp.WithDescription(
			"Show the user's current priority profile with per-dimension scores, "+
				"onboarding basics, and the history of earlier assessment runs.",
		),
		mcp.WithNumber("history",
			mcp.Description(fmt.Sprintf("How many past runs to list (default: %d)", defaultHistory)),
		),
		withUser(),
	)
}

// Handle processes the assess_profile tool call.
func (t *AssessProfileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := t.deps.load(ctx, req)
	if err != nil {
		return nil, err
	}
	if rec.Run == nil {
		return mcp.NewToolResultError(
			"No profile yet. Answer the questions from `assess_questions`, then call `assess_complete`.",
		), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Profile: %s\n\n", rec.UserID)
	writeSummary(&sb, rec)
	writeProfileTable(&sb, t.deps.Bank, *rec.Run, rec.Language)

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "- Run: `%s` (%s)\n", rec.Run.ID, rec.Run.CreatedAt)
	fmt.Fprintf(&sb, "- Answered: %d/%d\n", len(rec.Answers), len(t.deps.Bank.Assessment()))
	fmt.Fprintf(&sb, "- Retakes: %d\n", rec.RetakeCount)
	tier := "free"
	if rec.Premium {
		tier = "premium"
	}
	fmt.Fprintf(&sb, "- Tier: %s\n", tier)
	if info := rec.BasicInfo; info != nil {
		fmt.Fprintf(&sb, "- Basics: %s, %s, first meeting: %t, timeline: %s\n",
			info.Gender, info.AgeRange, info.FirstMeeting, info.Timeline)
	}

	limit := intArg(req, "history", defaultHistory)
	if limit <= 0 {
		limit = defaultHistory
	}
	runs, err := t.deps.Repo.History(ctx, rec.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	if len(runs) > 1 {
		sb.WriteString("\n## History\n\n")
		sb.WriteString("| Run | Date | Family | Career | Finances | Lifestyle | Values |\n")
		sb.WriteString("|-----|------|--------|--------|----------|-----------|--------|\n")
		for _, r := range runs {
			p := r.Profile
			fmt.Fprintf(&sb, "| `%s` | %s | %s | %s | %s | %s | %s |\n",
				shortID(r.ID), r.CreatedAt, p.Family, p.Career, p.Finances, p.Lifestyle, p.Values)
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
