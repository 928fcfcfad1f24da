package tools

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/HendryAvila/samvaad/internal/selector"
	"github.com/HendryAvila/samvaad/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// GuideQuestionsTool handles the guide_questions MCP tool.
// It shows the personalized meeting guide for the user's profile.
type GuideQuestionsTool struct {
	deps Deps
}

// NewGuideQuestionsTool creates a GuideQuestionsTool.
func NewGuideQuestionsTool(deps Deps) *GuideQuestionsTool {
	return &GuideQuestionsTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *GuideQuestionsTool) Definition() mcp.Tool {
	return mcp.NewTool("guide_questions",
		mcp.WithDescription(
			"Show the questions the user should ask at the meeting, ordered by their priorities "+
				"(high dimensions first). On the free tier only the first "+
				fmt.Sprint(selector.FreeQuestionLimit)+" are shown; the rest are listed as locked. "+
				"Never reveal locked question text.",
		),
		withUser(),
	)
}

// Handle processes the guide_questions tool call.
func (t *GuideQuestionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := t.deps.load(ctx, req)
	if err != nil {
		return nil, err
	}
	entries, err := rec.Guide(t.deps.Selector)
	if errors.Is(err, session.ErrNoProfile) {
		return mcp.NewToolResultError(
			"No profile yet. Complete the assessment with `assess_complete` first.",
		), nil
	}
	if err != nil {
		return nil, err
	}

	locked := 0
	for _, e := range entries {
		if e.Locked {
			locked++
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Meeting guide (%d questions", len(entries))
	if locked > 0 {
		fmt.Fprintf(&sb, ", %d locked", locked)
	}
	sb.WriteString(")\n\n")
	writeSummary(&sb, rec)

	for _, e := range entries {
		renderGuideEntry(&sb, t.deps.Bank, e, rec.Language, slices.Contains(rec.SavedGuide, e.Item.ID))
	}

	if locked > 0 {
		fmt.Fprintf(&sb, "\n🔒 %d more questions are available with premium.\n", locked)
	}
	sb.WriteString("\nBookmark a question with `guide_save`.\n")
	return mcp.NewToolResultText(sb.String()), nil
}
