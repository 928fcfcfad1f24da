package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/samvaad/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// GuideSaveTool handles the guide_save MCP tool.
// It toggles a bookmark, or lists bookmarks when no question is given.
type GuideSaveTool struct {
	deps Deps
}

// NewGuideSaveTool creates a GuideSaveTool.
func NewGuideSaveTool(deps Deps) *GuideSaveTool {
	return &GuideSaveTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *GuideSaveTool) Definition() mcp.Tool {
	return mcp.NewTool("guide_save",
		mcp.WithDescription(
			"Bookmark a guide question, or remove the bookmark if it is already saved. "+
				"Only questions currently visible in `guide_questions` can be saved. "+
				"Without `question_id`, lists saved questions.",
		),
		mcp.WithString("question_id",
			mcp.Description("Guide question id (e.g. family_out_01)"),
		),
		withUser(),
	)
}

// Handle processes the guide_save tool call.
func (t *GuideSaveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := t.deps.load(ctx, req)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(req.GetString("question_id", ""))
	if id == "" {
		return mcp.NewToolResultText(t.listSaved(rec)), nil
	}

	saved, err := rec.ToggleSaved(t.deps.Selector, id)
	switch {
	case errors.Is(err, session.ErrNoProfile):
		return mcp.NewToolResultError("No profile yet. Complete the assessment first."), nil
	case errors.Is(err, session.ErrNotVisible):
		return mcp.NewToolResultError(fmt.Sprintf(
			"Question %q is not in the user's visible guide.", id,
		)), nil
	case err != nil:
		return nil, err
	}
	if err := t.deps.save(ctx, rec); err != nil {
		return nil, err
	}

	if saved {
		return mcp.NewToolResultText(fmt.Sprintf("Saved `%s` (%d bookmarked).", id, len(rec.SavedGuide))), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Removed `%s` (%d bookmarked).", id, len(rec.SavedGuide))), nil
}

func (t *GuideSaveTool) listSaved(rec *session.Record) string {
	if len(rec.SavedGuide) == 0 {
		return "No saved questions."
	}
	visible := t.visible(rec)

	var sb strings.Builder
	sb.WriteString("# Saved questions\n\n")
	for i, id := range rec.SavedGuide {
		q, ok := t.deps.Bank.GuideQuestion(id)
		if !ok {
			fmt.Fprintf(&sb, "%d. `%s` (no longer in the guide bank)\n", i+1, id)
			continue
		}
		if !visible[id] {
			fmt.Fprintf(&sb, "%d. 🔒 %s (premium) `%s`\n", i+1, dimensionTitle(t.deps.Bank, q.Dimension, rec.Language), id)
			continue
		}
		fmt.Fprintf(&sb, "%d. **%s** `%s`\n", i+1, q.Question.In(rec.Language), id)
	}
	return sb.String()
}

// visible reports which bookmarks the user may read right now: all of them
// on premium, otherwise only unlocked positions of the current guide.
func (t *GuideSaveTool) visible(rec *session.Record) map[string]bool {
	out := map[string]bool{}
	if rec.Premium {
		for _, id := range rec.SavedGuide {
			out[id] = true
		}
		return out
	}
	entries, err := rec.Guide(t.deps.Selector)
	if err != nil {
		return out
	}
	for _, e := range entries {
		if !e.Locked {
			out[e.Item.ID] = true
		}
	}
	return out
}
