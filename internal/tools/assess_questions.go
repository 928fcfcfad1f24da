package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/samvaad/internal/bank"
	"github.com/mark3labs/mcp-go/mcp"
)

// AssessQuestionsTool handles the assess_questions MCP tool.
// It lists the onboarding questionnaire with the user's current answers.
type AssessQuestionsTool struct {
	deps Deps
}

// NewAssessQuestionsTool creates an AssessQuestionsTool.
func NewAssessQuestionsTool(deps Deps) *AssessQuestionsTool {
	return &AssessQuestionsTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *AssessQuestionsTool) Definition() mcp.Tool {
	dims := make([]string, 0, len(bank.AllDimensions))
	for _, d := range bank.AllDimensions {
		dims = append(dims, string(d))
	}
	return mcp.NewTool("assess_questions",
		mcp.WithDescription(
			"List the priority assessment questions in the user's language, "+
				"with options A-D and the answer already chosen for each. "+
				"Present them one at a time and record choices with `assess_answer`.",
		),
		mcp.WithString("dimension",
			mcp.Description("Only list questions for this dimension"),
			mcp.Enum(dims...),
		),
		withUser(),
	)
}

// Handle processes the assess_questions tool call.
func (t *AssessQuestionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := t.deps.load(ctx, req)
	if err != nil {
		return nil, err
	}
	lang := rec.Language

	dims := bank.AllDimensions
	if raw := req.GetString("dimension", ""); raw != "" {
		d := bank.Dimension(raw)
		if !d.Valid() {
			return mcp.NewToolResultError(fmt.Sprintf("Unknown dimension %q.", raw)), nil
		}
		dims = []bank.Dimension{d}
	}

	var sb strings.Builder
	answered, total := 0, 0
	for _, p := range rec.Progress(t.deps.Bank) {
		answered += p.Answered
		total += p.Total
	}
	fmt.Fprintf(&sb, "# Assessment (%d/%d answered)\n\n", answered, total)

	for _, d := range dims {
		fmt.Fprintf(&sb, "## %s\n\n", dimensionTitle(t.deps.Bank, d, lang))
		for _, q := range t.deps.Bank.AssessmentByDimension(d) {
			current, has := rec.Answers[q.ID]
			marker := "⬜"
			if has {
				marker = "✅"
			}
			fmt.Fprintf(&sb, "%s **%s** `%s`\n", marker, q.Text.In(lang), q.ID)
			for _, o := range q.Options {
				chosen := ""
				if has && string(current) == o.ID {
					chosen = " ← chosen"
				}
				fmt.Fprintf(&sb, "   %s. %s%s\n", o.ID, o.Text.In(lang), chosen)
			}
			sb.WriteString("\n")
		}
	}

	if rec.AssessmentComplete {
		sb.WriteString("Assessment already completed. Use `assess_retake` to start over.\n")
	} else if answered > 0 {
		sb.WriteString("Call `assess_complete` when done; unanswered dimensions count as flexible.\n")
	}

	return mcp.NewToolResultText(sb.String()), nil
}
