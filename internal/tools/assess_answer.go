package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/samvaad/internal/scoring"
	"github.com/HendryAvila/samvaad/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// AssessAnswerTool handles the assess_answer MCP tool.
// It records one answer, or a batch given as a JSON object.
type AssessAnswerTool struct {
	deps Deps
}

// NewAssessAnswerTool creates an AssessAnswerTool.
func NewAssessAnswerTool(deps Deps) *AssessAnswerTool {
	return &AssessAnswerTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *AssessAnswerTool) Definition() mcp.Tool {
	return mcp.NewTool("assess_answer",
		mcp.WithDescription(
			"Record the user's choice for assessment questions. Pass `question_id` and `answer` "+
				"for one question, or `answers` as a JSON object like {\"family_01\":\"A\",\"career_02\":\"C\"} "+
				"for several. A batch is applied only if every entry is valid. Re-answering overwrites.",
		),
		mcp.WithString("question_id",
			mcp.Description("Assessment question id (e.g. family_01)"),
		),
		mcp.WithString("answer",
			mcp.Description("Chosen option"),
			mcp.Enum("A", "B", "C", "D"),
		),
		mcp.WithString("answers",
			mcp.Description("JSON object mapping question ids to A|B|C|D"),
		),
		withUser(),
	)
}

// Handle processes the assess_answer tool call.
func (t *AssessAnswerTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	batch, msg := parseAnswers(req)
	if msg != "" {
		return mcp.NewToolResultError(msg), nil
	}

	rec, err := t.deps.load(ctx, req)
	if err != nil {
		return nil, err
	}
	if rec.AssessmentComplete {
		return mcp.NewToolResultError(
			"Assessment already completed. Use `assess_retake` before answering again.",
		), nil
	}

	if err := rec.SetAnswers(t.deps.Bank, batch); err != nil {
		if errors.Is(err, session.ErrUnknownQuestion) || errors.Is(err, scoring.ErrInvalidAnswer) {
			return mcp.NewToolResultError(fmt.Sprintf("Answer rejected: %v", err)), nil
		}
		return nil, err
	}
	if err := t.deps.save(ctx, rec); err != nil {
		return nil, err
	}
	t.deps.logger().Debug("answers recorded",
		zap.String("user_id", rec.UserID),
		zap.Int("count", len(batch)),
	)

	answered, total := 0, 0
	for _, p := range rec.Progress(t.deps.Bank) {
		answered += p.Answered
		total += p.Total
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Recorded %d answer(s). Progress: %d/%d.", len(batch), answered, total,
	)), nil
}

// parseAnswers builds the batch from either argument form. A non-empty
// message means the input is unusable.
func parseAnswers(req mcp.CallToolRequest) (scoring.Answers, string) {
	batch := scoring.Answers{}

	if raw := strings.TrimSpace(req.GetString("answers", "")); raw != "" {
		var m map[string]string
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Sprintf("'answers' must be a JSON object of question id to A-D: %v", err)
		}
		for id, v := range m {
			a, err := scoring.ParseAnswer(v)
			if err != nil {
				return nil, fmt.Sprintf("Answer for %q: %v", id, err)
			}
			batch[id] = a
		}
	}

	id := strings.TrimSpace(req.GetString("question_id", ""))
	raw := req.GetString("answer", "")
	switch {
	case id != "" && raw == "":
		return nil, "'answer' is required with 'question_id'"
	case id == "" && raw != "":
		return nil, "'question_id' is required with 'answer'"
	case id != "":
		a, err := scoring.ParseAnswer(raw)
		if err != nil {
			return nil, fmt.Sprintf("Answer for %q: %v", id, err)
		}
		batch[id] = a
	}

	if len(batch) == 0 {
		return nil, "Provide 'question_id' and 'answer', or 'answers'."
	}
	return batch, ""
}
