// Package prompts implements the Samvaad MCP prompts.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/HendryAvila/samvaad/internal/selector"
	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the samvaad-start MCP prompt.
// It walks the AI through onboarding, the assessment and the guide.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("samvaad-start",
		mcp.WithPromptDescription(
			"Prepare for an arranged-marriage meeting: answer a short questionnaire about "+
				"what matters to you, see your priorities, and get the questions worth asking.",
		),
		mcp.WithArgument("language",
			mcp.ArgumentDescription("en (English) or hi (Hindi). Default: en"),
		),
		mcp.WithArgument("user_id",
			mcp.ArgumentDescription("User to prepare for. Default: the configured default user"),
		),
	)
}

// Handle processes the samvaad-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	language := "en"
	userArg := ""
	if args := req.Params.Arguments; args != nil {
		if l, ok := args["language"]; ok && (l == "en" || l == "hi") {
			language = l
		}
		if u, ok := args["user_id"]; ok && u != "" {
			userArg = fmt.Sprintf(" with user_id='%s'", u)
		}
	}

	return &mcp.GetPromptResult{
		Description: "Start meeting preparation",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to prepare for an arranged-marriage meeting.\n\n"+
						"Please call every Samvaad tool%s and:\n"+
						"1. Run `user_language` with language='%s'\n"+
						"2. Ask me my gender, age range, whether this is my first such meeting, and when the meeting is; save it with `user_basic_info`\n"+
						"3. Run `assess_questions` and ask me the questions ONE AT A TIME, recording each choice with `assess_answer`\n"+
						"4. When I'm done (or want to stop early), run `assess_complete` and explain my priorities\n"+
						"5. Run `guide_questions` and help me pick which questions to bookmark with `guide_save`\n\n"+
						"Only the first %d guide questions are free. Never reveal the text of locked questions.",
					userArg, language, selector.FreeQuestionLimit,
				)),
			},
		},
	}, nil
}
