package prompts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/samvaad/internal/bank"
	"github.com/HendryAvila/samvaad/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// summaryWordLimit bounds the generated summary.
const summaryWordLimit = 60

// GuideSummaryPrompt handles the guide-summary MCP prompt.
// It turns the stored profile into an instruction for a short personal
// summary, written by the host model.
type GuideSummaryPrompt struct {
	repo        session.Repository
	bank        *bank.Bank
	defaultUser string
}

// NewGuideSummaryPrompt creates a GuideSummaryPrompt.
func NewGuideSummaryPrompt(repo session.Repository, b *bank.Bank, defaultUser string) *GuideSummaryPrompt {
	return &GuideSummaryPrompt{repo: repo, bank: b, defaultUser: defaultUser}
}

// Definition returns the MCP prompt definition for registration.
func (p *GuideSummaryPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("guide-summary",
		mcp.WithPromptDescription(
			"Write a warm, personal 2-3 sentence summary of what you value, "+
				"based on your completed assessment.",
		),
		mcp.WithArgument("user_id",
			mcp.ArgumentDescription("User to summarize. Default: the configured default user"),
		),
	)
}

// Handle processes the guide-summary prompt request.
func (p *GuideSummaryPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	userID := p.defaultUser
	if args := req.Params.Arguments; args != nil {
		if u, ok := args["user_id"]; ok && u != "" {
			userID = u
		}
	}

	rec, err := p.repo.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user %q: %w", userID, err)
	}

	text, err := BuildGuideSummary(p.bank, rec)
	switch {
	case errors.Is(err, session.ErrNoProfile):
		text = "I haven't finished the Samvaad assessment yet. Please run `assess_questions` " +
			"and help me complete it with `assess_answer` and `assess_complete` first."
	case err != nil:
		return nil, err
	default:
		text += saveHint(rec)
	}

	return &mcp.GetPromptResult{
		Description: "Personal guide summary",
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(text),
			},
		},
	}, nil
}

// saveHint asks the host to store what it writes, and shows any summary
// already stored for the current profile.
func saveHint(rec *session.Record) string {
	var sb strings.Builder
	if rec.GuideSummary != "" {
		fmt.Fprintf(&sb, "\n\nA summary is already saved for this profile:\n%s\nWrite a new one only if asked to.", rec.GuideSummary)
	}
	fmt.Fprintf(&sb, "\n\nAfter writing it, store it with `guide_summary_save` (user_id: %s).", rec.UserID)
	return sb.String()
}

// BuildGuideSummary renders the summary instruction for rec. It returns
// session.ErrNoProfile before the assessment is complete.
func BuildGuideSummary(b *bank.Bank, rec *session.Record) (string, error) {
	profile := rec.Profile()
	if profile == nil {
		return "", session.ErrNoProfile
	}
	lang := rec.Language

	var sb strings.Builder
	sb.WriteString("You are a conversation coach for arranged marriage meetings in India.\n\n")
	if lang == bank.Hindi {
		sb.WriteString("Respond in Hindi (Devanagari script). You may use common English words that are widely understood.\n\n")
	} else {
		sb.WriteString("Respond in English.\n\n")
	}

	if info := rec.BasicInfo; info != nil {
		experience := "experienced"
		if info.FirstMeeting {
			experience = "first time"
		}
		fmt.Fprintf(&sb, "The user is a %s, age %s, %s with arranged marriage meetings, timeline: %s.\n\n",
			info.Gender, info.AgeRange, experience, info.Timeline)
	}

	sb.WriteString("Priority profile:\n")
	for _, d := range bank.GuideDimensions {
		fmt.Fprintf(&sb, "- %s: %s priority\n",
			b.DimensionName(d, bank.English), strings.ToUpper(string(profile.Level(d))))
	}

	sb.WriteString("\nTheir specific assessment responses:\n")
	for _, q := range b.Assessment() {
		a, ok := rec.Answers[q.ID]
		if !ok {
			continue
		}
		chosen := string(a)
		if o, ok := q.Option(string(a)); ok {
			chosen = o.Text.In(lang)
		}
		fmt.Fprintf(&sb, "- %s: %s\n", q.Text.In(lang), chosen)
	}

	fmt.Fprintf(&sb, "\nWrite a warm, personalized 2-3 sentence summary (max %d words) that reflects "+
		"what this specific person values based on their actual answers above. "+
		"Address the user directly with \"you\". Reference their specific choices "+
		"(living preferences, communication style, financial outlook) rather than "+
		"just saying \"family is important to you\". Do NOT use bullet points or lists: "+
		"write flowing sentences. Keep it concise.", summaryWordLimit)

	return sb.String(), nil
}
