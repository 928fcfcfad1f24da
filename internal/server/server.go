// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts and resources. No business logic
// lives here, only wiring.
package server

import (
	"context"
	"fmt"

	"github.com/HendryAvila/samvaad/internal/bank"
	"github.com/HendryAvila/samvaad/internal/config"
	"github.com/HendryAvila/samvaad/internal/prompts"
	"github.com/HendryAvila/samvaad/internal/resources"
	"github.com/HendryAvila/samvaad/internal/scoring"
	"github.com/HendryAvila/samvaad/internal/selector"
	"github.com/HendryAvila/samvaad/internal/store"
	"github.com/HendryAvila/samvaad/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Tool is what every handler in internal/tools provides.
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// New creates and configures the MCP server with all tools, prompts,
// and resources registered.
//
// The returned cleanup function closes the store's database connection
// and must be called on shutdown (typically via defer). It is always
// non-nil.
func New(cfg *config.Config, log *zap.Logger) (*server.MCPServer, func(), error) {
	// --- Create shared dependencies ---

	b, err := bank.Load()
	if err != nil {
		return nil, noop, fmt.Errorf("loading question banks: %w", err)
	}

	st, err := store.New(store.Config{
		DataDir:         cfg.DataDir,
		DefaultLanguage: bank.ParseLanguage(cfg.Language),
		MaxHistory:      cfg.HistoryLimit,
	})
	if err != nil {
		return nil, noop, fmt.Errorf("opening store: %w", err)
	}
	cleanup := func() {
		if err := st.Close(); err != nil {
			log.Warn("store close", zap.Error(err))
		}
	}

	deps := tools.Deps{
		Repo:        st,
		Bank:        b,
		Scorer:      scoring.New(b.Assessment()),
		Selector:    selector.New(b.Guide()),
		Log:         log,
		DefaultUser: cfg.DefaultUser,
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"samvaad",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	for _, t := range Tools(deps) {
		s.AddTool(t.Definition(), t.Handle)
	}

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	summaryPrompt := prompts.NewGuideSummaryPrompt(st, b, cfg.DefaultUser)
	s.AddPrompt(summaryPrompt.Definition(), summaryPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(b, st)
	s.AddResource(resourceHandler.AssessmentResource(), resourceHandler.HandleAssessment)
	s.AddResource(resourceHandler.GuideResource(), resourceHandler.HandleGuide)
	s.AddResource(resourceHandler.StatusResource(), resourceHandler.HandleStatus)

	log.Info("server ready",
		zap.String("version", Version),
		zap.String("data_dir", cfg.DataDir),
		zap.String("default_user", cfg.DefaultUser),
	)
	return s, cleanup, nil
}

// Tools returns every tool handler in registration order.
func Tools(deps tools.Deps) []Tool {
	return []Tool{
		// Assessment
		tools.NewAssessQuestionsTool(deps),
		tools.NewAssessAnswerTool(deps),
		tools.NewAssessCompleteTool(deps),
		tools.NewAssessProfileTool(deps),
		tools.NewAssessRetakeTool(deps),
		// User settings
		tools.NewUserBasicInfoTool(deps),
		tools.NewUserLanguageTool(deps),
		tools.NewUserDeleteTool(deps),
		// Guide
		tools.NewGuideQuestionsTool(deps),
		tools.NewGuideSaveTool(deps),
		tools.NewGuideSummarySaveTool(deps),
		// Billing
		tools.NewSubscriptionSetTool(deps),
	}
}

// noop is the cleanup returned when setup fails.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use Samvaad.
func serverInstructions() string {
	return `You have access to Samvaad, a meeting-prep assistant for arranged-marriage introductions.

## WHAT IT DOES

The user answers a short questionnaire (20 questions, options A-D) about family, career,
finances, lifestyle, values and intimacy. Samvaad scores each dimension, classifies it as
HIGH, MEDIUM or FLEXIBLE priority, and builds an ordered list of questions worth asking
the other person. High-priority dimensions come first.

## FLOW

1. ` + "`user_language`" + ` and ` + "`user_basic_info`" + ` (optional but improves the summary)
2. ` + "`assess_questions`" + ` → ask ONE question at a time → ` + "`assess_answer`" + `
3. ` + "`assess_complete`" + ` → explain the badges warmly, without judging the answers
4. ` + "`guide_questions`" + ` → walk through the guide; ` + "`guide_save`" + ` to bookmark
5. ` + "`assess_profile`" + ` shows the current profile and earlier runs at any time
6. For a short personal summary, use the ` + "`guide-summary`" + ` prompt, then store it with
   ` + "`guide_summary_save`" + ` so later sessions can show it again

## RULES

- Answers are the user's own. Never choose an option for them.
- On the free tier, locked guide questions show only their dimension. Never guess or
  reveal their text; mention that premium unlocks them.
- ` + "`assess_retake`" + ` and ` + "`user_delete`" + ` are destructive: confirm with the user first.
- The subscription tier comes from the billing system. Call ` + "`subscription_set`" + ` only
  when it reports a change, never because the user asks.
- Speak in the user's chosen language (en or hi).`
}
