// Package tools implements the Samvaad MCP tool handlers.
//
// Each tool is a struct holding its dependencies, a Definition() that
// returns the mcp.Tool schema, and a Handle() compatible with mcp-go's
// CallToolRequest signature. One file per tool.
//
// Invalid input comes back as a tool error result the model can act on.
// Storage failures are returned as Go errors.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/samvaad/internal/bank"
	"github.com/HendryAvila/samvaad/internal/scoring"
	"github.com/HendryAvila/samvaad/internal/selector"
	"github.com/HendryAvila/samvaad/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// Deps is what every tool needs. The engine parts are read-only and safe
// to share.
type Deps struct {
	Repo        session.Repository
	Bank        *bank.Bank
	Scorer      *scoring.Scorer
	Selector    *selector.Selector
	Log         *zap.Logger
	DefaultUser string
}

func (d Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// withUser adds the shared user_id parameter to a tool definition.
func withUser() mcp.ToolOption {
	return mcp.WithString("user_id",
		mcp.Description("User whose data to use (default: the configured default user)"),
	)
}

// userArg returns the user_id argument or the configured default.
func (d Deps) userArg(req mcp.CallToolRequest) string {
	if id := strings.TrimSpace(req.GetString("user_id", "")); id != "" {
		return id
	}
	return d.DefaultUser
}

// load fetches the record for the request's user.
func (d Deps) load(ctx context.Context, req mcp.CallToolRequest) (*session.Record, error) {
	userID := d.userArg(req)
	rec, err := d.Repo.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user %q: %w", userID, err)
	}
	return rec, nil
}

func (d Deps) save(ctx context.Context, rec *session.Record) error {
	if err := d.Repo.Save(ctx, rec); err != nil {
		return fmt.Errorf("saving user %q: %w", rec.UserID, err)
	}
	return nil
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// --- Rendering ---

var levelLabels = map[scoring.PriorityLevel]bank.Text{
	scoring.High:     {EN: "HIGH", HI: "उच्च"},
	scoring.Medium:   {EN: "MEDIUM", HI: "मध्यम"},
	scoring.Flexible: {EN: "FLEXIBLE", HI: "लचीला"},
}

var levelMarkers = map[scoring.PriorityLevel]string{
	scoring.High:     "🔴",
	scoring.Medium:   "🟡",
	scoring.Flexible: "⚪",
}

// badge renders a priority level the way the results screen shows it.
func badge(level scoring.PriorityLevel, lang bank.Language) string {
	label, ok := levelLabels[level]
	if !ok {
		label = levelLabels[scoring.Flexible]
		level = scoring.Flexible
	}
	return levelMarkers[level] + " " + label.In(lang)
}

// dimensionTitle is the localized name of d.
func dimensionTitle(b *bank.Bank, d bank.Dimension, lang bank.Language) string {
	return b.DimensionName(d, lang)
}

// writeSummary writes the stored guide summary as a quote, if there is one.
func writeSummary(sb *strings.Builder, rec *session.Record) {
	if rec.GuideSummary == "" {
		return
	}
	for _, line := range strings.Split(rec.GuideSummary, "\n") {
		fmt.Fprintf(sb, "> %s\n", line)
	}
	sb.WriteString("\n")
}

// renderGuideEntry writes one guide position. Locked entries show only
// their position and dimension.
func renderGuideEntry(sb *strings.Builder, b *bank.Bank, e session.GuideEntry, lang bank.Language, saved bool) {
	q := e.Item
	if e.Locked {
		fmt.Fprintf(sb, "%d. 🔒 %s (premium)\n", e.Index+1, dimensionTitle(b, q.Dimension, lang))
		return
	}
	star := ""
	if saved {
		star = " ⭐"
	}
	fmt.Fprintf(sb, "%d. **%s**%s\n", e.Index+1, q.Question.In(lang), star)
	fmt.Fprintf(sb, "   - id: `%s` · %s · %s\n", q.ID, dimensionTitle(b, q.Dimension, lang), q.Tag)
	fmt.Fprintf(sb, "   - Why it matters: %s\n", q.WhyItMatters.In(lang))
	fmt.Fprintf(sb, "   - Listen for: %s\n", q.WhatToListenFor.In(lang))
}
