// Package resources implements the Samvaad MCP resources.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (samvaad://...) following MCP conventions.
package resources

import (
	"context"
	"fmt"

	"github.com/HendryAvila/samvaad/internal/bank"
	"github.com/HendryAvila/samvaad/internal/scoring"
	"github.com/HendryAvila/samvaad/internal/selector"
	"github.com/HendryAvila/samvaad/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	AssessmentURI = "samvaad://bank/assessment"
	GuideURI      = "samvaad://bank/guide"
	StatusURI     = "samvaad://status"
)

// StatsSource reports aggregate usage counts.
type StatsSource interface {
	Stats(ctx context.Context) (*store.Stats, error)
}

// Handler manages Samvaad resource endpoints.
type Handler struct {
	bank  *bank.Bank
	stats StatsSource
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(b *bank.Bank, stats StatsSource) *Handler {
	return &Handler{bank: b, stats: stats}
}

// --- Bank ---

// AssessmentResource returns the MCP resource definition for the
// assessment bank.
func (h *Handler) AssessmentResource() mcp.Resource {
	return mcp.NewResource(
		AssessmentURI,
		"Assessment Questions",
		mcp.WithResourceDescription("Dimensions and onboarding questions with options A-D, in English and Hindi"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleAssessment returns the assessment bank as JSON.
func (h *Handler) HandleAssessment(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	points := map[scoring.Answer]int{}
	for _, a := range []scoring.Answer{scoring.AnswerA, scoring.AnswerB, scoring.AnswerC, scoring.AnswerD} {
		points[a], _ = a.Points()
	}
	return jsonResource(req.Params.URI, struct {
		Dimensions []bank.DimensionInfo      `json:"dimensions"`
		Questions  []bank.AssessmentQuestion `json:"questions"`
		Points     map[scoring.Answer]int    `json:"points"`
	}{
		Dimensions: h.bank.Dimensions(),
		Questions:  h.bank.Assessment(),
		Points:     points,
	})
}

// GuideResource returns the MCP resource definition for the guide bank.
func (h *Handler) GuideResource() mcp.Resource {
	return mcp.NewResource(
		GuideURI,
		"Guide Questions",
		mcp.WithResourceDescription("Every meeting guide question with its dimension and tag"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleGuide returns the guide bank as JSON.
func (h *Handler) HandleGuide(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, struct {
		Questions []bank.GuideQuestion `json:"questions"`
	}{
		Questions: h.bank.Guide(),
	})
}

// --- Status ---

// StatusResource returns the MCP resource definition for server status.
func (h *Handler) StatusResource() mcp.Resource {
	return mcp.NewResource(
		StatusURI,
		"Samvaad Status",
		mcp.WithResourceDescription("Stored user and run counts, plus guide selection constants"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStatus returns store statistics and engine constants as JSON.
func (h *Handler) HandleStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	stats, err := h.stats.Stats(ctx)
	if err != nil {
		return errorResource(req.Params.URI, fmt.Sprintf("reading stats: %v", err)), nil
	}
	return jsonResource(req.Params.URI, struct {
		*store.Stats
		AssessmentQuestions int `json:"assessment_questions"`
		GuideQuestions      int `json:"guide_questions"`
		FreeQuestionLimit   int `json:"free_question_limit"`
		MediumHighQuestions int `json:"medium_high_questions"`
	}{
		Stats:               stats,
		AssessmentQuestions: len(h.bank.Assessment()),
		GuideQuestions:      len(h.bank.Guide()),
		FreeQuestionLimit:   selector.FreeQuestionLimit,
		MediumHighQuestions: selector.MediumHighQuestions,
	})
}
