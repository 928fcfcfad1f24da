package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/samvaad/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// UserBasicInfoTool handles the user_basic_info MCP tool.
type UserBasicInfoTool struct {
	deps Deps
}

// NewUserBasicInfoTool creates a UserBasicInfoTool.
func NewUserBasicInfoTool(deps Deps) *UserBasicInfoTool {
	return &UserBasicInfoTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *UserBasicInfoTool) Definition() mcp.Tool {
	return mcp.NewTool("user_basic_info",
		mcp.WithDescription(
			"Record the user's onboarding basics. They personalize the guide summary.",
		),
		mcp.WithString("gender",
			mcp.Required(),
			mcp.Enum(session.Genders()...),
		),
		mcp.WithString("age_range",
			mcp.Required(),
			mcp.Enum(session.AgeRanges()...),
		),
		mcp.WithBoolean("is_first_meeting",
			mcp.Description("Whether this is the first meeting with this prospect (default: true)"),
		),
		mcp.WithString("timeline",
			mcp.Required(),
			mcp.Description("When the meeting is"),
			mcp.Enum(session.Timelines()...),
		),
		withUser(),
	)
}

// Handle processes the user_basic_info tool call.
func (t *UserBasicInfoTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info := session.BasicInfo{
		Gender:       strings.TrimSpace(req.GetString("gender", "")),
		AgeRange:     strings.TrimSpace(req.GetString("age_range", "")),
		FirstMeeting: boolArg(req, "is_first_meeting", true),
		Timeline:     strings.TrimSpace(req.GetString("timeline", "")),
	}

	rec, err := t.deps.load(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := rec.SetBasicInfo(info); err != nil {
		if errors.Is(err, session.ErrInvalidBasicInfo) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}
	if err := t.deps.save(ctx, rec); err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Saved basics for %s: %s, %s, first meeting: %t, timeline: %s.",
		rec.UserID, info.Gender, info.AgeRange, info.FirstMeeting, info.Timeline,
	)), nil
}
