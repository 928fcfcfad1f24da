package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/samvaad/internal/bank"
	"github.com/mark3labs/mcp-go/mcp"
)

// UserLanguageTool handles the user_language MCP tool.
type UserLanguageTool struct {
	deps Deps
}

// NewUserLanguageTool creates a UserLanguageTool.
func NewUserLanguageTool(deps Deps) *UserLanguageTool {
	return &UserLanguageTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *UserLanguageTool) Definition() mcp.Tool {
	return mcp.NewTool("user_language",
		mcp.WithDescription("Set the language questions and guides are shown in."),
		mcp.WithString("language",
			mcp.Required(),
			mcp.Description("en (English) or hi (Hindi)"),
			mcp.Enum(string(bank.English), string(bank.Hindi)),
		),
		withUser(),
	)
}

// Handle processes the user_language tool call.
func (t *UserLanguageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code := req.GetString("language", "")
	if code != string(bank.English) && code != string(bank.Hindi) {
		return mcp.NewToolResultError(fmt.Sprintf("Unsupported language %q. Use en or hi.", code)), nil
	}

	rec, err := t.deps.load(ctx, req)
	if err != nil {
		return nil, err
	}
	rec.SetLanguage(bank.ParseLanguage(code))
	if err := t.deps.save(ctx, rec); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf("Language set to %s.", rec.Language)), nil
}
