package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// SubscriptionSetTool handles the subscription_set MCP tool. Billing is
// external; this only records the tier it reports.
type SubscriptionSetTool struct {
	deps Deps
}

// NewSubscriptionSetTool creates a SubscriptionSetTool.
func NewSubscriptionSetTool(deps Deps) *SubscriptionSetTool {
	return &SubscriptionSetTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *SubscriptionSetTool) Definition() mcp.Tool {
	return mcp.NewTool("subscription_set",
		mcp.WithDescription(
			"Record the user's subscription tier as reported by the billing system. "+
				"Premium unlocks the full meeting guide.",
		),
		mcp.WithString("tier",
			mcp.Required(),
			mcp.Enum("free", "premium"),
		),
		withUser(),
	)
}

// Handle processes the subscription_set tool call.
func (t *SubscriptionSetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tier := req.GetString("tier", "")
	if tier != "free" && tier != "premium" {
		return mcp.NewToolResultError(fmt.Sprintf("Unknown tier %q. Use free or premium.", tier)), nil
	}

	rec, err := t.deps.load(ctx, req)
	if err != nil {
		return nil, err
	}
	rec.SetPremium(tier == "premium")
	if err := t.deps.save(ctx, rec); err != nil {
		return nil, err
	}
	t.deps.logger().Info("subscription updated",
		zap.String("user_id", rec.UserID),
		zap.String("tier", tier),
	)
	return mcp.NewToolResultText(fmt.Sprintf("Tier for %s set to %s.", rec.UserID, tier)), nil
}
