// ABOUTME: RTP profile MCP tool handlers
// ABOUTME: Implements get_rtp_profile, update_rtp_profile, and apply_rtp_strategy tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/speedrun/db"
	"github.com/harperreed/speedrun/models"
	"github.com/harperreed/speedrun/workspace"
)

type ProfileHandlers struct {
	ws *workspace.Workspace
}

func NewProfileHandlers(ws *workspace.Workspace) *ProfileHandlers {
	return &ProfileHandlers{ws: ws}
}

type ProfileOutput struct {
	Profile  models.Profile `json:"profile"`
	Warnings []string       `json:"warnings,omitempty"`
}

type GetProfileInput struct{}

func (h *ProfileHandlers) GetProfile(_ context.Context, request *mcp.CallToolRequest, input GetProfileInput) (*mcp.CallToolResult, ProfileOutput, error) {
	p, err := h.ws.Profile()
	if err != nil {
		return nil, ProfileOutput{}, err
	}
	return nil, ProfileOutput{Profile: p, Warnings: p.Warnings()}, nil
}

type UpdateProfileInput struct {
	Field string `json:"field" jsonschema:"Dotted field name, e.g. weightings.deal_size, thresholds.max_days_to_close, priorities.near_close"`
	Value string `json:"value" jsonschema:"New value; percentages may carry a trailing %"`
}

func (h *ProfileHandlers) UpdateProfile(_ context.Context, request *mcp.CallToolRequest, input UpdateProfileInput) (*mcp.CallToolResult, ProfileOutput, error) {
	if input.Field == "" {
		return nil, ProfileOutput{}, fmt.Errorf("field is required")
	}

	p, err := h.ws.Profile()
	if err != nil {
		return nil, ProfileOutput{}, err
	}
	if err := p.Set(input.Field, input.Value); err != nil {
		return nil, ProfileOutput{}, err
	}
	if err := db.SaveProfile(h.ws.DB, h.ws.UserID, p); err != nil {
		return nil, ProfileOutput{}, err
	}

	return nil, ProfileOutput{Profile: p, Warnings: p.Warnings()}, nil
}

type ApplyStrategyInput struct {
	Strategy string `json:"strategy" jsonschema:"Preset name: close_quickly, sell_faster, maximize_value, or balanced"`
}

func (h *ProfileHandlers) ApplyStrategy(_ context.Context, request *mcp.CallToolRequest, input ApplyStrategyInput) (*mcp.CallToolResult, ProfileOutput, error) {
	if input.Strategy == "" {
		return nil, ProfileOutput{}, fmt.Errorf("strategy is required")
	}

	p, err := h.ws.ApplyStrategy(models.Strategy(input.Strategy))
	if err != nil {
		return nil, ProfileOutput{}, err
	}
	return nil, ProfileOutput{Profile: p, Warnings: p.Warnings()}, nil
}
