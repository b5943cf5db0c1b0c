// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides the buyer_group_graph tool for agents
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/speedrun/viz"
	"github.com/harperreed/speedrun/workspace"
)

type VizHandlers struct {
	ws *workspace.Workspace
}

func NewVizHandlers(ws *workspace.Workspace) *VizHandlers {
	return &VizHandlers{ws: ws}
}

type BuyerGroupGraphInput struct {
	Company string `json:"company" jsonschema:"Company name whose buyer group to draw (required)"`
}

type BuyerGroupGraphOutput struct {
	Company   string   `json:"company"`
	DOTSource string   `json:"dot_source"`
	Members   []string `json:"members"`
	NodeCount int      `json:"node_count"`
	EdgeCount int      `json:"edge_count"`
}

func (h *VizHandlers) BuyerGroupGraph(_ context.Context, request *mcp.CallToolRequest, input BuyerGroupGraphInput) (*mcp.CallToolResult, BuyerGroupGraphOutput, error) {
	if strings.TrimSpace(input.Company) == "" {
		return nil, BuyerGroupGraphOutput{}, fmt.Errorf("company is required")
	}

	generator := viz.NewGraphGenerator(h.ws)
	group, err := generator.LoadBuyerGroup(input.Company)
	if err != nil {
		return nil, BuyerGroupGraphOutput{}, err
	}

	dot, err := viz.RenderBuyerGroup(group)
	if err != nil {
		return nil, BuyerGroupGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	members := make([]string, len(group.Members))
	for i, m := range group.Members {
		members[i] = m.Record.Name
	}

	return nil, BuyerGroupGraphOutput{
		Company:   group.Company,
		DOTSource: dot,
		Members:   members,
		NodeCount: len(group.Members) + 1,
		EdgeCount: len(group.Members),
	}, nil
}
