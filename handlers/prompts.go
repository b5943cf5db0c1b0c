// ABOUTME: MCP prompt handlers for reusable speedrun workflow templates
// ABOUTME: Provides the speedrun-briefing and record-briefing prompts
package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/speedrun/db"
	"github.com/harperreed/speedrun/rtp"
	"github.com/harperreed/speedrun/workspace"
)

type PromptHandlers struct {
	ws *workspace.Workspace
}

func NewPromptHandlers(ws *workspace.Workspace) *PromptHandlers {
	return &PromptHandlers{ws: ws}
}

// Prompts lists the prompt definitions served by GetPrompt.
func (h *PromptHandlers) Prompts() []*mcp.Prompt {
	return []*mcp.Prompt{
		{
			Name:        "speedrun-briefing",
			Description: "Brief the seller on the top of today's speedrun queue",
			Arguments: []*mcp.PromptArgument{
				{Name: "limit", Description: "How many queue entries to include (default 10)"},
			},
		},
		{
			Name:        "record-briefing",
			Description: "Prepare for the next touch with one record",
			Arguments: []*mcp.PromptArgument{
				{Name: "record_id", Description: "Record ID", Required: true},
			},
		},
	}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	arguments := request.Params.Arguments
	switch name {
	case "speedrun-briefing":
		return h.getSpeedrunBriefingPrompt(arguments)
	case "record-briefing":
		return h.getRecordBriefingPrompt(arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func (h *PromptHandlers) getSpeedrunBriefingPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	limit := 10
	if s, ok := args["limit"]; ok && s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid limit: %q", s)
		}
		limit = n
	}

	queue, engine, err := h.ws.Queue(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to build queue: %w", err)
	}

	var promptText strings.Builder
	promptText.WriteString("Here is my speedrun queue for today:\n\n")
	promptText.WriteString(fmt.Sprintf("Strategy: %s\n", engine.Profile().Strategy))
	for _, w := range engine.Warnings() {
		promptText.WriteString(fmt.Sprintf("Warning: %s\n", w))
	}
	promptText.WriteString("\n")

	if len(queue) == 0 {
		promptText.WriteString("The queue is empty.\n")
	}
	for _, r := range queue {
		ev := r.Evaluation
		promptText.WriteString(fmt.Sprintf("%s. %s", rtp.FormatRank(ev), r.Record.Name))
		if r.Record.Company != "" {
			promptText.WriteString(fmt.Sprintf(" (%s)", r.Record.Company))
		}
		promptText.WriteString(fmt.Sprintf(" - last contact %s, next %s: %s\n",
			ev.LastActionTiming.Label, ev.NextActionTiming.Label, ev.RecommendedAction))
	}

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. The three touches that matter most and why")
	promptText.WriteString("\n2. Any records that look misprioritized")
	promptText.WriteString("\n3. A suggested opening line for the first call")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Speedrun briefing (%d records)", len(queue)),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText.String()},
			},
		},
	}, nil
}

func (h *PromptHandlers) getRecordBriefingPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	recordIDStr, ok := args["record_id"]
	if !ok {
		return nil, fmt.Errorf("record_id is required")
	}

	recordID, err := uuid.Parse(recordIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid record_id: %w", err)
	}

	record, err := db.GetRecord(h.ws.DB, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch record: %w", err)
	}

	engine, err := h.ws.Engine()
	if err != nil {
		return nil, err
	}
	ev := engine.Evaluate(*record, h.ws.Now())

	var promptText strings.Builder
	promptText.WriteString("I'm about to reach out to this record:\n\n")
	promptText.WriteString(fmt.Sprintf("Name: %s\n", record.Name))
	if record.Title != "" {
		promptText.WriteString(fmt.Sprintf("Title: %s\n", record.Title))
	}
	if record.Company != "" {
		promptText.WriteString(fmt.Sprintf("Company: %s\n", record.Company))
	}
	if record.BuyerGroupRole != "" {
		promptText.WriteString(fmt.Sprintf("Buyer group role: %s\n", record.BuyerGroupRole))
	}
	if record.Stage != "" {
		promptText.WriteString(fmt.Sprintf("Stage: %s\n", record.Stage))
	}
	promptText.WriteString(fmt.Sprintf("Last contact: %s\n", ev.LastActionTiming.Label))
	promptText.WriteString(fmt.Sprintf("Recommended action: %s (%s)\n", ev.RecommendedAction, ev.NextActionTiming.Label))
	promptText.WriteString(fmt.Sprintf("Score: %.1f\n", ev.Score))

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. Talking points for this touch")
	promptText.WriteString("\n2. Likely objections given their role")
	promptText.WriteString("\n3. What a good outcome looks like")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Briefing for: %s", record.Name),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText.String()},
			},
		},
	}, nil
}
