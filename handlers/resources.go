// ABOUTME: MCP resource handlers for exposing speedrun data
// ABOUTME: Provides read-only access to the queue, profile, and record evaluations via URI
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/speedrun/db"
	"github.com/harperreed/speedrun/workspace"
)

const resourceScheme = "speedrun://"

type ResourceHandlers struct {
	ws *workspace.Workspace
}

func NewResourceHandlers(ws *workspace.Workspace) *ResourceHandlers {
	return &ResourceHandlers{ws: ws}
}

// Resources lists the fixed resources; per-record evaluations use the template.
func (h *ResourceHandlers) Resources() []*mcp.Resource {
	return []*mcp.Resource{
		{URI: resourceScheme + "queue", Name: "queue", Description: "Today's speedrun queue", MIMEType: "application/json"},
		{URI: resourceScheme + "profile", Name: "profile", Description: "Current RTP profile", MIMEType: "application/json"},
	}
}

func (h *ResourceHandlers) Templates() []*mcp.ResourceTemplate {
	return []*mcp.ResourceTemplate{
		{URITemplate: resourceScheme + "records/{id}", Name: "record-evaluation", Description: "Evaluation for one record", MIMEType: "application/json"},
	}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")
	switch parts[0] {
	case "queue":
		return h.readQueue(uri)
	case "profile":
		return h.readProfile(uri)
	case "records":
		if len(parts) < 2 || parts[1] == "" {
			return nil, fmt.Errorf("record id is required")
		}
		return h.readRecord(uri, parts[1])
	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func (h *ResourceHandlers) readQueue(uri string) (*mcp.ReadResourceResult, error) {
	queue, engine, err := h.ws.Queue(0)
	if err != nil {
		return nil, fmt.Errorf("failed to build queue: %w", err)
	}
	return jsonResource(uri, SpeedrunQueueOutput{
		Count:    len(queue),
		Queue:    rankedToOutput(queue),
		Warnings: engine.Warnings(),
	})
}

func (h *ResourceHandlers) readProfile(uri string) (*mcp.ReadResourceResult, error) {
	p, err := h.ws.Profile()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return jsonResource(uri, ProfileOutput{Profile: p, Warnings: p.Warnings()})
}

func (h *ResourceHandlers) readRecord(uri, idStr string) (*mcp.ReadResourceResult, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid record ID: %w", err)
	}

	record, err := db.GetRecord(h.ws.DB, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch record: %w", err)
	}

	engine, err := h.ws.Engine()
	if err != nil {
		return nil, err
	}
	history, err := db.ListActivities(h.ws.DB, id, 5)
	if err != nil {
		return nil, err
	}
	recent := make([]ActivityOutput, len(history))
	for i, a := range history {
		recent[i] = activityToOutput(a)
	}
	return jsonResource(uri, struct {
		Record     RecordOutput     `json:"record"`
		Evaluation EvaluationOutput `json:"evaluation"`
		History    []ActivityOutput `json:"history"`
	}{
		Record:     recordToOutput(record),
		Evaluation: evaluationToOutput(*record, engine.Evaluate(*record, h.ws.Now())),
		History:    recent,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
