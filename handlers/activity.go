// ABOUTME: Activity MCP tool handlers
// ABOUTME: Implements complete_record and record_history tools
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/speedrun/activity"
	"github.com/harperreed/speedrun/db"
	"github.com/harperreed/speedrun/workspace"
)

type ActivityHandlers struct {
	ws *workspace.Workspace
}

func NewActivityHandlers(ws *workspace.Workspace) *ActivityHandlers {
	return &ActivityHandlers{ws: ws}
}

type ActivityOutput struct {
	ID      string                     `json:"id"`
	Verb    string                     `json:"verb"`
	Outcome string                     `json:"outcome"`
	Notes   string                     `json:"notes,omitempty"`
	Changes map[string]activity.Change `json:"changes,omitempty"`
	UserID  string                     `json:"user_id"`
	At      string                     `json:"at"`
}

func activityToOutput(a activity.Activity) ActivityOutput {
	return ActivityOutput{
		ID:      a.ID.String(),
		Verb:    string(a.Verb),
		Outcome: string(a.Outcome),
		Notes:   a.Notes,
		Changes: a.Changes,
		UserID:  a.UserID,
		At:      a.At.Format(time.RFC3339),
	}
}

type CompleteRecordInput struct {
	RecordID string `json:"record_id" jsonschema:"Record ID (required)"`
	Outcome  string `json:"outcome" jsonschema:"connected, pitched, demo-scheduled, voicemail, no-answer, busy, not-interested, or wrong-number"`
	Notes    string `json:"notes,omitempty" jsonschema:"Free-form notes about the touch"`
}

type CompleteRecordOutput struct {
	Record   RecordOutput   `json:"record"`
	Activity ActivityOutput `json:"activity"`
	InQueue  bool           `json:"in_queue"`
}

func (h *ActivityHandlers) CompleteRecord(_ context.Context, request *mcp.CallToolRequest, input CompleteRecordInput) (*mcp.CallToolResult, CompleteRecordOutput, error) {
	id, err := uuid.Parse(input.RecordID)
	if err != nil {
		return nil, CompleteRecordOutput{}, fmt.Errorf("invalid record_id: %w", err)
	}
	outcome, err := activity.ParseOutcome(input.Outcome)
	if err != nil {
		return nil, CompleteRecordOutput{}, err
	}

	record, entry, err := h.ws.Complete(id, outcome, input.Notes)
	if err != nil {
		return nil, CompleteRecordOutput{}, err
	}
	return nil, CompleteRecordOutput{
		Record:   recordToOutput(record),
		Activity: activityToOutput(*entry),
		InQueue:  entry.Verb == activity.VerbAttempted,
	}, nil
}

type RecordHistoryInput struct {
	RecordID string `json:"record_id" jsonschema:"Record ID (required)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum entries (default 20)"`
}

type RecordHistoryOutput struct {
	Activities []ActivityOutput `json:"activities"`
}

func (h *ActivityHandlers) RecordHistory(_ context.Context, request *mcp.CallToolRequest, input RecordHistoryInput) (*mcp.CallToolResult, RecordHistoryOutput, error) {
	id, err := uuid.Parse(input.RecordID)
	if err != nil {
		return nil, RecordHistoryOutput{}, fmt.Errorf("invalid record_id: %w", err)
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	history, err := db.ListActivities(h.ws.DB, id, limit)
	if err != nil {
		return nil, RecordHistoryOutput{}, err
	}
	out := RecordHistoryOutput{Activities: make([]ActivityOutput, len(history))}
	for i, a := range history {
		out.Activities[i] = activityToOutput(a)
	}
	return nil, out, nil
}
