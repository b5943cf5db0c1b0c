// ABOUTME: Record MCP tool handlers
// ABOUTME: Implements add_record, find_records, and log_contact tools
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/speedrun/db"
	"github.com/harperreed/speedrun/models"
	"github.com/harperreed/speedrun/workspace"
)

type RecordHandlers struct {
	ws *workspace.Workspace
}

func NewRecordHandlers(ws *workspace.Workspace) *RecordHandlers {
	return &RecordHandlers{ws: ws}
}

type AddRecordInput struct {
	Kind              string   `json:"kind,omitempty" jsonschema:"Record kind: lead, prospect, opportunity, account, or person (default lead)"`
	Type              string   `json:"type,omitempty" jsonschema:"Free-form type; partner records are never ranked"`
	Name              string   `json:"name" jsonschema:"Record name (required)"`
	Title             string   `json:"title,omitempty" jsonschema:"Job title"`
	Company           string   `json:"company,omitempty" jsonschema:"Company name"`
	Email             string   `json:"email,omitempty" jsonschema:"Email address"`
	Phone             string   `json:"phone,omitempty" jsonschema:"Phone number"`
	Status            string   `json:"status,omitempty" jsonschema:"Lifecycle status such as new, contacted, engaged, qualified"`
	Stage             string   `json:"stage,omitempty" jsonschema:"Pipeline stage such as qualification, proposal, negotiation"`
	Priority          string   `json:"priority,omitempty" jsonschema:"Priority flag: high, medium, or low"`
	Amount            float64  `json:"amount,omitempty" jsonschema:"Deal value in USD"`
	Probability       *float64 `json:"probability,omitempty" jsonschema:"Explicit close probability 0-100"`
	BuyerGroupRole    string   `json:"buyer_group_role,omitempty" jsonschema:"Decision Maker, Champion, Stakeholder, Blocker, or Introducer"`
	RiskLevel         string   `json:"risk_level,omitempty" jsonschema:"Competitive risk: high, medium, or low"`
	Competitors       []string `json:"competitors,omitempty" jsonschema:"Competing vendors in the deal"`
	Industry          string   `json:"industry,omitempty" jsonschema:"Company industry"`
	Employees         int      `json:"employees,omitempty" jsonschema:"Company headcount"`
	Revenue           float64  `json:"revenue,omitempty" jsonschema:"Company annual revenue in USD"`
	LastContactDate   string   `json:"last_contact_date,omitempty" jsonschema:"Last contact (ISO 8601)"`
	NextActionDate    string   `json:"next_action_date,omitempty" jsonschema:"Scheduled next action (ISO 8601)"`
	ExpectedCloseDate string   `json:"expected_close_date,omitempty" jsonschema:"Expected close date (ISO 8601)"`
}

type RecordOutput struct {
	ID                string   `json:"id"`
	Kind              string   `json:"kind"`
	Type              string   `json:"type,omitempty"`
	Name              string   `json:"name"`
	Title             string   `json:"title,omitempty"`
	Company           string   `json:"company,omitempty"`
	Email             string   `json:"email,omitempty"`
	Phone             string   `json:"phone,omitempty"`
	Status            string   `json:"status,omitempty"`
	Stage             string   `json:"stage,omitempty"`
	Priority          string   `json:"priority,omitempty"`
	Amount            float64  `json:"amount,omitempty"`
	BuyerGroupRole    string   `json:"buyer_group_role,omitempty"`
	RiskLevel         string   `json:"risk_level,omitempty"`
	Competitors       []string `json:"competitors,omitempty"`
	LastContactDate   string   `json:"last_contact_date,omitempty"`
	NextActionDate    string   `json:"next_action_date,omitempty"`
	ExpectedCloseDate string   `json:"expected_close_date,omitempty"`
	CreatedAt         string   `json:"created_at"`
}

func recordToOutput(r *models.Record) RecordOutput {
	return RecordOutput{
		ID:                r.ID.String(),
		Kind:              string(r.Kind),
		Type:              r.Type,
		Name:              r.Name,
		Title:             r.Title,
		Company:           r.Company,
		Email:             r.Email,
		Phone:             r.Phone,
		Status:            r.Status,
		Stage:             r.Stage,
		Priority:          r.Priority,
		Amount:            r.Amount,
		BuyerGroupRole:    r.BuyerGroupRole,
		RiskLevel:         r.RiskLevel,
		Competitors:       r.Competitors,
		LastContactDate:   string(r.LastContactDate),
		NextActionDate:    string(r.NextActionDate),
		ExpectedCloseDate: string(r.ExpectedCloseDate),
		CreatedAt:         r.CreatedAt.Format(time.RFC3339),
	}
}

func (h *RecordHandlers) AddRecord(_ context.Context, request *mcp.CallToolRequest, input AddRecordInput) (*mcp.CallToolResult, RecordOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, RecordOutput{}, fmt.Errorf("name is required")
	}

	kind := models.KindLead
	if input.Kind != "" {
		k, ok := models.ParseRecordKind(input.Kind)
		if !ok {
			return nil, RecordOutput{}, fmt.Errorf("invalid kind %q", input.Kind)
		}
		kind = k
	}

	record := &models.Record{
		Kind:              kind,
		Type:              input.Type,
		Name:              input.Name,
		Title:             input.Title,
		Company:           input.Company,
		Email:             input.Email,
		Phone:             input.Phone,
		Status:            input.Status,
		Stage:             input.Stage,
		Priority:          strings.ToLower(input.Priority),
		Amount:            input.Amount,
		Probability:       input.Probability,
		BuyerGroupRole:    input.BuyerGroupRole,
		RiskLevel:         strings.ToLower(input.RiskLevel),
		Competitors:       input.Competitors,
		Industry:          input.Industry,
		Employees:         input.Employees,
		Revenue:           input.Revenue,
		LastContactDate:   models.Timestamp(input.LastContactDate),
		NextActionDate:    models.Timestamp(input.NextActionDate),
		ExpectedCloseDate: models.Timestamp(input.ExpectedCloseDate),
	}
	if role := models.NormalizeRole(input.BuyerGroupRole); role != "" {
		record.BuyerGroupRole = role
	}

	if err := db.CreateRecord(h.ws.DB, record); err != nil {
		return nil, RecordOutput{}, err
	}

	return nil, recordToOutput(record), nil
}

type FindRecordsInput struct {
	Kind  string `json:"kind,omitempty" jsonschema:"Filter by record kind"`
	Query string `json:"query,omitempty" jsonschema:"Search query (searches name, company and email)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 25)"`
}

type FindRecordsOutput struct {
	Records []RecordOutput `json:"records"`
}

func (h *RecordHandlers) FindRecords(_ context.Context, request *mcp.CallToolRequest, input FindRecordsInput) (*mcp.CallToolResult, FindRecordsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 25
	}

	var kind models.RecordKind
	if input.Kind != "" {
		k, ok := models.ParseRecordKind(input.Kind)
		if !ok {
			return nil, FindRecordsOutput{}, fmt.Errorf("invalid kind %q", input.Kind)
		}
		kind = k
	}

	records, err := db.FindRecords(h.ws.DB, kind, input.Query, limit)
	if err != nil {
		return nil, FindRecordsOutput{}, err
	}

	out := make([]RecordOutput, len(records))
	for i := range records {
		out[i] = recordToOutput(&records[i])
	}
	return nil, FindRecordsOutput{Records: out}, nil
}

type LogContactInput struct {
	RecordID  string `json:"record_id" jsonschema:"Record ID (required)"`
	ContactAt string `json:"contact_at,omitempty" jsonschema:"When the contact happened (RFC3339, defaults to now)"`
}

func (h *RecordHandlers) LogContact(_ context.Context, request *mcp.CallToolRequest, input LogContactInput) (*mcp.CallToolResult, RecordOutput, error) {
	id, err := uuid.Parse(input.RecordID)
	if err != nil {
		return nil, RecordOutput{}, fmt.Errorf("invalid record_id: %w", err)
	}

	at := h.ws.Now()
	if input.ContactAt != "" {
		parsed, err := time.Parse(time.RFC3339, input.ContactAt)
		if err != nil {
			return nil, RecordOutput{}, fmt.Errorf("invalid contact_at format (use RFC3339): %w", err)
		}
		at = parsed
	}

	if err := db.LogContact(h.ws.DB, id, at); err != nil {
		return nil, RecordOutput{}, err
	}

	record, err := db.GetRecord(h.ws.DB, id)
	if err != nil {
		return nil, RecordOutput{}, err
	}
	return nil, recordToOutput(record), nil
}
