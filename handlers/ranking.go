// ABOUTME: Prioritization MCP tool handlers
// ABOUTME: Implements evaluate_record, rank_records, and speedrun_queue tools
package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/speedrun/db"
	"github.com/harperreed/speedrun/models"
	"github.com/harperreed/speedrun/rtp"
	"github.com/harperreed/speedrun/workspace"
)

type RankingHandlers struct {
	ws *workspace.Workspace
}

func NewRankingHandlers(ws *workspace.Workspace) *RankingHandlers {
	return &RankingHandlers{ws: ws}
}

type TimingOutput struct {
	Label string `json:"label"`
	Tier  string `json:"tier"`
	Color string `json:"color"`
}

type EvaluationOutput struct {
	RecordID          string             `json:"record_id"`
	Name              string             `json:"name"`
	Company           string             `json:"company,omitempty"`
	Rank              string             `json:"rank,omitempty"`
	LastAction        TimingOutput       `json:"last_action"`
	NextAction        TimingOutput       `json:"next_action"`
	RecommendedAction string             `json:"recommended_action"`
	Urgency           string             `json:"urgency"`
	Score             float64            `json:"score"`
	Importance        float64            `json:"importance"`
	Overdue           bool               `json:"overdue"`
	Breakdown         map[string]float64 `json:"breakdown,omitempty"`
}

func timingToOutput(t models.Timing) TimingOutput {
	return TimingOutput{Label: t.Label, Tier: t.Tier, Color: t.Color}
}

func evaluationToOutput(r models.Record, ev models.Evaluation) EvaluationOutput {
	out := EvaluationOutput{
		RecordID:          r.ID.String(),
		Name:              r.Name,
		Company:           r.Company,
		LastAction:        timingToOutput(ev.LastActionTiming),
		NextAction:        timingToOutput(ev.NextActionTiming),
		RecommendedAction: ev.RecommendedAction,
		Urgency:           string(ev.Urgency),
		Score:             ev.Score,
		Importance:        ev.Importance,
		Overdue:           ev.Overdue,
		Breakdown:         ev.Breakdown,
	}
	if ev.Rank > 0 || ev.RankLabel != "" {
		out.Rank = rtp.FormatRank(ev)
	}
	return out
}

func rankedToOutput(ranked []rtp.Ranked) []EvaluationOutput {
	out := make([]EvaluationOutput, len(ranked))
	for i, r := range ranked {
		out[i] = evaluationToOutput(r.Record, r.Evaluation)
	}
	return out
}

type EvaluateRecordInput struct {
	RecordID string `json:"record_id" jsonschema:"Record ID (required)"`
}

type EvaluateRecordOutput struct {
	Evaluation EvaluationOutput `json:"evaluation"`
	Warnings   []string         `json:"warnings,omitempty"`
}

func (h *RankingHandlers) EvaluateRecord(_ context.Context, request *mcp.CallToolRequest, input EvaluateRecordInput) (*mcp.CallToolResult, EvaluateRecordOutput, error) {
	if input.RecordID == "" {
		return nil, EvaluateRecordOutput{}, fmt.Errorf("record_id is required")
	}
	id, err := uuid.Parse(input.RecordID)
	if err != nil {
		return nil, EvaluateRecordOutput{}, fmt.Errorf("invalid record_id: %w", err)
	}

	record, err := db.GetRecord(h.ws.DB, id)
	if err != nil {
		return nil, EvaluateRecordOutput{}, err
	}

	engine, err := h.ws.Engine()
	if err != nil {
		return nil, EvaluateRecordOutput{}, err
	}

	ev := engine.Evaluate(*record, h.ws.Now())
	return nil, EvaluateRecordOutput{
		Evaluation: evaluationToOutput(*record, ev),
		Warnings:   engine.Warnings(),
	}, nil
}

type RankRecordsInput struct {
	Kind     string `json:"kind,omitempty" jsonschema:"Only rank records of this kind (lead, prospect, opportunity, account, person)"`
	Strategy string `json:"strategy,omitempty" jsonschema:"Preview a strategy preset without saving it"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default all)"`
}

type RankRecordsOutput struct {
	Strategy string             `json:"strategy"`
	Records  []EvaluationOutput `json:"records"`
	Warnings []string           `json:"warnings,omitempty"`
}

func (h *RankingHandlers) RankRecords(_ context.Context, request *mcp.CallToolRequest, input RankRecordsInput) (*mcp.CallToolResult, RankRecordsOutput, error) {
	var kind models.RecordKind
	if input.Kind != "" {
		k, ok := models.ParseRecordKind(input.Kind)
		if !ok {
			return nil, RankRecordsOutput{}, fmt.Errorf("invalid kind %q", input.Kind)
		}
		kind = k
	}

	engine, err := h.engineFor(input.Strategy)
	if err != nil {
		return nil, RankRecordsOutput{}, err
	}

	records, err := db.FindRecords(h.ws.DB, kind, "", 0)
	if err != nil {
		return nil, RankRecordsOutput{}, err
	}

	ranked := engine.Rank(records, h.ws.Now())
	if input.Limit > 0 && len(ranked) > input.Limit {
		ranked = ranked[:input.Limit]
	}

	return nil, RankRecordsOutput{
		Strategy: string(engine.Profile().Strategy),
		Records:  rankedToOutput(ranked),
		Warnings: engine.Warnings(),
	}, nil
}

type SpeedrunQueueInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum queue length (default 50)"`
}

type SpeedrunQueueOutput struct {
	Count    int                `json:"count"`
	Queue    []EvaluationOutput `json:"queue"`
	Warnings []string           `json:"warnings,omitempty"`
}

func (h *RankingHandlers) SpeedrunQueue(_ context.Context, request *mcp.CallToolRequest, input SpeedrunQueueInput) (*mcp.CallToolResult, SpeedrunQueueOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 50
	}

	queue, engine, err := h.ws.Queue(limit)
	if err != nil {
		return nil, SpeedrunQueueOutput{}, err
	}

	return nil, SpeedrunQueueOutput{
		Count:    len(queue),
		Queue:    rankedToOutput(queue),
		Warnings: engine.Warnings(),
	}, nil
}

func (h *RankingHandlers) engineFor(strategy string) (*rtp.Engine, error) {
	if strategy == "" {
		return h.ws.Engine()
	}
	p, err := models.PresetProfile(models.Strategy(strategy))
	if err != nil {
		return nil, err
	}
	return h.ws.EngineFor(p)
}
