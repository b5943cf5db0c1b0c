// ABOUTME: Buyer group graph generation for one company
// ABOUTME: Renders people as nodes colored by staleness tier and labelled with role and rank
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/harperreed/speedrun/db"
	"github.com/harperreed/speedrun/models"
	"github.com/harperreed/speedrun/rtp"
	"github.com/harperreed/speedrun/workspace"
)

type GraphGenerator struct {
	ws *workspace.Workspace
}

func NewGraphGenerator(ws *workspace.Workspace) *GraphGenerator {
	return &GraphGenerator{ws: ws}
}

// BuyerGroup is one company's ranked buyer group.
type BuyerGroup struct {
	Company string
	Members []rtp.Ranked
}

// LoadBuyerGroup ranks every record attached to a company.
func (g *GraphGenerator) LoadBuyerGroup(company string) (*BuyerGroup, error) {
	records, err := db.FindCompanyRecords(g.ws.DB, company)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no records found for company %q", company)
	}

	engine, err := g.ws.Engine()
	if err != nil {
		return nil, err
	}
	return &BuyerGroup{Company: records[0].Company, Members: engine.Rank(records, g.ws.Now())}, nil
}

// GenerateBuyerGroupGraph returns DOT source for a company's buyer group.
func (g *GraphGenerator) GenerateBuyerGroupGraph(company string) (string, error) {
	group, err := g.LoadBuyerGroup(company)
	if err != nil {
		return "", err
	}
	return RenderBuyerGroup(group)
}

// RenderBuyerGroup lays out the company in the middle with its people around it.
func RenderBuyerGroup(group *BuyerGroup) (string, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer func() { _ = gv.Close() }()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() { _ = graph.Close() }()

	graph.SetLabel(fmt.Sprintf("%s buyer group", group.Company))
	graph.SetRankDir(cgraph.LRRank)

	companyNode, err := graph.CreateNodeByName("company")
	if err != nil {
		return "", fmt.Errorf("failed to create company node: %w", err)
	}
	companyNode.SetLabel(group.Company)
	companyNode.SetShape("box")
	companyNode.SetStyle("filled")
	companyNode.SetFillColor("lightblue")

	for _, m := range group.Members {
		node, err := graph.CreateNodeByName(fmt.Sprintf("record_%s", m.Record.ID.String()[:8]))
		if err != nil {
			return "", fmt.Errorf("failed to create record node: %w", err)
		}
		node.SetLabel(memberLabel(m))
		node.SetShape("ellipse")
		node.SetStyle("filled")
		node.SetFillColor(fillColor(m.Evaluation.LastActionTiming.Color))

		edge, err := graph.CreateEdgeByName(m.Record.ID.String(), node, companyNode)
		if err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
		if role := m.Record.BuyerGroupRole; role != "" {
			edge.SetLabel(role)
		}
		if m.Record.BuyerGroupRole == models.RoleBlocker {
			edge.SetStyle("dashed")
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.String(), nil
}

func memberLabel(m rtp.Ranked) string {
	role := m.Record.BuyerGroupRole
	if role == "" {
		role = "No role"
	}
	return fmt.Sprintf("#%s %s\n%s\n%s", rtp.FormatRank(m.Evaluation), m.Record.Name, role, m.Evaluation.LastActionTiming.Label)
}

// fillColor maps presentation color classes onto light X11 colors.
func fillColor(class string) string {
	switch class {
	case models.ColorRed:
		return "lightcoral"
	case models.ColorOrange:
		return "orange"
	case models.ColorYellow:
		return "lightyellow"
	case models.ColorGreen:
		return "lightgreen"
	case models.ColorBlue:
		return "lightblue"
	default:
		return "lightgray"
	}
}
