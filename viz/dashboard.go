// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Summarizes queue health by staleness tier and urgency as an ASCII dashboard
package viz

import (
	"fmt"
	"strings"

	"github.com/harperreed/speedrun/db"
	"github.com/harperreed/speedrun/models"
	"github.com/harperreed/speedrun/rtp"
	"github.com/harperreed/speedrun/staleness"
	"github.com/harperreed/speedrun/workspace"
)

type DashboardStats struct {
	Strategy string

	TotalRecords int
	QueueLength  int
	Partners     int
	Overdue      int

	ByStaleness map[staleness.Tier]int
	ByUrgency   map[models.Urgency]int

	// First few queue entries
	Top []rtp.Ranked

	Warnings []string
}

const topCount = 5

func GenerateDashboardStats(ws *workspace.Workspace) (*DashboardStats, error) {
	engine, err := ws.Engine()
	if err != nil {
		return nil, err
	}

	records, err := db.FindRecords(ws.DB, "", "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}

	now := ws.Now()
	stats := Summarize(engine.Rank(records, now), engine.Queue(records, now, 0))
	stats.Strategy = string(engine.Profile().Strategy)
	stats.Warnings = engine.Warnings()
	return stats, nil
}

// Summarize counts a ranking pass. Tier and urgency counts cover every ranked record.
func Summarize(ranked, queue []rtp.Ranked) *DashboardStats {
	stats := &DashboardStats{
		TotalRecords: len(ranked),
		QueueLength:  len(queue),
		ByStaleness:  make(map[staleness.Tier]int),
		ByUrgency:    make(map[models.Urgency]int),
	}

	for _, r := range ranked {
		if r.Record.IsPartner() {
			stats.Partners++
			continue
		}
		stats.ByStaleness[staleness.Tier(r.Evaluation.LastActionTiming.Tier)]++
		stats.ByUrgency[r.Evaluation.Urgency]++
		if r.Score.Overdue {
			stats.Overdue++
		}
	}

	if len(queue) > topCount {
		queue = queue[:topCount]
	}
	stats.Top = queue
	return stats
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  SPEEDRUN DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  %d records  %d in queue  %d partners  %d overdue\n",
		stats.TotalRecords, stats.QueueLength, stats.Partners, stats.Overdue))
	if stats.Strategy != "" {
		out.WriteString(fmt.Sprintf("  strategy: %s\n", stats.Strategy))
	}
	out.WriteString("\n")

	out.WriteString("LAST CONTACT\n")
	tiers := make([]string, len(staleness.Tiers))
	tierCounts := make([]int, len(staleness.Tiers))
	for i, t := range staleness.Tiers {
		tiers[i] = string(t)
		tierCounts[i] = stats.ByStaleness[t]
	}
	renderBars(&out, tiers, tierCounts)
	out.WriteString("\n")

	out.WriteString("NEXT ACTION URGENCY\n")
	levels := []models.Urgency{models.UrgencyImmediate, models.UrgencyUrgent, models.UrgencySoon, models.UrgencyRoutine, models.UrgencyFuture}
	names := make([]string, len(levels))
	levelCounts := make([]int, len(levels))
	for i, l := range levels {
		names[i] = string(l)
		levelCounts[i] = stats.ByUrgency[l]
	}
	renderBars(&out, names, levelCounts)

	if len(stats.Top) > 0 {
		out.WriteString("\nUP NEXT\n")
		for _, r := range stats.Top {
			out.WriteString(fmt.Sprintf("  %3s. %-24s %-10s %s\n",
				rtp.FormatRank(r.Evaluation), truncate(r.Record.Name, 24),
				r.Evaluation.NextActionTiming.Label, r.Evaluation.RecommendedAction))
		}
	}

	if len(stats.Warnings) > 0 {
		out.WriteString("\nNEEDS ATTENTION\n")
		for _, w := range stats.Warnings {
			out.WriteString(fmt.Sprintf("  ⚠️  %s\n", w))
		}
	}

	return out.String()
}

func renderBars(out *strings.Builder, labels []string, counts []int) {
	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for i, label := range labels {
		barLength := (counts[i] * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
		out.WriteString(fmt.Sprintf("  %-11s %s  %2d\n", label, bar, counts[i]))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
