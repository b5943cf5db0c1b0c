// ABOUTME: Evaluation, ranking and speedrun queue commands
// ABOUTME: Prints timing pills, recommended actions and scores for records
package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harperreed/speedrun/db"
	"github.com/harperreed/speedrun/models"
	"github.com/harperreed/speedrun/rtp"
)

type rankedJSON struct {
	Strategy models.Strategy `json:"strategy"`
	Items    []rankedItem    `json:"items"`
	Warnings []string        `json:"warnings,omitempty"`
}

type rankedItem struct {
	Record     models.Record     `json:"record"`
	Evaluation models.Evaluation `json:"evaluation"`
}

func toRankedJSON(ranked []rtp.Ranked, e *rtp.Engine) rankedJSON {
	items := make([]rankedItem, len(ranked))
	for i, r := range ranked {
		items[i] = rankedItem{Record: r.Record, Evaluation: r.Evaluation}
	}
	return rankedJSON{Strategy: e.Profile().Strategy, Items: items, Warnings: e.Warnings()}
}

func evaluateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <record-id>",
		Short: "Evaluate a single record",
		Long: `Show a record's last-contact pill, next-action pill, recommended action and
score breakdown. Evaluation does not assign a rank; use 'speedrun rank' for that.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid record ID: %w", err)
			}
			record, err := db.GetRecord(e.ws.DB, id)
			if errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf("record %s not found", id)
			}
			if err != nil {
				return err
			}

			engine, err := e.ws.Engine()
			if err != nil {
				return err
			}
			ev := engine.Evaluate(*record, e.ws.Now())

			out := cmd.OutOrStdout()
			if e.flags.json {
				return printJSON(out, rankedItem{Record: *record, Evaluation: ev})
			}

			_, _ = fmt.Fprintln(out, StyleHeader.Render(record.Name))
			if record.Company != "" {
				_, _ = fmt.Fprintf(out, "  %s\n", record.Company)
			}
			_, _ = fmt.Fprintln(out)
			_, _ = fmt.Fprintf(out, "  Last contact:  %s\n", pill(ev.LastActionTiming))
			_, _ = fmt.Fprintf(out, "  Next action:   %s\n", pill(ev.NextActionTiming))
			_, _ = fmt.Fprintf(out, "  Action:        %s\n", ev.RecommendedAction)
			_, _ = fmt.Fprintf(out, "  Urgency:       %s\n", ev.Urgency)
			_, _ = fmt.Fprintf(out, "  Score:         %.1f\n", ev.Score)
			_, _ = fmt.Fprintf(out, "  Importance:    %.1f\n", ev.Importance)
			if ev.Overdue {
				_, _ = fmt.Fprintf(out, "  %s\n", StyleWarning.Render("Overdue"))
			}
			if ev.RankLabel == models.RankSentinel {
				_, _ = fmt.Fprintf(out, "  %s\n", StyleMuted.Render("Partner: excluded from ranking"))
			}
			printBreakdown(out, ev.Breakdown)
			printWarnings(cmd.ErrOrStderr(), engine.Warnings())
			return nil
		},
	}
}

func printBreakdown(out io.Writer, breakdown map[string]float64) {
	if len(breakdown) == 0 {
		return
	}
	factors := make([]string, 0, len(breakdown))
	for f := range breakdown {
		factors = append(factors, f)
	}
	sort.Strings(factors)

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, StyleMuted.Render("  Breakdown"))
	w := newTable(out)
	for _, f := range factors {
		_, _ = fmt.Fprintf(w, "    %s\t%.1f\n", f, breakdown[f])
	}
	_ = w.Flush()
}

func rankCmd(e *env) *cobra.Command {
	var (
		kind     string
		strategy string
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank records by RTP score",
		Long: `Rank every record (or every record of one kind) using the saved profile.
--strategy previews a preset without saving it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := parseKindFlag(kind)
			if err != nil {
				return err
			}

			engine, err := e.engineFor(strategy)
			if err != nil {
				return err
			}
			records, err := db.FindRecords(e.ws.DB, k, "", 0)
			if err != nil {
				return err
			}
			ranked := engine.Rank(records, e.ws.Now())

			out := cmd.OutOrStdout()
			if e.flags.json {
				return printJSON(out, toRankedJSON(ranked, engine))
			}
			if len(ranked) == 0 {
				_, _ = fmt.Fprintln(out, "No records to rank.")
				return nil
			}

			w := newTable(out)
			_, _ = fmt.Fprintln(w, "RANK\tNAME\tCOMPANY\tSCORE\tLAST CONTACT\tURGENCY")
			for _, r := range ranked {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\t%s\n",
					rtp.FormatRank(r.Evaluation), r.Record.Name, r.Record.Company,
					r.Evaluation.Score, r.Evaluation.LastActionTiming.Label, r.Evaluation.Urgency)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printWarnings(cmd.ErrOrStderr(), engine.Warnings())
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only rank records of this kind")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Preview a strategy preset without saving it")
	return cmd
}

func queueCmd(e *env) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show the speedrun queue",
		Long: `Show who to contact next, in order. Closed, partner and unreachable records
are left out; the first entry is due now.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = e.cfg.Queue.Limit
			}

			queue, engine, err := e.ws.Queue(limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if e.flags.json {
				return printJSON(out, toRankedJSON(queue, engine))
			}
			if len(queue) == 0 {
				_, _ = fmt.Fprintln(out, "Queue is empty.")
				return nil
			}

			_, _ = fmt.Fprintln(out, StyleHeader.Render(fmt.Sprintf("Speedrun (%s)", engine.Profile().Strategy)))
			w := newTable(out)
			_, _ = fmt.Fprintln(w, "#\tWHEN\tNAME\tCOMPANY\tLAST CONTACT\tACTION")
			for _, r := range queue {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					r.Evaluation.Rank, r.Evaluation.NextActionTiming.Label, r.Record.Name, r.Record.Company,
					r.Evaluation.LastActionTiming.Label, r.Evaluation.RecommendedAction)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printWarnings(cmd.ErrOrStderr(), engine.Warnings())
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum queue length (default from config)")
	return cmd
}

// engineFor returns the saved-profile engine, or a preset preview when strategy is set.
func (e *env) engineFor(strategy string) (*rtp.Engine, error) {
	if strategy == "" {
		return e.ws.Engine()
	}
	p, err := models.PresetProfile(models.Strategy(strategy))
	if err != nil {
		return nil, err
	}
	return e.ws.EngineFor(p)
}
