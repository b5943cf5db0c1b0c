// ABOUTME: Record CLI commands
// ABOUTME: Add, list, log contact, complete and show history for CRM record snapshots
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harperreed/speedrun/activity"
	"github.com/harperreed/speedrun/db"
	"github.com/harperreed/speedrun/models"
)

func recordCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Manage record snapshots",
	}
	cmd.AddCommand(recordAddCmd(e), recordListCmd(e), recordLogContactCmd(e), recordCompleteCmd(e), recordHistoryCmd(e))
	return cmd
}

func recordAddCmd(e *env) *cobra.Command {
	var (
		r           models.Record
		kind        string
		probability float64
		lastContact string
		nextAction  string
		closeDate   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record",
		Example: `  speedrun record add --name "Dana Scully" --company Acme --role "Decision Maker" --email dana@acme.test
  speedrun record add --kind opportunity --name "Acme renewal" --stage negotiation --amount 120000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(r.Name) == "" {
				return fmt.Errorf("--name is required")
			}
			k, ok := models.ParseRecordKind(kind)
			if !ok {
				return fmt.Errorf("invalid kind %q", kind)
			}
			r.Kind = k
			r.Priority = strings.ToLower(r.Priority)
			r.RiskLevel = strings.ToLower(r.RiskLevel)
			if role := models.NormalizeRole(r.BuyerGroupRole); role != "" {
				r.BuyerGroupRole = role
			}
			if cmd.Flags().Changed("probability") {
				r.Probability = &probability
			}
			r.LastContactDate = models.Timestamp(lastContact)
			r.NextActionDate = models.Timestamp(nextAction)
			r.ExpectedCloseDate = models.Timestamp(closeDate)

			if err := db.CreateRecord(e.ws.DB, &r); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if e.flags.json {
				return printJSON(out, r)
			}
			_, _ = fmt.Fprintf(out, "%s %s created: %s (ID: %s)\n", StyleSuccess.Render("✓"), r.Kind, r.Name, r.ID)
			if r.Company != "" {
				_, _ = fmt.Fprintf(out, "  Company: %s\n", r.Company)
			}
			if r.BuyerGroupRole != "" {
				_, _ = fmt.Fprintf(out, "  Role: %s\n", r.BuyerGroupRole)
			}
			if !r.HasContactChannel() {
				_, _ = fmt.Fprintln(out, StyleWarning.Render("  No email or phone: the record will stay out of the queue"))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&kind, "kind", string(models.KindLead), "Record kind: lead, prospect, opportunity, account, person")
	f.StringVar(&r.Type, "type", "", "Free-form type (partner records are never ranked)")
	f.StringVar(&r.Name, "name", "", "Record name (required)")
	f.StringVar(&r.Title, "title", "", "Job title")
	f.StringVar(&r.Company, "company", "", "Company name")
	f.StringVar(&r.Email, "email", "", "Email address")
	f.StringVar(&r.Phone, "phone", "", "Phone number")
	f.StringVar(&r.Status, "status", "", "Lifecycle status")
	f.StringVar(&r.Stage, "stage", "", "Pipeline stage")
	f.StringVar(&r.Priority, "priority", "", "Priority: high, medium, low")
	f.Float64Var(&r.Amount, "amount", 0, "Deal value in USD")
	f.Float64Var(&probability, "probability", 0, "Explicit close probability 0-100")
	f.StringVar(&r.BuyerGroupRole, "role", "", "Buyer group role")
	f.StringVar(&r.RiskLevel, "risk", "", "Competitive risk: high, medium, low")
	f.StringSliceVar(&r.Competitors, "competitor", nil, "Competing vendor (repeatable)")
	f.StringVar(&r.Industry, "industry", "", "Company industry")
	f.IntVar(&r.Employees, "employees", 0, "Company headcount")
	f.Float64Var(&r.Revenue, "revenue", 0, "Company annual revenue in USD")
	f.StringVar(&lastContact, "last-contact", "", "Last contact date (ISO 8601)")
	f.StringVar(&nextAction, "next-action", "", "Scheduled next action date (ISO 8601)")
	f.StringVar(&closeDate, "expected-close", "", "Expected close date (ISO 8601)")

	return cmd
}

func recordListCmd(e *env) *cobra.Command {
	var (
		kind  string
		query string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := parseKindFlag(kind)
			if err != nil {
				return err
			}

			records, err := db.FindRecords(e.ws.DB, k, query, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if e.flags.json {
				return printJSON(out, records)
			}
			if len(records) == 0 {
				_, _ = fmt.Fprintln(out, "No records found.")
				return nil
			}

			w := newTable(out)
			_, _ = fmt.Fprintln(w, "ID\tKIND\tNAME\tCOMPANY\tSTATUS\tLAST CONTACT")
			for _, r := range records {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID.String()[:8], r.Kind, r.Name, r.Company, r.Status, orDash(string(r.LastContactDate)))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Filter by kind")
	cmd.Flags().StringVar(&query, "query", "", "Search name, company and email")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum results")
	return cmd
}

func recordLogContactCmd(e *env) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "log-contact <record-id>",
		Short: "Record a touch on a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid record ID: %w", err)
			}

			when := e.ws.Now()
			if at != "" {
				parsed, ok := models.Timestamp(at).TimeIn(e.ws.Location)
				if !ok {
					return fmt.Errorf("invalid --at %q (use ISO 8601)", at)
				}
				when = parsed
			}

			if err := db.LogContact(e.ws.DB, id, when); err != nil {
				return fmt.Errorf("failed to log contact: %w", err)
			}
			record, err := db.GetRecord(e.ws.DB, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if e.flags.json {
				return printJSON(out, record)
			}
			_, _ = fmt.Fprintf(out, "%s Logged contact with %s at %s\n",
				StyleSuccess.Render("✓"), record.Name, when.In(e.ws.Location).Format(time.RFC1123))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "When the contact happened (default now)")
	return cmd
}

func recordCompleteCmd(e *env) *cobra.Command {
	var outcome, notes string

	names := make([]string, len(activity.Outcomes))
	for i, o := range activity.Outcomes {
		names[i] = string(o)
	}

	cmd := &cobra.Command{
		Use:   "complete <record-id>",
		Short: "Log a speedrun outcome on a record",
		Long: `Log how a speedrun touch ended. Voicemail, no-answer and busy keep the
record in the queue for a retry; every other outcome completes it.`,
		Example: `  speedrun record complete 3f2a... --outcome voicemail
  speedrun record complete 3f2a... --outcome demo-scheduled --notes "Thursday 2pm"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid record ID: %w", err)
			}
			o, err := activity.ParseOutcome(outcome)
			if err != nil {
				return err
			}

			record, entry, err := e.ws.Complete(id, o, notes)
			if err != nil {
				return fmt.Errorf("failed to complete record: %w", err)
			}
			e.logger.Debug("record completed", "id", id, "outcome", o, "status", record.Status)

			out := cmd.OutOrStdout()
			if e.flags.json {
				return printJSON(out, entry)
			}
			if entry.Verb == activity.VerbAttempted {
				_, _ = fmt.Fprintf(out, "%s %s: %s stays in the queue\n", StyleWarning.Render("↺"), o, record.Name)
				return nil
			}
			_, _ = fmt.Fprintf(out, "%s %s: %s is done\n", StyleSuccess.Render("✓"), o, record.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&outcome, "outcome", "", "Outcome: "+strings.Join(names, ", "))
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	_ = cmd.MarkFlagRequired("outcome")
	return cmd
}

func recordHistoryCmd(e *env) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <record-id>",
		Short: "Show the outcome timeline for a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid record ID: %w", err)
			}
			record, err := db.GetRecord(e.ws.DB, id)
			if err != nil {
				return err
			}
			history, err := db.ListActivities(e.ws.DB, id, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if e.flags.json {
				return printJSON(out, history)
			}
			_, _ = fmt.Fprintln(out, StyleHeader.Render("History: "+record.Name))
			if len(history) == 0 {
				_, _ = fmt.Fprintln(out, StyleMuted.Render("No activity yet."))
				return nil
			}

			w := newTable(out)
			_, _ = fmt.Fprintln(w, "WHEN\tOUTCOME\tRESULT\tNOTES")
			for _, a := range history {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					a.At.In(e.ws.Location).Format("2006-01-02 15:04"), a.Outcome, a.Verb, orDash(a.Notes))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries")
	return cmd
}

func parseKindFlag(kind string) (models.RecordKind, error) {
	if kind == "" {
		return "", nil
	}
	k, ok := models.ParseRecordKind(kind)
	if !ok {
		return "", fmt.Errorf("invalid kind %q", kind)
	}
	return k, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
