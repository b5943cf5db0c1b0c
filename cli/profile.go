// ABOUTME: RTP profile CLI commands
// ABOUTME: Show and edit the profile, apply presets and sync it through charm KV
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harperreed/speedrun/charm"
	"github.com/harperreed/speedrun/db"
	"github.com/harperreed/speedrun/models"
)

func profileCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the RTP profile",
	}
	cmd.AddCommand(
		profileShowCmd(e),
		profileSetCmd(e),
		profileStrategyCmd(e),
		profilePushCmd(e),
		profilePullCmd(e),
		profileUsersCmd(e),
	)
	return cmd
}

func (e *env) printProfile(out, errOut io.Writer, p models.Profile) error {
	if e.flags.json {
		return printJSON(out, p)
	}

	_, _ = fmt.Fprintln(out, StyleHeader.Render("Strategy: "+string(p.Strategy)))
	_, _ = fmt.Fprintln(out)

	w := newTable(out)
	_, _ = fmt.Fprintln(w, "WEIGHTINGS\t")
	_, _ = fmt.Fprintf(w, "  deal_size\t%.0f%%\n", p.Weightings.DealSize)
	_, _ = fmt.Fprintf(w, "  close_probability\t%.0f%%\n", p.Weightings.CloseProbability)
	_, _ = fmt.Fprintf(w, "  urgency\t%.0f%%\n", p.Weightings.Urgency)
	_, _ = fmt.Fprintf(w, "  relationship_strength\t%.0f%%\n", p.Weightings.RelationshipStrength)
	_, _ = fmt.Fprintf(w, "  competitive_risk\t%.0f%%\n", p.Weightings.CompetitiveRisk)
	_, _ = fmt.Fprintf(w, "  total\t%.0f%%\n", p.Weightings.Total())
	_, _ = fmt.Fprintln(w, "PRIORITIES\t")
	_, _ = fmt.Fprintf(w, "  high_value_deals\t%t\n", p.Priorities.HighValueDeals)
	_, _ = fmt.Fprintf(w, "  near_close\t%t\n", p.Priorities.NearClose)
	_, _ = fmt.Fprintf(w, "  at_risk_deals\t%t\n", p.Priorities.AtRiskDeals)
	_, _ = fmt.Fprintf(w, "  stale_relationships\t%t\n", p.Priorities.StaleRelationships)
	_, _ = fmt.Fprintf(w, "  priority_flagged\t%t\n", p.Priorities.PriorityFlagged)
	_, _ = fmt.Fprintln(w, "THRESHOLDS\t")
	_, _ = fmt.Fprintf(w, "  min_deal_size\t$%.0f\n", p.Thresholds.MinDealSize)
	_, _ = fmt.Fprintf(w, "  min_close_probability\t%.0f%%\n", p.Thresholds.MinCloseProbability)
	_, _ = fmt.Fprintf(w, "  max_days_to_close\t%d\n", p.Thresholds.MaxDaysToClose)
	if err := w.Flush(); err != nil {
		return err
	}

	printWarnings(errOut, p.Warnings())
	return nil
}

func profileShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := e.ws.Profile()
			if err != nil {
				return err
			}
			return e.printProfile(cmd.OutOrStdout(), cmd.ErrOrStderr(), p)
		},
	}
}

func profileSetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <field> <value>",
		Short: "Change one profile field",
		Long: `Change one profile field by its dotted name. The profile becomes "custom".

Fields:
  weightings.deal_size, weightings.close_probability, weightings.urgency,
  weightings.relationship_strength, weightings.competitive_risk
  priorities.high_value_deals, priorities.near_close, priorities.at_risk_deals,
  priorities.stale_relationships, priorities.priority_flagged
  thresholds.min_deal_size, thresholds.min_close_probability, thresholds.max_days_to_close`,
		Example: "  speedrun profile set weightings.urgency 30",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := e.ws.Profile()
			if err != nil {
				return err
			}
			if err := p.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := db.SaveProfile(e.ws.DB, e.ws.UserID, p); err != nil {
				return err
			}
			e.logger.Debug("profile updated", "field", args[0], "value", args[1])
			return e.printProfile(cmd.OutOrStdout(), cmd.ErrOrStderr(), p)
		},
	}
}

func profileStrategyCmd(e *env) *cobra.Command {
	names := make([]string, len(models.Strategies))
	for i, s := range models.Strategies {
		names[i] = string(s)
	}

	return &cobra.Command{
		Use:       "strategy <name>",
		Short:     "Replace the profile with a preset",
		Long:      "Replace the profile with a preset: " + strings.Join(names, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := e.ws.ApplyStrategy(models.Strategy(args[0]))
			if err != nil {
				return err
			}
			return e.printProfile(cmd.OutOrStdout(), cmd.ErrOrStderr(), p)
		},
	}
}

func (e *env) openCharm() (*charm.Client, error) {
	if e.charmClient != nil {
		return e.charmClient, nil
	}
	return charm.NewClient(charm.DefaultConfig(e.cfg.Charm.Host))
}

func profilePushCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Push the profile to charm so other devices can pull it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := e.ws.Profile()
			if err != nil {
				return err
			}
			client, err := e.openCharm()
			if err != nil {
				return err
			}
			if err := client.PushProfile(e.ws.UserID, p); err != nil {
				return err
			}
			e.logger.Info("pushed profile", "user", e.ws.UserID, "host", client.Config().Host)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Pushed %s profile for %s\n", StyleSuccess.Render("✓"), p.Strategy, e.ws.UserID)
			return nil
		},
	}
}

func profilePullCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Replace the local profile with the synced one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := e.openCharm()
			if err != nil {
				return err
			}
			p, err := client.PullProfile(e.ws.UserID)
			if err != nil {
				return err
			}
			if err := db.SaveProfile(e.ws.DB, e.ws.UserID, p); err != nil {
				return err
			}
			e.logger.Info("pulled profile", "user", e.ws.UserID, "strategy", p.Strategy)
			return e.printProfile(cmd.OutOrStdout(), cmd.ErrOrStderr(), p)
		},
	}
}

func profileUsersCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users with a synced profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := e.openCharm()
			if err != nil {
				return err
			}
			users, err := client.ProfileUsers()
			if err != nil {
				return err
			}
			if e.flags.json {
				return printJSON(cmd.OutOrStdout(), users)
			}
			for _, u := range users {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), u)
			}
			return nil
		},
	}
}
