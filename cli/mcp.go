// ABOUTME: MCP server subcommand
// ABOUTME: Serves record, ranking and profile tools over stdio for assistant integration
package cli

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/harperreed/speedrun/handlers"
	"github.com/harperreed/speedrun/workspace"
)

func mcpCmd(e *env, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server on stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e.logger.Info("starting MCP server", "version", version)
			server := newMCPServer(e.ws, version)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}

func newMCPServer(ws *workspace.Workspace, version string) *mcp.Server {
	recordHandlers := handlers.NewRecordHandlers(ws)
	activityHandlers := handlers.NewActivityHandlers(ws)
	rankingHandlers := handlers.NewRankingHandlers(ws)
	profileHandlers := handlers.NewProfileHandlers(ws)
	vizHandlers := handlers.NewVizHandlers(ws)
	promptHandlers := handlers.NewPromptHandlers(ws)
	resourceHandlers := handlers.NewResourceHandlers(ws)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "speedrun",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_record",
		Description: "Add a lead, prospect, opportunity, account or person record",
	}, recordHandlers.AddRecord)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_records",
		Description: "Search records by kind, name, company or email",
	}, recordHandlers.FindRecords)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_contact",
		Description: "Record a touch on a record and update its last contact date",
	}, recordHandlers.LogContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "complete_record",
		Description: "Log a speedrun outcome; voicemail, no-answer and busy keep the record queued for a retry",
	}, activityHandlers.CompleteRecord)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "record_history",
		Description: "List the outcome timeline for a record, newest first",
	}, activityHandlers.RecordHistory)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "evaluate_record",
		Description: "Get a record's last-contact pill, next-action pill, recommended action and score",
	}, rankingHandlers.EvaluateRecord)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "rank_records",
		Description: "Rank records by RTP score, optionally previewing another strategy",
	}, rankingHandlers.RankRecords)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "speedrun_queue",
		Description: "Get the ordered list of who to contact next, when, and with what action",
	}, rankingHandlers.SpeedrunQueue)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_rtp_profile",
		Description: "Get the RTP profile: strategy, weightings, priorities and thresholds",
	}, profileHandlers.GetProfile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_rtp_profile",
		Description: "Change one RTP profile field by its dotted name, e.g. weightings.urgency",
	}, profileHandlers.UpdateProfile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "apply_rtp_strategy",
		Description: "Replace the RTP profile with a preset: close_quickly, sell_faster, maximize_value or balanced",
	}, profileHandlers.ApplyStrategy)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "buyer_group_graph",
		Description: "Render a company's buyer group as a Graphviz graph colored by last-contact staleness",
	}, vizHandlers.BuyerGroupGraph)

	for _, p := range promptHandlers.Prompts() {
		server.AddPrompt(p, promptHandlers.GetPrompt)
	}
	for _, r := range resourceHandlers.Resources() {
		server.AddResource(r, resourceHandlers.ReadResource)
	}
	for _, t := range resourceHandlers.Templates() {
		server.AddResourceTemplate(t, resourceHandlers.ReadResource)
	}

	return server
}
