package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/vartui/internal/automation"
	"github.com/alexanderramin/vartui/internal/domain"
)

func newMCPCmd(a *App) *cobra.Command {
	var waitTimeout = automation.DefaultWaitTimeout
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve headless sessions over Content-Length framed stdio",
		Long: `Serve headless sessions for automation clients.

Requests and responses are JSON-RPC messages framed with a Content-Length
header on stdin and stdout. Tools: vartui.session.create, snapshot, key,
action and close.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps := a.deps()
			deps.Source = domain.SourceAutomation
			srv := automation.NewServer(deps,
				automation.WithLogger(a.logger()),
				automation.WithWaitTimeout(waitTimeout),
			)
			a.logger().Info("mcp_server_started")
			return srv.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().DurationVar(&waitTimeout, "wait", waitTimeout, "how long session.create waits for the initial fetches")
	return cmd
}
