package cli

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-synth/internal/server"
)

// newServeCmd creates the serve command. Requests are read from stdin and
// responses written to stdout, so logs always go to stderr.
func newServeCmd(ro *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP tool server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			logger.Debug("starting MCP server", "version", version, "commit", commit, "built", date)

			srv := server.New(ro.cfg, logger)
			return srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
