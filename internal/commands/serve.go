package perfview

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mwiater/perfview/internal/server"
	"github.com/mwiater/perfview/internal/session"
	"github.com/spf13/cobra"
)

// serveFn is swapped in tests.
var serveFn = func(ctx context.Context, srv *server.Server) error {
	return srv.ListenAndServe(ctx)
}

var serveOpts struct {
	naming namingOptions
}

// serveCmd runs the web UI.
var serveCmd = &cobra.Command{
	Use:   "serve [capture.csv]...",
	Short: "Serve the web UI for uploading and comparing capture logs",
	Long: `Serve the web UI. Capture logs given as arguments are loaded before the
server starts; otherwise logs are uploaded from the browser.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := session.NewStore()
		if len(args) > 0 {
			s, err := loadSession(cmd, args, &serveOpts.naming)
			if err != nil {
				return err
			}
			store.Replace(s)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serveFn(ctx, server.New(*GetConfig(), store))
	},
}

func init() {
	serveOpts.naming.register(serveCmd.Flags())
	rootCmd.AddCommand(serveCmd)
}
