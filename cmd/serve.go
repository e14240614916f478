package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/paesdx/internal/api"
	"github.com/abhisek/paesdx/internal/content"
	"github.com/abhisek/paesdx/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the diagnostic HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := flagOrEnv(cmd, "addr", "PAESDX_ADDR", ":8080")

		log, err := newLogger(cmd, "dev")
		if err != nil {
			return err
		}
		defer log.Sync()

		holder, err := content.Open(contentLoader(cmd), log)
		if err != nil {
			return err
		}
		snap := holder.Current()
		log.Info("content loaded",
			"origin", snap.Origin,
			"blueprint_version", snap.Blueprint.Version(),
			"atoms", snap.Graph.Len(),
			"items", snap.Bank.Len(),
		)

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		h := api.NewRouter(api.Deps{
			Engine:  session.NewEngine(holder),
			Reports: s.Reports(),
			Content: holder,
			Log:     log,
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return api.Serve(ctx, addr, h, log)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides PAESDX_ADDR; default :8080)")
}
