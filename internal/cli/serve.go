package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/notebook/internal/api"
	"github.com/mesh-intelligence/notebook/internal/server"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the GraphQL API over HTTP",
		Long: "Serve POST/GET /graphql, a read-only JSON API under /api and\n" +
			"/healthz until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, flags, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: listen_addr from config, :8080)")
	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, flags *rootFlags, addr string) error {
	sess, err := openSession(ctx, flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer sess.close()

	if addr == "" {
		addr = sess.settings.listenAddr
	}
	a, err := api.New(sess.svc,
		api.WithPolicy(sess.settings.errorPolicy),
		api.WithLogger(sess.logger))
	if err != nil {
		return sysError("%v", err)
	}

	srv := server.New(a, sess.svc, sess.logger)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return sysError("%v", err)
	}
	return nil
}
