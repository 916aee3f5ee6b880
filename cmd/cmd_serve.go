// cmd_serve.go - Serve Command
package cmd

import (
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/7blacky7/aeforge/envconfig"
	"github.com/7blacky7/aeforge/server"
)

// RunServer - Startet den HTTP-Server auf AEFORGE_HOST bis SIGINT/SIGTERM
func RunServer(cmd *cobra.Command, _ []string) error {
	if envconfig.LogLevel() > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	ln, err := net.Listen("tcp", envconfig.Host().Host)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx, ln, dataOptions(cmd)...)
}

// newServeCmd - Erstellt den serve Command
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Start the inspection server",
		Args:    cobra.ExactArgs(0),
		RunE:    RunServer,
	}
	cmd.Flags().String("data-dir", "", "Dataset directory (default $AEFORGE_DATA)")
	return cmd
}
