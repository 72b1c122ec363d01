// Package serve runs the HTTP API
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/mood-journal/cmd/root"

	"github.com/spf13/cobra"
)

var (
	host string
	port int
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the journal HTTP API",
	Long: `Run the journal HTTP API.

Endpoints:
  POST /entry          submit an entry (form fields alias, entry, anonymous=on, or JSON)
  GET  /feed           recent entries, newest first
  GET  /api/entries    stored entries, optionally filtered with ?alias=
  GET  /healthz        liveness and remote classifier status`,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().StringVar(&host, "host", "", "Interface to listen on (overrides server.host)")
	Cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (overrides server.port)")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	if host != "" {
		root.AppConfig.Server.Host = host
	}
	if port != 0 {
		if port < 1 || port > 65535 {
			return fmt.Errorf("port must be between 1 and 65535, got: %d", port)
		}
		root.AppConfig.Server.Port = port
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx)
}

func run(ctx context.Context) error {
	c, err := root.NewContainer(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close container")
		}
	}()

	return c.GetServer().ListenAndServe(ctx, c.GetConfig().ListenAddr())
}
