package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yildizm/SigSum/internal/emoji"
	"github.com/yildizm/SigSum/internal/server"
)

var (
	serveAddr      string
	serveRateLimit float64
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the signal analysis API",
		Long: `Serve the signal analysis HTTP API.

Routes:
  POST /analyze_signal/analisar_sinal   analyze {"data": [...]}
  GET  /health                          liveness
  GET  /metrics                         Prometheus metrics

Examples:
  sigsum serve
  sigsum serve --addr :9000 --rate-limit 5`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", server.DefaultAddress, "listen address (overrides server.address)")
	cmd.Flags().Float64Var(&serveRateLimit, "rate-limit", 0, "requests per second per client on the analysis route, 0 disables")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	settings := getConfig().ServerSettings()
	if cmd.Flags().Changed("addr") {
		settings.Address = serveAddr
	}
	if cmd.Flags().Changed("rate-limit") {
		settings.RateLimit = serveRateLimit
	}

	if isVerbose() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := server.New(settings, server.WithLogger(newLogger("server")))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "%s Serving signal analysis API on %s\n", emoji.GetEmoji("rocket"), settings.Address)
	if err := srv.Run(ctx); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%s Server stopped\n", emoji.GetEmoji("door"))
	return nil
}
