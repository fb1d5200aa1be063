package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"personmerge/internal/server"
)

var (
	serveAddr     string
	serveName     string
	serveFoldCase bool
	serveTopN     int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the merger over HTTP",
	Long: `Starts an HTTP server:

  POST /v1/merge   JSON account array -> JSON person array
  POST /v1/report  JSON account array -> merge report
  GET  /healthz

Per request, ?name=first|last and ?fold=true|false override the defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := mergeOptions(cmd, serveName, serveFoldCase)
		if err != nil {
			return err
		}

		addr := serveAddr
		if !cmd.Flags().Changed("addr") && cfg.ListenAddr != "" {
			addr = cfg.ListenAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(server.Config{Addr: addr, MergeOptions: opts, TopN: serveTopN}, logger)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&serveName, "name", "", "Default name policy: first or last (default last)")
	serveCmd.Flags().BoolVar(&serveFoldCase, "fold-case", false, "Match emails ignoring case by default")
	serveCmd.Flags().IntVar(&serveTopN, "top-n", 10, "Number of largest persons listed by /v1/report")
	rootCmd.AddCommand(serveCmd)
}
