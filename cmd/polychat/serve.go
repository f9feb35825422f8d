package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/server"
	"github.com/spf13/cobra"
)

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the core",
	Long: `Restores the last active session, then serves the REST API and the
WebSocket the shell connects to until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&port, "port", "", "HTTP port (overrides PORT)")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Server.Port = port
	}

	srv, err := server.NewServer(cfg, version)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(background(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := srv.Run(ctx)
	closeErr := srv.Close()
	if runErr != nil {
		return runErr
	}
	return closeErr
}

// background is the context used when cobra has none
func background(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
