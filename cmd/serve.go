package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"memchat/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP chat server",
	Long:  `Starts the memchat HTTP server with a JSON chat API, WebSocket transport, and session administration endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort > 0 {
			cfg.Server.Port = servePort
		}

		eng, database, err := buildEngine(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, eng)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		sessions, _ := eng.Store().List(context.Background())
		fmt.Fprintf(os.Stderr, "memchat server v%s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", cfg.DatabasePath())
		fmt.Fprintf(os.Stderr, "  Sessions: %d\n", len(sessions))

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
