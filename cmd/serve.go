package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ikulkarni/portfolio/internal/content"
	"github.com/ikulkarni/portfolio/internal/metrics"
	"github.com/ikulkarni/portfolio/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portfolio web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.Port = servePort
		}

		lib, err := content.Open(cfg.ContentDir)
		if err != nil {
			return fmt.Errorf("loading content: %w", err)
		}
		log.Printf("Loaded %d business cases", lib.Catalog().Len())

		var store *metrics.Store
		if cfg.TrackVisitors {
			store, err = metrics.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("opening metrics database: %w", err)
			}
			defer store.Close()
			log.Printf("Visitor tracking enabled (%s)", cfg.DBPath)
		}

		srv, err := server.New(cfg, lib, store)
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
