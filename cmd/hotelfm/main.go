package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/clopse/hotelfm/internal/api"
	"github.com/clopse/hotelfm/internal/bills"
	"github.com/clopse/hotelfm/internal/config"
	"github.com/clopse/hotelfm/internal/cron"
	"github.com/clopse/hotelfm/internal/migrate"
)

func main() {
	// Best-effort: a missing .env file is fine.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "hotelfm",
		Short: "Facilities management service for the hotel group",
	}
	root.AddCommand(serveCmd(), workerCmd(), migrateCmd(), parseCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			mux := api.NewMux()

			addr := ":" + cfg.Port
			log.Printf("hotelfm listening on %s", addr)
			return http.ListenAndServe(addr, mux)
		},
	}
}

func workerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the periodic bill-refresh worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err := cron.Run(ctx, cfg.DBDriver, cfg.DBDSN, cfg.APIBase)
			if err == context.Canceled {
				return nil
			}
			return err
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Run database migrations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}

			ctx := cmd.Context()
			switch action {
			case "up":
				return migrate.Up(ctx, cfg.DBDriver, cfg.DBDSN)
			case "down":
				return migrate.Down(ctx, cfg.DBDriver, cfg.DBDSN)
			case "status":
				return migrate.Status(ctx, cfg.DBDriver, cfg.DBDSN)
			default:
				return fmt.Errorf("unknown migrate action %q", action)
			}
		},
	}
	return cmd
}

func parseCmd() *cobra.Command {
	var hotelKey string
	cmd := &cobra.Command{
		Use:   "parse <supplier> <bill.pdf>",
		Short: "Parse a supplier bill PDF and print the extracted bill as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := bills.ParseBillPDF(args[0], hotelKey, args[1])
			if err != nil {
				return err
			}
			return printJSON(raw)
		},
	}
	cmd.Flags().StringVar(&hotelKey, "hotel", "", "hotel key to stamp on the parsed bill")
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
