package main

import (
	"fmt"
	"os"

	"github.com/sangkips/billgen-api/pkg/logger"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "billgen-api",
	Short: "Billgen API - invoices and receipts for small businesses",
	Long: `Billgen API stores invoices and receipts per user, derives their
totals and payment status, and renders them as PDF, Excel, email or
thermal printer output.

Running without a subcommand starts the HTTP server.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log := logger.WithComponent("cmd")
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}
