package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fair-ticketing",
	Short: "Ticket ledger and resale marketplace engine",
	Long: `A service that issues event tickets against supply and per-wallet
limits, tracks ownership and lifecycle in an append-only ledger, and
runs a price-capped resale marketplace with royalty splits.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := cmd.Help(); err != nil {
			log.Error().Err(err).Msg("Failed to display help")
		}
	},
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}
