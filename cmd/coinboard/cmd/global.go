package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var globalJSON bool

var globalCmd = &cobra.Command{
	Use:   "global",
	Short: "Show total market cap, volume and BTC dominance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		g, err := client.Global(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch global stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if globalJSON {
			return printJSON(out, g)
		}
		fmt.Fprintf(out, "Total market cap: $%.0f\n", g.TotalMarketCapUSD)
		fmt.Fprintf(out, "24h volume:       $%.0f\n", g.TotalVolumeUSD)
		fmt.Fprintf(out, "BTC dominance:    %.2f%%\n", g.BTCDominance)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(globalCmd)
	globalCmd.Flags().BoolVar(&globalJSON, "json", false, "print JSON")
}
