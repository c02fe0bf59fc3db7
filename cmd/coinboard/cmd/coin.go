package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/coinboard/detail"
)

var coinJSON bool

var coinCmd = &cobra.Command{
	Use:   "coin <id>",
	Short: "Show a coin's market data",
	Long: `Show price, market cap, 24h range and supply for one coin.

Example:
  coinboard coin bitcoin`,
	Args: cobra.ExactArgs(1),
	RunE: runCoin,
}

func init() {
	rootCmd.AddCommand(coinCmd)
	coinCmd.Flags().BoolVar(&coinJSON, "json", false, "print JSON")
}

func runCoin(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	v, err := detail.NewView(client, args[0])
	if err != nil {
		return err
	}
	if err := v.LoadCoin(cmd.Context()); err != nil {
		return err
	}
	d, _ := v.Coin()

	out := cmd.OutOrStdout()
	if coinJSON {
		return printJSON(out, d)
	}

	fmt.Fprintf(out, "%s (%s)\n", d.Name, d.Symbol)
	fmt.Fprintf(out, "  Price:       $%.6g\n", d.CurrentPrice)
	fmt.Fprintf(out, "  Market cap:  $%.0f\n", d.MarketCap)
	fmt.Fprintf(out, "  24h high:    $%.6g\n", d.High24h)
	fmt.Fprintf(out, "  24h low:     $%.6g\n", d.Low24h)
	fmt.Fprintf(out, "  Circulating: %.0f\n", d.CirculatingSupply)
	if d.TotalSupply != nil {
		fmt.Fprintf(out, "  Total:       %.0f\n", *d.TotalSupply)
	} else {
		fmt.Fprintln(out, "  Total:       unlimited")
	}
	return nil
}
