package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/coinboard/dashboard"
)

var marketsCmd = &cobra.Command{
	Use:   "markets",
	Short: "List coins by market cap",
	Long: `Fetch the coin list and print one page of it.

Examples:
  coinboard markets
  coinboard markets --page 2 --sort change24h --order desc
  coinboard markets --search bit
  coinboard markets --favorites --json`,
	Args: cobra.NoArgs,
	RunE: runMarkets,
}

var (
	marketsPage      int
	marketsSearch    string
	marketsSort      string
	marketsOrder     string
	marketsFavorites bool
	marketsTop       int
	marketsJSON      bool
)

func init() {
	rootCmd.AddCommand(marketsCmd)

	f := marketsCmd.Flags()
	f.IntVarP(&marketsPage, "page", "p", 1, "page number (1-based)")
	f.StringVarP(&marketsSearch, "search", "s", "", "only coins whose name contains this")
	f.StringVar(&marketsSort, "sort", "rank", "sort key: rank, name, price, change24h, marketcap")
	f.StringVar(&marketsOrder, "order", "asc", "sort order: asc or desc")
	f.BoolVar(&marketsFavorites, "favorites", false, "only favorite coins")
	f.IntVar(&marketsTop, "top", 0, "print the top N coins by market cap instead of a page")
	f.BoolVar(&marketsJSON, "json", false, "print JSON")
}

func runMarkets(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sortKey, err := dashboard.ParseSortKey(marketsSort)
	if err != nil {
		return err
	}
	desc, err := dashboard.ParseOrder(marketsOrder)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	prefs, err := openSettings(ctx)
	if err != nil {
		return err
	}
	defer prefs.Close()

	board, err := newBoard(client, prefs)
	if err != nil {
		return err
	}
	if err := board.Refresh(ctx); err != nil {
		return fmt.Errorf("fetch markets: %w", err)
	}

	out := cmd.OutOrStdout()
	if marketsTop > 0 {
		items := board.TopByMarketCap(marketsTop)
		if marketsJSON {
			return printJSON(out, items)
		}
		printItems(cmd, items)
		return nil
	}

	page := board.Query(dashboard.Query{
		Search:        marketsSearch,
		Sort:          sortKey,
		Desc:          desc,
		FavoritesOnly: marketsFavorites,
		Page:          marketsPage,
	})
	if marketsJSON {
		return printJSON(out, page)
	}

	printItems(cmd, page.Items)
	fmt.Fprintf(out, "\npage %d of %d (%d coins)\n", page.Page, page.Pages, page.Total)
	return nil
}

func printItems(cmd *cobra.Command, items []dashboard.Item) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\t \tNAME\tSYMBOL\tPRICE\t24H %\tMARKET CAP\t")
	for _, it := range items {
		star := ""
		if it.Favorite {
			star = "*"
		}
		rank := "-"
		if it.Ranked() {
			rank = fmt.Sprint(it.MarketCapRank)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.6g\t%+.2f\t%.0f\t\n",
			rank, star, it.Name, it.Symbol, it.CurrentPrice, it.PriceChange24h, it.MarketCap)
	}
	tw.Flush()
}
