package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/coinboard/chart"
	"github.com/rustyeddy/coinboard/detail"
)

var chartCmd = &cobra.Command{
	Use:   "chart <id>",
	Short: "Print or render a coin's price history",
	Long: `Fetch the price history of a coin over a range and print the formatted
series, or render it to a PNG.

Ranges: 1D, 7D, 30D, 6M, 1Y, ALL

Examples:
  coinboard chart bitcoin --range 30D
  coinboard chart ethereum --range 1Y --out eth.png
  coinboard chart solana --range ALL --csv sol.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runChart,
}

var (
	chartRange string
	chartOut   string
	chartCSV   string
	chartJSON  bool
	chartDark  bool
)

func init() {
	rootCmd.AddCommand(chartCmd)

	f := chartCmd.Flags()
	f.StringVarP(&chartRange, "range", "r", "", "chart range (default from config, 7D)")
	f.StringVarP(&chartOut, "out", "o", "", "write a PNG chart to this file")
	f.StringVar(&chartCSV, "csv", "", "write the formatted series as CSV to this file")
	f.BoolVar(&chartJSON, "json", false, "print the chart state as JSON")
	f.BoolVar(&chartDark, "dark", false, "dark PNG theme (default from settings)")
}

func runChart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	label := defaultRange()
	if chartRange != "" {
		var err error
		if label, err = chart.ParseRange(chartRange); err != nil {
			return err
		}
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	v, err := detail.NewView(client, args[0])
	if err != nil {
		return err
	}
	if err := v.SelectRange(ctx, label); err != nil {
		return err
	}
	st := v.Chart()

	out := cmd.OutOrStdout()
	switch {
	case chartOut != "":
		dark := chartDark
		if !cmd.Flags().Changed("dark") {
			if prefs, err := openSettings(ctx); err == nil {
				dark = prefs.DarkMode()
				prefs.Close()
			}
		}

		f, err := os.Create(chartOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", chartOut, err)
		}
		title := fmt.Sprintf("%s %s", v.ID(), st.Range)
		if err := chart.Render(f, title, st.Points, st.Domain, renderOptions(dark)); err != nil {
			f.Close()
			os.Remove(chartOut)
			if errors.Is(err, chart.ErrEmptySeries) {
				return fmt.Errorf("%s: %s", v.ID(), detail.NoChartData)
			}
			return fmt.Errorf("render chart: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Wrote %d points to %s\n", len(st.Points), chartOut)
		return nil

	case chartCSV != "":
		f, err := os.Create(chartCSV)
		if err != nil {
			return fmt.Errorf("create %s: %w", chartCSV, err)
		}
		defer f.Close()
		if err := chart.WriteCSV(f, st.Points); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		fmt.Fprintf(out, "✓ Wrote %d points to %s\n", len(st.Points), chartCSV)
		return nil

	case chartJSON:
		return printJSON(out, st)
	}

	if st.Message != "" {
		fmt.Fprintln(out, st.Message)
		return nil
	}
	fmt.Fprintf(out, "%s %s (days=%s, %s)\n", v.ID(), st.Range, st.Token, st.Resolution)
	for _, p := range st.Points {
		fmt.Fprintf(out, "%s\t%v\n", p.Label, p.Price)
	}
	if st.Domain != nil {
		fmt.Fprintf(out, "domain [%v, %v]\n", st.Domain.Low, st.Domain.High)
	}
	return nil
}
