package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "List or toggle favorite coins",
	Long: `Manage favorite coins stored in the settings store.

Examples:
  coinboard favorites list
  coinboard favorites toggle solana`,
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite coin ids",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := openSettings(cmd.Context())
		if err != nil {
			return err
		}
		defer prefs.Close()

		out := cmd.OutOrStdout()
		favs := prefs.Favorites()
		if len(favs) == 0 {
			fmt.Fprintln(out, "no favorites")
			return nil
		}
		for _, id := range favs {
			fmt.Fprintln(out, id)
		}
		return nil
	},
}

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Add a coin to the favorites, or remove it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := openSettings(cmd.Context())
		if err != nil {
			return err
		}
		defer prefs.Close()

		on, err := prefs.ToggleFavorite(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if on {
			fmt.Fprintf(cmd.OutOrStdout(), "★ %s added to favorites\n", args[0])
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "☆ %s removed from favorites\n", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(favoritesCmd)
	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesToggleCmd)
}
