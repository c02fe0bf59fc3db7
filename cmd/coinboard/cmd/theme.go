package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:       "theme [dark|light]",
	Short:     "Show or set the colour theme",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"dark", "light"},
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := openSettings(cmd.Context())
		if err != nil {
			return err
		}
		defer prefs.Close()

		if len(args) == 1 {
			if err := prefs.SetDarkMode(cmd.Context(), args[0] == "dark"); err != nil {
				return err
			}
		}

		theme := "light"
		if prefs.DarkMode() {
			theme = "dark"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "theme: %s\n", theme)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
