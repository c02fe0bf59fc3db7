package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/coinboard/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal dashboard",
	Long: `Interactive terminal dashboard.

List keys:   j/k move, n/p page, / search, s sort, o order, f favorite,
             v favorites only, enter details, t theme, q quit
Detail keys: 1-6 range (1D 7D 30D 6M 1Y ALL), esc back

Logs are discarded unless logging.file is set in the config.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

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

	snaps, unsubscribe := board.Subscribe()
	defer unsubscribe()
	go board.Run(ctx)

	m := tui.New(ctx, board, prefs, client, snaps)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	// stop polling before the settings store closes
	cancel()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
