// Package tui is the terminal front end: a paginated coin list and a coin
// detail screen with a range selectable sparkline chart.
package tui

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/coinboard/chart"
	"github.com/rustyeddy/coinboard/dashboard"
	"github.com/rustyeddy/coinboard/detail"
	"github.com/rustyeddy/coinboard/settings"
)

type screen int

const (
	listScreen screen = iota
	detailScreen
)

type (
	snapshotMsg dashboard.Snapshot
	coinMsg     struct{ err error }
	chartMsg    struct{ err error }
	favoriteMsg struct {
		id  string
		on  bool
		err error
	}
)

// Model is the bubbletea model. The board is refreshed elsewhere (Board.Run);
// the model only listens to its snapshots.
type Model struct {
	ctx     context.Context
	board   *dashboard.Board
	prefs   *settings.Settings
	fetcher detail.Fetcher
	snaps   <-chan dashboard.Snapshot
	logger  zerolog.Logger

	styles Styles
	width  int
	height int

	screen    screen
	query     dashboard.Query
	page      dashboard.Page
	cursor    int
	searching bool
	status    string
	lastErr   string

	view *detail.View
}

// New builds the model. snaps is normally the channel from
// board.Subscribe; it may be nil.
func New(ctx context.Context, board *dashboard.Board, prefs *settings.Settings, fetcher detail.Fetcher, snaps <-chan dashboard.Snapshot) Model {
	dark := prefs != nil && prefs.DarkMode()
	m := Model{
		ctx:     ctx,
		board:   board,
		prefs:   prefs,
		fetcher: fetcher,
		snaps:   snaps,
		logger:  log.With().Str("component", "tui").Logger(),
		styles:  NewStyles(dark),
		width:   100,
		height:  30,
		query:   dashboard.Query{Sort: dashboard.SortRank, Page: 1},
	}
	m.reload()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.waitForSnapshot()
}

func (m Model) waitForSnapshot() tea.Cmd {
	if m.snaps == nil {
		return nil
	}
	snaps := m.snaps
	return func() tea.Msg {
		snap, ok := <-snaps
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

// reload re-runs the current query against the board.
func (m *Model) reload() {
	m.page = m.board.Query(m.query)
	if m.cursor >= len(m.page.Items) {
		m.cursor = max(len(m.page.Items)-1, 0)
	}
}

func (m Model) selectedID() string {
	if m.cursor < len(m.page.Items) {
		return m.page.Items[m.cursor].ID
	}
	return ""
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case snapshotMsg:
		m.lastErr = msg.Error
		m.reload()
		return m, m.waitForSnapshot()

	case favoriteMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Str("coin", msg.id).Msg("toggle favorite")
			m.status = "favorite not saved: " + msg.err.Error()
		} else if msg.on {
			m.status = msg.id + " added to favorites"
		} else {
			m.status = msg.id + " removed from favorites"
		}
		m.reload()
		return m, nil

	case coinMsg, chartMsg:
		// the view holds the result
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == detailScreen {
			return m.updateDetail(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.query.Search = ""
	case tea.KeyEnter:
		m.searching = false
	case tea.KeyBackspace:
		if s := m.query.Search; s != "" {
			_, size := utf8.DecodeLastRuneInString(s)
			m.query.Search = s[:len(s)-size]
		}
	case tea.KeyRunes, tea.KeySpace:
		m.query.Search += string(msg.Runes)
	default:
		return m, nil
	}
	m.query.Page = 1
	m.cursor = 0
	m.reload()
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.page.Items)-1 {
			m.cursor++
		}
	case "right", "n":
		if m.query.Page < m.page.Pages {
			m.query.Page++
			m.cursor = 0
			m.reload()
		}
	case "left", "p":
		if m.query.Page > 1 {
			m.query.Page--
			m.cursor = 0
			m.reload()
		}
	case "/":
		m.searching = true
	case "s":
		m.query.Sort = m.query.Sort.Next()
		m.query.Page = 1
		m.reload()
	case "o":
		m.query.Desc = !m.query.Desc
		m.reload()
	case "v":
		m.query.FavoritesOnly = !m.query.FavoritesOnly
		m.query.Page = 1
		m.cursor = 0
		m.reload()
	case "f":
		if id := m.selectedID(); id != "" {
			return m, m.toggleFavorite(id)
		}
	case "t":
		m.toggleTheme()
	case "enter":
		if id := m.selectedID(); id != "" {
			return m.openDetail(id)
		}
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.screen = listScreen
		m.view = nil
		m.reload()
	case "t":
		m.toggleTheme()
	case "1", "2", "3", "4", "5", "6":
		ranges := chart.Ranges()
		label := ranges[int(key[0]-'1')]
		return m, m.selectRange(label)
	}
	return m, nil
}

func (m *Model) toggleTheme() {
	if m.prefs == nil {
		return
	}
	dark := !m.prefs.DarkMode()
	if err := m.prefs.SetDarkMode(m.ctx, dark); err != nil {
		m.logger.Warn().Err(err).Msg("save theme")
		m.status = "theme not saved: " + err.Error()
		return
	}
	m.styles = NewStyles(dark)
}

func (m Model) toggleFavorite(id string) tea.Cmd {
	ctx, board := m.ctx, m.board
	return func() tea.Msg {
		on, err := board.ToggleFavorite(ctx, id)
		return favoriteMsg{id: id, on: on, err: err}
	}
}

func (m Model) openDetail(id string) (tea.Model, tea.Cmd) {
	v, err := detail.NewView(m.fetcher, id)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.view = v
	m.screen = detailScreen
	m.status = ""

	ctx := m.ctx
	loadCoin := func() tea.Msg { return coinMsg{err: v.LoadCoin(ctx)} }
	return m, tea.Batch(loadCoin, m.selectRange(chart.DefaultRange))
}

func (m Model) selectRange(label chart.RangeLabel) tea.Cmd {
	v, ctx := m.view, m.ctx
	if v == nil {
		return nil
	}
	return func() tea.Msg { return chartMsg{err: v.SelectRange(ctx, label)} }
}

func (m Model) View() string {
	if m.screen == detailScreen && m.view != nil {
		return m.detailView()
	}
	return m.listView()
}

func (m Model) listView() string {
	s := m.styles
	var b strings.Builder

	b.WriteString(s.Title.Render("coinboard"))
	if g, ok := m.board.Global(); ok {
		b.WriteString(s.Muted.Render(fmt.Sprintf("   mkt cap %s   24h vol %s   BTC %.1f%%",
			formatLarge(g.TotalMarketCapUSD), formatLarge(g.TotalVolumeUSD), g.BTCDominance)))
	}
	b.WriteString("\n\n")

	header := fmt.Sprintf("%4s  %1s %-22s %-6s %14s %9s %12s", "#", "", "Name", "Sym", "Price", "24h", "Mkt Cap")
	b.WriteString(s.Header.Render(header))
	b.WriteString("\n")

	if len(m.page.Items) == 0 {
		b.WriteString(s.Muted.Render("  no coins"))
		b.WriteString("\n")
	}
	for i, it := range m.page.Items {
		rank := "-"
		if it.Ranked() {
			rank = fmt.Sprint(it.MarketCapRank)
		}
		star := " "
		if it.Favorite {
			star = "★"
		}
		change := formatPercent(it.PriceChange24h)
		if it.PriceChange24h >= 0 {
			change = s.Up.Render(fmt.Sprintf("%9s", change))
		} else {
			change = s.Down.Render(fmt.Sprintf("%9s", change))
		}

		line := fmt.Sprintf("%4s  %s %-22s %-6s %14s %s %12s",
			rank, s.Favorite.Render(star), truncate(it.Name, 22), strings.ToUpper(truncate(it.Symbol, 6)),
			formatPrice(it.CurrentPrice), change, formatLarge(it.MarketCap))
		if i == m.cursor {
			b.WriteString(s.Selected.Render(line))
		} else {
			b.WriteString(s.Row.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	order := "asc"
	if m.query.Desc {
		order = "desc"
	}
	footer := fmt.Sprintf("page %d/%d  sort %s %s", m.query.Page, max(m.page.Pages, 1), m.query.Sort, order)
	if m.query.FavoritesOnly {
		footer += "  favorites"
	}
	if m.searching || m.query.Search != "" {
		footer += "  search: " + m.query.Search
		if m.searching {
			footer += "_"
		}
	}
	b.WriteString(s.Muted.Render(footer))
	b.WriteString("\n")

	if m.lastErr != "" {
		b.WriteString(s.Error.Render("refresh failed: " + m.lastErr))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(s.Muted.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(s.Muted.Render("j/k move  n/p page  / search  s sort  o order  f favorite  v favorites  enter open  t theme  q quit"))
	return b.String()
}

func (m Model) detailView() string {
	s := m.styles
	v := m.view
	var b strings.Builder

	if d, ok := v.Coin(); ok {
		b.WriteString(s.Title.Render(fmt.Sprintf("%s (%s)", d.Name, strings.ToUpper(d.Symbol))))
		b.WriteString("  ")
		b.WriteString(s.Row.Render(formatPrice(d.CurrentPrice)))
		b.WriteString("\n")
		b.WriteString(s.Muted.Render(fmt.Sprintf("mkt cap %s   24h high %s   24h low %s",
			formatLarge(d.MarketCap), formatPrice(d.High24h), formatPrice(d.Low24h))))
		b.WriteString("\n")
		supply := fmt.Sprintf("circulating %.0f", d.CirculatingSupply)
		if d.TotalSupply != nil {
			supply += fmt.Sprintf("   total %.0f", *d.TotalSupply)
		} else {
			supply += "   total ∞"
		}
		b.WriteString(s.Muted.Render(supply))
		b.WriteString("\n")
	} else if err := v.CoinError(); err != nil {
		b.WriteString(s.Error.Render(err.Error()))
		b.WriteString("\n")
	} else {
		b.WriteString(s.Title.Render(v.ID()))
		b.WriteString(s.Muted.Render("  loading..."))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	selected := v.Selected()
	tabs := make([]string, 0, len(chart.Ranges()))
	for i, r := range chart.Ranges() {
		label := fmt.Sprintf("%d:%s", i+1, r)
		if r == selected {
			tabs = append(tabs, s.Active.Render(label))
		} else {
			tabs = append(tabs, s.Muted.Render(label))
		}
	}
	b.WriteString(strings.Join(tabs, "  "))
	b.WriteString("\n")

	st := v.Chart()
	var body string
	switch {
	case st.Message != "":
		body = s.Muted.Render(st.Message)
	case len(st.Points) > 0:
		prices := make([]float64, len(st.Points))
		for i, p := range st.Points {
			prices[i] = p.Price
		}
		width := max(m.width-6, 10)
		body = lipgloss.JoinVertical(lipgloss.Left,
			s.Chart.Render(Sparkline(prices, width, st.Domain)),
			s.Muted.Render(fmt.Sprintf("%s  ...  %s", st.Points[0].Label, st.Points[len(st.Points)-1].Label)),
		)
		if st.Domain != nil {
			body = lipgloss.JoinVertical(lipgloss.Left, body,
				s.Muted.Render(fmt.Sprintf("low %s  high %s", formatPrice(st.Domain.Low), formatPrice(st.Domain.High))))
		}
	default:
		body = s.Muted.Render("loading chart...")
	}
	b.WriteString(s.Box.Render(body))
	b.WriteString("\n")
	if st.Error != "" {
		b.WriteString(s.Error.Render("chart update failed: " + st.Error))
		b.WriteString("\n")
	}

	if d, ok := v.Coin(); ok && d.Description != "" {
		b.WriteString("\n")
		b.WriteString(s.Row.Width(max(m.width-2, 20)).Render(truncate(d.Description, 600)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.Muted.Render("1-6 range  esc back  t theme  q quit"))
	return b.String()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
