package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/aurenfox/internal/framework"
	"github.com/1broseidon/aurenfox/internal/ipc"
	"github.com/1broseidon/aurenfox/internal/window"
)

type tickMsg time.Time

type statusMsg struct {
	status *ipc.StatusData
	err    error
}

type closedMsg struct {
	data *ipc.CloseWindowData
	err  error
}

// model is the root bubbletea model for the TUI.
type model struct {
	client   Client
	interval time.Duration

	table  table.Model
	status *ipc.StatusData
	err    error
	notice string

	// Master close confirmation
	confirm   *huh.Form
	confirmed *bool
	target    window.ID

	width  int
	height int
}

func newModel(client Client, interval time.Duration) model {
	if interval <= 0 {
		interval = DefaultInterval
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Title", Width: 28},
			{Title: "Size", Width: 12},
			{Title: "Role", Width: 8},
			{Title: "State", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Bold(false)
	t.SetStyles(styles)

	return model{
		client:   client,
		interval: interval,
		table:    t,
	}
}

func refresh(c Client) tea.Cmd {
	return func() tea.Msg {
		st, err := c.GetStatus()
		return statusMsg{status: st, err: err}
	}
}

func closeWindow(c Client, id window.ID) tea.Cmd {
	return func() tea.Msg {
		data, err := c.CloseWindow(id)
		return closedMsg{data: data, err: err}
	}
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(refresh(m.client), tick(m.interval))
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tea.Batch(refresh(m.client), tick(m.interval))

	case statusMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
			m.table.SetRows(m.rows())
		}
		return m, nil

	case closedMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else {
			m.notice = fmt.Sprintf("window %d queued for close", msg.data.ID)
		}
		return m, refresh(m.client)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// status bar, table header, notice and help bar
		h := msg.Height - 6
		if h < 3 {
			h = 3
		}
		m.table.SetHeight(h)
	}

	// The confirmation form captures all input while active
	if m.confirm != nil {
		return m.updateConfirm(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			return m, refresh(m.client)
		case "d", "delete":
			return m.requestClose()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.confirm = nil
			m.notice = "close cancelled"
			return m, nil
		}
	}

	form, cmd := m.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm = f
	}

	switch m.confirm.State {
	case huh.StateCompleted:
		m.confirm = nil
		if *m.confirmed {
			return m, closeWindow(m.client, m.target)
		}
		m.notice = "close cancelled"
		return m, nil
	case huh.StateAborted:
		m.confirm = nil
		m.notice = "close cancelled"
		return m, nil
	}
	return m, cmd
}

// requestClose queues a close for the selected window. The master asks first
// since closing it ends the run.
func (m model) requestClose() (tea.Model, tea.Cmd) {
	w, ok := m.selected()
	if !ok {
		return m, nil
	}
	if !m.isMaster(w.ID) {
		return m, closeWindow(m.client, w.ID)
	}

	m.target = w.ID
	m.confirmed = new(bool)
	m.confirm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Close master window %d (%s)?", w.ID, w.Title)).
				Description("Closing the master window ends the run.").
				Affirmative("Close").
				Negative("Cancel").
				Value(m.confirmed),
		),
	).WithShowHelp(false)
	return m, m.confirm.Init()
}

func (m model) windows() []window.Info {
	if m.status == nil {
		return nil
	}
	return m.status.Windows
}

func (m model) selected() (window.Info, bool) {
	ws := m.windows()
	i := m.table.Cursor()
	if i < 0 || i >= len(ws) {
		return window.Info{}, false
	}
	return ws[i], true
}

func (m model) isMaster(id window.ID) bool {
	return m.status != nil && m.status.Master != nil && *m.status.Master == id
}

func (m model) rows() []table.Row {
	ws := m.windows()
	rows := make([]table.Row, 0, len(ws))
	for _, w := range ws {
		role := ""
		if m.isMaster(w.ID) {
			role = "master"
		}
		state := "open"
		if w.Closing {
			state = "closing"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(int(w.ID)),
			w.Title,
			fmt.Sprintf("%dx%d", w.Width, w.Height),
			role,
			state,
		})
	}
	return rows
}

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Padding(0, 1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Padding(0, 1)
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// View implements tea.Model.
func (m model) View() string {
	parts := []string{m.statusBar(), m.table.View()}

	switch {
	case m.err != nil:
		parts = append(parts, errStyle.Render(m.err.Error()))
	case m.notice != "":
		parts = append(parts, noticeStyle.Render(m.notice))
	}

	if m.confirm != nil {
		parts = append(parts, boxStyle.Render(m.confirm.View()))
	} else {
		parts = append(parts, helpStyle.Render("↑/↓: select  d: close window  r: refresh  q: quit"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m model) statusBar() string {
	var text string
	switch {
	case m.status == nil && m.err != nil:
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		text = dot + " aurenfox not running"
	case m.status == nil:
		text = "connecting..."
	default:
		color := lipgloss.Color("42")
		if m.status.State == framework.StateTerminated {
			color = lipgloss.Color("196")
		}
		dot := lipgloss.NewStyle().Foreground(color).Render("●")
		text = fmt.Sprintf("%s %s  windows:%d  pending:%d  ticks:%d",
			dot, m.status.State, len(m.status.Windows), m.status.PendingDestroys, m.status.Stats.Ticks)
	}

	style := barStyle
	if m.width > 0 {
		style = style.Width(m.width)
	}
	return style.Render(text)
}
