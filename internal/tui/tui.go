// Package tui provides a Bubble Tea TUI for inspecting session state: the
// remote session, the last element snapshot, and the live ref table.
package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"github.com/fakeyudi/tauri-browse/internal/session"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	// Active tab: bright
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	// Inactive tab: muted
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	// Separator between tabs
	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	// Section heading inside a tab
	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	// Key=value label
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	refStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	staleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// ── Tab definitions ─────────────────

type tabID int

const (
	tabOverview tabID = iota
	tabSnapshot
	tabRefs
	tabCount
)

var tabNames = [tabCount]string{"Overview", "Snapshot", "Refs"}

// ── Messages ───────────────────

// stateReloadedMsg carries freshly re-read state after the file changed.
type stateReloadedMsg struct {
	state *session.State
	err   error
}

// watchErrMsg carries a watcher failure; the TUI keeps running without
// follow.
type watchErrMsg struct{ err error }

// ── Model ────────────────────

// Model is the root Bubble Tea model for the session viewer.
type Model struct {
	state     *session.State
	statePath string
	follow    bool
	watcher   *fsnotify.Watcher
	loadErr   error

	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
	reloads   int
}

// New creates a viewer for st, loaded from statePath. With follow set the
// viewer reloads whenever the state file changes on disk.
func New(st *session.State, statePath string, follow bool) Model {
	return Model{state: st, statePath: statePath, follow: follow}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd {
	if !m.follow {
		return nil
	}
	return m.startWatch
}

// startWatch sets up the fsnotify watcher on the state file's directory.
// Watching the directory instead of the file survives the atomic
// temp-then-rename writes the store performs.
func (m Model) startWatch() tea.Msg {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return watchErrMsg{err: err}
	}
	if err := w.Add(filepath.Dir(m.statePath)); err != nil {
		w.Close()
		return watchErrMsg{err: err}
	}
	return watcherReadyMsg{watcher: w}
}

type watcherReadyMsg struct{ watcher *fsnotify.Watcher }

// waitForChange blocks on the watcher until the state file is written or
// renamed into place, then reloads it.
func waitForChange(w *fsnotify.Watcher, statePath string) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return watchErrMsg{err: fmt.Errorf("watcher closed")}
				}
				if ev.Name != statePath {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				st, err := loadState(statePath)
				return stateReloadedMsg{state: st, err: err}
			case err, ok := <-w.Errors:
				if !ok {
					return watchErrMsg{err: fmt.Errorf("watcher closed")}
				}
				return watchErrMsg{err: err}
			}
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.watcher != nil {
				m.watcher.Close()
			}
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2", "3":
			m.activeTab = tabID(msg.String()[0] - '1')
		case "r":
			st, err := loadState(m.statePath)
			return m.applyReload(st, err), nil
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil

	case watcherReadyMsg:
		m.watcher = msg.watcher
		return m, waitForChange(m.watcher, m.statePath)

	case stateReloadedMsg:
		m = m.applyReload(msg.state, msg.err)
		if m.watcher != nil {
			return m, waitForChange(m.watcher, m.statePath)
		}
		return m, nil

	case watchErrMsg:
		m.loadErr = msg.err
		return m, nil
	}
	return m, nil
}

func (m Model) applyReload(st *session.State, err error) Model {
	if err != nil {
		m.loadErr = err
		return m
	}
	m.state = st
	m.loadErr = nil
	m.reloads++
	if m.ready {
		m.initViewports()
	}
	return m
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  tauri-browse  " + m.state.Name)

	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := m.viewports[m.activeTab].View()

	hint := "  ←/→ tab  ↑/↓ scroll  r reload  q quit"
	if m.follow {
		hint += fmt.Sprintf("  following (%d reloads)", m.reloads)
	}
	if m.loadErr != nil {
		hint = "  " + staleStyle.Render(m.loadErr.Error())
	}
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		hint + strings.Repeat(" ", pad) + pct,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Model) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

// ── Tab renderers ─────────────────────────────────────────────────────────────

func (m *Model) renderTab(t tabID) string {
	switch t {
	case tabOverview:
		return m.renderOverview()
	case tabSnapshot:
		return m.renderSnapshot()
	case tabRefs:
		return m.renderRefs()
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func (m *Model) renderOverview() string {
	s := m.state
	var sb strings.Builder
	sb.WriteString(heading("Session"))

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-16s", label)) + "  " + value + "\n")
	}
	row("Name:", s.Name)
	row("Driver Session:", s.DriverSessionID)
	row("Epoch:", fmt.Sprintf("%d", s.Epoch))
	if s.Display != "" {
		row("Display:", s.Display)
	}
	if !s.LastSnapshotAt.IsZero() {
		row("Last Snapshot:", timeStyle.Render(s.LastSnapshotAt.Format("2006-01-02 15:04:05 MST")))
	}
	if s.LastScreenshot != "" {
		row("Last Screenshot:", s.LastScreenshot)
	}

	sb.WriteString(heading("Counts"))
	row("Live Refs:", fmt.Sprintf("%d", len(s.Refs)))
	return sb.String()
}

func (m *Model) renderSnapshot() string {
	var sb strings.Builder
	sb.WriteString(heading("Last Snapshot"))
	if m.state.LastSnapshot == "" {
		sb.WriteString(dimStyle.Render("  (no snapshot taken yet)") + "\n")
		return sb.String()
	}
	for _, line := range strings.Split(m.state.LastSnapshot, "\n") {
		if tok, rest, ok := strings.Cut(line, " "); ok && strings.HasPrefix(tok, "@e") {
			sb.WriteString("  " + refStyle.Render(tok) + " " + rest + "\n")
		} else {
			sb.WriteString("  " + line + "\n")
		}
	}
	return sb.String()
}

func (m *Model) renderRefs() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Ref Table (epoch %d)", m.state.Epoch)))
	if len(m.state.Refs) == 0 {
		sb.WriteString(dimStyle.Render("  (no refs minted in this epoch)") + "\n")
		return sb.String()
	}

	tokens := make([]string, 0, len(m.state.Refs))
	for tok := range m.state.Refs {
		tokens = append(tokens, tok)
	}
	// @e10 after @e9, not after @e1
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) < len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})

	for _, tok := range tokens {
		entry := m.state.Refs[tok]
		line := "  " + refStyle.Render(fmt.Sprintf("%-6s", tok)) + "  " + entry.Marker
		if entry.Epoch != m.state.Epoch {
			line += "  " + staleStyle.Render("(stale)")
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

// loadState re-reads one state file directly; the viewer never takes the
// store's write lock.
func loadState(path string) (*session.State, error) {
	name := strings.TrimSuffix(filepath.Base(path), ".json")
	store, err := session.NewStore()
	if err != nil {
		return nil, err
	}
	return store.Load(name)
}

// Run starts the session viewer.
func Run(st *session.State, statePath string, follow bool) error {
	p := tea.NewProgram(New(st, statePath, follow), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
