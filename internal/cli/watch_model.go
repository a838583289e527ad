package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/threadlog/internal/cli/formatter"
)

const maxWatchLines = 500

type watchKeyMap struct {
	Quit  key.Binding
	Clear key.Binding
}

func defaultWatchKeys() watchKeyMap {
	return watchKeyMap{
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
		Clear: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
	}
}

type watchClosedMsg struct{}

// watchModel is the live feed shown by `threadlog watch`.
type watchModel struct {
	updates <-chan watchUpdate
	names   map[string]string
	keys    watchKeyMap
	now     func() time.Time

	status string
	lines  []string
	vp     viewport.Model
	ready  bool
	done   bool
}

func newWatchModel(updates <-chan watchUpdate, names map[string]string, now func() time.Time) watchModel {
	return watchModel{
		updates: updates,
		names:   names,
		keys:    defaultWatchKeys(),
		now:     now,
		status:  formatter.Dim("connecting..."),
	}
}

func waitForUpdate(ch <-chan watchUpdate) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return watchClosedMsg{}
		}
		return u
	}
}

func (m watchModel) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Header and footer take three lines.
		height := msg.Height - 3
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.vp = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = height
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Clear):
			m.lines = nil
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd

	case watchUpdate:
		m.apply(msg)
		return m, waitForUpdate(m.updates)

	case watchClosedMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// apply folds one update into the status line and feed.
func (m *watchModel) apply(u watchUpdate) {
	stamp := formatter.Dim(m.now().Format("15:04:05"))
	switch u.kind {
	case watchConnected:
		m.status = formatter.StyleYellow.Render("connected, joining...")
	case watchJoined:
		m.status = formatter.StyleGreen.Render("● live") + formatter.Dim(" "+u.orgID)
	case watchEvent:
		m.lines = append(m.lines, stamp+" "+formatter.FormatEvent(*u.event, m.names))
	case watchRetrying:
		m.status = formatter.StyleRed.Render("disconnected") +
			formatter.Dim(fmt.Sprintf(", retrying in %s", u.delay.Round(100*time.Millisecond)))
	case watchRefused:
		m.status = formatter.StyleRed.Render(u.err.Error())
	}
	if len(m.lines) > maxWatchLines {
		m.lines = m.lines[len(m.lines)-maxWatchLines:]
	}
	m.refresh()
}

func (m *watchModel) refresh() {
	if !m.ready {
		return
	}
	content := formatter.Dim("Waiting for updates...")
	if len(m.lines) > 0 {
		content = strings.Join(m.lines, "\n")
	}
	m.vp.SetContent(content)
	m.vp.GotoBottom()
}

func (m watchModel) View() string {
	if !m.ready {
		return m.status + "\n"
	}
	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render("THREADLOG WATCH") + "  " + m.status + "\n")
	b.WriteString(m.vp.View() + "\n")
	b.WriteString(formatter.Dim(m.keys.Quit.Help().Key+" "+m.keys.Quit.Help().Desc+"  "+
		m.keys.Clear.Help().Key+" "+m.keys.Clear.Help().Desc))
	return b.String()
}
