// Package teatest drives bubbletea models synchronously in tests.
//
// A Driver calls Update directly instead of running a tea.Program. Commands
// that return within a short window are fed back through Update at once.
// Commands that block, such as a wait on an update channel, are parked and
// resumed by Settle once the test has produced their input.
package teatest

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained commands one message may trigger.
const MaxDrainDepth = 100

// cmdTimeout separates immediate commands from ones waiting on input.
const cmdTimeout = 10 * time.Millisecond

// Driver is a synchronous harness for any tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg is produced. The runtime normally
	// intercepts it, so models rarely handle it themselves.
	Quitting bool

	pending []<-chan tea.Msg
}

// Option configures a Driver during construction.
type Option func(*Driver)

// New creates a Driver for model. Call DrainInit to run the model's Init.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// DrainInit runs the model's Init command.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drainCmd(d.Model.Init(), 0)
}

// Send dispatches msg through Update and drains what it returns.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(cmd, 0)
}

// PressKey sends a rune key.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// PressCtrlC sends ctrl+c.
func (d *Driver) PressCtrlC() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
}

// Pending reports how many parked commands are still waiting.
func (d *Driver) Pending() int { return len(d.pending) }

// Settle waits up to timeout for each parked command and feeds whatever
// they return through Update. Commands parked while settling are left for
// the next call.
func (d *Driver) Settle(timeout time.Duration) {
	d.T.Helper()
	parked := d.pending
	d.pending = nil
	for i, ch := range parked {
		select {
		case msg := <-ch:
			d.handle(msg, 0)
		case <-time.After(timeout):
			d.pending = append(d.pending, parked[i])
		}
	}
}

// View renders the model.
func (d *Driver) View() string {
	return d.Model.View()
}

func (d *Driver) drainCmd(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest.Driver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		d.handle(msg, depth)
	case <-time.After(cmdTimeout):
		d.pending = append(d.pending, ch)
	}
}

func (d *Driver) handle(msg tea.Msg, depth int) {
	d.T.Helper()
	switch msg := msg.(type) {
	case nil:
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drainCmd(sub, depth+1)
		}
	case tea.QuitMsg:
		d.Quitting = true
		updated, _ := d.Model.Update(msg)
		d.Model = updated
	default:
		if d.Quitting {
			return
		}
		updated, next := d.Model.Update(msg)
		d.Model = updated
		d.drainCmd(next, depth+1)
	}
}
