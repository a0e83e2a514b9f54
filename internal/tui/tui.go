// Package tui shows a live countdown in the terminal.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/erazemk/timely/internal/countdown"
	"github.com/erazemk/timely/internal/display"
	"github.com/erazemk/timely/internal/model"
)

// tickMsg carries a fresh snapshot from the display loop.
type tickMsg countdown.Remaining

// Model is the bubbletea model of one displayed countdown.
type Model struct {
	countdown *model.Countdown
	remaining countdown.Remaining
}

// NewModel returns a model showing c with an initial snapshot.
func NewModel(c *model.Countdown, initial countdown.Remaining) Model {
	return Model{countdown: c, remaining: initial}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.remaining = countdown.Remaining(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n", m.countdown.Label)
	fmt.Fprintf(&b, "  %s\n\n", countdown.FormatTarget(m.countdown.Date, m.countdown.Time))

	if m.remaining.IsOver {
		b.WriteString("  🎉 The countdown is over!\n")
	} else {
		for _, u := range m.remaining.Units() {
			fmt.Fprintf(&b, "  %6d %s", u.Value, u.Label)
		}
		b.WriteString("\n")
	}

	if m.countdown.Description != "" {
		fmt.Fprintf(&b, "\n  %s\n", m.countdown.Description)
	}
	b.WriteString("\n  q: quit\n")
	return b.String()
}

// Run displays c until the user quits or ctx is cancelled. The countdown's
// target is resolved in loc (time.Local when nil).
func Run(ctx context.Context, c *model.Countdown, loc *time.Location, opts ...tea.ProgramOption) error {
	target, err := countdown.Target(c, loc)
	if err != nil {
		return fmt.Errorf("resolving target: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(c, countdown.Calculate(target, time.Now()))
	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)

	loop := &display.Loop{
		Target: target,
		Render: func(r countdown.Remaining) { p.Send(tickMsg(r)) },
	}
	go loop.Run(ctx)

	_, err = p.Run()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}
