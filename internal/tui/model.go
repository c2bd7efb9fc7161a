package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"imconv/internal/convert"
)

type Model struct {
	updates     <-chan convert.Progress
	styles      Styles
	started     time.Time
	width       int
	current     int
	total       int
	file        string
	quitting    bool
	interrupted bool
}

type doneMsg struct{}

type progressMsg convert.Progress

func NewModel(updates <-chan convert.Progress, styles Styles) Model {
	return Model{updates: updates, styles: styles, started: time.Now()}
}

// Interrupted reports whether the user quit before the batch finished.
func (m Model) Interrupted() bool {
	return m.interrupted
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.current = msg.Current
		m.total = msg.Total
		m.file = msg.File
		return m, listenForUpdates(m.updates)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.quitting = true
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}

	// An event arrives before its item starts, so current-1 items are done.
	ratio := 0.0
	if m.total > 0 {
		ratio = math.Min(1, float64(m.current-1)/float64(m.total))
	}

	status := m.styles.Dim.Render("Preparing...")
	if m.current > 0 {
		status = m.styles.Label.Render(fmt.Sprintf("Converting %d of %d: ", m.current, m.total)) +
			m.styles.Accent.Render(m.file)
	}

	elapsed := time.Since(m.started).Round(time.Millisecond)
	lines := []string{
		m.styles.Title.Render("imconv"),
		status,
		m.styles.Bar.Render(renderBar(barWidth, ratio)),
		m.styles.Dim.Render(fmt.Sprintf("Elapsed: %s  (q to stop)", elapsed)),
	}
	return strings.Join(lines, "\n")
}

func listenForUpdates(updates <-chan convert.Progress) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return progressMsg(update)
	}
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	filled = max(0, min(filled, width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}
