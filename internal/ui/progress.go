// Package ui renders live check progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"pcrelint/internal/driver"
)

// maxRows bounds the file list; older finished files scroll away.
const maxRows = 12

type progressModel struct {
	title      string
	events     <-chan driver.Event
	spinner    spinner.Model
	prog       progress.Model
	items      []fileItem
	index      map[string]int
	stageLabel string
	width      int
	done       bool
}

type fileItem struct {
	path   string
	status string
	stage  driver.Stage
	final  bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders check progress.
// Files unknown at construction time are added as their first event arrives.
// The model quits once events is closed.
func NewProgressModel(title string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		index:   make(map[string]int),
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = max(msg.Width-4, 10)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.stageLabel != "" {
		header = fmt.Sprintf("%s (%s)", header, m.stageLabel)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	const statusWidth = 10
	nameWidth := max(m.width-statusWidth-4, 20)
	for _, item := range m.visible() {
		status := styleStatus(item.status).Render(fmt.Sprintf("%*s", statusWidth, item.status))
		b.WriteString("  " + status + " " + truncate(item.path, nameWidth) + "\n")
	}
	if hidden := len(m.items) - maxRows; hidden > 0 {
		fmt.Fprintf(&b, "  %*s %d more files\n", statusWidth, "", hidden)
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

// visible keeps unfinished files in view and fills the rest with the most
// recent finished ones.
func (m *progressModel) visible() []fileItem {
	if len(m.items) <= maxRows {
		return m.items
	}
	var out []fileItem
	for _, item := range m.items {
		if !item.final && len(out) < maxRows {
			out = append(out, item)
		}
	}
	for i := len(m.items) - 1; i >= 0 && len(out) < maxRows; i-- {
		if m.items[i].final {
			out = append(out, m.items[i])
		}
	}
	return out
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status)
	if ev.File == "" {
		if label != "" && ev.Status == driver.StatusWorking {
			m.stageLabel = label
		}
		return nil
	}
	idx, ok := m.index[ev.File]
	if !ok {
		idx = len(m.items)
		m.index[ev.File] = idx
		m.items = append(m.items, fileItem{path: ev.File, status: "queued"})
	}
	item := &m.items[idx]
	if item.final && ev.Stage != driver.StageAnalyze {
		return nil
	}
	if label != "" {
		item.status = label
		item.stage = ev.Stage
	}
	item.final = (ev.Stage == driver.StageAnalyze && ev.Status.Final()) || ev.Status == driver.StatusError

	return m.prog.SetPercent(m.fraction())
}

func (m *progressModel) fraction() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		if item.final {
			total += 1.0
		} else {
			total += progressFromStage(item.stage)
		}
	}
	return total / float64(len(m.items))
}

func progressFromStage(stage driver.Stage) float64 {
	switch stage {
	case driver.StageIndex:
		return 0.3
	case driver.StageAnalyze:
		return 0.6
	default:
		return 0.0
	}
}

func statusLabel(stage driver.Stage, status driver.Status) string {
	switch status {
	case driver.StatusQueued:
		return "queued"
	case driver.StatusWorking:
		return stageLabel(stage)
	case driver.StatusDone:
		if stage != driver.StageAnalyze {
			return stageLabel(stage)
		}
		return "done"
	case driver.StatusCached, driver.StatusSkipped, driver.StatusError:
		return string(status)
	}
	return ""
}

func stageLabel(stage driver.Stage) string {
	switch stage {
	case driver.StageLoad:
		return "loading"
	case driver.StageIndex:
		return "indexing"
	case driver.StageAnalyze:
		return "analyzing"
	}
	return ""
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done", "cached":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "skipped":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	case "loading", "indexing", "analyzing":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
