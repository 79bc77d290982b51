// Package tui implements the interactive patch picker: a list of parsed
// patches with a body preview, from which the user chooses which files to
// write.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/asynkron/spatch/internal/splitter"
)

type writtenMsg struct {
	summary splitter.Summary
	err     error
}

type model struct {
	entries  []splitter.Entry
	selected []bool
	cursor   int
	opts     splitter.Options

	vp     viewport.Model
	spin   spinner.Model
	width  int
	height int
	ready  bool

	writing bool
	summary splitter.Summary
	err     error

	titleStyle    lipgloss.Style
	cursorStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	dimStyle      lipgloss.Style
	previewStyle  lipgloss.Style
}

func newModel(entries []splitter.Entry, opts splitter.Options) *model {
	selected := make([]bool, len(entries))
	for i := range selected {
		selected[i] = true
	}

	sp := spinner.New()
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	m := &model{
		entries:  entries,
		selected: selected,
		opts:     opts,
		vp:       viewport.Model{},
		spin:     sp,
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")),
		cursorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("70")),
		dimStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		previewStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			PaddingLeft(1).
			PaddingRight(1),
	}
	return m
}

func (m *model) Init() tea.Cmd {
	return m.spin.Tick
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		m.refreshPreview()
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		if m.writing {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.refreshPreview()
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				m.refreshPreview()
			}
		case " ":
			if m.cursor < len(m.selected) {
				m.selected[m.cursor] = !m.selected[m.cursor]
			}
		case "a":
			m.setAll(true)
		case "A":
			m.setAll(false)
		case "enter":
			m.writing = true
			return m, tea.Batch(m.spin.Tick, m.writeSelected())
		}
		return m, nil

	case writtenMsg:
		m.writing = false
		m.summary = msg.summary
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *model) setAll(value bool) {
	for i := range m.selected {
		m.selected[i] = value
	}
}

// writeSelected performs the disk writes off the update loop.
func (m *model) writeSelected() tea.Cmd {
	entries := make([]splitter.Entry, 0, len(m.entries))
	for i, entry := range m.entries {
		if m.selected[i] {
			entries = append(entries, entry)
		}
	}
	opts := m.opts
	return func() tea.Msg {
		var summary splitter.Summary
		for _, entry := range entries {
			result, err := splitter.WriteEntry(entry, opts)
			if err != nil {
				return writtenMsg{summary: summary, err: err}
			}
			summary.Written = append(summary.Written, result)
		}
		return writtenMsg{summary: summary}
	}
}

func (m *model) recalcLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	listHeight := m.listHeight()
	// Preview gets the rest, minus its own border rows and the footer line.
	vpH := m.height - listHeight - 4
	if vpH < 3 {
		vpH = 3
	}
	m.vp.Width = m.width - 4
	m.vp.Height = vpH
}

func (m *model) listHeight() int {
	h := len(m.entries) + 1
	if max := m.height / 3; h > max && max > 2 {
		h = max
	}
	return h
}

func (m *model) refreshPreview() {
	if m.cursor >= len(m.entries) {
		m.vp.SetContent("")
		return
	}
	entry := m.entries[m.cursor]
	var b strings.Builder
	b.WriteString(entry.Header)
	for _, line := range entry.Body {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	m.vp.SetContent(b.String())
	m.vp.GotoTop()
}

func (m *model) View() string {
	if !m.ready {
		return "loading..."
	}
	if len(m.entries) == 0 {
		return m.dimStyle.Render("no patches matched — press q to exit") + "\n"
	}

	var out strings.Builder
	out.WriteString(m.titleStyle.Render(fmt.Sprintf("spatch — %d patch(es)", len(m.entries))))
	out.WriteString("\n")

	for i, entry := range m.entries {
		marker := "[ ]"
		style := m.dimStyle
		if m.selected[i] {
			marker = "[x]"
			style = m.selectedStyle
		}
		line := fmt.Sprintf("%s %-8s %s", marker, entry.Kind(), entry.DisplayName())
		if i == m.cursor {
			out.WriteString(m.cursorStyle.Render("> " + line))
		} else {
			out.WriteString("  " + style.Render(line))
		}
		out.WriteString("\n")
	}

	out.WriteString(m.previewStyle.Render(m.vp.View()))
	out.WriteString("\n")

	if m.writing {
		out.WriteString(m.spin.View() + " writing...")
	} else {
		out.WriteString(m.dimStyle.Render("space: toggle  a/A: all/none  enter: write  q: quit"))
	}
	out.WriteString("\n")
	return out.String()
}

// Run shows the picker and returns what was written. Quitting without
// pressing enter writes nothing and is not an error.
func Run(ctx context.Context, entries []splitter.Entry, opts splitter.Options) (splitter.Summary, error) {
	// Fixed profile keeps rendering deterministic across terminals.
	lipgloss.SetColorProfile(termenv.ANSI256)

	m := newModel(entries, opts)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return splitter.Summary{}, err
	}
	result, ok := final.(*model)
	if !ok {
		return splitter.Summary{}, fmt.Errorf("unexpected final model type %T", final)
	}
	if result.err != nil {
		return result.summary, result.err
	}
	return result.summary, nil
}
