package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm2c/cgen"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	importStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// headerLines is the height of the title and help lines around the
// viewport.
const headerLines = 4

type browserState int

const (
	stateSelectFunc browserState = iota
	stateShowSource
)

// browserModel lists the decompiled functions and shows the source of the
// selected one.
type browserModel struct {
	filename string
	funcs    []cgen.FunctionSource
	diags    cgen.Diagnostics
	view     viewport.Model
	selected int
	state    browserState
	width    int
	height   int
}

func newBrowserModel(filename string, res *cgen.Result) *browserModel {
	return &browserModel{
		filename: filename,
		funcs:    res.Functions,
		diags:    res.Diagnostics,
		view:     viewport.New(80, 20),
		state:    stateSelectFunc,
		width:    80,
		height:   20 + headerLines,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.Width = msg.Width
		m.view.Height = max(msg.Height-headerLines, 1)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectFunc && m.selected > 0 {
				m.selected--
				return m, nil
			}

		case "down", "j":
			if m.state == stateSelectFunc && m.selected < len(m.funcs)-1 {
				m.selected++
				return m, nil
			}

		case "enter":
			if m.state == stateSelectFunc && len(m.funcs) > 0 {
				m.view.SetContent(m.funcs[m.selected].Text)
				m.view.GotoTop()
				m.state = stateShowSource
				return m, nil
			}

		case "esc":
			if m.state == stateShowSource {
				m.state = stateSelectFunc
				return m, nil
			}
		}
	}

	if m.state == stateShowSource {
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *browserModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("wasm2c"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	if n := len(m.diags); n > 0 {
		b.WriteString(" ")
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d diagnostics", n)))
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectFunc:
		if len(m.funcs) == 0 {
			b.WriteString("Module has no functions.\n\n")
			b.WriteString(helpStyle.Render("q quit"))
			return b.String()
		}
		first, last := m.window()
		for i := first; i < last; i++ {
			line := m.formatFunc(m.funcs[i])
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter view • q quit"))

	case stateShowSource:
		b.WriteString(m.view.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ scroll • esc back • q quit"))
	}

	return b.String()
}

// window returns the slice of functions that fits on screen around the
// selection.
func (m *browserModel) window() (first, last int) {
	rows := max(m.height-headerLines, 1)
	if len(m.funcs) <= rows {
		return 0, len(m.funcs)
	}
	first = max(m.selected-rows/2, 0)
	last = first + rows
	if last > len(m.funcs) {
		last = len(m.funcs)
		first = last - rows
	}
	return first, last
}

func (m *browserModel) formatFunc(f cgen.FunctionSource) string {
	var s string
	if f.Imported {
		s = importStyle.Render(f.Signature + "  (imported)")
	} else {
		s = funcStyle.Render(f.Signature)
	}
	if n := len(f.Diagnostics); n > 0 {
		s += " " + warnStyle.Render(fmt.Sprintf("[%d placeholder(s)]", n))
	}
	return s
}
