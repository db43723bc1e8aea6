package dialog

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/m-mizutani/pdfsaver/pkg/domain/model"
)

type state int

const (
	stateEditing state = iota
	stateConfirmOverwrite
	stateAccepted
	stateCancelled
)

var (
	accent      = lipgloss.Color("#E5A00D")
	dim         = lipgloss.Color("#7A7A7A")
	errColor    = lipgloss.Color("#E06C75")
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	filterStyle = lipgloss.NewStyle().Foreground(dim)
	helpStyle   = lipgloss.NewStyle().Foreground(dim).Italic(true)
	errStyle    = lipgloss.NewStyle().Foreground(errColor)
	frameStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)
)

// pathInfo reports what exists at a path
type pathInfo func(path string) (exists, isDir bool)

// pickerModel is the bubbletea model of the "Save As" dialog
type pickerModel struct {
	input textinput.Model
	types []model.FileType
	stat  pathInfo
	state state
	path  string
	err   string
}

func newPickerModel(initial string, types []model.FileType, stat pathInfo) pickerModel {
	ti := textinput.New()
	ti.Prompt = "File: "
	ti.CharLimit = 4096
	ti.Width = 60
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()

	return pickerModel{
		input: ti,
		types: types,
		stat:  stat,
	}
}

func (m pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if keyMsg.String() == "ctrl+c" {
		m.state = stateCancelled
		return m, tea.Quit
	}

	switch m.state {
	case stateConfirmOverwrite:
		switch keyMsg.String() {
		case "y", "Y", "enter":
			m.state = stateAccepted
			return m, tea.Quit
		case "n", "N", "esc":
			m.state = stateEditing
			m.path = ""
		}
		return m, nil

	case stateEditing:
		switch keyMsg.String() {
		case "esc":
			m.state = stateCancelled
			return m, tea.Quit
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.err = ""
	return m, cmd
}

func (m pickerModel) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		m.err = "A file name is required"
		return m, nil
	}

	path := ensureExtension(filepath.Clean(value), m.types)
	exists, isDir := m.stat(path)
	if isDir {
		m.err = "A directory with that name already exists"
		return m, nil
	}

	m.path = path
	if exists {
		m.state = stateConfirmOverwrite
		return m, nil
	}

	m.state = stateAccepted
	return m, tea.Quit
}

func (m pickerModel) View() string {
	if m.state == stateAccepted || m.state == stateCancelled {
		return ""
	}

	lines := []string{
		titleStyle.Render("Save As"),
		"",
		m.input.View(),
		filterStyle.Render("Type: " + describeTypes(m.types)),
	}

	if m.err != "" {
		lines = append(lines, errStyle.Render(m.err))
	}

	lines = append(lines, "")
	if m.state == stateConfirmOverwrite {
		lines = append(lines, errStyle.Render(filepath.Base(m.path)+" already exists. Replace it? (y/n)"))
	} else {
		lines = append(lines, helpStyle.Render("enter save • esc cancel"))
	}

	return frameStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)) + "\n"
}

// ensureExtension appends the first accepted extension when path has none of them
func ensureExtension(path string, types []model.FileType) string {
	var first string
	ext := strings.ToLower(filepath.Ext(path))
	for _, t := range types {
		for _, e := range t.Extensions() {
			if first == "" {
				first = e
			}
			if strings.ToLower(e) == ext {
				return path
			}
		}
	}
	if first == "" {
		return path
	}
	return path + first
}

func describeTypes(types []model.FileType) string {
	if len(types) == 0 {
		return "All files"
	}

	var parts []string
	for _, t := range types {
		var globs []string
		for _, e := range t.Extensions() {
			globs = append(globs, "*"+e)
		}
		parts = append(parts, t.Description+" ("+strings.Join(globs, ", ")+")")
	}
	return strings.Join(parts, "; ")
}
