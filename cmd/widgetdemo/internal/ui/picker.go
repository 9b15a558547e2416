package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/livefir/widgetdemo/internal/config"
)

// ErrCancelled is returned when the picker is left without saving.
var ErrCancelled = errors.New("panel selection cancelled")

type panelItem struct {
	Panel
}

func (p panelItem) FilterValue() string { return p.Name }

type pickerKeyMap struct {
	Toggle key.Binding
	Save   key.Binding
	Quit   key.Binding
	UpDown key.Binding
}

func newPickerKeyMap() pickerKeyMap {
	return pickerKeyMap{
		Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Save:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "cancel")),
		UpDown: key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑/↓", "move")),
	}
}

func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.UpDown, k.Toggle, k.Save, k.Quit}
}

type pickerDelegate struct {
	selected map[string]bool
}

func (d pickerDelegate) Height() int                               { return 1 }
func (d pickerDelegate) Spacing() int                              { return 0 }
func (d pickerDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d pickerDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(panelItem)
	if !ok {
		return
	}
	mark := uncheckedMark
	if d.selected[entry.Name] {
		mark = checkedMark
	}
	line := fmt.Sprintf("%s %-12s %s", mark, entry.Name, descStyle.Render(entry.Title))
	if index == m.Index() {
		fmt.Fprint(w, cursorStyle.Render("> ")+line)
		return
	}
	fmt.Fprint(w, "  "+line)
}

// PickerModel lets the user choose which panels start expanded.
type PickerModel struct {
	list      list.Model
	keys      pickerKeyMap
	selected  map[string]bool
	saved     bool
	cancelled bool
}

// NewPicker starts with the panels cfg already expands.
func NewPicker(cfg *config.Config) PickerModel {
	selected := make(map[string]bool)
	items := make([]list.Item, 0, len(config.Panels))
	for _, p := range Panels() {
		items = append(items, panelItem{p})
		if cfg.Expanded(p.Name) {
			selected[p.Name] = true
		}
	}

	l := list.New(items, pickerDelegate{selected: selected}, 60, len(items)+4)
	l.Title = "Expanded panels"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()

	return PickerModel{
		list:     l,
		keys:     newPickerKeyMap(),
		selected: selected,
	}
}

func (m PickerModel) Init() tea.Cmd { return nil }

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Save):
			m.saved = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			if item, ok := m.list.SelectedItem().(panelItem); ok {
				m.selected[item.Name] = !m.selected[item.Name]
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m PickerModel) View() string {
	help := make([]string, 0, 4)
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	return m.list.View() + "\n" + footerStyle.Render(strings.Join(help, " • "))
}

// Selected returns the chosen panels in display order.
func (m PickerModel) Selected() []string {
	out := []string{}
	for _, name := range config.Panels {
		if m.selected[name] {
			out = append(out, name)
		}
	}
	return out
}

// Saved reports whether the user confirmed the selection.
func (m PickerModel) Saved() bool { return m.saved && !m.cancelled }

// Pick runs the picker on the terminal and returns the chosen panels.
func Pick(cfg *config.Config, opts ...tea.ProgramOption) ([]string, error) {
	final, err := tea.NewProgram(NewPicker(cfg), opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("panel picker: %w", err)
	}
	m, ok := final.(PickerModel)
	if !ok || !m.Saved() {
		return nil, ErrCancelled
	}
	return m.Selected(), nil
}
