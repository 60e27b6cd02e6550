// Package tui is the interactive view behind `show -i`.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/QUAKTECH/sftm/internal/model"
	"github.com/QUAKTECH/sftm/internal/ui"
)

// listItem adapts model.Entry to bubbles/list.Item
type listItem struct {
	entry model.Entry
}

func (i listItem) Title() string       { return i.entry.Body() }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.entry.Body() }

// itemDelegate renders one entry per line.
type itemDelegate struct {
	theme ui.Theme
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := d.theme
	box := t.Muted.Render(t.BoxUnchecked)
	text := it.entry.Body()
	if it.entry.Done() {
		box = t.Success.Render(t.BoxChecked)
		text = t.Done.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Accent.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}

type keyMap struct {
	check key.Binding
	del   key.Binding
	undo  key.Binding
}

var keys = keyMap{
	check: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "check")),
	del:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	undo:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
}

// Model is the bubbletea model for one todo file.
type Model struct {
	name    string
	theme   ui.Theme
	list    list.Model
	changed bool

	// single-level undo for deletes
	canUndo   bool
	undoIndex int
	undoItem  listItem
}

// New builds the browser for the entries of file name.
func New(name string, entries []model.Entry, theme ui.Theme) Model {
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, listItem{entry: e})
	}

	l := list.New(items, itemDelegate{theme: theme}, 80, 20)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = theme.Title
	l.Styles.HelpStyle = theme.Muted
	l.Styles.PaginationStyle = theme.Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{keys.check, keys.del, keys.undo} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{keys.check, keys.del, keys.undo} }

	m := Model{name: name, theme: theme, list: l}
	m.refreshTitle()
	return m
}

// Entries returns the current entries in display order.
func (m Model) Entries() []model.Entry {
	out := make([]model.Entry, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if li, ok := it.(listItem); ok {
			out = append(out, li.entry)
		}
	}
	return out
}

// Changed reports whether anything needs to be written back.
func (m Model) Changed() bool { return m.changed }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-2)
		return m, nil

	case tea.KeyMsg:
		// keys go to the filter input while it is open
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			// esc clears an applied filter first
			if m.list.FilterState() == list.Unfiltered {
				return m, tea.Quit
			}
		case " ":
			m.checkSelected()
			return m, nil
		case "d":
			m.deleteSelected()
			return m, nil
		case "u":
			m.undoDelete()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return ui.Panel(m.theme, m.list.View())
}

func (m *Model) checkSelected() {
	i := m.globalIndex()
	if i < 0 {
		return
	}
	li, ok := m.list.Items()[i].(listItem)
	if !ok || li.entry.Done() {
		return
	}
	li.entry = li.entry.Checked()
	m.list.SetItem(i, li)
	m.changed = true
	m.refreshTitle()
}

func (m *Model) deleteSelected() {
	i := m.globalIndex()
	if i < 0 {
		return
	}
	if li, ok := m.list.Items()[i].(listItem); ok {
		m.undoItem = li
		m.undoIndex = i
		m.canUndo = true
	}
	m.list.RemoveItem(i)
	m.changed = true
	m.refreshTitle()
}

func (m *Model) undoDelete() {
	if !m.canUndo {
		return
	}
	idx := m.undoIndex
	if n := len(m.list.Items()); idx > n {
		idx = n
	}
	m.list.InsertItem(idx, m.undoItem)
	m.canUndo = false
	m.changed = true
	m.refreshTitle()
}

// globalIndex maps the cursor to an index into Items, or -1.
func (m Model) globalIndex() int {
	if m.list.SelectedItem() == nil {
		return -1
	}
	return m.list.GlobalIndex()
}

func (m *Model) refreshTitle() {
	t := m.theme
	entries := m.Entries()
	done, pending := model.Stats(entries)
	m.list.Title = strings.Join([]string{
		t.Title.Render(m.name),
		t.Success.Render(t.BoxChecked) + fmt.Sprintf(" %d", done),
		t.Pending.Render(t.BoxUnchecked) + fmt.Sprintf(" %d", pending),
		t.Muted.Render(ui.ProgressBar(done, len(entries), 16)),
	}, "   ")
}

// Run shows the browser and returns the final entries and whether they changed.
func Run(name string, entries []model.Entry, theme ui.Theme, in io.Reader, out io.Writer) ([]model.Entry, bool, error) {
	p := tea.NewProgram(New(name, entries, theme), tea.WithAltScreen(), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return nil, false, err
	}
	fm, ok := final.(Model)
	if !ok {
		return entries, false, nil
	}
	return fm.Entries(), fm.Changed(), nil
}
