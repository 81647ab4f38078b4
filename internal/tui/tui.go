// Package tui is the interactive Bubble Tea view over a controller.
//
// Remote calls run as tea.Cmds and come back as resultMsg; only Update
// touches the controller.
package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todo/internal/controller"
	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/ui"
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	model.Item
}

func (i listItem) Title() string       { return i.Name }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Name }

// resultMsg carries a finished remote call back to Update.
type resultMsg controller.Result

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.Current().Selected.Render(">") + " "
	}
	fmt.Fprintf(w, "%s%s %s", prefix, ui.Checkbox(it.Done), ui.Name(it.Item))
}

var keys = struct {
	toggle, remove, add, edit, reload key.Binding
}{
	toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	remove: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
}

// Model is the Bubble Tea model.
type Model struct {
	ctx  context.Context
	ctrl *controller.Controller

	list list.Model
	ti   textinput.Model

	// inputting is true while the add/edit bar has focus.
	inputting bool
	width     int
	height    int
}

// New builds the model. ctx bounds every remote call it issues.
func New(ctx context.Context, ctrl *controller.Controller) Model {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = ui.Header(nil)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Help
	l.Styles.PaginationStyle = ui.Current().Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	bindings := func() []key.Binding {
		return []key.Binding{keys.toggle, keys.remove, keys.add, keys.edit, keys.reload}
	}
	l.AdditionalShortHelpKeys = bindings
	l.AdditionalFullHelpKeys = bindings

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Enter a Todo..."
	ti.CharLimit = 200

	return Model{
		ctx:    ctx,
		ctrl:   ctrl,
		list:   l,
		ti:     ti,
		width:  80,
		height: 24,
	}
}

// Run starts the interactive list on the alternate screen.
func Run(ctx context.Context, ctrl *controller.Controller, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, ctrl), opts...).Run()
	return err
}

// Init loads the list.
func (m Model) Init() tea.Cmd { return m.call(m.ctrl.PrepareLoad()) }

func (m Model) call(c controller.Call) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg { return resultMsg(c(ctx)) }
}

func (m Model) selectedID() (string, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return "", false
	}
	return it.ID, true
}

// sync copies controller state into the widgets.
func (m *Model) sync() tea.Cmd {
	items := m.ctrl.Items()
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{Item: it})
	}
	m.list.Title = ui.Header(items)
	return m.list.SetItems(li)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case resultMsg:
		r := controller.Result(msg)
		m.ctrl.Apply(r)
		// The input bar may already hold a later add or edit.
		if (r.Op == controller.OpCreate || r.Op == controller.OpUpdate) && !m.inputting {
			m.ti.SetValue(m.ctrl.Draft())
		}
		return m, m.sync()
	}

	if m.inputting {
		return m.updateInput(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case km.String() == "q" || (km.String() == "esc" && m.list.FilterState() == list.Unfiltered):
			return m, tea.Quit
		case key.Matches(km, keys.toggle):
			if id, ok := m.selectedID(); ok {
				if c, ok := m.ctrl.PrepareToggle(id); ok {
					return m, m.call(c)
				}
			}
			return m, nil
		case key.Matches(km, keys.remove):
			if id, ok := m.selectedID(); ok {
				return m, m.call(m.ctrl.PrepareDelete(id))
			}
			return m, nil
		case key.Matches(km, keys.add):
			m.ctrl.CancelEdit()
			m.ti.SetValue("")
			m.ti.Placeholder = "Enter a Todo..."
			m.inputting = true
			return m, m.ti.Focus()
		case key.Matches(km, keys.edit):
			if id, ok := m.selectedID(); ok {
				m.ctrl.SelectForEdit(id)
				if _, editing := m.ctrl.Editing(); editing {
					m.ti.SetValue(m.ctrl.Draft())
					m.ti.CursorEnd()
					m.ti.Placeholder = "Edit item name..."
					m.inputting = true
					return m, m.ti.Focus()
				}
			}
			return m, nil
		case key.Matches(km, keys.reload):
			return m, m.call(m.ctrl.PrepareLoad())
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			m.ctrl.SetDraft(m.ti.Value())
			c, ok := m.ctrl.PrepareSubmit()
			if !ok {
				return m, nil
			}
			m.inputting = false
			m.ti.Blur()
			return m, m.call(c)
		case "esc":
			m.ctrl.CancelEdit()
			m.inputting = false
			m.ti.SetValue("")
			m.ti.Blur()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	listHeight := m.height - 4
	if m.inputting {
		listHeight = m.height - 8
	}
	m.list.SetSize(m.width-4, listHeight)

	content := m.list.View()
	if m.inputting {
		title := "Add Todo"
		if _, editing := m.ctrl.Editing(); editing {
			title = "Update Todo"
		}
		bar := lipgloss.NewStyle().
			Border(ui.Current().Border).
			BorderForeground(ui.Current().BorderColor).
			Padding(0, 1)
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	return ui.Panel([]string{content})
}
