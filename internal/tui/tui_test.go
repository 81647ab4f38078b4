package tui

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todo/internal/controller"
	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/remote"
	"github.com/idilsaglam/todo/internal/testutil"
)

func newModel(t *testing.T, seed ...model.Item) (Model, *testutil.FakeService) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
	svc := testutil.NewFakeService(t, seed...)
	client, err := remote.New(remote.SameBase(svc.URL))
	require.NoError(t, err)
	ctrl := controller.New(client, nil, controller.WithClock(func() time.Time { return time.UnixMilli(99) }))

	m := New(context.Background(), ctrl)
	m.ti.Cursor.SetMode(cursor.CursorStatic)
	m.list.FilterInput.Cursor.SetMode(cursor.CursorStatic)
	m = drain(t, m, m.Init())
	return m, svc
}

// drain runs cmd and feeds every resultMsg and filter result it yields back
// into the model.
// Commands that do not finish quickly (cursor blinks, ticks) are dropped.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(2 * time.Second):
		return m
	}

	switch msg := msg.(type) {
	case resultMsg, list.FilterMatchesMsg:
		next, cmd := m.Update(msg)
		return drain(t, next.(Model), cmd)
	case tea.BatchMsg:
		for _, c := range msg {
			m = drain(t, m, c)
		}
	}
	return m
}

func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(k)
	return drain(t, next.(Model), cmd)
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	ctrlU = tea.KeyMsg{Type: tea.KeyCtrlU}
)

func typeText(t *testing.T, m Model, s string) Model {
	for _, r := range s {
		m = press(t, m, runes(string(r)))
	}
	return m
}

func TestInit_LoadsList(t *testing.T) {
	m, _ := newModel(t, model.Item{ID: "1", Name: "Buy milk"})

	require.Len(t, m.list.Items(), 1)
	it := m.list.Items()[0].(listItem)
	assert.Equal(t, "Buy milk", it.Name)
	assert.False(t, it.Done)
	assert.Contains(t, m.View(), "Buy milk")
}

func TestAdd_CreatesItem(t *testing.T) {
	m, svc := newModel(t, model.Item{ID: "1", Name: "Buy milk"})

	m = press(t, m, runes("a"))
	require.True(t, m.inputting)
	m = typeText(t, m, "Clean house")
	m = press(t, m, enter)

	assert.False(t, m.inputting)
	require.Len(t, m.list.Items(), 2)
	assert.Equal(t, model.Item{ID: "99", Name: "Clean house"}, m.list.Items()[1].(listItem).Item)
	assert.Equal(t, http.MethodPost, svc.Requests()[1].Method)
	assert.Empty(t, m.ti.Value())
}

func TestAdd_BlankIsNoop(t *testing.T) {
	m, svc := newModel(t)

	m = press(t, m, runes("a"))
	m = typeText(t, m, "   ")
	m = press(t, m, enter)

	assert.True(t, m.inputting)
	assert.Len(t, svc.Requests(), 1)
}

func TestToggle_ChecksItem(t *testing.T) {
	m, _ := newModel(t, model.Item{ID: "1", Name: "Buy milk"})

	m = press(t, m, space)

	assert.True(t, m.list.Items()[0].(listItem).Done)
	assert.True(t, m.ctrl.Items()[0].Done)
}

func TestEdit_RenamesItem(t *testing.T) {
	m, svc := newModel(t, model.Item{ID: "1", Name: "Buy milk"})

	m = press(t, m, runes("e"))
	require.True(t, m.inputting)
	assert.Equal(t, "Buy milk", m.ti.Value())
	assert.Contains(t, m.View(), "Update Todo")

	m = press(t, m, ctrlU)
	m = typeText(t, m, "Buy oat milk")
	m = press(t, m, enter)

	assert.Equal(t, "Buy oat milk", m.list.Items()[0].(listItem).Name)
	assert.Equal(t, []model.Item{{ID: "1", Name: "Buy oat milk"}}, svc.Items())
	_, editing := m.ctrl.Editing()
	assert.False(t, editing)
}

func TestEdit_EscCancels(t *testing.T) {
	m, svc := newModel(t, model.Item{ID: "1", Name: "Buy milk"})

	m = press(t, m, runes("e"))
	m = press(t, m, esc)

	assert.False(t, m.inputting)
	_, editing := m.ctrl.Editing()
	assert.False(t, editing)
	assert.Len(t, svc.Requests(), 1)
}

func TestDelete_RemovesItem(t *testing.T) {
	m, _ := newModel(t, model.Item{ID: "1", Name: "Buy milk"}, model.Item{ID: "2", Name: "Walk dog"})

	m = press(t, m, runes("d"))

	require.Len(t, m.list.Items(), 1)
	assert.Equal(t, "2", m.list.Items()[0].(listItem).ID)
}

func TestFailure_LeavesListAndShowsNoError(t *testing.T) {
	m, svc := newModel(t, model.Item{ID: "1", Name: "Buy milk"})
	svc.FailWith(http.MethodDelete, http.StatusInternalServerError)
	svc.FailWith(http.MethodPut, http.StatusInternalServerError)
	before := m.View()

	m = press(t, m, runes("d"))
	m = press(t, m, space)

	require.Len(t, m.list.Items(), 1)
	assert.False(t, m.list.Items()[0].(listItem).Done)
	assert.Equal(t, before, m.View())
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t)

	_, cmd := m.Update(runes("q"))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestEdit_LateResultKeepsNextEdit(t *testing.T) {
	m, svc := newModel(t, model.Item{ID: "1", Name: "A"}, model.Item{ID: "2", Name: "B"})

	m = press(t, m, runes("e"))
	m = press(t, m, ctrlU)
	m = typeText(t, m, "A2")
	next, pending := m.Update(enter)
	m = next.(Model)
	require.NotNil(t, pending)

	m = press(t, m, down)
	m = press(t, m, runes("e"))
	require.Equal(t, "B", m.ti.Value())

	m = drain(t, m, pending)

	assert.True(t, m.inputting)
	assert.Equal(t, "B", m.ti.Value())
	cur, editing := m.ctrl.Editing()
	require.True(t, editing)
	assert.Equal(t, "2", cur.ID)
	assert.Equal(t, "A2", m.list.Items()[0].(listItem).Name)

	m = press(t, m, ctrlU)
	m = typeText(t, m, "B2")
	m = press(t, m, enter)

	reqs := svc.Requests()
	last := reqs[len(reqs)-1]
	assert.Equal(t, http.MethodPut, last.Method)
	assert.Equal(t, "/Todo/2", last.Path)
	assert.Equal(t, []model.Item{{ID: "1", Name: "A2"}, {ID: "2", Name: "B2"}}, svc.Items())
}

func TestFilter_NarrowsListAndActsOnMatch(t *testing.T) {
	m, _ := newModel(t, model.Item{ID: "1", Name: "Buy milk"}, model.Item{ID: "2", Name: "Walk dog"})

	m = press(t, m, runes("/"))
	require.Equal(t, list.Filtering, m.list.FilterState())
	m = typeText(t, m, "dog")
	m = press(t, m, enter)

	require.Equal(t, list.FilterApplied, m.list.FilterState())
	visible := m.list.VisibleItems()
	require.Len(t, visible, 1)
	assert.Equal(t, "2", visible[0].(listItem).ID)

	m = press(t, m, space)

	assert.False(t, m.ctrl.Items()[0].Done)
	assert.True(t, m.ctrl.Items()[1].Done)
}

func TestReload_FetchesList(t *testing.T) {
	m, svc := newModel(t, model.Item{ID: "1", Name: "Buy milk"})
	svc.ListBody(`{"items":[{"id":"1","name":"Buy milk","done":true},{"id":"5","name":"Walk dog"}]}`)

	m = press(t, m, runes("r"))

	require.Len(t, m.list.Items(), 2)
	assert.True(t, m.list.Items()[0].(listItem).Done)
	assert.Equal(t, "Walk dog", m.list.Items()[1].(listItem).Name)
}
