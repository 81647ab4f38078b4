// Package state holds the in-memory mirror of the remote todo list.
//
// Every transition returns a new State and leaves the receiver untouched.
// Transitions that name an id which is not in the list are no-ops.
package state

import "github.com/idilsaglam/todo/internal/model"

// State is the displayed list plus the item(s) selected for editing.
type State struct {
	TodoList   []model.Item
	EditedTodo []model.Item
}

// SetAll replaces the list wholesale.
func (s State) SetAll(items []model.Item) State {
	return State{
		TodoList:   clone(items),
		EditedTodo: clone(s.EditedTodo),
	}
}

// Add appends it to the end of the list.
func (s State) Add(it model.Item) State {
	list := make([]model.Item, 0, len(s.TodoList)+1)
	list = append(list, s.TodoList...)
	list = append(list, it)
	return State{TodoList: list, EditedTodo: clone(s.EditedTodo)}
}

// Delete removes the item with the given id.
func (s State) Delete(id string) State {
	list := make([]model.Item, 0, len(s.TodoList))
	for _, it := range s.TodoList {
		if it.ID != id {
			list = append(list, it)
		}
	}
	return State{TodoList: list, EditedTodo: clone(s.EditedTodo)}
}

// ToggleDone flips Done on the item with the given id.
func (s State) ToggleDone(id string) State {
	return s.update(id, func(it *model.Item) { it.Done = !it.Done })
}

// SetDone sets Done on the item with the given id to exactly done.
func (s State) SetDone(id string, done bool) State {
	return s.update(id, func(it *model.Item) { it.Done = done })
}

// Replace swaps the entry that shares its id for it.
func (s State) Replace(it model.Item) State {
	return s.update(it.ID, func(cur *model.Item) { *cur = it })
}

// SelectForEdit sets EditedTodo to the items matching id. The list is not changed.
func (s State) SelectForEdit(id string) State {
	var sel []model.Item
	for _, it := range s.TodoList {
		if it.ID == id {
			sel = append(sel, it)
		}
	}
	return State{TodoList: clone(s.TodoList), EditedTodo: sel}
}

// ClearEdit empties the edit selection.
func (s State) ClearEdit() State {
	return State{TodoList: clone(s.TodoList)}
}

// Find returns the first item with the given id.
func (s State) Find(id string) (model.Item, bool) {
	for _, it := range s.TodoList {
		if it.ID == id {
			return it, true
		}
	}
	return model.Item{}, false
}

// Len is the number of items in the list.
func (s State) Len() int { return len(s.TodoList) }

func (s State) update(id string, fn func(*model.Item)) State {
	list := clone(s.TodoList)
	for i := range list {
		if list[i].ID == id {
			fn(&list[i])
			break
		}
	}
	return State{TodoList: list, EditedTodo: clone(s.EditedTodo)}
}

func clone(items []model.Item) []model.Item {
	if items == nil {
		return nil
	}
	out := make([]model.Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
