// Package controller binds user actions to remote calls and state transitions.
//
// Each network operation is split in three steps so one goroutine owns every
// mutation:
//
//	call, ok := c.PrepareToggle(id) // reads state, captures what to send
//	res := call(ctx)                // one remote call, may run anywhere
//	c.Apply(res)                    // mutates state on success, logs on failure
//
// Failures never propagate: they are logged and the state stays as it was.
package controller

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todo/internal/logging"
	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/state"
)

// Service is the remote todo store.
type Service interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, it model.Item) (model.Item, error)
	Update(ctx context.Context, it model.Item) error
	Delete(ctx context.Context, id string) error
}

// Op names the operation a Result came from.
type Op string

const (
	OpLoad   Op = "load"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpToggle Op = "toggle"
	OpDelete Op = "delete"
)

// Result is the outcome of one remote call.
type Result struct {
	Op    Op
	ID    string
	Item  model.Item
	Items []model.Item
	Err   error

	// Seq is the submit generation a create or update was sent under.
	Seq uint64
}

// OK reports whether the call succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Call performs exactly one remote request.
type Call func(ctx context.Context) Result

// Controller holds the list state and the transient input state.
//
// Thread-safety: not safe for concurrent use. Only Call values may leave the
// owning goroutine.
type Controller struct {
	svc   Service
	log   *log.Logger
	clock func() time.Time

	st    state.State
	draft string
	// seq advances on every submit and every change of edit selection.
	// A submit result only resets the input when its Seq is still current.
	seq uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source used for new item ids.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.clock = now }
}

// New returns a Controller with an empty list. A nil logger discards.
func New(svc Service, logger *log.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = logging.Discard()
	}
	c := &Controller{svc: svc, log: logger, clock: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Items returns the displayed list.
func (c *Controller) Items() []model.Item { return c.st.TodoList }

// State returns the current state value.
func (c *Controller) State() state.State { return c.st }

// Draft is the current input text.
func (c *Controller) Draft() string { return c.draft }

// SetDraft replaces the input text.
func (c *Controller) SetDraft(s string) { c.draft = s }

// Editing returns the item selected for edit, if any.
func (c *Controller) Editing() (model.Item, bool) {
	if len(c.st.EditedTodo) == 0 {
		return model.Item{}, false
	}
	return c.st.EditedTodo[0], true
}

// SelectForEdit selects the item with id and pre-fills the draft with its name.
// An unknown id leaves an empty selection and does not touch the draft.
func (c *Controller) SelectForEdit(id string) {
	c.st = c.st.SelectForEdit(id)
	c.seq++
	if it, ok := c.Editing(); ok {
		c.draft = it.Name
		return
	}
	c.log.Debug("select for edit: no such item", "id", id)
}

// CancelEdit drops the selection and the draft.
func (c *Controller) CancelEdit() {
	c.st = c.st.ClearEdit()
	c.draft = ""
	c.seq++
}

// PrepareLoad fetches the whole list.
func (c *Controller) PrepareLoad() Call {
	svc := c.svc
	return func(ctx context.Context) Result {
		items, err := svc.List(ctx)
		return Result{Op: OpLoad, Items: items, Err: err}
	}
}

// PrepareSubmit creates a new item from the draft, or renames the item
// selected for edit. A blank draft sends nothing.
func (c *Controller) PrepareSubmit() (Call, bool) {
	name := c.draft
	if strings.TrimSpace(name) == "" {
		return nil, false
	}
	svc := c.svc
	c.seq++
	seq := c.seq

	if cur, ok := c.Editing(); ok {
		updated := cur
		updated.Name = name
		return func(ctx context.Context) Result {
			return Result{Op: OpUpdate, ID: updated.ID, Item: updated, Seq: seq, Err: svc.Update(ctx, updated)}
		}, true
	}

	it := model.NewItem(name, c.clock())
	return func(ctx context.Context) Result {
		created, err := svc.Create(ctx, it)
		if err != nil {
			return Result{Op: OpCreate, ID: it.ID, Item: it, Seq: seq, Err: err}
		}
		return Result{Op: OpCreate, ID: created.ID, Item: created, Seq: seq}
	}, true
}

// PrepareToggle sends the item with Done inverted. Unknown ids send nothing.
func (c *Controller) PrepareToggle(id string) (Call, bool) {
	cur, ok := c.st.Find(id)
	if !ok {
		c.log.Debug("toggle: no such item", "id", id)
		return nil, false
	}
	updated := cur
	updated.Done = !cur.Done
	svc := c.svc
	return func(ctx context.Context) Result {
		return Result{Op: OpToggle, ID: id, Item: updated, Err: svc.Update(ctx, updated)}
	}, true
}

// PrepareDelete removes the item with id remotely.
func (c *Controller) PrepareDelete(id string) Call {
	svc := c.svc
	return func(ctx context.Context) Result {
		return Result{Op: OpDelete, ID: id, Err: svc.Delete(ctx, id)}
	}
}

// Apply folds a Result into the state.
//
// A create or update result that arrives after the user moved on to another
// edit or input updates the list but leaves the newer draft and selection alone.
func (c *Controller) Apply(r Result) {
	current := r.Seq == c.seq
	if (r.Op == OpCreate || r.Op == OpUpdate) && current {
		c.draft = ""
	}
	if r.Err != nil {
		c.log.Error("remote call failed", "op", r.Op, "id", r.ID, "err", r.Err)
		return
	}

	switch r.Op {
	case OpLoad:
		c.st = c.st.SetAll(r.Items)
	case OpCreate:
		c.st = c.st.Add(r.Item)
	case OpUpdate:
		c.st = c.st.Replace(r.Item)
		if cur, ok := c.Editing(); ok && cur.ID == r.ID && current {
			c.st = c.st.ClearEdit()
		}
	case OpToggle:
		c.st = c.st.SetDone(r.ID, r.Item.Done)
	case OpDelete:
		c.st = c.st.Delete(r.ID)
	}
	c.log.Debug("applied", "op", r.Op, "id", r.ID, "items", c.st.Len())
}

// Run performs call and applies its result on the calling goroutine.
func (c *Controller) Run(ctx context.Context, call Call) Result {
	r := call(ctx)
	c.Apply(r)
	return r
}

// Load fetches and applies the whole list.
func (c *Controller) Load(ctx context.Context) Result {
	return c.Run(ctx, c.PrepareLoad())
}

// Submit sends the draft. The second value is false when nothing was sent.
func (c *Controller) Submit(ctx context.Context) (Result, bool) {
	call, ok := c.PrepareSubmit()
	if !ok {
		return Result{}, false
	}
	return c.Run(ctx, call), true
}

// Toggle flips Done on the item with id. The second value is false when
// the id is unknown and nothing was sent.
func (c *Controller) Toggle(ctx context.Context, id string) (Result, bool) {
	call, ok := c.PrepareToggle(id)
	if !ok {
		return Result{}, false
	}
	return c.Run(ctx, call), true
}

// Delete removes the item with id.
func (c *Controller) Delete(ctx context.Context, id string) Result {
	return c.Run(ctx, c.PrepareDelete(id))
}
