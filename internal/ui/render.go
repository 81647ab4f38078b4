package ui

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"

	"github.com/idilsaglam/todo/internal/model"
)

// MaxNameWidth is the widest name shown before truncation.
const MaxNameWidth = 80

// Header is the "Todos ✔ n • n Total n" line.
func Header(items []model.Item) string {
	t := Current()
	d, p := model.Stats(items)
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(items),
	)
}

// Checkbox renders the box for done.
func Checkbox(done bool) string {
	t := Current()
	if done {
		return t.Success.Render(t.BoxChecked)
	}
	return t.Muted.Render(t.BoxUnchecked)
}

// Name renders an item name, truncated and struck through when done.
func Name(it model.Item) string {
	name := ansi.Truncate(it.Name, MaxNameWidth, "...")
	if it.Done {
		return Current().Done.Render(name)
	}
	return name
}

// ListPanel renders the framed list shown by `todo ls`.
func ListPanel(items []model.Item, group bool) string {
	d, p := model.Stats(items)

	var lines []string
	lines = append(lines, Header(items))
	lines = append(lines, Current().Muted.Render(ProgressBar(d, d+p, 28)))
	lines = append(lines, "")
	if group {
		lines = append(lines, groupLines(items)...)
	} else {
		lines = append(lines, flatLines(items)...)
	}
	lines = append(lines, "")
	lines = append(lines, Current().Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	return Panel(lines)
}

type numbered struct {
	pos int
	it  model.Item
}

func flatLines(items []model.Item) []string {
	all := make([]numbered, 0, len(items))
	for i, it := range items {
		all = append(all, numbered{pos: i + 1, it: it})
	}
	return numberedLines(all)
}

func numberedLines(items []numbered) []string {
	t := Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("no items")}
	}
	out := make([]string, 0, len(items))
	for _, n := range items {
		out = append(out, fmt.Sprintf("%s %s %s %s",
			t.Muted.Render(fmt.Sprintf("%2d.", n.pos)),
			Checkbox(n.it.Done),
			Name(n.it),
			t.Muted.Render("#"+n.it.ID),
		))
	}
	return out
}

// groupLines keeps each item's position in the full list so refs stay valid.
func groupLines(items []model.Item) []string {
	t := Current()
	var pend, done []numbered
	for i, it := range items {
		if it.Done {
			done = append(done, numbered{pos: i + 1, it: it})
		} else {
			pend = append(pend, numbered{pos: i + 1, it: it})
		}
	}
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, numberedLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, numberedLines(done)...)
	}
	return lines
}
