// Package toolbar is the view model of the pagination toolbar: first, back,
// numbered, next and last buttons plus a jump-to-page input.
package toolbar

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/goliatone/go-discussion-pager/settings"
)

// Navigator is the part of the pagination controller the toolbar drives.
type Navigator interface {
	Page() int
	TotalPages() int
	PageList() []int
	ToPage(ctx context.Context, n int) error
}

// Kind identifies a toolbar button.
type Kind string

const (
	KindFirst Kind = "first"
	KindBack  Kind = "back"
	KindPage  Kind = "page"
	KindNext  Kind = "next"
	KindLast  Kind = "last"
)

// Button is a rendered toolbar button. Page is the target of a click.
type Button struct {
	Kind     Kind
	Label    string
	Page     int
	Disabled bool
	Active   bool
}

// Toolbar renders the navigation controls of a Navigator.
type Toolbar struct {
	nav      Navigator
	position settings.Position
}

// New creates a toolbar. An empty position means under the list.
func New(nav Navigator, position settings.Position) *Toolbar {
	if position == "" {
		position = settings.PositionUnder
	}
	return &Toolbar{nav: nav, position: position}
}

// ShowAbove reports whether the toolbar is drawn above the list.
func (t *Toolbar) ShowAbove() bool {
	return t.position == settings.PositionAbove || t.position == settings.PositionBoth
}

// ShowUnder reports whether the toolbar is drawn under the list.
func (t *Toolbar) ShowUnder() bool {
	return t.position == settings.PositionUnder || t.position == settings.PositionBoth
}

// Buttons returns the buttons in display order.
func (t *Toolbar) Buttons() []Button {
	page := t.nav.Page()
	total := t.nav.TotalPages()
	atStart := page <= 1
	atEnd := page >= total

	buttons := []Button{
		{Kind: KindFirst, Label: "«", Page: 1, Disabled: atStart},
		{Kind: KindBack, Label: "‹", Page: page - 1, Disabled: atStart},
	}
	for _, n := range t.nav.PageList() {
		buttons = append(buttons, Button{
			Kind:   KindPage,
			Label:  strconv.Itoa(n),
			Page:   n,
			Active: n == page,
		})
	}
	return append(buttons,
		Button{Kind: KindNext, Label: "›", Page: page + 1, Disabled: atEnd},
		Button{Kind: KindLast, Label: "»", Page: total, Disabled: atEnd},
	)
}

// Click activates b. Disabled and active buttons do nothing.
func (t *Toolbar) Click(ctx context.Context, b Button) error {
	if b.Disabled || b.Active {
		return nil
	}
	return t.nav.ToPage(ctx, b.Page)
}

// ParseJump validates the content of the jump input against the page range.
// It returns false for anything that is not a whole number in
// [1, TotalPages] or that names the page already shown.
func (t *Toolbar) ParseJump(input string) (int, bool) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if math.Abs(f) > maxSafeInteger {
		return 0, false
	}
	n := int(f)
	if n < 1 || n > t.nav.TotalPages() || n == t.nav.Page() {
		return 0, false
	}
	return n, true
}

// Largest integer a jump input may hold.
const maxSafeInteger = 1<<53 - 1

// Jump navigates to the page typed into the jump input. Invalid input is
// ignored.
func (t *Toolbar) Jump(ctx context.Context, input string) error {
	n, ok := t.ParseJump(input)
	if !ok {
		return nil
	}
	return t.nav.ToPage(ctx, n)
}

// KeyDown handles a key press in the jump input. Only Enter dispatches; the
// result reports whether a navigation was started.
func (t *Toolbar) KeyDown(ctx context.Context, key, input string) (bool, error) {
	if key != "Enter" {
		return false, nil
	}
	n, ok := t.ParseJump(input)
	if !ok {
		return false, nil
	}
	return true, t.nav.ToPage(ctx, n)
}

// Render draws the toolbar as a single row table. Disabled buttons are
// dimmed with parentheses and the active page is bracketed.
func (t *Toolbar) Render(w io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	row := table.Row{}
	for _, b := range t.Buttons() {
		row = append(row, label(b))
	}
	tw.AppendRow(row)
	tw.AppendFooter(table.Row{fmt.Sprintf("page %d of %d", t.nav.Page(), t.nav.TotalPages())})
	tw.Render()
}

func label(b Button) string {
	switch {
	case b.Active:
		return "[" + b.Label + "]"
	case b.Disabled:
		return "(" + b.Label + ")"
	default:
		return b.Label
	}
}
