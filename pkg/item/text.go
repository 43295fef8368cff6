package item

import "fmt"

// Text is an item that shows a block of text when used, like a note or a sign.
type Text struct {
	Base
	text string
}

func NewText(name, description, text string) *Text {
	return &Text{
		Base: NewBase(name, description),
		text: text,
	}
}

func (t *Text) Text() string { return t.text }

func (t *Text) Use() {
	fmt.Fprintln(t.Out(), t.text)
}

// Plain is an item with no effect of its own. Plain items are usually
// ingredients for a recipe or the goal of a scenario.
type Plain struct {
	Base
}

func NewPlain(name, description string) *Plain {
	return &Plain{Base: NewBase(name, description)}
}

func (p *Plain) Use() {
	fmt.Fprintf(p.Out(), "You can't think of a way to use the %s.\n", p.Name())
}
