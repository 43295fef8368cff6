package item

import (
	"fmt"
	"io"
	"strings"

	"github.com/jwebster45206/escape-room/pkg/command"
)

type access int

const (
	accessNone access = iota
	accessOpen
	accessTake
	accessTakeAll
)

// Container is an item that holds other items. It answers "open", "look in"
// and "take ... from" for itself, moving taken items into whatever holds the
// container.
type Container struct {
	Base
	items []Item
}

// NewContainer creates an empty container.
func NewContainer(name, description string) *Container {
	return &Container{Base: NewBase(name, description)}
}

func (c *Container) Add(it Item) error {
	if c.GetItem(it.Name()) != nil {
		return fmt.Errorf("%w: the %s already contains a %s", ErrNameConflict, c.Name(), it.Name())
	}
	if h := it.Holder(); h != nil && h != Holder(c) {
		h.Remove(it)
	}
	c.items = append(c.items, it)
	it.SetHolder(c)
	return nil
}

func (c *Container) Remove(it Item) bool {
	for i, held := range c.items {
		if held.ID() == it.ID() {
			c.items = append(c.items[:i], c.items[i+1:]...)
			it.SetHolder(nil)
			return true
		}
	}
	return false
}

func (c *Container) GetItem(name string) Item {
	for _, it := range c.items {
		if it.Name() == name {
			return it
		}
	}
	return nil
}

// Items returns a copy of the contents.
func (c *Container) Items() []Item {
	return append([]Item(nil), c.items...)
}

func (c *Container) Output() io.Writer { return c.Out() }

func (c *Container) Handler() command.Handler { return c }

func (c *Container) Use() {
	c.listContents()
}

func (c *Container) Execute(cmd string) bool {
	act, name := c.match(cmd)
	switch act {
	case accessOpen:
		c.listContents()
	case accessTake:
		if name == "" {
			fmt.Fprintf(c.Out(), "Take what from the %s?\n", c.Name())
			return true
		}
		c.take(name)
	case accessTakeAll:
		if len(c.items) == 0 {
			fmt.Fprintf(c.Out(), "The %s is empty.\n", c.Name())
			return true
		}
		for _, it := range c.Items() {
			c.take(it.Name())
		}
	default:
		return false
	}
	return true
}

func (c *Container) PrintHelp() {
	w := c.Out()
	fmt.Fprintf(w, "open %s shows what is inside it\n", c.Name())
	fmt.Fprintf(w, "take <item> from %s takes an item out of it\n", c.Name())
	fmt.Fprintf(w, "take all from %s empties it\n", c.Name())
}

// match works out whether a command is aimed at this container.
func (c *Container) match(cmd string) (access, string) {
	verb, rest := command.Split(cmd)
	switch verb {
	case "open":
		if rest == c.Name() {
			return accessOpen, ""
		}
	case "look":
		if target, ok := strings.CutPrefix(rest, "in "); ok && strings.TrimSpace(target) == c.Name() {
			return accessOpen, ""
		}
	case "take":
		what, from, hasFrom := cutFrom(rest)
		if hasFrom {
			if from != c.Name() {
				return accessNone, ""
			}
			if what == "all" {
				return accessTakeAll, ""
			}
			return accessTake, what
		}
		if what != "" && c.GetItem(what) != nil {
			return accessTake, what
		}
	}
	return accessNone, ""
}

// take moves one item to the container's holder. The item stays put if the
// destination refuses it.
func (c *Container) take(name string) {
	w := c.Out()
	it := c.GetItem(name)
	if it == nil {
		fmt.Fprintf(w, "The %s doesn't contain a %s.\n", c.Name(), name)
		return
	}
	dest := c.Holder()
	if dest == nil {
		fmt.Fprintf(w, "There is nowhere to put the %s.\n", name)
		return
	}
	if dest.GetItem(name) != nil {
		fmt.Fprintf(w, "There is already a %s here.\n", name)
		return
	}
	if err := dest.Add(it); err != nil {
		fmt.Fprintf(w, "You can't take the %s.\n", name)
		return
	}
	fmt.Fprintf(w, "You take the %s from the %s.\n", name, c.Name())
}

func (c *Container) listContents() {
	w := c.Out()
	if len(c.items) == 0 {
		fmt.Fprintf(w, "The %s is empty.\n", c.Name())
		return
	}
	fmt.Fprintf(w, "The %s contains:\n", c.Name())
	for _, it := range c.items {
		fmt.Fprintf(w, "  %s\n", Describe(it))
	}
}

func cutFrom(rest string) (what, from string, found bool) {
	if after, ok := strings.CutPrefix(rest, "from "); ok {
		return "", strings.TrimSpace(after), true
	}
	what, from, found = strings.Cut(rest, " from ")
	return strings.TrimSpace(what), strings.TrimSpace(from), found
}
