package room

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/escape-room/pkg/command"
	"github.com/jwebster45206/escape-room/pkg/item"
)

// Execute handles look, use and combine. Anything else is left for the rest
// of the handler chain. Once the verb matches the command is always claimed,
// even when the player got the arguments wrong.
func (r *Room) Execute(cmd string) bool {
	if cmd == "look" {
		r.PrintDescription()
		return true
	}

	verb, rest := command.Split(cmd)
	switch verb {
	case "use":
		r.use(rest)
		return true
	case "combine":
		r.combine(strings.Fields(rest))
		return true
	}
	return false
}

func (r *Room) use(name string) {
	if name == "" {
		fmt.Fprintln(r.out, "Use what?")
		return
	}
	it := r.GetItem(name)
	if it == nil {
		fmt.Fprintf(r.out, "There is no %s here.\n", name)
		return
	}
	it.Use()
}

func (r *Room) combine(names []string) {
	stuff := make([]item.Item, 0, len(names))
	for _, name := range names {
		it := r.GetItem(name)
		if it == nil {
			fmt.Fprintf(r.out, "There is no %s here.\n", name)
			return
		}
		stuff = append(stuff, it)
	}

	switch len(stuff) {
	case 0:
		fmt.Fprintln(r.out, "Combine what?")
	case 1:
		fmt.Fprintf(r.out, "Combine %s with what?\n", stuff[0].Name())
	default:
		fmt.Fprintf(r.out, "You attempt to combine the following items: %s\n", strings.Join(item.Names(stuff), ", "))
		r.Combine(stuff)
	}
}
