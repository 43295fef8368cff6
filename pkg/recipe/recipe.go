package recipe

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/jwebster45206/escape-room/pkg/item"
	"github.com/jwebster45206/escape-room/pkg/room"
)

// Pattern decides which item sets a recipe accepts.
// An unordered pattern compares multisets of names, so any permutation
// matches. An ordered pattern compares the name sequence exactly.
type Pattern struct {
	Ordered bool
	Names   []string
}

func Unordered(names ...string) Pattern {
	return Pattern{Names: names}
}

func Ordered(names ...string) Pattern {
	return Pattern{Ordered: true, Names: names}
}

func (p Pattern) Matches(items []item.Item) bool {
	if len(items) != len(p.Names) {
		return false
	}
	got := item.Names(items)
	if p.Ordered {
		return slices.Equal(got, p.Names)
	}

	want := make(map[string]int, len(p.Names))
	for _, name := range p.Names {
		want[name]++
	}
	for _, name := range got {
		if want[name] == 0 {
			return false
		}
		want[name]--
	}
	return true
}

// Transform consumes the items named by its pattern and puts a new item in
// their place.
type Transform struct {
	Pattern
	produce func() item.Item
	message string
}

// NewTransform builds a recipe. produce is called once per successful
// combination; message is shown to the player when it succeeds.
func NewTransform(p Pattern, message string, produce func() item.Item) *Transform {
	return &Transform{
		Pattern: p,
		produce: produce,
		message: message,
	}
}

// CombineInRoom consumes one distinct room item per pattern name and adds
// the product. A name the room holds only once cannot fill two slots.
func (t *Transform) CombineInRoom(r *room.Room) {
	consumed := make([]item.Item, 0, len(t.Names))
	seen := make(map[uuid.UUID]bool, len(t.Names))
	for _, name := range t.Names {
		it := r.GetItem(name)
		if it == nil || seen[it.ID()] {
			fmt.Fprintln(r.Output(), "Nothing happens.")
			return
		}
		seen[it.ID()] = true
		consumed = append(consumed, it)
	}

	product := t.produce()
	if err := r.Swap(consumed, []item.Item{product}); err != nil {
		fmt.Fprintln(r.Output(), "Nothing happens.")
		return
	}
	if t.message != "" {
		fmt.Fprintln(r.Output(), t.message)
	}
}

var _ room.Recipe = (*Transform)(nil)
