package item

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/jwebster45206/escape-room/pkg/command"
)

// ErrNameConflict is returned when a holder already has an item with the same name.
var ErrNameConflict = errors.New("name conflict")

// Holder is anything that owns items: a room or a container. An item has at
// most one holder, so Add takes the item away from its previous holder.
type Holder interface {
	Add(it Item) error
	Remove(it Item) bool
	GetItem(name string) Item
	Output() io.Writer
}

// Item is a named thing the player can use.
type Item interface {
	ID() uuid.UUID
	Name() string
	Description() string
	Use()

	// Holder is a non-owning link to whoever holds the item right now.
	// It is nil while the item is detached.
	Holder() Holder
	SetHolder(h Holder)

	// Handler returns the item's command handler, or nil when the item has no
	// commands of its own.
	Handler() command.Handler
}

// Base carries the fields every item shares. Embed it and implement Use.
type Base struct {
	id          uuid.UUID
	name        string
	description string
	holder      Holder
}

func NewBase(name, description string) Base {
	return Base{
		id:          uuid.New(),
		name:        name,
		description: description,
	}
}

func (b *Base) ID() uuid.UUID { return b.id }
func (b *Base) Name() string { return b.name }
func (b *Base) Description() string { return b.description }
func (b *Base) Holder() Holder { return b.holder }
func (b *Base) SetHolder(h Holder) { b.holder = h }
func (b *Base) Handler() command.Handler { return nil }

// Out is where the item writes player-facing text.
func (b *Base) Out() io.Writer {
	if b.holder == nil {
		return io.Discard
	}
	return b.holder.Output()
}

func (b *Base) String() string {
	return fmt.Sprintf("%s: %s", b.name, b.description)
}

// Names returns the names of items in order.
func Names(items []Item) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name())
	}
	return names
}

// Describe renders an item for listings.
func Describe(it Item) string {
	if s, ok := it.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%s: %s", it.Name(), it.Description())
}

var (
	_ Item            = (*Text)(nil)
	_ Item            = (*Plain)(nil)
	_ Item            = (*Container)(nil)
	_ Holder          = (*Container)(nil)
	_ command.Handler = (*Container)(nil)
	_ Item            = (*LockedContainer)(nil)
	_ command.Handler = (*LockedContainer)(nil)
)
