package room

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/escape-room/pkg/command"
	"github.com/jwebster45206/escape-room/pkg/item"
)

// ErrNameConflict is returned by Add and Swap when a name is already taken.
var ErrNameConflict = item.ErrNameConflict

// Recipe turns a set of items into something else.
type Recipe interface {
	// Matches reports whether the recipe accepts exactly these items.
	Matches(items []item.Item) bool
	// CombineInRoom applies the recipe's effect.
	CombineInRoom(r *Room)
}

// Rules are the per-scenario parts of a room: turn accounting, the win and
// loss predicates and the narration that goes with them.
type Rules interface {
	PrintRoomPrompt(r *Room)
	OnCommandAttempted(r *Room, command string, claimed bool)
	Escaped(r *Room) bool
	Failed(r *Room) bool
	OnEscaped(r *Room)
	OnFailed(r *Room)
}

// CombineFailer can be implemented by Rules to replace the default
// "Nothing happens." when no recipe matches.
type CombineFailer interface {
	OnCombineFailed(r *Room, items []item.Item)
}

// Room is the single location of a game. It owns its items and recipes and
// handles look, use and combine.
type Room struct {
	id          uuid.UUID
	description string
	intro       string
	items       []item.Item
	recipes     []Recipe
	registrar   command.Registrar
	rules       Rules
	out         io.Writer
}

type Option func(*Room)

// WithOutput sets where the room and its items write. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Room) {
		r.out = w
	}
}

// New creates an empty room that writes to stdout unless WithOutput says otherwise.
func New(description, intro string, rules Rules, opts ...Option) *Room {
	r := &Room{
		id:          uuid.New(),
		description: description,
		intro:       intro,
		rules:       rules,
		out:         os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Room) ID() uuid.UUID { return r.id }
func (r *Room) Description() string { return r.description }
func (r *Room) Intro() string { return r.intro }
func (r *Room) Output() io.Writer { return r.out }
func (r *Room) Rules() Rules { return r.rules }
func (r *Room) Registrar() command.Registrar { return r.registrar }

// Add takes ownership of an item, taking it away from whatever held it
// before. If the room is attached and the item has its own commands, the
// item joins the handler chain.
func (r *Room) Add(it item.Item) error {
	if r.GetItem(it.Name()) != nil {
		return fmt.Errorf("%w: this room already contains a %s", ErrNameConflict, it.Name())
	}
	r.adopt(it)
	return nil
}

func (r *Room) adopt(it item.Item) {
	if h := it.Holder(); h != nil && h != item.Holder(r) {
		h.Remove(it)
	}
	r.items = append(r.items, it)
	it.SetHolder(r)
	r.register(it)
}

// Remove gives up ownership of an item and takes it out of the handler
// chain. It returns false if the item is not in the room.
func (r *Room) Remove(it item.Item) bool {
	idx := r.indexOf(it)
	if idx < 0 {
		return false
	}
	r.items = append(r.items[:idx], r.items[idx+1:]...)
	r.deregister(it)
	it.SetHolder(nil)
	return true
}

// GetItem returns the item with the given name, or nil.
func (r *Room) GetItem(name string) item.Item {
	for _, it := range r.items {
		if it.Name() == name {
			return it
		}
	}
	return nil
}

// Items returns a copy of the room's items in insertion order.
func (r *Room) Items() []item.Item {
	return append([]item.Item(nil), r.items...)
}

// AddRecipe registers a recipe. Recipes are tried in registration order.
func (r *Room) AddRecipe(rc Recipe) {
	r.recipes = append(r.recipes, rc)
}

// RemoveRecipe unregisters a recipe, reporting whether it was registered.
func (r *Room) RemoveRecipe(rc Recipe) bool {
	for i, held := range r.recipes {
		if held == rc {
			r.recipes = append(r.recipes[:i], r.recipes[i+1:]...)
			return true
		}
	}
	return false
}

// Recipes returns a copy of the room's recipes in registration order.
func (r *Room) Recipes() []Recipe {
	return append([]Recipe(nil), r.recipes...)
}

// Swap removes consumed and adds produced as a single step. Everything is
// checked before anything changes, so on error the room is untouched.
// A produced item may reuse the name of a consumed one.
func (r *Room) Swap(consumed, produced []item.Item) error {
	gone := make(map[uuid.UUID]bool, len(consumed))
	for _, it := range consumed {
		if r.indexOf(it) < 0 {
			return fmt.Errorf("cannot consume %s: not in the room", it.Name())
		}
		if gone[it.ID()] {
			return fmt.Errorf("cannot consume %s twice", it.Name())
		}
		gone[it.ID()] = true
	}

	taken := make(map[string]bool, len(r.items))
	for _, it := range r.items {
		if !gone[it.ID()] {
			taken[it.Name()] = true
		}
	}
	for _, it := range produced {
		if taken[it.Name()] {
			return fmt.Errorf("%w: this room already contains a %s", ErrNameConflict, it.Name())
		}
		taken[it.Name()] = true
	}

	for _, it := range consumed {
		r.Remove(it)
	}
	for _, it := range produced {
		r.adopt(it)
	}
	return nil
}

// AttachToEngine moves the room, and every item with commands, from the
// previous registrar to reg. The room is registered before its items.
func (r *Room) AttachToEngine(reg command.Registrar) {
	if r.registrar != nil {
		r.registrar.RemoveHandler(r)
		for _, it := range r.items {
			r.deregister(it)
		}
	}
	r.registrar = reg
	if reg == nil {
		return
	}
	reg.AddHandler(r)
	for _, it := range r.items {
		r.register(it)
	}
}

// Combine applies the first recipe that matches items. Only one recipe
// ever fires.
func (r *Room) Combine(items []item.Item) {
	for _, rc := range r.recipes {
		if rc.Matches(items) {
			rc.CombineInRoom(r)
			return
		}
	}
	if f, ok := r.rules.(CombineFailer); ok {
		f.OnCombineFailed(r, items)
		return
	}
	fmt.Fprintln(r.out, "Nothing happens.")
}

func (r *Room) PrintIntro() {
	fmt.Fprintln(r.out, r.intro)
}

func (r *Room) PrintDescription() {
	fmt.Fprintln(r.out, r.description)
	r.ListItems()
}

func (r *Room) ListItems() {
	var b strings.Builder
	b.WriteString("\nYou can see:\n")
	for _, it := range r.items {
		b.WriteString("  " + item.Describe(it) + "\n")
	}
	fmt.Fprint(r.out, b.String())
}

func (r *Room) PrintHelp() {
	fmt.Fprintln(r.out, "look prints the room description")
	fmt.Fprintln(r.out, "use <item> uses an item")
	fmt.Fprintln(r.out, "combine <item1> <item2> ... attempts to combine a list of items")
}

func (r *Room) PrintRoomPrompt() { r.rules.PrintRoomPrompt(r) }
func (r *Room) OnCommandAttempted(cmd string, claimed bool) { r.rules.OnCommandAttempted(r, cmd, claimed) }
func (r *Room) Escaped() bool { return r.rules.Escaped(r) }
func (r *Room) Failed() bool { return r.rules.Failed(r) }
func (r *Room) OnEscaped() { r.rules.OnEscaped(r) }
func (r *Room) OnFailed() { r.rules.OnFailed(r) }

func (r *Room) indexOf(it item.Item) int {
	for i, held := range r.items {
		if held.ID() == it.ID() {
			return i
		}
	}
	return -1
}

func (r *Room) register(it item.Item) {
	if r.registrar == nil {
		return
	}
	if h := it.Handler(); h != nil {
		r.registrar.AddHandler(h)
	}
}

func (r *Room) deregister(it item.Item) {
	if r.registrar == nil {
		return
	}
	if h := it.Handler(); h != nil {
		r.registrar.RemoveHandler(h)
	}
}

var (
	_ command.Handler = (*Room)(nil)
	_ item.Holder     = (*Room)(nil)
)
