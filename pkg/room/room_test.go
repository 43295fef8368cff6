package room

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/escape-room/pkg/command"
	"github.com/jwebster45206/escape-room/pkg/item"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registry records handler registration in order.
type registry struct {
	handlers []command.Handler
}

func (g *registry) AddHandler(h command.Handler) {
	for _, held := range g.handlers {
		if held.ID() == h.ID() {
			return
		}
	}
	g.handlers = append(g.handlers, h)
}

func (g *registry) RemoveHandler(h command.Handler) {
	for i, held := range g.handlers {
		if held.ID() == h.ID() {
			g.handlers = append(g.handlers[:i], g.handlers[i+1:]...)
			return
		}
	}
}

func (g *registry) has(h command.Handler) bool {
	for _, held := range g.handlers {
		if held.ID() == h.ID() {
			return true
		}
	}
	return false
}

type noRules struct{}

func (noRules) PrintRoomPrompt(*Room) {}
func (noRules) OnCommandAttempted(*Room, string, bool) {}
func (noRules) Escaped(*Room) bool { return false }
func (noRules) Failed(*Room) bool { return false }
func (noRules) OnEscaped(*Room) {}
func (noRules) OnFailed(*Room) {}

type grumpyRules struct {
	noRules
	failed [][]string
}

func (g *grumpyRules) OnCombineFailed(r *Room, items []item.Item) {
	g.failed = append(g.failed, item.Names(items))
	fmt.Fprintln(r.Output(), "The items refuse to cooperate.")
}

// lever is an item with a command of its own.
type lever struct {
	item.Base
	pulled bool
}

func newLever() *lever {
	return &lever{Base: item.NewBase("lever", "a rusty lever")}
}

func (l *lever) Use() { l.pulled = true }
func (l *lever) Handler() command.Handler { return l }
func (l *lever) Execute(cmd string) bool { return cmd == "pull lever" }
func (l *lever) PrintHelp() {}

// stubRecipe matches a fixed name set and records when it fires.
type stubRecipe struct {
	names []string
	fired int
}

func (s *stubRecipe) Matches(items []item.Item) bool {
	return fmt.Sprint(item.Names(items)) == fmt.Sprint(s.names)
}

func (s *stubRecipe) CombineInRoom(*Room) { s.fired++ }

func newTestRoom(opts ...Option) (*Room, *bytes.Buffer) {
	var out bytes.Buffer
	opts = append([]Option{WithOutput(&out)}, opts...)
	return New("A plain stone cell.", "You wake up.", noRules{}, opts...), &out
}

func TestRoom_AddRejectsDuplicateName(t *testing.T) {
	r, _ := newTestRoom()
	require.NoError(t, r.Add(item.NewPlain("rock", "a rock")))

	err := r.Add(item.NewPlain("rock", "another rock"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNameConflict))
	assert.Len(t, r.Items(), 1)
	assert.Equal(t, "a rock", r.GetItem("rock").Description())
}

func TestRoom_AddAndRemoveMaintainBackReference(t *testing.T) {
	r, _ := newTestRoom()
	rock := item.NewPlain("rock", "a rock")

	require.NoError(t, r.Add(rock))
	assert.Equal(t, item.Holder(r), rock.Holder())

	assert.True(t, r.Remove(rock))
	assert.Nil(t, rock.Holder())
	assert.Nil(t, r.GetItem("rock"))
	assert.False(t, r.Remove(rock))
}

func TestRoom_AddTakesItemFromPreviousHolder(t *testing.T) {
	r, _ := newTestRoom()
	other, _ := newTestRoom()
	box := item.NewContainer("box", "a wooden box")
	gem := item.NewPlain("gem", "a gem")
	require.NoError(t, box.Add(gem))

	require.NoError(t, r.Add(gem))
	assert.Nil(t, box.GetItem("gem"))
	assert.Empty(t, box.Items())
	assert.Equal(t, item.Holder(r), gem.Holder())

	require.NoError(t, other.Add(gem))
	assert.Nil(t, r.GetItem("gem"))
	assert.Equal(t, item.Holder(other), gem.Holder())

	assert.False(t, r.Remove(gem))
	assert.Equal(t, item.Holder(other), gem.Holder())
	assert.Same(t, gem, other.GetItem("gem"))
}

func TestRoom_AddMovesHandlerBetweenEngines(t *testing.T) {
	firstReg := &registry{}
	secondReg := &registry{}
	first, _ := newTestRoom()
	second, _ := newTestRoom()
	first.AttachToEngine(firstReg)
	second.AttachToEngine(secondReg)

	lv := newLever()
	require.NoError(t, first.Add(lv))
	require.True(t, firstReg.has(lv))

	require.NoError(t, second.Add(lv))
	assert.False(t, firstReg.has(lv))
	assert.True(t, secondReg.has(lv))
}

func TestRoom_SwapTakesProductFromPreviousHolder(t *testing.T) {
	r, _ := newTestRoom()
	other, _ := newTestRoom()
	rock := item.NewPlain("rock", "a rock")
	gem := item.NewPlain("gem", "a gem")
	require.NoError(t, r.Add(rock))
	require.NoError(t, other.Add(gem))

	require.NoError(t, r.Swap([]item.Item{rock}, []item.Item{gem}))
	assert.Nil(t, other.GetItem("gem"))
	assert.Same(t, gem, r.GetItem("gem"))
	assert.Equal(t, item.Holder(r), gem.Holder())
}

func TestRoom_SwapRejectsConsumingAnItemTwice(t *testing.T) {
	r, _ := newTestRoom()
	egg := item.NewPlain("egg", "an egg")
	require.NoError(t, r.Add(egg))

	err := r.Swap([]item.Item{egg, egg}, []item.Item{item.NewPlain("omelette", "an omelette")})
	require.Error(t, err)
	assert.Equal(t, []string{"egg"}, item.Names(r.Items()))
	assert.Equal(t, item.Holder(r), egg.Holder())
}

func TestRoom_SnapshotsAreIndependent(t *testing.T) {
	r, _ := newTestRoom()
	require.NoError(t, r.Add(item.NewPlain("rock", "a rock")))
	r.AddRecipe(&stubRecipe{})

	items := r.Items()
	items[0] = item.NewPlain("gem", "a gem")
	recipes := r.Recipes()
	recipes[0] = nil

	assert.NotNil(t, r.GetItem("rock"))
	assert.Nil(t, r.GetItem("gem"))
	assert.NotNil(t, r.Recipes()[0])
}

func TestRoom_HandlerRegistrationFollowsContainment(t *testing.T) {
	reg := &registry{}
	r, _ := newTestRoom()
	lv := newLever()
	rock := item.NewPlain("rock", "a rock")

	// Added before attachment: registered on attach.
	require.NoError(t, r.Add(lv))
	require.NoError(t, r.Add(rock))
	assert.Empty(t, reg.handlers)

	r.AttachToEngine(reg)
	require.Len(t, reg.handlers, 2)
	assert.Equal(t, r.ID(), reg.handlers[0].ID())
	assert.Equal(t, lv.ID(), reg.handlers[1].ID())

	// Attaching twice does not duplicate.
	r.AttachToEngine(reg)
	assert.Len(t, reg.handlers, 2)

	assert.True(t, r.Remove(lv))
	assert.False(t, reg.has(lv))

	require.NoError(t, r.Add(lv))
	assert.True(t, reg.has(lv))
}

func TestRoom_AttachToEngineMovesHandlers(t *testing.T) {
	first := &registry{}
	second := &registry{}
	r, _ := newTestRoom()
	lv := newLever()
	require.NoError(t, r.Add(lv))

	r.AttachToEngine(first)
	r.AttachToEngine(second)

	assert.Empty(t, first.handlers)
	require.Len(t, second.handlers, 2)
	assert.True(t, second.has(r))
	assert.True(t, second.has(lv))
	assert.Equal(t, command.Registrar(second), r.Registrar())
}

func TestRoom_Swap(t *testing.T) {
	reg := &registry{}
	r, _ := newTestRoom()
	r.AttachToEngine(reg)
	a := item.NewPlain("a", "first")
	b := item.NewPlain("b", "second")
	require.NoError(t, r.Add(a))
	require.NoError(t, r.Add(b))

	t.Run("conflict leaves room untouched", func(t *testing.T) {
		err := r.Swap([]item.Item{a}, []item.Item{item.NewPlain("b", "clash")})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNameConflict))
		assert.Equal(t, []string{"a", "b"}, item.Names(r.Items()))
		assert.Equal(t, item.Holder(r), a.Holder())
	})

	t.Run("missing input leaves room untouched", func(t *testing.T) {
		err := r.Swap([]item.Item{item.NewPlain("ghost", "not here")}, []item.Item{item.NewPlain("c", "third")})
		require.Error(t, err)
		assert.Equal(t, []string{"a", "b"}, item.Names(r.Items()))
	})

	t.Run("replaces items and registers handlers", func(t *testing.T) {
		lv := newLever()
		require.NoError(t, r.Swap([]item.Item{a, b}, []item.Item{lv}))
		assert.Equal(t, []string{"lever"}, item.Names(r.Items()))
		assert.Nil(t, a.Holder())
		assert.Nil(t, b.Holder())
		assert.True(t, reg.has(lv))
	})

	t.Run("product may reuse a consumed name", func(t *testing.T) {
		old := r.GetItem("lever")
		require.NoError(t, r.Swap([]item.Item{old}, []item.Item{item.NewPlain("lever", "a broken lever")}))
		assert.Equal(t, "a broken lever", r.GetItem("lever").Description())
		assert.False(t, reg.has(old.Handler()))
	})
}

func TestRoom_CombineFirstMatchWins(t *testing.T) {
	r, out := newTestRoom()
	first := &stubRecipe{names: []string{"a", "b"}}
	second := &stubRecipe{names: []string{"a", "b"}}
	r.AddRecipe(first)
	r.AddRecipe(second)
	a := item.NewPlain("a", "first")
	b := item.NewPlain("b", "second")

	r.Combine([]item.Item{a, b})
	assert.Equal(t, 1, first.fired)
	assert.Equal(t, 0, second.fired)
	assert.Empty(t, out.String())

	r.Combine([]item.Item{b, a})
	assert.Equal(t, "Nothing happens.\n", out.String())
}

func TestRoom_CombineFailedHook(t *testing.T) {
	var out bytes.Buffer
	rules := &grumpyRules{}
	r := New("cell", "intro", rules, WithOutput(&out))

	r.Combine([]item.Item{item.NewPlain("a", "x"), item.NewPlain("b", "y")})
	assert.Equal(t, [][]string{{"a", "b"}}, rules.failed)
	assert.Equal(t, "The items refuse to cooperate.\n", out.String())
}

func TestRoom_RemoveRecipe(t *testing.T) {
	r, _ := newTestRoom()
	rc := &stubRecipe{}
	r.AddRecipe(rc)
	assert.True(t, r.RemoveRecipe(rc))
	assert.False(t, r.RemoveRecipe(rc))
	assert.Empty(t, r.Recipes())
}

func TestRoom_IDsAreUnique(t *testing.T) {
	a, _ := newTestRoom()
	b, _ := newTestRoom()
	assert.NotEqual(t, uuid.Nil, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}
