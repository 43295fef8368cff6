package item

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	passwordCost = bcrypt.MinCost
}

// shelf is a minimal Holder standing in for a room.
type shelf struct {
	items  []Item
	out    bytes.Buffer
	refuse error
}

func (s *shelf) Add(it Item) error {
	if s.refuse != nil {
		return s.refuse
	}
	if s.GetItem(it.Name()) != nil {
		return ErrNameConflict
	}
	if h := it.Holder(); h != nil && h != Holder(s) {
		h.Remove(it)
	}
	s.items = append(s.items, it)
	it.SetHolder(s)
	return nil
}

func (s *shelf) Remove(it Item) bool {
	for i, held := range s.items {
		if held.ID() == it.ID() {
			s.items = append(s.items[:i], s.items[i+1:]...)
			it.SetHolder(nil)
			return true
		}
	}
	return false
}

func (s *shelf) GetItem(name string) Item {
	for _, it := range s.items {
		if it.Name() == name {
			return it
		}
	}
	return nil
}

func (s *shelf) Output() io.Writer { return &s.out }

func TestContainer_AddRejectsDuplicateNames(t *testing.T) {
	box := NewContainer("box", "a wooden box")
	require.NoError(t, box.Add(NewPlain("coin", "a coin")))

	err := box.Add(NewPlain("coin", "another coin"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNameConflict))
	assert.Len(t, box.Items(), 1)
}

func TestContainer_AddSetsHolder(t *testing.T) {
	box := NewContainer("box", "a wooden box")
	coin := NewPlain("coin", "a coin")
	require.NoError(t, box.Add(coin))
	assert.Equal(t, Holder(box), coin.Holder())

	assert.True(t, box.Remove(coin))
	assert.Nil(t, coin.Holder())
	assert.False(t, box.Remove(coin))
}

func TestContainer_ItemsIsSnapshot(t *testing.T) {
	box := NewContainer("box", "a wooden box")
	require.NoError(t, box.Add(NewPlain("coin", "a coin")))

	items := box.Items()
	items[0] = NewPlain("rock", "a rock")

	assert.Nil(t, box.GetItem("rock"))
	assert.NotNil(t, box.GetItem("coin"))
}

func TestContainer_Execute(t *testing.T) {
	tests := []struct {
		name        string
		command     string
		wantClaimed bool
		wantOutput  string
		wantOnShelf []string
	}{
		{
			name:        "open lists contents",
			command:     "open box",
			wantClaimed: true,
			wantOutput:  "The box contains:\n  coin: a coin\n  gem: a gem\n",
		},
		{
			name:        "look in lists contents",
			command:     "look in box",
			wantClaimed: true,
			wantOutput:  "The box contains:\n",
		},
		{
			name:        "open another container is ignored",
			command:     "open crate",
			wantClaimed: false,
		},
		{
			name:        "take from moves item",
			command:     "take coin from box",
			wantClaimed: true,
			wantOutput:  "You take the coin from the box.\n",
			wantOnShelf: []string{"coin"},
		},
		{
			name:        "take without from finds held item",
			command:     "take gem",
			wantClaimed: true,
			wantOnShelf: []string{"gem"},
		},
		{
			name:        "take unknown item without from is not claimed",
			command:     "take sword",
			wantClaimed: false,
		},
		{
			name:        "take missing item from box",
			command:     "take sword from box",
			wantClaimed: true,
			wantOutput:  "The box doesn't contain a sword.\n",
		},
		{
			name:        "take all",
			command:     "take all from box",
			wantClaimed: true,
			wantOnShelf: []string{"coin", "gem"},
		},
		{
			name:        "take nothing",
			command:     "take from box",
			wantClaimed: true,
			wantOutput:  "Take what from the box?\n",
		},
		{
			name:        "unrelated command",
			command:     "dance",
			wantClaimed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &shelf{}
			box := NewContainer("box", "a wooden box")
			require.NoError(t, box.Add(NewPlain("coin", "a coin")))
			require.NoError(t, box.Add(NewPlain("gem", "a gem")))
			require.NoError(t, s.Add(box))

			claimed := box.Execute(tt.command)
			assert.Equal(t, tt.wantClaimed, claimed)
			if tt.wantOutput != "" {
				assert.Contains(t, s.out.String(), tt.wantOutput)
			}
			for _, name := range tt.wantOnShelf {
				it := s.GetItem(name)
				require.NotNil(t, it, "expected %s on the shelf", name)
				assert.Nil(t, box.GetItem(name))
				assert.Equal(t, Holder(s), it.Holder())
			}
		})
	}
}

func TestContainer_TakeKeepsItemOnConflict(t *testing.T) {
	s := &shelf{}
	box := NewContainer("box", "a wooden box")
	require.NoError(t, box.Add(NewPlain("coin", "a gold coin")))
	require.NoError(t, s.Add(box))
	require.NoError(t, s.Add(NewPlain("coin", "a copper coin")))

	assert.True(t, box.Execute("take coin from box"))
	assert.Contains(t, s.out.String(), "There is already a coin here.")
	require.NotNil(t, box.GetItem("coin"))
	assert.Equal(t, "a gold coin", box.GetItem("coin").Description())
}

func TestContainer_TakeKeepsItemWhenRefused(t *testing.T) {
	s := &shelf{}
	box := NewContainer("box", "a wooden box")
	coin := NewPlain("coin", "a gold coin")
	require.NoError(t, box.Add(coin))
	require.NoError(t, s.Add(box))
	s.refuse = errors.New("shelf is full")

	assert.True(t, box.Execute("take coin from box"))
	assert.Contains(t, s.out.String(), "You can't take the coin.")
	assert.Same(t, coin, box.GetItem("coin"))
	assert.Equal(t, Holder(box), coin.Holder())
	assert.Nil(t, s.GetItem("coin"))
}

func TestContainer_AddTakesItemFromPreviousHolder(t *testing.T) {
	s := &shelf{}
	coin := NewPlain("coin", "a gold coin")
	require.NoError(t, s.Add(coin))

	box := NewContainer("box", "a wooden box")
	require.NoError(t, box.Add(coin))
	assert.Nil(t, s.GetItem("coin"))
	assert.Equal(t, Holder(box), coin.Holder())

	other := NewContainer("chest", "an iron chest")
	require.NoError(t, other.Add(coin))
	assert.Nil(t, box.GetItem("coin"))
	assert.Empty(t, box.Items())
	assert.Equal(t, Holder(other), coin.Holder())

	assert.False(t, box.Remove(coin))
	assert.Equal(t, Holder(other), coin.Holder())
}

func TestContainer_DetachedWritesNowhere(t *testing.T) {
	box := NewContainer("box", "a wooden box")
	assert.Equal(t, io.Discard, box.Output())
	assert.True(t, box.Execute("open box"))
}

func TestText_Use(t *testing.T) {
	s := &shelf{}
	note := NewText("note", "a folded note", "Meet me at midnight.")
	require.NoError(t, s.Add(note))

	note.Use()
	assert.Equal(t, "Meet me at midnight.\n", s.out.String())
}

func TestPlain_Use(t *testing.T) {
	s := &shelf{}
	rock := NewPlain("rock", "a rock")
	require.NoError(t, s.Add(rock))

	rock.Use()
	assert.Equal(t, "You can't think of a way to use the rock.\n", s.out.String())
	assert.Equal(t, "rock: a rock", Describe(rock))
}
