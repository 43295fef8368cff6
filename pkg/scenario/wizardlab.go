package scenario

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jwebster45206/escape-room/pkg/item"
	"github.com/jwebster45206/escape-room/pkg/recipe"
	"github.com/jwebster45206/escape-room/pkg/room"
)

const (
	WizardLabName   = "wizard_lab"
	DefaultMaxTurns = 15

	chestPassword = "hocus pocus"
	goldKeyName   = "gold_key"
	wandName      = "wand_of_key_summoning"
)

const wizardLabIntro = `Welcome to the Wizard Laboratory!
You have just broken into your magic professor's laboratory
(without his knowledge!) in the early hours of the morning.
Unfortunately, the door magically seals itself behind you
and you estimate that you have a couple of hours to explore
and escape before he wakes up.  Get what you need and get out!`

const limerick = `The paper contains the following text:
There once was a wizard with focus
when facing a swarm of locusts
he said in a puff
I know just the stuff
and he chanted the spell ***** *****.`

var wizardLab = Scenario{
	Name:        WizardLabName,
	Description: "Escape your professor's laboratory before he wakes up.",
	Build:       buildWizardLab,
}

// WizardsLab are the rules of the wizard laboratory. Only commands that
// something understood use up a turn.
type WizardsLab struct {
	maxTurns int
	numTurns int
	logger   *slog.Logger
}

func NewWizardsLab(maxTurns int, logger *slog.Logger) *WizardsLab {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &WizardsLab{maxTurns: maxTurns, logger: logger}
}

func (w *WizardsLab) Turns() int { return w.numTurns }
func (w *WizardsLab) MaxTurns() int { return w.maxTurns }

func (w *WizardsLab) PrintRoomPrompt(r *room.Room) {
	fmt.Fprintf(r.Output(), "You have taken %d turns. You have %d turns left to escape.\n", w.numTurns, w.maxTurns-w.numTurns)
}

func (w *WizardsLab) OnCommandAttempted(_ *room.Room, cmd string, claimed bool) {
	if claimed {
		w.numTurns++
	}
	w.logger.Debug("Turn accounted", "command", cmd, "claimed", claimed, "turns", w.numTurns)
}

func (w *WizardsLab) Escaped(r *room.Room) bool {
	return r.GetItem(goldKeyName) != nil
}

func (w *WizardsLab) Failed(*room.Room) bool {
	return w.numTurns >= w.maxTurns
}

func (w *WizardsLab) OnEscaped(r *room.Room) {
	fmt.Fprintf(r.Output(), "Using the gold key, you open the magical door and escape to freedom! Congratulations, you have escaped in %d turns!\n", w.numTurns)
}

func (w *WizardsLab) OnFailed(r *room.Room) {
	fmt.Fprintln(r.Output(), "Oh no! Your professor has returned and now you are in big trouble!")
	fmt.Fprintln(r.Output(), "Game Over")
}

// Wand summons the gold key into whatever is holding it.
type Wand struct {
	item.Base
}

func NewWand() *Wand {
	return &Wand{Base: item.NewBase(wandName, "a magical wand that summons a key")}
}

func (w *Wand) Use() {
	out := w.Out()
	holder := w.Holder()
	if holder == nil {
		return
	}
	if err := holder.Add(item.NewPlain(goldKeyName, "key that is gold")); err != nil {
		fmt.Fprintln(out, "The wand sputters. Nothing else appears.")
		return
	}
	fmt.Fprintln(out, "Gold sparkles burst from the wand! A gold key appears. This appears to be the key to the door.")
}

func buildWizardLab(s Settings) (*room.Room, error) {
	var opts []room.Option
	if s.Output != nil {
		opts = append(opts, room.WithOutput(s.Output))
	}
	r := room.New("This is a wizards lab.", wizardLabIntro, NewWizardsLab(s.MaxTurns, s.Logger), opts...)

	r.AddRecipe(recipe.NewTransform(
		recipe.Unordered("runed_stick", "phoenix_feather", "sapphire", "unicorn_tears"),
		"You created a "+wandName+"!",
		func() item.Item { return NewWand() },
	))

	chest, err := item.NewLockedContainer("silver_chest", "a silver chest decorated with pictures of locusts.", chestPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to create chest: %w", err)
	}
	for _, it := range []item.Item{
		item.NewPlain("runed_stick", "a stick decorated with many magical runes"),
		item.NewPlain("phoenix_feather", "a feather that is warm to the touch"),
		item.NewPlain("sapphire", "a deep blue gemstone"),
		item.NewPlain("unicorn_tears", "a tiny vial of shimmering liquid"),
	} {
		if err := chest.Add(it); err != nil {
			return nil, fmt.Errorf("failed to fill chest: %w", err)
		}
	}

	for _, it := range []item.Item{
		chest,
		item.NewText("scrap_of_paper", "a scrap of paper with an unfinished limerick scrawled on it.", limerick),
	} {
		if err := r.Add(it); err != nil {
			return nil, fmt.Errorf("failed to furnish wizard lab: %w", err)
		}
	}
	return r, nil
}
