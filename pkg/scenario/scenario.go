package scenario

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jwebster45206/escape-room/pkg/room"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrUnknownScenario = errors.New("unknown scenario")

// Settings are the knobs a scenario is built with.
type Settings struct {
	MaxTurns int
	Output   io.Writer
	Logger   *slog.Logger
}

// Scenario is the playable content for one game: a room with its items,
// recipes and rules.
type Scenario struct {
	Name        string
	Description string
	Build       func(s Settings) (*room.Room, error)
}

// Title is the scenario name made presentable, e.g. "wizard_lab" becomes
// "Wizard Lab".
func (s Scenario) Title() string {
	return cases.Title(language.English).String(strings.ReplaceAll(s.Name, "_", " "))
}

var catalogue = []Scenario{
	wizardLab,
}

// All returns every scenario in catalogue order.
func All() []Scenario {
	return append([]Scenario(nil), catalogue...)
}

// Names returns the name of every scenario in catalogue order.
func Names() []string {
	names := make([]string, 0, len(catalogue))
	for _, s := range catalogue {
		names = append(names, s.Name)
	}
	return names
}

// Get looks up a scenario by name.
func Get(name string) (Scenario, error) {
	for _, s := range catalogue {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScenario, name, strings.Join(Names(), ", "))
}
