package item

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/escape-room/pkg/command"
	"golang.org/x/crypto/bcrypt"
)

var passwordCost = bcrypt.DefaultCost

// LockedContainer is a Container that stays shut until the player says the
// right password. Only the bcrypt hash of the password is kept.
type LockedContainer struct {
	Container
	hash   []byte
	locked bool
}

func NewLockedContainer(name, description, password string) (*LockedContainer, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(normalizePassword(password)), passwordCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password for %s: %w", name, err)
	}
	return &LockedContainer{
		Container: Container{Base: NewBase(name, description)},
		hash:      hash,
		locked:    true,
	}, nil
}

func (l *LockedContainer) Handler() command.Handler { return l }

func (l *LockedContainer) Locked() bool { return l.locked }

// Unlock opens the container if the password matches. Extra whitespace
// between words is ignored.
func (l *LockedContainer) Unlock(password string) bool {
	if bcrypt.CompareHashAndPassword(l.hash, []byte(normalizePassword(password))) != nil {
		return false
	}
	l.locked = false
	return true
}

func (l *LockedContainer) Lock() { l.locked = true }

func (l *LockedContainer) Use() {
	if l.locked {
		l.printLocked()
		return
	}
	l.listContents()
}

func (l *LockedContainer) Execute(cmd string) bool {
	w := l.Out()
	verb, rest := command.Split(cmd)
	switch verb {
	case "unlock":
		target, password := command.Split(rest)
		if target != l.Name() {
			return false
		}
		switch {
		case !l.locked:
			fmt.Fprintf(w, "The %s is already unlocked.\n", l.Name())
		case password == "":
			fmt.Fprintf(w, "The %s is sealed with a password. Try: unlock %s <password>\n", l.Name(), l.Name())
		case l.Unlock(password):
			fmt.Fprintf(w, "The %s clicks open.\n", l.Name())
		default:
			fmt.Fprintf(w, "The %s remains locked.\n", l.Name())
		}
		return true
	case "lock":
		if rest != l.Name() {
			return false
		}
		l.Lock()
		fmt.Fprintf(w, "You lock the %s.\n", l.Name())
		return true
	}

	if l.locked {
		if act, _ := l.match(cmd); act != accessNone {
			l.printLocked()
			return true
		}
		return false
	}
	return l.Container.Execute(cmd)
}

func (l *LockedContainer) PrintHelp() {
	w := l.Out()
	fmt.Fprintf(w, "unlock %s <password> opens the lock\n", l.Name())
	fmt.Fprintf(w, "lock %s locks it again\n", l.Name())
	l.Container.PrintHelp()
}

func (l *LockedContainer) printLocked() {
	fmt.Fprintf(l.Out(), "The %s is locked. It seems to need a password.\n", l.Name())
}

func normalizePassword(password string) string {
	return strings.Join(strings.Fields(password), " ")
}
