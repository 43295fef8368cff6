package command

import (
	"strings"

	"github.com/google/uuid"
)

// Handler is anything that can claim a line of player input.
// Execute returns true when the command was recognized and fully processed,
// which stops the rest of the chain from seeing it.
type Handler interface {
	ID() uuid.UUID
	Execute(command string) bool
	PrintHelp()
}

// Registrar keeps the ordered set of active handlers.
// Adding a handler that is already registered, or removing one that is not,
// is a no-op.
type Registrar interface {
	AddHandler(h Handler)
	RemoveHandler(h Handler)
}

// Split returns the verb and the trimmed remainder of a command line.
func Split(command string) (verb, rest string) {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return "", ""
	}
	idx := strings.IndexAny(trimmed, " \t")
	if idx < 0 {
		return trimmed, ""
	}
	return trimmed[:idx], strings.TrimSpace(trimmed[idx+1:])
}
