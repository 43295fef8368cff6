package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/escape-room/pkg/command"
	"github.com/jwebster45206/escape-room/pkg/room"
)

// Outcome is where a game stands after a turn.
type Outcome int

const (
	OutcomePlaying Outcome = iota
	OutcomeEscaped
	OutcomeFailed
	OutcomeQuit
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlaying:
		return "playing"
	case OutcomeEscaped:
		return "escaped"
	case OutcomeFailed:
		return "failed"
	case OutcomeQuit:
		return "quit"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Engine runs one game: it owns the ordered handler chain, feeds it player
// input and checks the room's win and loss conditions after every turn.
// An Engine is not safe for concurrent use.
type Engine struct {
	id       uuid.UUID
	room     *room.Room
	handlers []command.Handler
	active   map[uuid.UUID]bool
	out      io.Writer
	logger   *slog.Logger
	observer Observer
	turns    int
	outcome  Outcome
}

type Option func(*Engine)

// WithOutput sets where engine messages go. Defaults to the room's output.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.out = w
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

func WithGameID(id uuid.UUID) Option {
	return func(e *Engine) {
		e.id = id
	}
}

// New creates an engine and attaches r to it, which registers the room and
// its items as handlers.
func New(r *room.Room, opts ...Option) *Engine {
	e := &Engine{
		id:     uuid.New(),
		room:   r,
		active: make(map[uuid.UUID]bool),
		out:    r.Output(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("game_id", e.id.String())
	r.AttachToEngine(e)
	return e
}

func (e *Engine) GameID() uuid.UUID { return e.id }
func (e *Engine) Room() *room.Room { return e.room }
func (e *Engine) Turns() int { return e.turns }
func (e *Engine) Outcome() Outcome { return e.outcome }

func (e *Engine) AddHandler(h command.Handler) {
	if e.active[h.ID()] {
		return
	}
	e.active[h.ID()] = true
	e.handlers = append(e.handlers, h)
	e.logger.Debug("Handler registered", "handler_id", h.ID().String())
}

func (e *Engine) RemoveHandler(h command.Handler) {
	if !e.active[h.ID()] {
		return
	}
	delete(e.active, h.ID())
	for i, held := range e.handlers {
		if held.ID() == h.ID() {
			e.handlers = append(e.handlers[:i], e.handlers[i+1:]...)
			break
		}
	}
	e.logger.Debug("Handler removed", "handler_id", h.ID().String())
}

// Handlers returns a copy of the chain in dispatch order.
func (e *Engine) Handlers() []command.Handler {
	return append([]command.Handler(nil), e.handlers...)
}

// Dispatch offers cmd to each handler in order until one claims it, then
// tells the room about the attempt.
func (e *Engine) Dispatch(cmd string) bool {
	claimed := false
	for _, h := range e.Handlers() {
		if h.Execute(cmd) {
			claimed = true
			break
		}
	}
	if !claimed {
		fmt.Fprintln(e.out, "I don't understand that.")
	}
	e.room.OnCommandAttempted(cmd, claimed)
	return claimed
}

// Start prints the intro and the opening view of the room.
func (e *Engine) Start(ctx context.Context) {
	e.room.PrintIntro()
	fmt.Fprintln(e.out)
	e.room.PrintDescription()
	fmt.Fprintln(e.out)
	e.room.PrintRoomPrompt()
	e.logger.Info("Game started")
	if e.observer != nil {
		e.report(e.observer.GameStarted(ctx, e.id))
	}
}

// Step plays one line of input. Blank lines, "help" and "quit" are handled
// by the engine and do not count as a move.
func (e *Engine) Step(ctx context.Context, line string) Outcome {
	if e.outcome != OutcomePlaying {
		return e.outcome
	}

	cmd := strings.TrimSpace(line)
	switch cmd {
	case "":
		return e.outcome
	case "help":
		e.printHelp()
		return e.outcome
	case "quit":
		fmt.Fprintln(e.out, "You give up and sit down to wait.")
		e.finish(ctx, OutcomeQuit)
		return e.outcome
	}

	claimed := e.Dispatch(cmd)
	e.turns++
	e.logger.Debug("Command dispatched", "command", cmd, "claimed", claimed, "turn", e.turns)
	if e.observer != nil {
		e.report(e.observer.CommandAttempted(ctx, e.id, cmd, claimed, e.turns))
	}

	fmt.Fprintln(e.out)
	switch {
	case e.room.Escaped():
		e.room.OnEscaped()
		e.finish(ctx, OutcomeEscaped)
	case e.room.Failed():
		e.room.OnFailed()
		e.finish(ctx, OutcomeFailed)
	default:
		e.room.PrintRoomPrompt()
	}
	return e.outcome
}

// Run plays until the game ends, input runs out or ctx is cancelled.
// Running out of input counts as quitting.
func (e *Engine) Run(ctx context.Context, in io.Reader) (Outcome, error) {
	e.Start(ctx)
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return e.outcome, err
		}
		fmt.Fprint(e.out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return e.outcome, fmt.Errorf("failed to read command: %w", err)
			}
			fmt.Fprintln(e.out)
			e.finish(ctx, OutcomeQuit)
			return e.outcome, nil
		}
		if outcome := e.Step(ctx, scanner.Text()); outcome != OutcomePlaying {
			return outcome, nil
		}
	}
}

func (e *Engine) printHelp() {
	fmt.Fprintln(e.out, "help shows this message")
	fmt.Fprintln(e.out, "quit ends the game")
	for _, h := range e.Handlers() {
		h.PrintHelp()
	}
}

func (e *Engine) finish(ctx context.Context, o Outcome) {
	e.outcome = o
	e.logger.Info("Game ended", "outcome", o.String(), "turns", e.turns)
	if e.observer != nil {
		e.report(e.observer.GameEnded(ctx, e.id, o, e.turns))
	}
}

func (e *Engine) report(err error) {
	if err != nil {
		e.logger.Warn("Observer failed", "error", err)
	}
}

var _ command.Registrar = (*Engine)(nil)
