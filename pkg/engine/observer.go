package engine

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Observer is told about the progress of a game. Errors are logged by the
// engine and never stop play.
type Observer interface {
	GameStarted(ctx context.Context, gameID uuid.UUID) error
	CommandAttempted(ctx context.Context, gameID uuid.UUID, command string, claimed bool, turn int) error
	GameEnded(ctx context.Context, gameID uuid.UUID, outcome Outcome, turns int) error
}

// Observers fans events out to several observers.
type Observers []Observer

func (obs Observers) GameStarted(ctx context.Context, gameID uuid.UUID) error {
	var errs []error
	for _, o := range obs {
		errs = append(errs, o.GameStarted(ctx, gameID))
	}
	return errors.Join(errs...)
}

func (obs Observers) CommandAttempted(ctx context.Context, gameID uuid.UUID, command string, claimed bool, turn int) error {
	var errs []error
	for _, o := range obs {
		errs = append(errs, o.CommandAttempted(ctx, gameID, command, claimed, turn))
	}
	return errors.Join(errs...)
}

func (obs Observers) GameEnded(ctx context.Context, gameID uuid.UUID, outcome Outcome, turns int) error {
	var errs []error
	for _, o := range obs {
		errs = append(errs, o.GameEnded(ctx, gameID, outcome, turns))
	}
	return errors.Join(errs...)
}
