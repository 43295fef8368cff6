package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/escape-room/pkg/engine"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeGameStarted      EventType = "game.started"
	EventTypeCommandAttempted EventType = "command.attempted"
	EventTypeGameEnded        EventType = "game.ended"
)

// Event represents a generic event structure
type Event struct {
	Type   EventType      `json:"type"`
	GameID string         `json:"game_id"`
	Data   map[string]any `json:"data,omitempty"`
}

// Channel returns the pub/sub channel events for a game are published on.
func Channel(gameID uuid.UUID) string {
	return fmt.Sprintf("game-events:%s", gameID.String())
}

// NewClient connects to the Redis server at redisURL.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// Broadcaster publishes game events to Redis Pub/Sub.
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

var _ engine.Observer = (*Broadcaster)(nil)

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Ping checks that Redis is reachable.
func (b *Broadcaster) Ping(ctx context.Context) error {
	return b.redisClient.Ping(ctx).Err()
}

// GameStarted publishes a game.started event
func (b *Broadcaster) GameStarted(ctx context.Context, gameID uuid.UUID) error {
	return b.publishToGame(ctx, gameID, Event{
		Type:   EventTypeGameStarted,
		GameID: gameID.String(),
	})
}

// CommandAttempted publishes a command.attempted event
func (b *Broadcaster) CommandAttempted(ctx context.Context, gameID uuid.UUID, command string, claimed bool, turn int) error {
	return b.publishToGame(ctx, gameID, Event{
		Type:   EventTypeCommandAttempted,
		GameID: gameID.String(),
		Data: map[string]any{
			"command": command,
			"claimed": claimed,
			"turn":    turn,
		},
	})
}

// GameEnded publishes a game.ended event
func (b *Broadcaster) GameEnded(ctx context.Context, gameID uuid.UUID, outcome engine.Outcome, turns int) error {
	return b.publishToGame(ctx, gameID, Event{
		Type:   EventTypeGameEnded,
		GameID: gameID.String(),
		Data: map[string]any{
			"outcome": outcome.String(),
			"turns":   turns,
		},
	})
}

func (b *Broadcaster) publishToGame(ctx context.Context, gameID uuid.UUID, event Event) error {
	channel := Channel(gameID)

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
	)

	return nil
}
