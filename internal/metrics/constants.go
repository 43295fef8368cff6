package metrics

// Metric names
const (
	MetricNameGamesStarted      = "escape_games_started_total"
	MetricNameCommandsAttempted = "escape_commands_attempted_total"
	MetricNameGamesEnded        = "escape_games_ended_total"
	MetricNameTurnsPerGame      = "escape_turns_per_game"
)

// Help text
const (
	HelpTextGamesStarted      = "Total number of games started"
	HelpTextCommandsAttempted = "Total number of player commands, by whether a handler claimed them"
	HelpTextGamesEnded        = "Total number of games ended, by outcome"
	HelpTextTurnsPerGame      = "Turns taken by the time a game ended"
)

// Labels
const (
	LabelClaimed = "claimed"
	LabelOutcome = "outcome"
)

// TurnBuckets cover short puzzles up to the configurable turn limit.
var TurnBuckets = []float64{1, 5, 10, 15, 25, 50, 100, 250, 1000}
