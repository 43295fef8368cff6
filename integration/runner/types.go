package runner

import (
	"time"

	"github.com/google/uuid"
)

// Special command values that trigger non-game actions
const (
	RestartCommand = "RESTART"
)

// TestSuite defines a scripted playthrough of a scenario.
// It can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name     string     `json:"name"`
	Scenario string     `json:"scenario,omitempty"`  // Used for regular tests
	MaxTurns int        `json:"max_turns,omitempty"` // Zero uses the scenario default
	Steps    []TestStep `json:"steps,omitempty"`     // Used for regular tests
	Cases    []string   `json:"cases,omitempty"`     // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep defines a single command and its expected outcomes.
// Use command: "RESTART" to rebuild the scenario from scratch.
type TestStep struct {
	Name         string       `json:"name,omitempty"`
	Command      string       `json:"command"`
	Expectations Expectations `json:"expect"`
}

// Expectations defines what to check after a step executes
type Expectations struct {
	// Game state
	Outcome   *string  `json:"outcome,omitempty"`    // playing, escaped, failed or quit
	Moves     *int     `json:"moves,omitempty"`      // Commands dispatched by the engine
	Turns     *int     `json:"turns,omitempty"`      // Turns counted by turn-limited rules
	Claimed   *bool    `json:"claimed,omitempty"`    // Whether a handler claimed the command
	RoomItems []string `json:"room_items,omitempty"` // Full room contents (order independent)
	RoomHas   []string `json:"room_has,omitempty"`
	RoomLacks []string `json:"room_lacks,omitempty"`

	// Output analysis
	OutputContains    []string `json:"output_contains,omitempty"`
	OutputNotContains []string `json:"output_not_contains,omitempty"`
	OutputRegex       string   `json:"output_regex,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	StepName   string
	Success    bool
	Error      error
	Duration   time.Duration
	OutputText string
	IsRestart  bool // True if this was a RESTART step
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	GameID   uuid.UUID // ID of the last game played for this suite
}
