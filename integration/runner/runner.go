package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/escape-room/pkg/engine"
	"github.com/jwebster45206/escape-room/pkg/item"
	"github.com/jwebster45206/escape-room/pkg/scenario"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner plays scripted test suites against an in-process engine
type Runner struct {
	Logger            func(format string, args ...any)
	ErrorHandlingMode ErrorHandlingMode
	ScenarioOverride  string // If set, overrides the scenario for all test cases
}

// NewRunner creates a new test runner
func NewRunner() *Runner {
	return &Runner{
		Logger:            func(string, ...any) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// game is one running scenario and everything a step needs to inspect it
type game struct {
	engine *engine.Engine
	out    *bytes.Buffer
	last   *lastCommand
}

// lastCommand records the most recent command the engine reported
type lastCommand struct {
	claimed bool
}

func (l *lastCommand) GameStarted(context.Context, uuid.UUID) error { return nil }

func (l *lastCommand) CommandAttempted(_ context.Context, _ uuid.UUID, _ string, claimed bool, _ int) error {
	l.claimed = claimed
	return nil
}

func (l *lastCommand) GameEnded(context.Context, uuid.UUID, engine.Outcome, int) error { return nil }

func (r *Runner) newGame(ctx context.Context, suite TestSuite) (*game, error) {
	name := suite.Scenario
	if r.ScenarioOverride != "" {
		name = r.ScenarioOverride
	}

	s, err := scenario.Get(name)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	rm, err := s.Build(scenario.Settings{MaxTurns: suite.MaxTurns, Output: &out})
	if err != nil {
		return nil, fmt.Errorf("failed to build scenario %s: %w", name, err)
	}

	last := &lastCommand{}
	e := engine.New(rm, engine.WithOutput(&out), engine.WithObserver(last))
	e.Start(ctx)
	return &game{engine: e, out: &out, last: last}, nil
}

// RunSuite executes a complete test suite
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	g, err := r.newGame(ctx, suite)
	if err != nil {
		result.Error = fmt.Errorf("failed to start game: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.GameID = g.engine.GameID()

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)

		var stepResult TestResult
		if step.Command == RestartCommand {
			stepResult, g = r.restart(ctx, suite, step)
			if g == nil {
				result.Results = append(result.Results, stepResult)
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
				break
			}
			result.GameID = g.engine.GameID()
		} else {
			stepResult = r.runStep(ctx, g, step)
		}
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

// restart throws the current game away and starts the scenario again.
// The returned game is nil if the scenario could not be rebuilt.
func (r *Runner) restart(ctx context.Context, suite TestSuite, step TestStep) (TestResult, *game) {
	start := time.Now()
	result := TestResult{StepName: step.Name, IsRestart: true}

	g, err := r.newGame(ctx, suite)
	if err != nil {
		result.Error = fmt.Errorf("failed to restart game: %w", err)
		result.Duration = time.Since(start)
		return result, nil
	}

	result.OutputText = g.out.String()
	if err := r.checkExpectations(step.Expectations, g); err != nil {
		result.Error = fmt.Errorf("restart expectation failed: %w", err)
	} else {
		result.Success = true
	}
	result.Duration = time.Since(start)
	return result, g
}

// runStep plays a single command and checks expectations
func (r *Runner) runStep(ctx context.Context, g *game, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{
		StepName: step.Name,
	}

	g.out.Reset()
	g.engine.Step(ctx, step.Command)
	result.OutputText = g.out.String()

	if err := r.checkExpectations(step.Expectations, g); err != nil {
		result.Error = fmt.Errorf("expectation failed: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}

type turnLimited interface {
	Turns() int
}

// checkExpectations validates the test expectations against the game after a step
func (r *Runner) checkExpectations(exp Expectations, g *game) error {
	e := g.engine
	outputText := g.out.String()

	if exp.Outcome != nil {
		if e.Outcome().String() != *exp.Outcome {
			return fmt.Errorf("expected outcome %s, got %s", *exp.Outcome, e.Outcome())
		}
	}

	if exp.Moves != nil {
		if e.Turns() != *exp.Moves {
			return fmt.Errorf("expected moves to be %d, got %d", *exp.Moves, e.Turns())
		}
	}

	if exp.Turns != nil {
		tl, ok := e.Room().Rules().(turnLimited)
		if !ok {
			return fmt.Errorf("rules %T do not count turns", e.Room().Rules())
		}
		if tl.Turns() != *exp.Turns {
			return fmt.Errorf("expected turns to be %d, got %d", *exp.Turns, tl.Turns())
		}
	}

	if exp.Claimed != nil {
		if g.last.claimed != *exp.Claimed {
			return fmt.Errorf("expected claimed to be %t, got %t", *exp.Claimed, g.last.claimed)
		}
	}

	actual := item.Names(e.Room().Items())

	// Full room check (order independent)
	if len(exp.RoomItems) > 0 {
		expected := make(map[string]bool)
		for _, name := range exp.RoomItems {
			expected[name] = true
		}

		present := make(map[string]bool)
		for _, name := range actual {
			present[name] = true
		}

		for name := range expected {
			if !present[name] {
				return fmt.Errorf("expected room to contain '%s', but it's missing. Actual room: %v", name, actual)
			}
		}
		for name := range present {
			if !expected[name] {
				return fmt.Errorf("room contains unexpected item '%s'. Expected room: %v, Actual: %v", name, exp.RoomItems, actual)
			}
		}
	}

	for _, name := range exp.RoomHas {
		if e.Room().GetItem(name) == nil {
			return fmt.Errorf("expected room to contain '%s'. Actual room: %v", name, actual)
		}
	}

	for _, name := range exp.RoomLacks {
		if e.Room().GetItem(name) != nil {
			return fmt.Errorf("expected room to NOT contain '%s'", name)
		}
	}

	for _, expectedText := range exp.OutputContains {
		if !strings.Contains(outputText, expectedText) {
			return fmt.Errorf("expected output to contain '%s', got: %q", expectedText, outputText)
		}
	}

	for _, unexpectedText := range exp.OutputNotContains {
		if strings.Contains(outputText, unexpectedText) {
			return fmt.Errorf("expected output to NOT contain '%s', but it did", unexpectedText)
		}
	}

	if exp.OutputRegex != "" {
		matched, err := regexp.MatchString(exp.OutputRegex, outputText)
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		if !matched {
			return fmt.Errorf("output didn't match regex pattern: %s", exp.OutputRegex)
		}
	}

	return nil
}
