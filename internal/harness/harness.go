package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/hush/internal/blocklist"
	"github.com/roach88/hush/internal/eventlog"
	"github.com/roach88/hush/internal/screen"
	"github.com/roach88/hush/internal/store"
	"github.com/roach88/hush/internal/syncstate"
	"github.com/roach88/hush/internal/testutil"
)

// Harness wires a fresh store, engine and tracker for one scenario.
type Harness struct {
	store    *store.Store
	engine   *screen.Engine
	tracker  *syncstate.Tracker
	notifier *testutil.RecordingNotifier
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database. Setup failures are
// returned as errors; flow and assertion failures are recorded in the result.
func Run(scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := &testutil.RecordingNotifier{}
	ids := testutil.NewSequenceIDs("evt")

	st, err := store.Open(":memory:",
		store.WithClock(testutil.NewStepClock()),
		store.WithIDGenerator(ids.Next),
		store.WithNotifier(notifier),
		store.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:    st,
		engine:   screen.New(st, eventlog.New(st, logger, nil), screen.WithLogger(logger)),
		tracker:  syncstate.New(st, logger),
		notifier: notifier,
	}

	ctx := context.Background()
	result := NewResult()

	for i, step := range scenario.Setup {
		if _, err := h.execute(ctx, step); err != nil {
			return nil, fmt.Errorf("setup[%d] %s %s: %w", i, step.Op, step.Number, err)
		}
	}

	for i, step := range scenario.Flow {
		outcome, err := h.execute(ctx, step)
		traced := outcome
		if err != nil {
			traced = "error:" + string(blocklist.CodeOf(err))
		}
		result.AddTrace(step.Op, step.Number, traced)
		checkExpect(result, i, step, outcome, err)
	}

	for _, msg := range h.evaluate(ctx, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// execute runs one step and returns its outcome label.
func (h *Harness) execute(ctx context.Context, step Step) (string, error) {
	switch step.Op {
	case OpAdd:
		if _, err := h.store.Upsert(ctx, step.Number, step.Name); err != nil {
			return "", err
		}
		return "ok", nil

	case OpRemove:
		removed, err := h.store.Remove(ctx, step.Number)
		if err != nil {
			return "", err
		}
		if removed {
			return "removed", nil
		}
		return "absent", nil

	case OpMarkSynced:
		return appliedOutcome(h.tracker.MarkSynced(ctx, step.Number, step.RemoteID))

	case OpMarkConflict:
		return appliedOutcome(h.tracker.MarkConflict(ctx, step.Number))

	case OpDecide:
		return h.engine.Decide(ctx, step.Number).String(), nil

	case OpScreenCall:
		if h.engine.ScreenCall(ctx, step.Number).Block {
			return screen.Block.String(), nil
		}
		return screen.Allow.String(), nil

	case OpScreenSMS:
		if h.engine.ScreenMessage(ctx, step.Number, step.Body).Abort {
			return screen.Block.String(), nil
		}
		return screen.Allow.String(), nil
	}

	return "", fmt.Errorf("unknown op %q", step.Op)
}

func appliedOutcome(applied bool, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if applied {
		return "applied", nil
	}
	return "ignored", nil
}

// checkExpect compares a flow step's outcome against its expect clause.
// A step without an expect clause must not fail.
func checkExpect(result *Result, index int, step Step, outcome string, err error) {
	exp := step.Expect
	if exp == nil {
		if err != nil {
			result.AddError(fmt.Sprintf("flow[%d] %s %s: unexpected error: %v", index, step.Op, step.Number, err))
		}
		return
	}

	if exp.Error != "" {
		got := ""
		if err != nil {
			got = string(blocklist.CodeOf(err))
		}
		if got != exp.Error {
			result.AddError(fmt.Sprintf("flow[%d] %s %s: expected error %s, got %q", index, step.Op, step.Number, exp.Error, got))
		}
		return
	}

	if err != nil {
		result.AddError(fmt.Sprintf("flow[%d] %s %s: unexpected error: %v", index, step.Op, step.Number, err))
		return
	}

	want := exp.Outcome
	if want == "" {
		want = exp.Decision
	}
	if want != "" && outcome != want {
		result.AddError(fmt.Sprintf("flow[%d] %s %s: expected %s, got %s", index, step.Op, step.Number, want, outcome))
	}
}
