package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"table-reconciler/core/applier"
	"table-reconciler/core/diff"
	"table-reconciler/core/keyed"
	"table-reconciler/core/oracle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, recorder Recorder) *Engine {
	t.Helper()
	reg := oracle.NewRegistry()
	reg.RegisterDeepEqual("")
	e := New(Config{}, reg, zap.NewNop(), recorder)
	t.Cleanup(e.Close)
	return e
}

func state(sections ...keyed.Section) keyed.TableState {
	return keyed.TableState{Sections: sections}
}

// TestEngine_CommitChain tests that each render diffs against the state
// committed by the previous one.
func TestEngine_CommitChain(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	first := state(keyed.Section{Key: "s1", Payload: "h", Rows: []keyed.Item{{Key: "r1", Payload: "v"}}})
	script, err := e.Render(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, diff.Summary{SectionInserts: 1}, script.Summary)
	assert.Equal(t, first, e.Committed())

	second := state(keyed.Section{Key: "s1", Payload: "h", Rows: []keyed.Item{{Key: "r1", Payload: "v2"}}})
	script, err = e.Render(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, diff.Summary{RowUpdates: 1}, script.Summary)
	assert.Equal(t, second, e.Committed())
}

// TestEngine_FailedCycleKeepsCommitted tests that an invalid submission
// aborts without touching the committed state.
func TestEngine_FailedCycleKeepsCommitted(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	good := state(keyed.Section{Key: "s1"})
	_, err := e.Render(ctx, good)
	require.NoError(t, err)

	bad := state(keyed.Section{Key: "s2"}, keyed.Section{Key: "s2"})
	script, err := e.Render(ctx, bad)
	assert.Nil(t, script)
	assert.ErrorIs(t, err, keyed.ErrDuplicateKey)
	assert.Equal(t, good, e.Committed())

	// The next cycle still diffs against the last good state.
	script, err = e.Render(ctx, good)
	require.NoError(t, err)
	assert.True(t, script.Empty())
}

// TestEngine_SequentialScripts tests that replaying every returned
// script in submission order reconstructs every intermediate state.
func TestEngine_SequentialScripts(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	states := []keyed.TableState{
		state(keyed.Section{Key: "a", Rows: []keyed.Item{{Key: "r1", Payload: "1"}}}),
		state(
			keyed.Section{Key: "b", Rows: []keyed.Item{{Key: "r1", Payload: "1"}}},
			keyed.Section{Key: "a"},
		),
		state(keyed.Section{Key: "b", Rows: []keyed.Item{{Key: "r2", Payload: "2"}, {Key: "r1", Payload: "9"}}}),
		{},
	}

	model := applier.NewModel(keyed.TableState{})
	for _, next := range states {
		script, err := e.Render(ctx, next)
		require.NoError(t, err)
		require.NoError(t, model.Apply(script, next))
		assert.Equal(t, next, model.State())
	}
}

// TestEngine_ConcurrentRenders tests that concurrent submissions are
// serialized: no race, and the final committed state is one of the
// submitted ones.
func TestEngine_ConcurrentRenders(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	submitted := make([]keyed.TableState, 8)
	for i := range submitted {
		submitted[i] = state(keyed.Section{Key: keyed.Key(fmt.Sprintf("s%d", i))})
	}

	var wg sync.WaitGroup
	for _, s := range submitted {
		wg.Add(1)
		go func(s keyed.TableState) {
			defer wg.Done()
			_, err := e.Render(ctx, s)
			assert.NoError(t, err)
		}(s)
	}
	wg.Wait()

	assert.Contains(t, submitted, e.Committed())
}

// TestEngine_Closed tests that Render refuses after Close.
func TestEngine_Closed(t *testing.T) {
	reg := oracle.NewRegistry()
	e := New(Config{}, reg, zap.NewNop(), nil)
	e.Close()
	e.Close() // idempotent

	_, err := e.Render(context.Background(), keyed.TableState{})
	assert.ErrorIs(t, err, ErrClosed)
}

// TestEngine_ContextCancelled tests that a cancelled context abandons
// the wait with the context's error.
func TestEngine_ContextCancelled(t *testing.T) {
	e := newTestEngine(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Render(ctx, state(keyed.Section{Key: "s1"}))
	assert.ErrorIs(t, err, context.Canceled)
}

type capturedCycle struct {
	cycleID string
	state   keyed.TableState
	script  *diff.Script
}

type stubRecorder struct {
	mu     sync.Mutex
	cycles []capturedCycle
	notify chan struct{}
}

func (r *stubRecorder) Record(_ context.Context, cycleID string, state keyed.TableState, script *diff.Script) error {
	r.mu.Lock()
	r.cycles = append(r.cycles, capturedCycle{cycleID: cycleID, state: state, script: script})
	r.mu.Unlock()
	r.notify <- struct{}{}
	return nil
}

// TestEngine_RecorderInvoked tests that committed cycles reach the
// recorder with their cycle ID, state, and script, and that aborted
// cycles do not.
func TestEngine_RecorderInvoked(t *testing.T) {
	rec := &stubRecorder{notify: make(chan struct{}, 4)}
	e := newTestEngine(t, rec)
	ctx := context.Background()

	good := state(keyed.Section{Key: "s1"})
	script, err := e.Render(ctx, good)
	require.NoError(t, err)

	bad := state(keyed.Section{Key: "x"}, keyed.Section{Key: "x"})
	_, err = e.Render(ctx, bad)
	require.Error(t, err)

	select {
	case <-rec.notify:
	case <-time.After(time.Second):
		t.Fatal("recorder was not invoked")
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.cycles, 1)
	assert.NotEmpty(t, rec.cycles[0].cycleID)
	assert.Equal(t, good, rec.cycles[0].state)
	assert.Equal(t, script, rec.cycles[0].script)
}

// TestConfig_QueueSize tests the queue size floor.
func TestConfig_QueueSize(t *testing.T) {
	assert.Equal(t, 16, Config{}.queueSize())
	assert.Equal(t, 16, Config{QueueSize: -1}.queueSize())
	assert.Equal(t, 4, Config{QueueSize: 4}.queueSize())
}
