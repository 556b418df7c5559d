package engine

import (
	"context"
	"errors"
	"sync"

	"table-reconciler/core/diff"
	"table-reconciler/core/keyed"
	"table-reconciler/core/oracle"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrClosed is returned by Render after the engine has been closed.
var ErrClosed = errors.New("engine: closed")

// Recorder receives the outcome of every committed render cycle.
// Implementations must not block the caller longer than necessary;
// the engine invokes them off the gate goroutine.
type Recorder interface {
	// Record is called after a cycle commits, with the cycle ID, the
	// newly committed state, and the script that was produced.
	Record(ctx context.Context, cycleID string, state keyed.TableState, script *diff.Script) error
}

type renderRequest struct {
	state keyed.TableState
	reply chan renderResult
}

type renderResult struct {
	script *diff.Script
	err    error
}

// Engine is the serialization gate of the reconciler. It owns the
// single "last committed" table state and processes render requests
// strictly one at a time, in FIFO submission order: the n-th submitted
// state is always diffed against the (n-1)-th committed one, never
// against a stale or concurrently mutating snapshot.
//
// Diff computation itself is pure; the gate exists so that commitment
// is atomic per cycle. A cycle that fails (duplicate key, missing
// comparator) aborts before commit and leaves the previous committed
// state intact. There are no retries and no cancellation of an
// in-flight cycle; a superseding request simply queues behind it.
type Engine struct {
	log      *zap.Logger
	oracles  *oracle.Registry
	recorder Recorder

	requests chan renderRequest
	done     chan struct{}

	closeOnce sync.Once

	mu        sync.RWMutex
	committed keyed.TableState
}

// New creates an engine with an empty committed state and starts its
// gate goroutine. recorder may be nil. Callers must Close the engine
// when done with it.
func New(cfg Config, oracles *oracle.Registry, log *zap.Logger, recorder Recorder) *Engine {
	e := &Engine{
		log:      log,
		oracles:  oracles,
		recorder: recorder,
		requests: make(chan renderRequest, cfg.queueSize()),
		done:     make(chan struct{}),
	}
	go e.run()
	return e
}

// Render submits the next table state and blocks until its cycle
// completes, returning the edit script that transforms the previously
// committed state into it. On success the submitted state becomes the
// committed state for the next cycle.
//
// A context cancellation while waiting abandons the wait but does not
// interrupt the cycle: once queued, the request still runs to
// commitment in submission order.
func (e *Engine) Render(ctx context.Context, next keyed.TableState) (*diff.Script, error) {
	req := renderRequest{state: next, reply: make(chan renderResult, 1)}

	select {
	case e.requests <- req:
	case <-e.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res.script, res.err
	case <-e.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Committed returns the last committed table state.
func (e *Engine) Committed() keyed.TableState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.committed
}

// Close stops the gate goroutine. Requests already queued but not yet
// processed are answered with ErrClosed.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		close(e.done)
	})
}

// run is the gate loop: one cycle at a time, FIFO.
func (e *Engine) run() {
	for {
		select {
		case req := <-e.requests:
			req.reply <- e.cycle(req.state)
		case <-e.done:
			return
		}
	}
}

// cycle diffs the submitted state against the committed one and, on
// success, commits it.
func (e *Engine) cycle(next keyed.TableState) renderResult {
	cycleID := uuid.NewString()
	l := e.log.With(zap.String("cycle_id", cycleID))

	e.mu.RLock()
	prev := e.committed
	e.mu.RUnlock()

	script, err := diff.Tables(prev, next, e.oracles)
	if err != nil {
		l.Warn("Render cycle aborted", zap.Error(err))
		return renderResult{err: err}
	}

	e.mu.Lock()
	e.committed = next
	e.mu.Unlock()

	l.Info("Render cycle committed",
		zap.Int("sections", len(next.Sections)),
		zap.Int("operations", script.Summary.Total()),
	)

	if e.recorder != nil {
		// Capture happens off the gate goroutine so storage latency
		// never serializes render cycles. Failures are logged, not
		// surfaced: capture is a debugging sink, not part of the
		// render contract.
		go func() {
			if err := e.recorder.Record(context.Background(), cycleID, next, script); err != nil {
				l.Warn("Cycle capture failed", zap.Error(err))
			}
		}()
	}

	return renderResult{script: script}
}
