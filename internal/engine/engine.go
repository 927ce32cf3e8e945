// Package engine dispatches utterance resolution across a fixed-size worker
// pool. One engine instance serves one authenticated session; submission is
// fire-and-forget and results come back through the display sink.
package engine

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/catalog"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/domain"
	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/resolver"
)

// ErrEngineClosed is returned by Submit after Shutdown has started.
var ErrEngineClosed = errors.New("engine closed")

// DefaultWorkers sizes the pool for the expected number of simultaneously
// active conversations.
const DefaultWorkers = 10

// Sink receives resolved chat lines. Implementations must serialize delivery
// themselves; the engine calls Deliver from worker goroutines.
type Sink interface {
	Deliver(text string, role domain.Role)
}

// Recorder persists one completed exchange, best-effort.
type Recorder interface {
	Record(ctx context.Context, userID int64, utterance, response string)
}

// Notifier triggers a fire-and-forget audio/visual cue after a delivery.
type Notifier interface {
	Notify(userID int64)
}

// Gate inspects an utterance before resolution. A returned override response
// bypasses the resolver (policy handoff or block).
type Gate func(ctx context.Context, text string, userID int64) (string, bool)

// Options configures an Engine.
type Options struct {
	User     *domain.User
	Workers  int
	Catalog  *catalog.Catalog
	FAQ      resolver.FAQLookup
	Sink     Sink
	Recorder Recorder
	Notifier Notifier
	Gate     Gate
}

// Engine owns the worker pool and the one-turn conversation context for a
// single session.
type Engine struct {
	opts Options

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []string
	closed bool
	conv   resolver.Context

	workers sync.WaitGroup
	pending sync.WaitGroup
}

// New creates and starts an engine.
func New(opts Options) *Engine {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	e := &Engine{opts: opts}
	e.cond = sync.NewCond(&e.mu)

	e.workers.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go e.worker()
	}
	return e
}

// Submit enqueues one utterance for asynchronous resolution. It never blocks:
// the internal queue is unbounded, an accepted tradeoff so callers are never
// backpressured. Returns ErrEngineClosed once shutdown has started.
func (e *Engine) Submit(utterance string) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	e.pending.Add(1)
	e.queue = append(e.queue, utterance)
	e.mu.Unlock()
	e.cond.Signal()
	return nil
}

// Context returns the current one-turn conversation context.
func (e *Engine) Context() resolver.Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conv
}

// Shutdown drains the engine: new submissions are rejected and queued plus
// in-flight tasks are waited for, or abandoned when ctx expires.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.cond.Broadcast()

	done := make(chan struct{})
	go func() {
		e.pending.Wait()
		e.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) worker() {
	defer e.workers.Done()
	for {
		e.mu.Lock()
		for len(e.queue) == 0 && !e.closed {
			e.cond.Wait()
		}
		if len(e.queue) == 0 {
			// Closed and drained.
			e.mu.Unlock()
			return
		}
		utterance := e.queue[0]
		e.queue = e.queue[1:]
		conv := e.conv
		e.mu.Unlock()

		e.process(utterance, conv)
		e.pending.Done()
	}
}

// process resolves one utterance and performs the delivery, context-update
// and recording side effects. Blocking store calls are confined to the
// worker goroutine.
func (e *Engine) process(utterance string, conv resolver.Context) {
	ctx := context.Background()

	var userID int64
	if e.opts.User != nil {
		userID = e.opts.User.ID
	}

	response, overridden := "", false
	if e.opts.Gate != nil {
		response, overridden = e.opts.Gate(ctx, utterance, userID)
	}
	if !overridden {
		var snap *catalog.Snapshot
		if e.opts.Catalog != nil {
			snap = e.opts.Catalog.Snapshot()
		}
		response = resolver.Resolve(ctx, utterance, conv, snap, e.opts.FAQ)
	}

	if e.opts.Sink != nil {
		e.opts.Sink.Deliver(utterance, domain.RoleUser)
		e.opts.Sink.Deliver(response, domain.RoleBot)
	}

	// The context is only touched once the response is fully computed, and
	// both fields move together. Concurrent submissions on one engine race
	// here with last-writer-wins semantics.
	e.mu.Lock()
	e.conv = conv.Update(utterance, response)
	e.mu.Unlock()

	if e.opts.User != nil && e.opts.Recorder != nil {
		e.opts.Recorder.Record(ctx, userID, utterance, response)
	} else if e.opts.Recorder != nil {
		log.Printf("WARN: cannot record chat history: no authenticated user")
	}

	if e.opts.Notifier != nil {
		e.opts.Notifier.Notify(userID)
	}
}
