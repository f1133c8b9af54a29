// Package stream turns a single workflow run into an ordered sequence of
// externally consumable frames.
package stream

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dvalle/stategraph/agent"
	"github.com/dvalle/stategraph/graph"
)

// Kind classifies a Frame.
type Kind int

const (
	// KindProgress is a per-node progress message.
	KindProgress Kind = iota

	// KindResult carries the final answer of a successful run.
	KindResult

	// KindError carries the description of a failed run.
	KindError

	// KindSentinel marks the end of the stream. Exactly one per run, always
	// last.
	KindSentinel
)

// Frame is one externally visible event of a run.
type Frame struct {
	Kind    Kind
	Message string
}

// Wire text of the non-progress frames. Part of the content contract.
const (
	resultPrefix    = "**[AGENT FINAL RESULT]** "
	errorPrefix     = "**[FATAL ERROR]** "
	sentinelMessage = "--- END OF STREAM ---"
)

// defaultBuffer bounds the frame channel so a slow consumer backpressures
// the run instead of buffering without limit.
const defaultBuffer = 16

// runSeq numbers runs across the process for log correlation.
var runSeq atomic.Uint64

// Bridge converts Engine runs into frame sequences.
//
// One Bridge is shared by all requests; each Stream call owns its run, its
// state and its channel, so concurrent streams never interleave.
type Bridge struct {
	engine   *graph.Engine[agent.State]
	messages agent.Messages
	buffer   int
	pacing   time.Duration
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithBuffer sets the frame channel capacity (default 16, minimum 1).
func WithBuffer(n int) Option {
	return func(b *Bridge) {
		if n > 0 {
			b.buffer = n
		}
	}
}

// WithPacing inserts a delay after each progress frame, mimicking the
// original demo's deliberate pacing. Default 0 (no pacing).
func WithPacing(d time.Duration) Option {
	return func(b *Bridge) {
		b.pacing = d
	}
}

// NewBridge creates a Bridge over a shared engine and progress-message
// table.
func NewBridge(engine *graph.Engine[agent.State], messages agent.Messages, opts ...Option) *Bridge {
	b := &Bridge{
		engine:   engine,
		messages: messages,
		buffer:   defaultBuffer,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Stream starts exactly one run for the prompt and returns its frame
// sequence: one progress frame per executed node, then exactly one result
// frame (carrying FinalAnswer from the state accumulated during that same
// run) or one error frame, then exactly one sentinel frame, then channel
// close.
//
// The sentinel and the close are guaranteed on every exit path: success,
// node failure and cancellation. The final state is carried forward from
// the streaming run itself; the run is never re-executed to recompute it.
//
// Cancel ctx to abandon the stream; the run aborts at its next suspension
// or push and the channel is closed.
func (b *Bridge) Stream(ctx context.Context, prompt string) <-chan Frame {
	frames := make(chan Frame, b.buffer)

	go func() {
		defer close(frames)
		defer b.push(ctx, frames, Frame{Kind: KindSentinel, Message: sentinelMessage})

		runID := fmt.Sprintf("run-%d", runSeq.Add(1))

		final, err := b.engine.RunWithSteps(ctx, runID, agent.NewState(prompt),
			func(stepCtx context.Context, step graph.Step[agent.State]) error {
				message, ok := b.messages[step.NodeID]
				if !ok {
					return nil
				}
				if err := b.push(stepCtx, frames, Frame{Kind: KindProgress, Message: message}); err != nil {
					return err
				}
				return b.pace(stepCtx)
			})
		if err != nil {
			b.push(ctx, frames, Frame{Kind: KindError, Message: errorPrefix + err.Error()})
			return
		}

		b.push(ctx, frames, Frame{Kind: KindResult, Message: resultPrefix + final.FinalAnswer})
	}()

	return frames
}

// push delivers a frame unless the consumer is gone. The non-blocking
// attempt first means a frame always lands while buffer space remains,
// even under cancellation; blocking afterwards is the backpressure path
// for a slow consumer.
func (b *Bridge) push(ctx context.Context, frames chan<- Frame, f Frame) error {
	select {
	case frames <- f:
		return nil
	default:
	}
	select {
	case frames <- f:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pace sleeps the configured pacing delay, honoring cancellation.
func (b *Bridge) pace(ctx context.Context) error {
	if b.pacing <= 0 {
		return nil
	}
	timer := time.NewTimer(b.pacing)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
