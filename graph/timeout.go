package graph

import (
	"context"
	"fmt"
	"time"
)

// nodeTimeout resolves the timeout for a node: per-node override first,
// then the engine-wide default, then 0 (unlimited).
func nodeTimeout(nodeID string, opts Options) time.Duration {
	if d, ok := opts.NodeTimeouts[nodeID]; ok && d > 0 {
		return d
	}
	return opts.DefaultNodeTimeout
}

// executeNodeWithTimeout runs a node under its resolved timeout.
//
// The node sees a context that expires at the deadline; a node that honors
// cancellation returns promptly and the overrun is reported as a NodeError
// wrapping context.DeadlineExceeded.
func executeNodeWithTimeout[S any](
	ctx context.Context,
	node Node[S],
	nodeID string,
	state S,
	opts Options,
) (NodeResult[S], error) {
	timeout := nodeTimeout(nodeID, opts)
	if timeout == 0 {
		return node.Run(ctx, state), nil
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := node.Run(timeoutCtx, state)

	if timeoutCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return result, &NodeError{
			NodeID:  nodeID,
			Message: fmt.Sprintf("exceeded timeout of %v", timeout),
			Cause:   context.DeadlineExceeded,
		}
	}

	return result, nil
}
