// Package bus decouples response generation from persistence. The engine
// publishes write operations fire-and-forget; a worker drains them into
// the store so a slow disk never blocks a reply.
package bus

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/socialfactory/rangers/pkg/logger"
	"github.com/socialfactory/rangers/pkg/memory"
)

// WriteOp carries one pending persistence write. Exactly one of Turn or
// Artifact is set.
type WriteOp struct {
	Turn     *memory.MessageRecord
	Artifact *memory.ArtifactRecord
}

const publishTimeout = 100 * time.Millisecond

// WriteBus is a bounded queue of persistence writes. Publishing never
// blocks longer than publishTimeout; overflow is counted and dropped.
type WriteBus struct {
	ops     chan WriteOp
	closed  bool
	dropped atomic.Uint64
	mu      sync.RWMutex
}

func NewWriteBus(queueSize int) *WriteBus {
	if queueSize <= 0 {
		queueSize = 100
	}
	return &WriteBus{ops: make(chan WriteOp, queueSize)}
}

// PublishTurn queues a conversation turn for persistence.
func (wb *WriteBus) PublishTurn(rec memory.MessageRecord) {
	wb.publish(WriteOp{Turn: &rec})
}

// PublishArtifact queues an extracted artifact for persistence.
func (wb *WriteBus) PublishArtifact(rec memory.ArtifactRecord) {
	wb.publish(WriteOp{Artifact: &rec})
}

func (wb *WriteBus) publish(op WriteOp) {
	wb.mu.RLock()
	defer wb.mu.RUnlock()
	if wb.closed {
		return
	}

	select {
	case wb.ops <- op:
	default:
		timer := time.NewTimer(publishTimeout)
		defer timer.Stop()
		select {
		case wb.ops <- op:
		case <-timer.C:
			wb.dropped.Add(1)
		}
	}
}

// Consume blocks until an op is available, the bus closes, or ctx is done.
func (wb *WriteBus) Consume(ctx context.Context) (WriteOp, bool) {
	select {
	case op, ok := <-wb.ops:
		if !ok {
			return WriteOp{}, false
		}
		return op, true
	case <-ctx.Done():
		return WriteOp{}, false
	}
}

// Dropped returns the number of ops dropped due to a full queue.
func (wb *WriteBus) Dropped() uint64 {
	return wb.dropped.Load()
}

// Close stops accepting ops. Queued ops remain consumable until drained.
func (wb *WriteBus) Close() {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	if wb.closed {
		return
	}
	wb.closed = true
	close(wb.ops)
}

// RunWriter drains the bus into store until the bus closes or ctx is
// cancelled. Write failures are logged; the loop keeps going.
func RunWriter(ctx context.Context, wb *WriteBus, store memory.Store) {
	for {
		op, ok := wb.Consume(ctx)
		if !ok {
			return
		}
		switch {
		case op.Turn != nil:
			if err := store.AppendTurn(ctx, *op.Turn); err != nil {
				logger.WarnCF("bus", "persist turn failed", map[string]interface{}{
					"persona": op.Turn.PersonaID,
					"error":   err.Error(),
				})
			}
		case op.Artifact != nil:
			if err := store.SaveArtifact(ctx, *op.Artifact); err != nil {
				logger.WarnCF("bus", "persist artifact failed", map[string]interface{}{
					"name":  op.Artifact.Name,
					"error": err.Error(),
				})
			}
		}
	}
}
