// Package bus decouples the platform channel adapters from the command
// dispatcher: adapters publish normalized requests, the dispatcher consumes
// them and publishes replies, and each adapter subscribes for its platform.
package bus

import (
	"context"
	"sync"

	"github.com/artcast/artcast/internal/schedule"
)

// CommandBus is a hub-and-spoke queue built on Go channels.
type CommandBus struct {
	requests chan CommandRequest
	replies  chan CommandReply
	subs     map[schedule.Platform][]func(CommandReply)
	mu       sync.RWMutex
}

// NewCommandBus creates a bus with the given buffer size (default 100).
func NewCommandBus(bufSize int) *CommandBus {
	if bufSize <= 0 {
		bufSize = 100
	}
	return &CommandBus{
		requests: make(chan CommandRequest, bufSize),
		replies:  make(chan CommandReply, bufSize),
		subs:     make(map[schedule.Platform][]func(CommandReply)),
	}
}

// PublishRequest puts a normalized command onto the bus.
func (b *CommandBus) PublishRequest(req CommandRequest) {
	b.requests <- req
}

// ConsumeRequest blocks until a request is available or ctx is cancelled.
func (b *CommandBus) ConsumeRequest(ctx context.Context) (CommandRequest, error) {
	select {
	case req, ok := <-b.requests:
		if !ok {
			return CommandRequest{}, context.Canceled
		}
		return req, nil
	case <-ctx.Done():
		return CommandRequest{}, ctx.Err()
	}
}

// PublishReply puts a reply onto the bus.
func (b *CommandBus) PublishReply(reply CommandReply) {
	b.replies <- reply
}

// Subscribe registers fn to receive replies for the given platform.
func (b *CommandBus) Subscribe(platform schedule.Platform, fn func(CommandReply)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[platform] = append(b.subs[platform], fn)
}

// DispatchReplies reads replies and delivers them to matching subscribers.
// Runs until ctx is cancelled or the reply channel is closed.
func (b *CommandBus) DispatchReplies(ctx context.Context) {
	for {
		select {
		case reply, ok := <-b.replies:
			if !ok {
				return
			}
			b.dispatch(reply)
		case <-ctx.Done():
			return
		}
	}
}

func (b *CommandBus) dispatch(reply CommandReply) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, fn := range b.subs[reply.Platform] {
		fn(reply)
	}
}

// Close closes both queues.
func (b *CommandBus) Close() {
	close(b.requests)
	close(b.replies)
}
