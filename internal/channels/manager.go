package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/artcast/artcast/internal/bus"
)

// Manager owns the set of live channels and routes command replies from the
// bus back to the channel for each platform.
type Manager struct {
	channels []Channel
	bus      *bus.CommandBus
	mu       sync.Mutex
}

func NewManager(b *bus.CommandBus) *Manager {
	return &Manager{bus: b}
}

// AddChannel creates a channel from config and subscribes it for replies.
func (m *Manager) AddChannel(name string, cfgJSON json.RawMessage) error {
	factory, ok := GetFactory(name)
	if !ok {
		return fmt.Errorf("no factory registered for channel %q", name)
	}
	ch, err := factory(cfgJSON, m.bus)
	if err != nil {
		return fmt.Errorf("failed to create channel %q: %w", name, err)
	}

	m.bus.Subscribe(ch.Platform(), func(reply bus.CommandReply) {
		if err := ch.Send(context.Background(), reply.Destination, reply.Text); err != nil {
			slog.Error("failed to send reply", "channel", ch.Name(), "destination", reply.Destination, "error", err)
		}
	})

	m.mu.Lock()
	m.channels = append(m.channels, ch)
	m.mu.Unlock()
	return nil
}

// Channels returns a copy of the live channel set.
func (m *Manager) Channels() []Channel {
	m.mu.Lock()
	defer m.mu.Unlock()
	chs := make([]Channel, len(m.channels))
	copy(chs, m.channels)
	return chs
}

// StartAll starts every channel.
func (m *Manager) StartAll(ctx context.Context) error {
	for _, ch := range m.Channels() {
		if err := ch.Start(ctx); err != nil {
			return fmt.Errorf("failed to start channel %q: %w", ch.Name(), err)
		}
	}
	return nil
}

// StopAll stops every channel, returning the first error seen.
func (m *Manager) StopAll() error {
	var firstErr error
	for _, ch := range m.Channels() {
		if err := ch.Stop(); err != nil {
			slog.Error("failed to stop channel", "channel", ch.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
