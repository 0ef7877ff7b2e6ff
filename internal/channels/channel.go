// Package channels hosts the platform adapters. Each adapter normalizes
// user commands onto the bus and exposes Send for scheduled deliveries.
package channels

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/artcast/artcast/internal/bus"
	"github.com/artcast/artcast/internal/schedule"
)

// Channel is the interface all platform adapters implement. Send satisfies
// the engine's Sender, so a started channel doubles as a delivery target.
type Channel interface {
	Name() string
	Platform() schedule.Platform
	Start(ctx context.Context) error
	Stop() error
	Send(ctx context.Context, destinationID, text string) error
	IsAdmin(senderID string) bool
}

// ChannelFactory creates a Channel from JSON config and the command bus.
type ChannelFactory func(cfg json.RawMessage, b *bus.CommandBus) (Channel, error)

var registry = map[string]ChannelFactory{}

// Register adds a channel factory to the registry.
func Register(name string, factory ChannelFactory) {
	registry[name] = factory
}

// GetFactory returns the factory for a channel name.
func GetFactory(name string) (ChannelFactory, bool) {
	f, ok := registry[name]
	return f, ok
}

// RegisteredNames returns all registered channel names.
func RegisteredNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// parseCommand splits a prefixed message into command name and arguments.
// A "@botname" suffix on the command (Telegram group syntax) is dropped.
func parseCommand(text, prefix string) (cmd string, args []string, ok bool) {
	if !strings.HasPrefix(text, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(text, prefix))
	if len(fields) == 0 {
		return "", nil, false
	}
	cmd = strings.ToLower(fields[0])
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	if cmd == "" {
		return "", nil, false
	}
	return cmd, fields[1:], true
}
