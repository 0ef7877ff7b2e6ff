// Package engine drives one live cron entry per enabled schedule. The entry
// set is a derived cache over the schedule store: it can be dropped and
// rebuilt from the enabled definitions at any time.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/artcast/artcast/internal/content"
	"github.com/artcast/artcast/internal/schedule"
)

// Sender delivers a rendered message to a platform-native destination.
type Sender interface {
	Send(ctx context.Context, destinationID, text string) error
}

// RenderFunc turns a fetched record into platform text.
type RenderFunc func(rec *content.Record, platform schedule.Platform) (string, error)

const defaultFiringTimeout = 30 * time.Second

// Engine owns the live timer set. All methods are safe for concurrent use.
type Engine struct {
	scheduler *cron.Cron
	provider  content.Provider
	render    RenderFunc
	timeout   time.Duration

	mu      sync.Mutex
	entries map[string]cron.EntryID
	senders map[schedule.Platform]Sender
}

func New(provider content.Provider, render RenderFunc) *Engine {
	return &Engine{
		scheduler: cron.New(),
		provider:  provider,
		render:    render,
		timeout:   defaultFiringTimeout,
		entries:   make(map[string]cron.EntryID),
		senders:   make(map[schedule.Platform]Sender),
	}
}

// RegisterSender registers the delivery adapter for a platform.
func (e *Engine) RegisterSender(platform schedule.Platform, sender Sender) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.senders[platform] = sender
}

// Start begins evaluating cron entries.
func (e *Engine) Start() {
	e.scheduler.Start()
}

// Reconcile brings the timer set in line with the given enabled definitions,
// typically at startup. Schedules already tracked are left untouched.
func (e *Engine) Reconcile(defs []schedule.Definition) {
	e.mu.Lock()
	defer e.mu.Unlock()

	added := 0
	for _, def := range defs {
		if _, ok := e.entries[def.ID]; ok {
			continue
		}
		if e.addLocked(def) {
			added++
		}
	}
	slog.Info("reconciled schedule timers", "added", added, "tracked", len(e.entries))
}

// AddOrReplace registers a timer for the schedule. An already-tracked ID is
// a no-op so a schedule can never double-fire; callers changing the cron
// expression must Remove first. Adds are refused when no senders are
// registered or the schedule has no usable destination.
func (e *Engine) AddOrReplace(def schedule.Definition) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.entries[def.ID]; ok {
		slog.Debug("schedule already tracked", "id", def.ID)
		return
	}
	e.addLocked(def)
}

// addLocked registers the timer. Caller must hold e.mu.
func (e *Engine) addLocked(def schedule.Definition) bool {
	if len(e.senders) == 0 {
		slog.Error("refusing to schedule with no senders registered", "id", def.ID, "name", def.Name)
		return false
	}
	if !def.HasDestination() {
		slog.Warn("refusing to schedule without a destination", "id", def.ID, "name", def.Name)
		return false
	}

	entryID, err := e.scheduler.AddFunc(def.CronExpression, func() {
		e.fire(def)
	})
	if err != nil {
		slog.Error("failed to register schedule timer", "id", def.ID, "cron", def.CronExpression, "error", err)
		return false
	}

	e.entries[def.ID] = entryID
	slog.Info("schedule timer registered", "id", def.ID, "name", def.Name, "cron", def.CronExpression)
	return true
}

// Remove cancels and discards the timer for id if one is tracked.
func (e *Engine) Remove(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	entryID, ok := e.entries[id]
	if !ok {
		return false
	}
	e.scheduler.Remove(entryID)
	delete(e.entries, id)
	slog.Info("schedule timer removed", "id", id)
	return true
}

// Update replaces the schedule's timer: the old entry is removed and a new
// one registered only when the schedule is enabled.
func (e *Engine) Update(def schedule.Definition) {
	e.Remove(def.ID)
	if def.Enabled {
		e.AddOrReplace(def)
	}
}

// StopAll cancels every tracked timer and clears the set. Shutdown only.
func (e *Engine) StopAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for id, entryID := range e.entries {
		e.scheduler.Remove(entryID)
		delete(e.entries, id)
	}
	e.scheduler.Stop()
	slog.Info("all schedule timers stopped")
}

// Tracked reports how many schedules currently own a live timer.
func (e *Engine) Tracked() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.entries)
}

// fire runs one activation of the schedule: fetch, render, deliver to every
// present destination with a registered sender. Every failure is logged at
// this boundary and never unregisters the timer; the schedule's own cadence
// is the retry mechanism.
func (e *Engine) fire(def schedule.Definition) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("schedule firing panicked", "id", def.ID, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	rec, err := e.provider.Fetch(ctx, def.FetchKind)
	if err != nil {
		slog.Error("content fetch failed", "id", def.ID, "name", def.Name, "kind", def.FetchKind, "error", err)
		return
	}
	if rec == nil {
		slog.Error("no content available for schedule", "id", def.ID, "name", def.Name, "kind", def.FetchKind)
		return
	}

	if def.Discord != nil && def.Discord.ChannelID != "" {
		e.deliver(ctx, def, rec, schedule.PlatformDiscord, def.Discord.ChannelID)
	}
	if def.Telegram != nil && def.Telegram.ChatID != "" {
		e.deliver(ctx, def, rec, schedule.PlatformTelegram, def.Telegram.ChatID)
	}
}

func (e *Engine) deliver(ctx context.Context, def schedule.Definition, rec *content.Record, platform schedule.Platform, destination string) {
	e.mu.Lock()
	sender, ok := e.senders[platform]
	e.mu.Unlock()
	if !ok {
		slog.Warn("no sender registered for destination", "id", def.ID, "platform", platform)
		return
	}

	text, err := e.render(rec, platform)
	if err != nil {
		slog.Error("failed to render content", "id", def.ID, "platform", platform, "error", err)
		return
	}
	if err := sender.Send(ctx, destination, text); err != nil {
		slog.Error("failed to deliver scheduled message", "id", def.ID, "platform", platform, "destination", destination, "error", err)
		return
	}
	slog.Info("scheduled message delivered", "id", def.ID, "name", def.Name, "platform", platform, "destination", destination)
}
