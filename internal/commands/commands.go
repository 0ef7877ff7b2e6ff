// Package commands translates normalized platform commands into store and
// engine operations. Dispatch goes through a handler table keyed by command
// name; nothing here knows which messaging runtime a request came from.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/artcast/artcast/internal/bus"
	"github.com/artcast/artcast/internal/content"
	"github.com/artcast/artcast/internal/engine"
	"github.com/artcast/artcast/internal/format"
	"github.com/artcast/artcast/internal/schedule"
)

// HandlerFunc handles one normalized command and returns the reply text.
type HandlerFunc func(req bus.CommandRequest) string

const fetchTimeout = 30 * time.Second

// Dispatcher routes commands to handlers and applies the permission rules.
type Dispatcher struct {
	store    *schedule.Store
	engine   *engine.Engine
	provider content.Provider
	handlers map[string]HandlerFunc
}

func NewDispatcher(store *schedule.Store, eng *engine.Engine, provider content.Provider) *Dispatcher {
	d := &Dispatcher{
		store:    store,
		engine:   eng,
		provider: provider,
	}
	d.handlers = map[string]HandlerFunc{
		"schedule":   d.handleCreate,
		"schedules":  d.handleList,
		"unschedule": d.handleDelete,
		"pause":      d.handlePause,
		"resume":     d.handleResume,
		"artist":     d.handleFetchNow(schedule.FetchArtist),
		"nft":        d.handleFetchNow(schedule.FetchNFT),
		"help":       d.handleHelp,
	}
	return d
}

// Dispatch runs the handler for req.Command. The second return is false for
// commands this layer does not know, so adapters can ignore them.
func (d *Dispatcher) Dispatch(req bus.CommandRequest) (string, bool) {
	handler, ok := d.handlers[strings.ToLower(req.Command)]
	if !ok {
		return "", false
	}
	return handler(req), true
}

// Run consumes requests from the bus until ctx is cancelled, publishing a
// reply for every recognized command.
func (d *Dispatcher) Run(ctx context.Context, b *bus.CommandBus) {
	for {
		req, err := b.ConsumeRequest(ctx)
		if err != nil {
			return
		}
		text, ok := d.Dispatch(req)
		if !ok {
			continue
		}
		b.PublishReply(bus.CommandReply{
			Platform:    req.Platform,
			Destination: req.Destination(),
			Text:        text,
		})
	}
}

// handleCreate builds a schedule from `schedule <artist|nft> <name> <frequency...>`.
// Validation happens before any store mutation.
func (d *Dispatcher) handleCreate(req bus.CommandRequest) string {
	if len(req.Args) < 3 {
		return "Usage: schedule <artist|nft> <name> <frequency>\nFrequencies: hourly, daily, weekly, \"every N minutes\", \"every N hours\", or a cron expression."
	}

	kind := schedule.FetchKind(strings.ToLower(req.Args[0]))
	if kind != schedule.FetchArtist && kind != schedule.FetchNFT {
		return fmt.Sprintf("Unknown content type %q. Use artist or nft.", req.Args[0])
	}

	name := req.Args[1]
	cronExpr, err := ToCron(strings.Join(req.Args[2:], " "))
	if err != nil {
		return fmt.Sprintf("Invalid frequency: %v", err)
	}

	def, err := d.store.CreateFromRequest(schedule.CreateRequest{
		Name:           name,
		FetchKind:      kind,
		CronExpression: cronExpr,
		Platform:       req.Platform,
		ChannelID:      req.ChannelID,
		GuildID:        req.GuildID,
		ChatID:         req.ChatID,
		UserID:         req.SenderID,
		Username:       req.SenderName,
	})
	if err != nil {
		return fmt.Sprintf("Could not create schedule: %v", err)
	}

	d.engine.AddOrReplace(def)
	slog.Info("schedule created", "id", def.ID, "name", def.Name, "cron", def.CronExpression, "by", req.SenderID)
	return fmt.Sprintf("Created schedule %q (%s) with cadence `%s`.\nID: %s", def.Name, def.FetchKind, def.CronExpression, def.ID)
}

// handleList is read-only and scoped to the requesting destination.
func (d *Dispatcher) handleList(req bus.CommandRequest) string {
	var defs []schedule.Definition
	if req.Platform == schedule.PlatformTelegram {
		defs = d.store.ListForTelegramChat(req.ChatID)
	} else {
		defs = d.store.ListForDiscordChannel(req.ChannelID, req.GuildID)
	}

	if len(defs) == 0 {
		return "No schedules for this destination."
	}

	var b strings.Builder
	b.WriteString("Schedules here:\n")
	for _, def := range defs {
		state := "active"
		if !def.Enabled {
			state = "paused"
		}
		fmt.Fprintf(&b, "• %s — %s (%s, `%s`, %s)\n", def.ID, def.Name, def.FetchKind, def.CronExpression, state)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (d *Dispatcher) handleDelete(req bus.CommandRequest) string {
	if len(req.Args) < 1 {
		return "Usage: unschedule <id>"
	}
	id := req.Args[0]

	def, err := d.authorize(id, req)
	if err != nil {
		return errorReply(err)
	}

	d.store.Delete(def.ID)
	d.engine.Remove(def.ID)
	slog.Info("schedule deleted", "id", def.ID, "by", req.SenderID)
	return fmt.Sprintf("Deleted schedule %q.", def.Name)
}

func (d *Dispatcher) handlePause(req bus.CommandRequest) string {
	if len(req.Args) < 1 {
		return "Usage: pause <id>"
	}

	def, err := d.authorize(req.Args[0], req)
	if err != nil {
		return errorReply(err)
	}
	if !def.Enabled {
		return fmt.Sprintf("Schedule %q is already paused.", def.Name)
	}

	updated := def.Clone()
	updated.Enabled = false
	if _, ok := d.store.Update(updated); !ok {
		return errorReply(schedule.ErrNotFound)
	}
	d.engine.Remove(updated.ID)
	slog.Info("schedule paused", "id", updated.ID, "by", req.SenderID)
	return fmt.Sprintf("Paused schedule %q.", updated.Name)
}

func (d *Dispatcher) handleResume(req bus.CommandRequest) string {
	if len(req.Args) < 1 {
		return "Usage: resume <id>"
	}

	def, err := d.authorize(req.Args[0], req)
	if err != nil {
		return errorReply(err)
	}
	if def.Enabled {
		return fmt.Sprintf("Schedule %q is already running.", def.Name)
	}

	updated := def.Clone()
	updated.Enabled = true
	if _, ok := d.store.Update(updated); !ok {
		return errorReply(schedule.ErrNotFound)
	}
	d.engine.AddOrReplace(updated)
	slog.Info("schedule resumed", "id", updated.ID, "by", req.SenderID)
	return fmt.Sprintf("Resumed schedule %q.", updated.Name)
}

// handleFetchNow returns a handler that fetches and renders one record
// immediately, outside any schedule.
func (d *Dispatcher) handleFetchNow(kind schedule.FetchKind) HandlerFunc {
	return func(req bus.CommandRequest) string {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		rec, err := d.provider.Fetch(ctx, kind)
		if err != nil {
			slog.Error("on-demand fetch failed", "kind", kind, "error", err)
			return fmt.Sprintf("Could not fetch %s content right now.", kind)
		}
		if rec == nil {
			return fmt.Sprintf("No %s content available right now.", kind)
		}

		text, err := format.Text(rec, req.Platform)
		if err != nil {
			slog.Error("failed to render on-demand content", "kind", kind, "error", err)
			return fmt.Sprintf("Could not render %s content.", kind)
		}
		return text
	}
}

func (d *Dispatcher) handleHelp(req bus.CommandRequest) string {
	return strings.Join([]string{
		"Commands:",
		"• schedule <artist|nft> <name> <frequency> — create a recurring post here",
		"• schedules — list schedules for this destination",
		"• pause <id> / resume <id> — suspend or restore a schedule",
		"• unschedule <id> — delete a schedule",
		"• artist / nft — post one item right now",
		"Frequencies: hourly, daily, weekly, \"every N minutes\", \"every N hours\", or a 5-field cron expression.",
	}, "\n")
}

// authorize resolves the schedule and applies the ownership rule. The two
// failure modes stay distinct so callers can tell a missing schedule from a
// permission denial.
func (d *Dispatcher) authorize(id string, req bus.CommandRequest) (schedule.Definition, error) {
	def, ok := d.store.Get(id)
	if !ok {
		return schedule.Definition{}, schedule.ErrNotFound
	}
	if !d.store.CanManage(id, req.Platform, req.SenderID, req.IsAdmin) {
		return schedule.Definition{}, schedule.ErrNotPermitted
	}
	return def, nil
}

func errorReply(err error) string {
	switch err {
	case schedule.ErrNotFound:
		return "No schedule with that ID."
	case schedule.ErrNotPermitted:
		return "You can only manage schedules you created. Ask an admin to do it for you."
	default:
		return fmt.Sprintf("Something went wrong: %v", err)
	}
}
