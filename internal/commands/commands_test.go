package commands

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/artcast/artcast/internal/bus"
	"github.com/artcast/artcast/internal/content"
	"github.com/artcast/artcast/internal/engine"
	"github.com/artcast/artcast/internal/format"
	"github.com/artcast/artcast/internal/schedule"
)

type stubProvider struct {
	rec *content.Record
}

func (p *stubProvider) Fetch(ctx context.Context, kind schedule.FetchKind) (*content.Record, error) {
	return p.rec, nil
}

type nopSender struct{}

func (nopSender) Send(ctx context.Context, destinationID, text string) error { return nil }

func newTestDispatcher(t *testing.T) (*Dispatcher, *schedule.Store, *engine.Engine) {
	t.Helper()
	store := schedule.NewStore(filepath.Join(t.TempDir(), "schedules.json"))
	provider := &stubProvider{rec: &content.Record{Kind: schedule.FetchArtist, Name: "Ana"}}
	eng := engine.New(provider, format.Text)
	eng.RegisterSender(schedule.PlatformDiscord, nopSender{})
	eng.RegisterSender(schedule.PlatformTelegram, nopSender{})
	return NewDispatcher(store, eng, provider), store, eng
}

func telegramReq(command string, args ...string) bus.CommandRequest {
	return bus.CommandRequest{
		Platform:   schedule.PlatformTelegram,
		Command:    command,
		Args:       args,
		SenderID:   "u1",
		SenderName: "alice",
		ChatID:     "123",
	}
}

func TestCreateSchedule(t *testing.T) {
	d, store, eng := newTestDispatcher(t)

	reply, ok := d.Dispatch(telegramReq("schedule", "nft", "X", "hourly"))
	if !ok {
		t.Fatal("schedule command not recognized")
	}
	if !strings.Contains(reply, "Created schedule") {
		t.Fatalf("unexpected reply: %q", reply)
	}

	defs := store.ListForTelegramChat("123")
	if len(defs) != 1 {
		t.Fatalf("expected exactly one stored schedule, got %d", len(defs))
	}
	def := defs[0]
	if !def.Enabled || def.FetchKind != schedule.FetchNFT || def.CronExpression != "0 * * * *" {
		t.Errorf("unexpected definition %+v", def)
	}
	if def.Telegram == nil || def.Telegram.ChatID != "123" {
		t.Errorf("telegram target missing: %+v", def.Telegram)
	}
	if def.Discord != nil {
		t.Errorf("discord target should be absent: %+v", def.Discord)
	}
	if eng.Tracked() != 1 {
		t.Errorf("engine should track the new schedule, tracked %d", eng.Tracked())
	}
}

func TestCreateRejectsInvalidFrequencyBeforeMutation(t *testing.T) {
	d, store, eng := newTestDispatcher(t)

	reply, _ := d.Dispatch(telegramReq("schedule", "artist", "X", "soonish"))
	if !strings.Contains(reply, "Invalid frequency") {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if n := len(store.ListAll()); n != 0 {
		t.Errorf("invalid frequency must not persist anything, store has %d", n)
	}
	if eng.Tracked() != 0 {
		t.Errorf("invalid frequency must not register a timer")
	}
}

func TestCreateRejectsUnknownKind(t *testing.T) {
	d, store, _ := newTestDispatcher(t)

	reply, _ := d.Dispatch(telegramReq("schedule", "weather", "X", "daily"))
	if !strings.Contains(reply, "Unknown content type") {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if n := len(store.ListAll()); n != 0 {
		t.Errorf("store should be untouched, has %d", n)
	}
}

func TestListScopedToDestination(t *testing.T) {
	d, _, _ := newTestDispatcher(t)

	d.Dispatch(telegramReq("schedule", "nft", "Here", "daily"))

	other := telegramReq("schedule", "nft", "Elsewhere", "daily")
	other.ChatID = "999"
	d.Dispatch(other)

	reply, _ := d.Dispatch(telegramReq("schedules"))
	if !strings.Contains(reply, "Here") || strings.Contains(reply, "Elsewhere") {
		t.Errorf("list should be scoped to chat 123: %q", reply)
	}

	empty := telegramReq("schedules")
	empty.ChatID = "777"
	reply, _ = d.Dispatch(empty)
	if !strings.Contains(reply, "No schedules") {
		t.Errorf("expected empty-list reply, got %q", reply)
	}
}

func TestDeleteDistinguishesNotFoundFromPermission(t *testing.T) {
	d, store, _ := newTestDispatcher(t)

	d.Dispatch(telegramReq("schedule", "nft", "X", "daily"))
	id := store.ListForTelegramChat("123")[0].ID

	notFound, _ := d.Dispatch(telegramReq("unschedule", "bogus-id"))
	if !strings.Contains(notFound, "No schedule") {
		t.Errorf("expected not-found reply, got %q", notFound)
	}

	intruder := telegramReq("unschedule", id)
	intruder.SenderID = "u2"
	denied, _ := d.Dispatch(intruder)
	if !strings.Contains(denied, "only manage schedules you created") {
		t.Errorf("expected permission reply, got %q", denied)
	}
	if denied == notFound {
		t.Error("permission denial must be distinguishable from not-found")
	}
	if _, ok := store.Get(id); !ok {
		t.Error("record must remain after denied delete")
	}

	admin := telegramReq("unschedule", id)
	admin.SenderID = "u2"
	admin.IsAdmin = true
	if reply, _ := d.Dispatch(admin); !strings.Contains(reply, "Deleted") {
		t.Errorf("admin delete should succeed, got %q", reply)
	}
	if _, ok := store.Get(id); ok {
		t.Error("record should be gone after admin delete")
	}
}

func TestPauseResumeLifecycle(t *testing.T) {
	d, store, eng := newTestDispatcher(t)

	d.Dispatch(telegramReq("schedule", "artist", "X", "hourly"))
	id := store.ListForTelegramChat("123")[0].ID
	if eng.Tracked() != 1 {
		t.Fatalf("precondition: expected 1 timer, got %d", eng.Tracked())
	}

	reply, _ := d.Dispatch(telegramReq("pause", id))
	if !strings.Contains(reply, "Paused") {
		t.Fatalf("unexpected pause reply: %q", reply)
	}
	if def, _ := store.Get(id); def.Enabled {
		t.Error("pause should persist enabled=false")
	}
	if eng.Tracked() != 0 {
		t.Errorf("pause should remove the timer, tracked %d", eng.Tracked())
	}

	reply, _ = d.Dispatch(telegramReq("pause", id))
	if !strings.Contains(reply, "already paused") {
		t.Errorf("pausing a paused schedule should be a no-op reply, got %q", reply)
	}

	reply, _ = d.Dispatch(telegramReq("resume", id))
	if !strings.Contains(reply, "Resumed") {
		t.Fatalf("unexpected resume reply: %q", reply)
	}
	def, _ := store.Get(id)
	if !def.Enabled {
		t.Error("resume should persist enabled=true")
	}
	if eng.Tracked() != 1 {
		t.Errorf("resume should re-register exactly one timer, tracked %d", eng.Tracked())
	}

	reply, _ = d.Dispatch(telegramReq("resume", id))
	if !strings.Contains(reply, "already running") {
		t.Errorf("resuming a running schedule should be a no-op reply, got %q", reply)
	}
}

func TestPauseResumePreserveCreator(t *testing.T) {
	d, store, _ := newTestDispatcher(t)

	d.Dispatch(telegramReq("schedule", "artist", "X", "hourly"))
	original := store.ListForTelegramChat("123")[0]

	admin := telegramReq("pause", original.ID)
	admin.SenderID = "admin-user"
	admin.IsAdmin = true
	d.Dispatch(admin)

	def, _ := store.Get(original.ID)
	if def.CreatedBy != original.CreatedBy || def.CreatedAt != original.CreatedAt {
		t.Errorf("pause must not alter creation fields: %+v vs %+v", def.CreatedBy, original.CreatedBy)
	}
}

func TestFetchNow(t *testing.T) {
	d, _, _ := newTestDispatcher(t)

	reply, ok := d.Dispatch(telegramReq("artist"))
	if !ok {
		t.Fatal("artist command not recognized")
	}
	if !strings.Contains(reply, "Ana") {
		t.Errorf("expected rendered artist, got %q", reply)
	}
}

func TestUnknownCommandIgnored(t *testing.T) {
	d, _, _ := newTestDispatcher(t)
	if _, ok := d.Dispatch(telegramReq("dance")); ok {
		t.Fatal("unknown commands must not be handled")
	}
}

func TestRunPublishesReplies(t *testing.T) {
	d, _, _ := newTestDispatcher(t)
	b := bus.NewCommandBus(10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx, b)

	replies := make(chan bus.CommandReply, 1)
	b.Subscribe(schedule.PlatformTelegram, func(r bus.CommandReply) { replies <- r })
	go b.DispatchReplies(ctx)

	b.PublishRequest(telegramReq("help"))

	select {
	case r := <-replies:
		if r.Destination != "123" || !strings.Contains(r.Text, "Commands:") {
			t.Errorf("unexpected reply %+v", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no reply published")
	}
}
