// Package schedule holds the durable record of every recurring delivery job
// and the in-memory registry derived from it. The store owns the persisted
// JSON document; the engine's timers are a rebuildable cache on top of it.
package schedule

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store persists schedule definitions to a single JSON document and keeps
// the in-memory registry consistent with it. One instance per process; all
// consumers receive the same injected Store.
type Store struct {
	path string
	mu   sync.Mutex
	defs []Definition
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted document and populates the registry. A missing
// file is initialized to an empty document; a corrupt one is logged and
// replaced with an empty in-memory set so a bad store never prevents startup.
func (s *Store) Load() []Definition {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.defs = nil
		if err := s.persistLocked(); err != nil {
			slog.Warn("failed to initialize schedule store", "path", s.path, "error", err)
		}
		return nil
	}
	if err != nil {
		slog.Error("failed to read schedule store", "path", s.path, "error", err)
		s.defs = nil
		return nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Error("failed to parse schedule store, starting empty", "path", s.path, "error", err)
		s.defs = nil
		return nil
	}

	s.defs = doc.Schedules
	return cloneAll(s.defs)
}

// Save replaces the in-memory set when given a non-nil list, then rewrites
// the document in full. Persistence failures are logged, not returned.
func (s *Store) Save(defs []Definition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if defs != nil {
		s.defs = cloneAll(defs)
	}
	if err := s.persistLocked(); err != nil {
		slog.Warn("failed to persist schedules", "path", s.path, "error", err)
	}
}

// Get returns the definition for id, or false if unknown.
func (s *Store) Get(id string) (Definition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.defs {
		if d.ID == id {
			return d.Clone(), true
		}
	}
	return Definition{}, false
}

// ListAll returns a defensive copy of every definition.
func (s *Store) ListAll() []Definition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.defs)
}

// ListEnabled returns every enabled definition.
func (s *Store) ListEnabled() []Definition {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Definition
	for _, d := range s.defs {
		if d.Enabled {
			out = append(out, d.Clone())
		}
	}
	return out
}

// ListForDiscordChannel returns definitions targeting the given channel.
// A definition with a stored guild ID only matches that guild when the
// caller supplies one; a definition without a guild ID matches any guild.
func (s *Store) ListForDiscordChannel(channelID, guildID string) []Definition {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Definition
	for _, d := range s.defs {
		if d.Discord == nil || d.Discord.ChannelID != channelID {
			continue
		}
		if d.Discord.GuildID != "" && guildID != "" && d.Discord.GuildID != guildID {
			continue
		}
		out = append(out, d.Clone())
	}
	return out
}

// ListForTelegramChat returns definitions targeting the given chat.
func (s *Store) ListForTelegramChat(chatID string) []Definition {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Definition
	for _, d := range s.defs {
		if d.Telegram != nil && d.Telegram.ChatID == chatID {
			out = append(out, d.Clone())
		}
	}
	return out
}

// Add appends a definition, assigning ID and CreatedAt when absent, and
// persists. The stored record is returned.
func (s *Store) Add(def Definition) Definition {
	s.mu.Lock()
	defer s.mu.Unlock()

	if def.ID == "" {
		def.ID = newID(def.CreatedBy.Platform)
	}
	if def.CreatedAt == 0 {
		def.CreatedAt = time.Now().UnixMilli()
	}

	s.defs = append(s.defs, def.Clone())
	if err := s.persistLocked(); err != nil {
		slog.Warn("failed to persist schedules after add", "id", def.ID, "error", err)
	}
	return def
}

// Update overwrites the stored record's mutable fields. CreatedAt and
// CreatedBy are always restored from the existing record, whatever the
// caller supplied. Returns false if the ID is unknown.
func (s *Store) Update(def Definition) (Definition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.defs {
		if existing.ID != def.ID {
			continue
		}
		def.CreatedAt = existing.CreatedAt
		def.CreatedBy = existing.CreatedBy
		s.defs[i] = def.Clone()
		if err := s.persistLocked(); err != nil {
			slog.Warn("failed to persist schedules after update", "id", def.ID, "error", err)
		}
		return def, true
	}
	return Definition{}, false
}

// Delete removes the definition for id, persisting only if something changed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, d := range s.defs {
		if d.ID != id {
			continue
		}
		s.defs = append(s.defs[:i], s.defs[i+1:]...)
		if err := s.persistLocked(); err != nil {
			slog.Warn("failed to persist schedules after delete", "id", id, "error", err)
		}
		return true
	}
	return false
}

// CanManage reports whether the caller may mutate the schedule: admins
// always may, otherwise only the creator on the same platform. Unknown IDs
// yield false.
func (s *Store) CanManage(id string, platform Platform, userID string, isAdmin bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.defs {
		if d.ID == id {
			if isAdmin {
				return true
			}
			return d.CreatedBy.Platform == platform && d.CreatedBy.UserID == userID
		}
	}
	return false
}

// CreateRequest carries the validated input for a new schedule.
type CreateRequest struct {
	Name           string
	FetchKind      FetchKind
	CronExpression string
	Platform       Platform
	ChannelID      string // discord
	GuildID        string // discord, optional
	ChatID         string // telegram
	UserID         string
	Username       string
}

// CreateFromRequest builds a new enabled definition from user input,
// attaching exactly the destination block matching the platform, and adds it.
// A request that would produce a definition with no destination is rejected
// before anything is persisted.
func (s *Store) CreateFromRequest(req CreateRequest) (Definition, error) {
	def := Definition{
		Name:           req.Name,
		CronExpression: req.CronExpression,
		Enabled:        true,
		FetchKind:      req.FetchKind,
		CreatedAt:      time.Now().UnixMilli(),
		CreatedBy: Creator{
			Platform: req.Platform,
			UserID:   req.UserID,
			Username: req.Username,
		},
	}

	switch req.Platform {
	case PlatformDiscord:
		if req.ChannelID == "" {
			return Definition{}, fmt.Errorf("discord schedule requires a channel ID")
		}
		def.Discord = &DiscordTarget{ChannelID: req.ChannelID, GuildID: req.GuildID}
	case PlatformTelegram:
		if req.ChatID == "" {
			return Definition{}, fmt.Errorf("telegram schedule requires a chat ID")
		}
		def.Telegram = &TelegramTarget{ChatID: req.ChatID}
	default:
		return Definition{}, fmt.Errorf("unknown platform %q", req.Platform)
	}

	return s.Add(def), nil
}

// persistLocked rewrites the full document. Caller must hold s.mu.
func (s *Store) persistLocked() error {
	doc := document{Schedules: s.defs, Version: documentVersion}
	if doc.Schedules == nil {
		doc.Schedules = []Definition{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schedule store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return os.WriteFile(s.path, data, 0o644)
}

// newID synthesizes a schedule ID. The timestamp keeps IDs sortable by
// creation time; the UUID-derived suffix closes the same-millisecond
// collision window of a plain random suffix.
func newID(platform Platform) string {
	if platform == "" {
		platform = "schedule"
	}
	return fmt.Sprintf("%s-%d-%s", platform, time.Now().UnixMilli(), uuid.NewString()[:8])
}

func cloneAll(defs []Definition) []Definition {
	if defs == nil {
		return nil
	}
	out := make([]Definition, len(defs))
	for i, d := range defs {
		out[i] = d.Clone()
	}
	return out
}
