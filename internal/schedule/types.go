package schedule

import "errors"

// Platform identifies the messaging platform a schedule belongs to.
type Platform string

const (
	PlatformDiscord  Platform = "discord"
	PlatformTelegram Platform = "telegram"
)

// FetchKind selects which content a schedule delivers on each firing.
type FetchKind string

const (
	FetchArtist FetchKind = "artist"
	FetchNFT    FetchKind = "nft"
)

var (
	// ErrNotFound reports an unknown schedule ID.
	ErrNotFound = errors.New("schedule not found")
	// ErrNotPermitted reports that the caller is neither the creator nor an admin.
	ErrNotPermitted = errors.New("not permitted to manage this schedule")
)

// Creator records who created a schedule. Stamped once at creation; updates
// always restore the original values.
type Creator struct {
	Platform Platform `json:"platform"`
	UserID   string   `json:"userId"`
	Username string   `json:"username,omitempty"`
}

// DiscordTarget is a Discord delivery destination.
type DiscordTarget struct {
	ChannelID string `json:"channelId"`
	GuildID   string `json:"guildId,omitempty"`
}

// TelegramTarget is a Telegram delivery destination.
type TelegramTarget struct {
	ChatID string `json:"chatId"`
}

// Definition is the unit of persistence and execution. The creation path only
// ever sets one destination block, but updates preserve whatever is present,
// so dispatch treats the two blocks as independently optional.
type Definition struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	CronExpression string          `json:"cronExpression"`
	Enabled        bool            `json:"enabled"`
	FetchKind      FetchKind       `json:"fetchType"`
	CreatedAt      int64           `json:"createdAt"` // unix milliseconds
	CreatedBy      Creator         `json:"createdBy"`
	Discord        *DiscordTarget  `json:"discord,omitempty"`
	Telegram       *TelegramTarget `json:"telegram,omitempty"`
}

// HasDestination reports whether at least one destination block is usable.
// A definition without one is inert: the engine refuses to schedule it.
func (d Definition) HasDestination() bool {
	if d.Discord != nil && d.Discord.ChannelID != "" {
		return true
	}
	return d.Telegram != nil && d.Telegram.ChatID != ""
}

// Clone returns a deep copy so callers can mutate freely without aliasing
// the registry's record.
func (d Definition) Clone() Definition {
	out := d
	if d.Discord != nil {
		t := *d.Discord
		out.Discord = &t
	}
	if d.Telegram != nil {
		t := *d.Telegram
		out.Telegram = &t
	}
	return out
}

const documentVersion = 1

// document is the persisted envelope. Version is reserved for migration.
type document struct {
	Schedules []Definition `json:"schedules"`
	Version   int          `json:"version"`
}
