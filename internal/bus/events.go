package bus

import "github.com/artcast/artcast/internal/schedule"

// CommandRequest is a platform command normalized by a channel adapter.
// Exactly one of ChannelID/ChatID is set, matching Platform.
type CommandRequest struct {
	Platform   schedule.Platform
	Command    string   // command name without prefix (e.g. "schedule")
	Args       []string // whitespace-split arguments
	SenderID   string
	SenderName string
	IsAdmin    bool
	ChannelID  string // discord channel
	GuildID    string // discord guild, optional
	ChatID     string // telegram chat
}

// Destination returns the platform-native ID a reply should go to.
func (r CommandRequest) Destination() string {
	if r.Platform == schedule.PlatformTelegram {
		return r.ChatID
	}
	return r.ChannelID
}

// CommandReply is a response routed back to the originating destination.
type CommandReply struct {
	Platform    schedule.Platform
	Destination string
	Text        string
}
