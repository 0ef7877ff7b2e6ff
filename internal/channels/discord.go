package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/artcast/artcast/internal/bus"
	"github.com/artcast/artcast/internal/schedule"
)

const discordCommandPrefix = "!"

func init() {
	Register("discord", newDiscordChannel)
}

type discordConfig struct {
	Token      string   `json:"token"`
	AdminUsers []string `json:"adminUsers"`
}

type DiscordChannel struct {
	session *discordgo.Session
	bus     *bus.CommandBus
	admins  map[string]bool
}

func newDiscordChannel(cfg json.RawMessage, b *bus.CommandBus) (Channel, error) {
	var dcfg discordConfig
	if err := json.Unmarshal(cfg, &dcfg); err != nil {
		return nil, fmt.Errorf("failed to parse discord config: %w", err)
	}
	session, err := discordgo.New("Bot " + dcfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	admins := make(map[string]bool, len(dcfg.AdminUsers))
	for _, u := range dcfg.AdminUsers {
		admins[u] = true
	}
	return &DiscordChannel{
		session: session,
		bus:     b,
		admins:  admins,
	}, nil
}

func (c *DiscordChannel) Name() string                { return "discord" }
func (c *DiscordChannel) Platform() schedule.Platform { return schedule.PlatformDiscord }

func (c *DiscordChannel) Start(ctx context.Context) error {
	c.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}
		cmd, args, ok := parseCommand(m.Content, discordCommandPrefix)
		if !ok {
			return
		}
		c.bus.PublishRequest(bus.CommandRequest{
			Platform:   schedule.PlatformDiscord,
			Command:    cmd,
			Args:       args,
			SenderID:   m.Author.ID,
			SenderName: m.Author.Username,
			IsAdmin:    c.IsAdmin(m.Author.ID),
			ChannelID:  m.ChannelID,
			GuildID:    m.GuildID,
		})
	})
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("discord: failed to open websocket: %w", err)
	}
	slog.Info("discord channel started")
	return nil
}

func (c *DiscordChannel) Stop() error {
	return c.session.Close()
}

func (c *DiscordChannel) Send(ctx context.Context, destinationID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.session.ChannelMessageSend(destinationID, text); err != nil {
		return fmt.Errorf("discord: failed to send message to %s: %w", destinationID, err)
	}
	return nil
}

func (c *DiscordChannel) IsAdmin(senderID string) bool {
	return c.admins[senderID]
}
