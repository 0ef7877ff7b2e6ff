package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/artcast/artcast/internal/bus"
	"github.com/artcast/artcast/internal/schedule"
)

const telegramCommandPrefix = "/"

func init() {
	Register("telegram", newTelegramChannel)
}

type telegramConfig struct {
	Token      string   `json:"token"`
	AdminUsers []string `json:"adminUsers"`
}

type TelegramChannel struct {
	bot    *tgbotapi.BotAPI
	bus    *bus.CommandBus
	admins map[string]bool
	stopCh chan struct{}
}

func newTelegramChannel(cfg json.RawMessage, b *bus.CommandBus) (Channel, error) {
	var tcfg telegramConfig
	if err := json.Unmarshal(cfg, &tcfg); err != nil {
		return nil, fmt.Errorf("failed to parse telegram config: %w", err)
	}
	bot, err := tgbotapi.NewBotAPI(tcfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	admins := make(map[string]bool, len(tcfg.AdminUsers))
	for _, u := range tcfg.AdminUsers {
		admins[u] = true
	}
	return &TelegramChannel{
		bot:    bot,
		bus:    b,
		admins: admins,
		stopCh: make(chan struct{}),
	}, nil
}

func (c *TelegramChannel) Name() string                { return "telegram" }
func (c *TelegramChannel) Platform() schedule.Platform { return schedule.PlatformTelegram }

func (c *TelegramChannel) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := c.bot.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message == nil || update.Message.From == nil {
					continue
				}
				cmd, args, ok := parseCommand(update.Message.Text, telegramCommandPrefix)
				if !ok {
					continue
				}
				senderID := strconv.FormatInt(update.Message.From.ID, 10)
				c.bus.PublishRequest(bus.CommandRequest{
					Platform:   schedule.PlatformTelegram,
					Command:    cmd,
					Args:       args,
					SenderID:   senderID,
					SenderName: update.Message.From.UserName,
					IsAdmin:    c.IsAdmin(senderID),
					ChatID:     strconv.FormatInt(update.Message.Chat.ID, 10),
				})
			case <-ctx.Done():
				c.bot.StopReceivingUpdates()
				return
			case <-c.stopCh:
				c.bot.StopReceivingUpdates()
				return
			}
		}
	}()
	slog.Info("telegram channel started")
	return nil
}

func (c *TelegramChannel) Stop() error {
	close(c.stopCh)
	return nil
}

func (c *TelegramChannel) Send(ctx context.Context, destinationID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	chatID, err := strconv.ParseInt(destinationID, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram: invalid chat ID %q: %w", destinationID, err)
	}
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeHTML
	if _, err := c.bot.Send(m); err != nil {
		return fmt.Errorf("telegram: failed to send message to %s: %w", destinationID, err)
	}
	return nil
}

func (c *TelegramChannel) IsAdmin(senderID string) bool {
	return c.admins[senderID]
}
