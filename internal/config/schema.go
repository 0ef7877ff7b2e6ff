package config

// Config is the top-level configuration.
type Config struct {
	StorePath string         `json:"storePath"`
	LogLevel  string         `json:"logLevel"`
	Content   ContentConfig  `json:"content"`
	Channels  ChannelsConfig `json:"channels"`
}

// ContentConfig points at the marketplace API.
type ContentConfig struct {
	BaseURL        string `json:"baseUrl"`
	APIKey         string `json:"apiKey"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

type ChannelsConfig struct {
	Discord  DiscordConfig  `json:"discord"`
	Telegram TelegramConfig `json:"telegram"`
}

type DiscordConfig struct {
	Token      string   `json:"token"`
	AdminUsers []string `json:"adminUsers"`
}

type TelegramConfig struct {
	Token      string   `json:"token"`
	AdminUsers []string `json:"adminUsers"`
}

// DefaultConfig returns a Config with sensible defaults applied.
func DefaultConfig() *Config {
	return &Config{
		StorePath: "~/.artcast/schedules.json",
		LogLevel:  "info",
		Content: ContentConfig{
			TimeoutSeconds: 30,
		},
	}
}
