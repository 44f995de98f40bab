// Package config loads gdg-meetup settings from a .env file, the process
// environment and command-line flags.
//
// Precedence, highest first: an explicitly set flag, an environment variable,
// a value from the .env file, the built-in default. The .env file never
// overrides variables already present in the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gdg-londrina/gdg-meetup/internal/meetup"
	"github.com/gdg-londrina/gdg-meetup/internal/telegram"
)

// Environment keys
const (
	KeyMeetupAPIKey        = "MEETUP_API_KEY"
	KeyMeetupBaseURL       = "MEETUP_BASE_URL"
	KeyMeetupGroup         = "MEETUP_GROUP"
	KeyTelegramBotToken    = "TELEGRAM_BOT_TOKEN"
	KeyTelegramChatID      = "TELEGRAM_CHAT_ID"
	KeyTelegramAPIURL      = "TELEGRAM_API_URL"
	KeyTwitterAPIKey       = "TWITTER_API_KEY"
	KeyTwitterAPISecret    = "TWITTER_API_SECRET"
	KeyTwitterAccessToken  = "TWITTER_ACCESS_TOKEN"
	KeyTwitterAccessSecret = "TWITTER_ACCESS_SECRET"
	KeyLogLevel            = "LOG_LEVEL"

	DefaultEnvFile = ".env"
)

// Config holds all gdg-meetup settings
type Config struct {
	Meetup   MeetupConfig
	Telegram TelegramConfig
	Twitter  TwitterConfig
	LogLevel string
}

type MeetupConfig struct {
	APIKey  string
	BaseURL string
	Group   string
}

type TelegramConfig struct {
	BotToken string
	ChatID   string
	APIURL   string // Bot API server, for self-hosted servers
}

type TwitterConfig struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// FlagBindings maps config keys to the names of flags that may override them
type FlagBindings map[string]string

// Load reads envFile (a missing file is not an error), then the environment,
// then any flag in flags named by bindings. flags may be nil.
func Load(envFile string, flags *pflag.FlagSet, bindings FlagBindings) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if flags != nil {
		for key, flagName := range bindings {
			flag := flags.Lookup(flagName)
			if flag == nil {
				return nil, fmt.Errorf("unknown flag %q bound to %s", flagName, key)
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", flagName, err)
			}
		}
	}

	cfg := &Config{
		Meetup: MeetupConfig{
			APIKey:  v.GetString(KeyMeetupAPIKey),
			BaseURL: v.GetString(KeyMeetupBaseURL),
			Group:   v.GetString(KeyMeetupGroup),
		},
		Telegram: TelegramConfig{
			BotToken: v.GetString(KeyTelegramBotToken),
			ChatID:   v.GetString(KeyTelegramChatID),
			APIURL:   v.GetString(KeyTelegramAPIURL),
		},
		Twitter: TwitterConfig{
			APIKey:       v.GetString(KeyTwitterAPIKey),
			APISecret:    v.GetString(KeyTwitterAPISecret),
			AccessToken:  v.GetString(KeyTwitterAccessToken),
			AccessSecret: v.GetString(KeyTwitterAccessSecret),
		},
		LogLevel: strings.ToLower(v.GetString(KeyLogLevel)),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyMeetupBaseURL, meetup.DefaultBaseURL)
	v.SetDefault(KeyMeetupGroup, meetup.DefaultGroup)
	v.SetDefault(KeyTelegramAPIURL, telegram.DefaultAPIURL)
	v.SetDefault(KeyLogLevel, "info")
}

// MeetupClient returns the options for meetup.NewClient
func (c *Config) MeetupClient() meetup.Config {
	return meetup.Config{
		APIKey:       c.Meetup.APIKey,
		BaseURL:      c.Meetup.BaseURL,
		GroupURLName: c.Meetup.Group,
	}
}

// HasTwitter reports whether all four Twitter credentials are set
func (c *Config) HasTwitter() bool {
	t := c.Twitter
	return t.APIKey != "" && t.APISecret != "" && t.AccessToken != "" && t.AccessSecret != ""
}
