// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr           string
	DBPath               string
	GitHubWebhookSecret  string
	DiscordPublicKey     string
	DiscordBotToken      string
	DiscordApplicationID string
	RateLimitWindow      time.Duration
	RateLimitMax         int
}

// Load reads configuration from the environment and returns a validated
// Config. A .env file in the working directory is loaded first when present.
// Required: RELAYBOT_GITHUB_WEBHOOK_SECRET, RELAYBOT_DISCORD_PUBLIC_KEY,
// RELAYBOT_DISCORD_BOT_TOKEN, RELAYBOT_DISCORD_APPLICATION_ID.
// Optional with defaults: RELAYBOT_LISTEN_ADDR (0.0.0.0:3000),
// RELAYBOT_DB_PATH (relaybot.db), RELAYBOT_RATE_LIMIT_WINDOW (60s),
// RELAYBOT_RATE_LIMIT_MAX (5).
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	webhookSecret := os.Getenv("RELAYBOT_GITHUB_WEBHOOK_SECRET")
	if webhookSecret == "" {
		return nil, fmt.Errorf("RELAYBOT_GITHUB_WEBHOOK_SECRET is required")
	}

	publicKey := os.Getenv("RELAYBOT_DISCORD_PUBLIC_KEY")
	if publicKey == "" {
		return nil, fmt.Errorf("RELAYBOT_DISCORD_PUBLIC_KEY is required")
	}

	botToken := os.Getenv("RELAYBOT_DISCORD_BOT_TOKEN")
	if botToken == "" {
		return nil, fmt.Errorf("RELAYBOT_DISCORD_BOT_TOKEN is required")
	}

	applicationID := os.Getenv("RELAYBOT_DISCORD_APPLICATION_ID")
	if applicationID == "" {
		return nil, fmt.Errorf("RELAYBOT_DISCORD_APPLICATION_ID is required")
	}

	listenAddr := "0.0.0.0:3000"
	if v, ok := os.LookupEnv("RELAYBOT_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "relaybot.db"
	if v, ok := os.LookupEnv("RELAYBOT_DB_PATH"); ok {
		dbPath = v
	}

	rateLimitWindow := 60 * time.Second
	if v, ok := os.LookupEnv("RELAYBOT_RATE_LIMIT_WINDOW"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("RELAYBOT_RATE_LIMIT_WINDOW has invalid duration %q: %w", v, err)
		}
		rateLimitWindow = parsed
	}

	rateLimitMax := 5
	if v, ok := os.LookupEnv("RELAYBOT_RATE_LIMIT_MAX"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("RELAYBOT_RATE_LIMIT_MAX has invalid value %q", v)
		}
		rateLimitMax = parsed
	}

	return &Config{
		ListenAddr:           listenAddr,
		DBPath:               dbPath,
		GitHubWebhookSecret:  webhookSecret,
		DiscordPublicKey:     publicKey,
		DiscordBotToken:      botToken,
		DiscordApplicationID: applicationID,
		RateLimitWindow:      rateLimitWindow,
		RateLimitMax:         rateLimitMax,
	}, nil
}
