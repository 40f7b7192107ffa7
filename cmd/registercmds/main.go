// Command registercmds registers the bot's slash commands with the chat
// platform. Run once per application (or per guild for instant propagation
// during development), not on every deploy.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/joho/godotenv"
)

const baseURL = "https://discord.com/api/v10"

// Option types per the platform's application-command model.
const optionTypeString = 3

type commandOption struct {
	Type        int    `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

type command struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Options     []commandOption `json:"options,omitempty"`
}

func repoOption() []commandOption {
	return []commandOption{{
		Type:        optionTypeString,
		Name:        "repo",
		Description: "Repository in owner/name form",
		Required:    true,
	}}
}

func commands() []command {
	return []command{
		{Name: "setup-server", Description: "Create the channel layout and save the server configuration"},
		{Name: "submit-project", Description: "Submit a GitHub repository for approval", Options: repoOption()},
		{Name: "approve", Description: "Approve a submitted project and create its forum", Options: repoOption()},
		{Name: "deny", Description: "Deny and remove a submitted project", Options: repoOption()},
		{Name: "repair", Description: "Recreate any missing channels for this server"},
		{Name: "list", Description: "List approved and pending projects"},
		{Name: "whitelist-user", Description: "Whitelist a user for project submissions", Options: []commandOption{{
			Type:        optionTypeString,
			Name:        "user",
			Description: "User to whitelist",
			Required:    true,
		}}},
	}
}

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	token := os.Getenv("RELAYBOT_DISCORD_BOT_TOKEN")
	if token == "" {
		return fmt.Errorf("RELAYBOT_DISCORD_BOT_TOKEN is required")
	}
	applicationID := os.Getenv("RELAYBOT_DISCORD_APPLICATION_ID")
	if applicationID == "" {
		return fmt.Errorf("RELAYBOT_DISCORD_APPLICATION_ID is required")
	}

	// With a guild id the commands register guild-scoped and propagate
	// instantly; without one they register globally.
	url := fmt.Sprintf("%s/applications/%s/commands", baseURL, applicationID)
	if guildID := os.Getenv("RELAYBOT_DISCORD_GUILD_ID"); guildID != "" {
		url = fmt.Sprintf("%s/applications/%s/guilds/%s/commands", baseURL, applicationID, guildID)
	}

	payload, err := json.Marshal(commands())
	if err != nil {
		return fmt.Errorf("marshal commands: %w", err)
	}

	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+token)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("register commands: status %d: %s", resp.StatusCode, text)
	}

	slog.Info("slash commands registered", "count", len(commands()), "url", url)
	return nil
}
