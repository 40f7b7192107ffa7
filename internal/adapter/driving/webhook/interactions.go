package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/forgebyte/relaybot/internal/application"
	"github.com/forgebyte/relaybot/internal/domain/model"
	"github.com/forgebyte/relaybot/internal/domain/port/driven"
)

// Interaction response types and flags, per the platform's interaction model.
const (
	interactionPing           = 1
	interactionCommand        = 2
	responsePong              = 1
	responseChannelMessage    = 4
	responseDeferredEphemeral = 5
	flagEphemeral             = 64
)

// followupTimeout bounds the background work behind a deferred ack. The
// platform expires interaction tokens after 15 minutes; we stay well under.
const followupTimeout = 2 * time.Minute

// Interaction is the inbound interaction payload, reduced to the fields the
// router needs.
type Interaction struct {
	Type    int                `json:"type"`
	Token   string             `json:"token"`
	GuildID string             `json:"guild_id"`
	Member  *InteractionMember `json:"member"`
	Data    *InteractionData   `json:"data"`
}

// InteractionMember carries the invoking member's resolved permissions.
type InteractionMember struct {
	Permissions string           `json:"permissions"`
	User        *InteractionUser `json:"user"`
}

// InteractionUser identifies the invoking user.
type InteractionUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// InteractionData is the invoked command with its options.
type InteractionData struct {
	Name    string              `json:"name"`
	Options []InteractionOption `json:"options"`
}

// InteractionOption is a single command argument.
type InteractionOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// InteractionResponse is the synchronous reply to an interaction.
type InteractionResponse struct {
	Type int                      `json:"type"`
	Data *InteractionResponseData `json:"data,omitempty"`
}

// InteractionResponseData is the message payload of an interaction response.
type InteractionResponseData struct {
	Content string `json:"content,omitempty"`
	Flags   int    `json:"flags,omitempty"`
}

// Interactions terminates the chat platform's interaction callback. The
// Ed25519 signature is checked against the raw body before any parsing;
// unverifiable requests get 401, which the platform requires to validate the
// endpoint.
func (h *Handler) Interactions(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	if !application.VerifyInteractionSignature(
		h.publicKey,
		r.Header.Get("X-Signature-Timestamp"),
		body,
		r.Header.Get("X-Signature-Ed25519"),
	) {
		h.logger.Warn("interaction signature verification failed")
		writeError(w, http.StatusUnauthorized, "invalid request signature")
		return
	}

	var interaction Interaction
	if err := json.Unmarshal(body, &interaction); err != nil {
		writeError(w, http.StatusBadRequest, "malformed interaction")
		return
	}

	switch interaction.Type {
	case interactionPing:
		writeJSON(w, http.StatusOK, InteractionResponse{Type: responsePong})
	case interactionCommand:
		h.routeCommand(w, r, interaction)
	default:
		writeError(w, http.StatusBadRequest, "unsupported interaction type")
	}
}

func (h *Handler) routeCommand(w http.ResponseWriter, r *http.Request, interaction Interaction) {
	if interaction.Data == nil {
		writeError(w, http.StatusBadRequest, "missing command data")
		return
	}

	switch interaction.Data.Name {
	case "setup-server":
		h.deferredCommand(w, interaction, func(ctx context.Context) (string, error) {
			return h.admin.Setup(ctx, interaction.GuildID)
		})
	case "approve":
		repo := optionValue(interaction.Data.Options, "repo")
		h.deferredCommand(w, interaction, func(ctx context.Context) (string, error) {
			return h.admin.Approve(ctx, interaction.GuildID, repo)
		})
	case "repair":
		h.deferredCommand(w, interaction, func(ctx context.Context) (string, error) {
			return h.admin.Repair(ctx, interaction.GuildID)
		})
	case "submit-project":
		repo := optionValue(interaction.Data.Options, "repo")
		message, err := h.admin.Submit(r.Context(), interaction.GuildID, repo)
		h.ephemeral(w, message, err)
	case "deny":
		repo := optionValue(interaction.Data.Options, "repo")
		h.moderatedEphemeral(w, r, interaction, func(ctx context.Context) (string, error) {
			return h.admin.Deny(ctx, repo)
		})
	case "list":
		h.moderatedEphemeral(w, r, interaction, func(ctx context.Context) (string, error) {
			return h.admin.List(ctx, interaction.GuildID)
		})
	case "whitelist-user":
		h.moderatedEphemeral(w, r, interaction, func(_ context.Context) (string, error) {
			// Accepted but not yet acted on.
			return "User whitelisting is noted but not enforced yet.", nil
		})
	default:
		h.ephemeral(w, "", fmt.Errorf("unknown command %q", interaction.Data.Name))
	}
}

// deferredCommand gates an expensive administrative command on moderator
// permissions and the per-guild rate limit, acknowledges it with a deferred
// ephemeral response, and completes it from a goroutine via a follow-up
// message. Follow-up delivery failures are logged and swallowed; there is no
// channel left to report them on.
func (h *Handler) deferredCommand(w http.ResponseWriter, interaction Interaction, run func(ctx context.Context) (string, error)) {
	if !isModerator(interaction.Member) {
		h.ephemeral(w, "", application.ErrNotModerator)
		return
	}

	if retryAfter, ok := h.limiter.Check(interaction.GuildID); !ok {
		h.ephemeral(w, fmt.Sprintf("⏳ Slow down! Try again in %d seconds.", retryAfter), nil)
		return
	}

	command := interaction.Data.Name
	token := interaction.Token

	writeJSON(w, http.StatusOK, InteractionResponse{
		Type: responseDeferredEphemeral,
		Data: &InteractionResponseData{Flags: flagEphemeral},
	})

	// The HTTP response is already committed; finish on a fresh context.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), followupTimeout)
		defer cancel()

		message, err := run(ctx)
		if err != nil {
			h.logger.Error("deferred command failed",
				"command", command,
				"guild", interaction.GuildID,
				"error", err,
			)
			message = friendlyError(err)
		}

		if err := h.chat.SendFollowup(ctx, token, message); err != nil {
			h.logger.Error("follow-up delivery failed", "command", command, "error", err)
		}
	}()
}

// moderatedEphemeral gates a moderator-only command that fits the interactive
// budget, runs it synchronously, and answers with an ephemeral message. Deny
// in particular is destructive, so it gets the same permission check as the
// deferred commands even though it needs no rate limit.
func (h *Handler) moderatedEphemeral(w http.ResponseWriter, r *http.Request, interaction Interaction, run func(ctx context.Context) (string, error)) {
	if !isModerator(interaction.Member) {
		h.ephemeral(w, "", application.ErrNotModerator)
		return
	}

	message, err := run(r.Context())
	h.ephemeral(w, message, err)
}

// ephemeral writes a type-4 ephemeral response, mapping known errors to
// friendly text.
func (h *Handler) ephemeral(w http.ResponseWriter, message string, err error) {
	if err != nil {
		h.logger.Warn("command rejected", "error", err)
		message = friendlyError(err)
	}

	writeJSON(w, http.StatusOK, InteractionResponse{
		Type: responseChannelMessage,
		Data: &InteractionResponseData{Content: message, Flags: flagEphemeral},
	})
}

// friendlyError maps sentinel errors to operator-facing text.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, application.ErrNotModerator):
		return "🚫 You need the Administrator or Manage Server permission for that."
	case errors.Is(err, application.ErrNotConfigured):
		return "⚠️ This server is not set up yet. Run `/setup-server` first."
	case errors.Is(err, application.ErrAlreadyApproved):
		return "That project is already approved."
	case errors.Is(err, driven.ErrProjectNotFound):
		return "No project with that repository is registered."
	case errors.Is(err, driven.ErrProjectExists):
		return "That project has already been submitted."
	default:
		return "❌ Something went wrong. Check the bot logs."
	}
}

// isModerator parses the member's permission bitfield and checks for an
// administrator-equivalent bit. Missing or malformed permissions fail closed.
func isModerator(member *InteractionMember) bool {
	if member == nil || member.Permissions == "" {
		return false
	}
	bits, err := strconv.ParseUint(member.Permissions, 10, 64)
	if err != nil {
		return false
	}
	return model.Permissions(bits).IsModerator()
}

// optionValue returns the named option's value, or "" when absent.
func optionValue(options []InteractionOption, name string) string {
	for _, opt := range options {
		if opt.Name == name {
			return opt.Value
		}
	}
	return ""
}
