// Package chat implements the turn orchestration core: assembling the
// bounded outbound context for a conversation and committing both sides of a
// turn around a single model call.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"solochat/internal/gemini"
	"solochat/internal/storage"
)

// ModelKeySetting is the settings-table key holding the model API key.
const ModelKeySetting = "gemini_api_key"

// DefaultHistoryLimit is the sliding context window: the number of most
// recent messages sent upstream per turn.
const DefaultHistoryLimit = 40

// ErrEmptyMessage is returned when a turn is attempted with no message text.
var ErrEmptyMessage = errors.New("message required")

// ErrModelKeyNotSet is returned when no model API key has been configured.
// An operator misconfiguration, not an upstream failure; never retried.
var ErrModelKeyNotSet = errors.New("model API key not set; configure it in settings")

// Generator is the model collaborator: one call per turn, no retries.
type Generator interface {
	Generate(ctx context.Context, apiKey string, contents []gemini.Content) (string, error)
}

// Assembler builds outbound contexts and runs turns against the store and
// the model collaborator. It holds no per-request state.
type Assembler struct {
	store  *storage.Store
	model  Generator
	window int
}

// NewAssembler creates an Assembler with the given history window. A window
// of <= 0 selects DefaultHistoryLimit.
func NewAssembler(store *storage.Store, model Generator, window int) *Assembler {
	if window <= 0 {
		window = DefaultHistoryLimit
	}
	return &Assembler{store: store, model: model, window: window}
}

// BuildContext assembles the ordered outbound context for one turn: optional
// system prompt, role-normalized history, an attachment summary note when
// attachments exist, and the new user message last. Stored rows are never
// mutated; attachment bytes never enter the context, only name and MIME type.
func BuildContext(c storage.Chat, history []storage.Message, atts []storage.Attachment, newMessage string) []gemini.Content {
	contents := make([]gemini.Content, 0, len(history)+3)

	if c.SystemPrompt != nil && *c.SystemPrompt != "" {
		contents = append(contents, gemini.Content{
			Role:  "system",
			Parts: []gemini.Part{{Text: *c.SystemPrompt}},
		})
	}

	for _, m := range history {
		role := m.Role
		// Exactly two roles are persisted today; normalizing guards
		// against future role values leaking upstream.
		if role != storage.RoleModel {
			role = storage.RoleUser
		}
		contents = append(contents, gemini.Content{
			Role:  role,
			Parts: []gemini.Part{{Text: m.Content}},
		})
	}

	if len(atts) > 0 {
		descs := make([]string, len(atts))
		for i, a := range atts {
			descs[i] = fmt.Sprintf("%s (%s)", a.Name, a.MimeType)
		}
		contents = append(contents, gemini.Content{
			Role:  storage.RoleUser,
			Parts: []gemini.Part{{Text: "These files are attached: " + strings.Join(descs, ", ")}},
		})
	}

	contents = append(contents, gemini.Content{
		Role:  storage.RoleUser,
		Parts: []gemini.Part{{Text: newMessage}},
	})
	return contents
}

// Send runs one turn: assemble the context, persist the user message, call
// the model once, persist the reply. The user message is committed before the
// outbound call, so a failed call leaves the turn half-done on purpose: the
// user's message stays, no model message is written, and the error surfaces.
func (a *Assembler) Send(ctx context.Context, chatID, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyMessage
	}

	c, err := a.store.GetChat(chatID)
	if err != nil {
		return "", err
	}

	history, err := a.store.RecentMessages(chatID, a.window)
	if err != nil {
		return "", fmt.Errorf("loading history: %w", err)
	}
	atts, err := a.store.ListAttachments(chatID)
	if err != nil {
		return "", fmt.Errorf("loading attachments: %w", err)
	}

	contents := BuildContext(c, history, atts, text)

	// Phase 1: the user message is durable before anything leaves the process.
	if _, err := a.store.AppendMessage(chatID, storage.RoleUser, text); err != nil {
		return "", fmt.Errorf("persisting user message: %w", err)
	}

	apiKey, err := a.store.GetSetting(ModelKeySetting)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrModelKeyNotSet
	}
	if err != nil {
		return "", fmt.Errorf("resolving model API key: %w", err)
	}

	// Phase 2: exactly one attempt.
	reply, err := a.model.Generate(ctx, apiKey, contents)
	if err != nil {
		return "", err
	}

	if _, err := a.store.AppendMessage(chatID, storage.RoleModel, reply); err != nil {
		return "", fmt.Errorf("persisting model message: %w", err)
	}
	return reply, nil
}
