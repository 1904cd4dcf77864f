package models

import (
	"time"

	"github.com/google/uuid"
)

// Message roles as stored in chat_messages.role.
const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// ChatMessage is one turn of a user's conversation. Content holds Markdown
// (raw model output for AI turns) and may be empty for image-only user turns.
// ImageDataURI, when set, is a data:image/...;base64 payload kept for history
// display and never re-sent to the provider.
type ChatMessage struct {
	ID           uuid.UUID `json:"id"`
	Seq          int64     `json:"-"`
	UserID       uuid.UUID `json:"-"`
	Role         string    `json:"role"`
	Content      string    `json:"content"`
	ImageDataURI *string   `json:"image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasContent reports whether the message carries anything worth replaying
// into a provider session. Rows with neither text nor an image are skipped.
func (m ChatMessage) HasContent() bool {
	return m.Content != "" || m.ImageDataURI != nil
}

// ChatMessageView is a ChatMessage plus the server-rendered HTML used by the
// history endpoint.
type ChatMessageView struct {
	ChatMessage
	ContentHTML string `json:"content_html"`
}

type HistoryResponse struct {
	Messages []ChatMessageView `json:"messages"`
}

// AskResponse is the legacy wire contract: Response carries rendered
// HTML on success and a human-readable diagnostic on failure, in the same
// field. SentImage echoes the uploaded image back as a data URI.
type AskResponse struct {
	Response  string  `json:"response"`
	SentImage *string `json:"sent_image,omitempty"`
}
