package entity

import (
	"time"

	"github.com/google/uuid"
)

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is an append-only log entry. ContextChunks lists the embedding
// chunks that grounded an assistant reply; historical ids may point at chunks
// deleted by a later re-upload and are treated as snapshots, not live links.
type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string
	Content       string
	ContextChunks []uuid.UUID
	CreatedAt     time.Time
}
