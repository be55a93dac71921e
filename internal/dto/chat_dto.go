package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateChatSessionRequest struct {
	GameId uuid.UUID `json:"gameId" validate:"required"`
	Title  *string   `json:"title,omitempty" validate:"omitempty,max=255"`
}

type ChatSessionResponse struct {
	Id        uuid.UUID  `json:"id"`
	GameId    uuid.UUID  `json:"gameId"`
	Title     *string    `json:"title,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// ChatSessionSummaryResponse augments a session with message aggregates
// for listings.
type ChatSessionSummaryResponse struct {
	Id            uuid.UUID  `json:"id"`
	GameId        uuid.UUID  `json:"gameId"`
	Title         *string    `json:"title,omitempty"`
	MessageCount  int64      `json:"messageCount"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type ChatMessageResponse struct {
	Id            uuid.UUID   `json:"id"`
	ChatSessionId uuid.UUID   `json:"sessionId"`
	Role          string      `json:"role"`
	Content       string      `json:"content"`
	ContextChunks []uuid.UUID `json:"contextChunks,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

type ChatSessionDetailResponse struct {
	Session  ChatSessionResponse   `json:"session"`
	Messages []ChatMessageResponse `json:"messages"`
}

type ListChatSessionsQuery struct {
	PaginationQuery
	GameId *uuid.UUID `query:"gameId"`
}

type PostChatMessageRequest struct {
	SessionId uuid.UUID `json:"sessionId" validate:"required"`
	Message   string    `json:"message" validate:"required,min=1"`
}

type PostChatMessageResponse struct {
	Message        ChatMessageResponse `json:"message"`
	ContextSources []SearchResultItem  `json:"contextSources"`
}
