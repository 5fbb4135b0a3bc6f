package domain

import (
	"time"
)

// User mirrors an identity-provider account in our store.
// The identity provider owns the record; we only keep a synced copy.
type User struct {
	ID        string    `json:"id"`
	ClerkID   string    `json:"clerkId"` // Unique
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserSync is the payload of a syncUser call derived from a webhook event.
type UserSync struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	ClerkID string `json:"clerkId"`
	Image   string `json:"image,omitempty"` // Empty means absent
}

// Role of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the transcript roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one turn of a chat transcript. Transcripts are never stored.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
