package webhook

import (
	"encoding/json"
	"strings"

	"coresync/coach/internal/domain"
)

// Clerk event types that trigger a user sync.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
)

// Event is a Clerk webhook envelope.
type Event struct {
	Type       string          `json:"type"`
	Object     string          `json:"object"`
	Data       json.RawMessage `json:"data"`
	DeliveryID string          `json:"-"` // svix-id of the delivery
}

// EmailAddress is one entry of a Clerk user's email_addresses.
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// ClerkUser is the subset of a Clerk user object we mirror.
type ClerkUser struct {
	ID                    string         `json:"id"`
	FirstName             string         `json:"first_name"`
	LastName              string         `json:"last_name"`
	ImageURL              string         `json:"image_url"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
	EmailAddresses        []EmailAddress `json:"email_addresses"`
}

// IsUserSync reports whether the event should be mirrored into the store.
func (e *Event) IsUserSync() bool {
	return e.Type == EventUserCreated || e.Type == EventUserUpdated
}

// User decodes the event data as a Clerk user.
func (e *Event) User() (ClerkUser, error) {
	var u ClerkUser
	if err := json.Unmarshal(e.Data, &u); err != nil {
		return ClerkUser{}, err
	}
	return u, nil
}

// SyncParams maps a Clerk user to a syncUser call.
func SyncParams(u ClerkUser) domain.UserSync {
	return domain.UserSync{
		Name:    fullName(u.FirstName, u.LastName),
		Email:   primaryEmail(u),
		ClerkID: u.ID,
		Image:   u.ImageURL,
	}
}

func fullName(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// primaryEmail picks the address flagged primary, else the first one, else "".
// A primary entry with an empty address falls back to the first one too.
func primaryEmail(u ClerkUser) string {
	for _, e := range u.EmailAddresses {
		if e.ID == u.PrimaryEmailAddressID && e.EmailAddress != "" {
			return e.EmailAddress
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}
