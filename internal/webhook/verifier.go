// Package webhook verifies identity-provider webhook deliveries and maps their payloads.
package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	svix "github.com/svix/svix-webhooks/go"
)

// Signature envelope headers.
const (
	HeaderID        = "svix-id"
	HeaderTimestamp = "svix-timestamp"
	HeaderSignature = "svix-signature"
)

var (
	ErrNoSecret       = errors.New("webhook secret is not configured")
	ErrMissingHeaders = errors.New("missing svix signature headers")
	ErrBadSignature   = errors.New("webhook signature verification failed")
	ErrBadPayload     = errors.New("webhook payload is not a valid event")
)

// Verifier checks svix signatures with a shared secret.
type Verifier struct {
	wh  *svix.Webhook
	err error // Set when the secret is missing or malformed
}

// NewVerifier creates a Verifier. A missing or malformed secret is not reported here;
// every Verify call fails with ErrNoSecret instead, so the process can still start.
func NewVerifier(secret string) *Verifier {
	if secret == "" {
		return &Verifier{err: ErrNoSecret}
	}
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return &Verifier{err: fmt.Errorf("%w: %v", ErrNoSecret, err)}
	}
	return &Verifier{wh: wh}
}

// Configured reports whether the verifier holds a usable secret.
func (v *Verifier) Configured() bool {
	return v != nil && v.err == nil
}

// Verify authenticates body against the envelope headers and decodes the event.
func (v *Verifier) Verify(headers http.Header, body []byte) (*Event, error) {
	if !v.Configured() {
		if v == nil {
			return nil, ErrNoSecret
		}
		return nil, v.err
	}

	if headers.Get(HeaderID) == "" || headers.Get(HeaderTimestamp) == "" || headers.Get(HeaderSignature) == "" {
		return nil, ErrMissingHeaders
	}

	if err := v.wh.Verify(body, headers); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSignature, err)
	}

	var evt Event
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	evt.DeliveryID = headers.Get(HeaderID)
	return &evt, nil
}
