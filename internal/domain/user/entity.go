package user

import "time"

// Outcome classifies how a deletion attempt ended.
type Outcome string

const (
	OutcomeDeleted         Outcome = "deleted"          // provider answered 204
	OutcomeProviderError   Outcome = "provider_error"   // provider answered another status with JSON
	OutcomeTransportError  Outcome = "transport_error"  // no response from provider
	OutcomeInvalidResponse Outcome = "invalid_response" // provider body was not JSON
)

// DeletionRecord is one audited call to the identity provider.
type DeletionRecord struct {
	ID             int64
	UserID         string
	Outcome        Outcome
	ProviderStatus int // 0 when the provider never answered
	RequestID      string
	Error          string
	CreatedAt      time.Time
}

// UserDeletedEvent is broadcast after the provider confirms a deletion.
type UserDeletedEvent struct {
	UserID    string    `json:"user_id"`
	RequestID string    `json:"request_id,omitempty"`
	DeletedAt time.Time `json:"deleted_at"`
}
