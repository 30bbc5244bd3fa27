// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types published on the auth.events queue.
const (
	TypeUserRegistered = "user.registered"
	TypeUserLogin      = "user.login"
	TypeTokensRevoked  = "tokens.revoked_all"
	TypeRoleChanged    = "user.role_changed"
	TypeUserDisabled   = "user.disabled"
)

// AuthEvent is published on security-relevant account actions. It carries
// enough information for downstream consumers to log, alert or feed
// analytics without querying the primary database.
type AuthEvent struct {
	Type    string `json:"type"`
	UserID  uint64 `json:"user_id"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	ActorID uint64 `json:"actor_id,omitempty"`
	At      string `json:"at"`
}
