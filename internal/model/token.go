package model

import "time"

// Token kinds as persisted in the tokens.kind column and embedded in the
// signed token's claims. Access tokens are short-lived bearer credentials;
// refresh tokens are long-lived and exchanged for new pairs.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// Token models one row of the `tokens` ledger table. Every issued token is
// recorded here under its unique id (the JWT "jti" claim) so that it can be
// revoked individually or in bulk. The signed string itself is never
// stored; the ledger only tracks issuance and revocation state.
//
// Fields:
//  ID        – unique token id (UUID, equals the jti claim).
//  UserID    – owner of the token; rows cascade on user deletion.
//  Kind      – TokenKindAccess or TokenKindRefresh.
//  IssuedAt  – when the token was signed.
//  ExpiresAt – expiry instant embedded in the claims.
//  RevokedAt – when the token was revoked (null while active).
type Token struct {
	ID        string     // tokens.id
	UserID    uint64     // tokens.user_id
	Kind      string     // tokens.kind
	IssuedAt  time.Time  // tokens.issued_at
	ExpiresAt time.Time  // tokens.expires_at
	RevokedAt *time.Time // tokens.revoked_at (nullable)
}
