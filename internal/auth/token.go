package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iliyamo/library-management/internal/model"
	"github.com/iliyamo/library-management/internal/repository"
)

// Claims is the payload embedded in every signed token. Subject holds
// the user id, ID the unique token id (jti) that keys the revocation
// ledger, Kind distinguishes access from refresh tokens.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Kind  string `json:"kind"`
	jwt.RegisteredClaims
}

// SignedToken is a serialized token together with its ledger id and
// expiry, returned to clients verbatim.
type SignedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// TokenPair is one access + one refresh token issued together.
type TokenPair struct {
	Access  SignedToken
	Refresh SignedToken
}

// Identity is the (user id, email, role) tuple resolved from a validated
// token, attached to the request context for permission checks.
type Identity struct {
	UserID uint64
	Email  string
	Role   Role
}

// Issue signs an HS256 token of the given kind for a user and records it
// in the revocation ledger. The ledger write happens before the token is
// returned, so a client can never present a token the ledger has not
// seen. A signing failure aborts the operation with nothing persisted.
func (s *Service) Issue(ctx context.Context, u model.User, kind string, ttl time.Duration) (SignedToken, error) {
	if len(s.secret) == 0 {
		return SignedToken{}, ErrSigning
	}
	now := s.now().UTC()
	exp := now.Add(ttl)
	id := uuid.NewString()
	claims := Claims{
		Email: u.Email,
		Role:  u.Role,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(u.ID, 10),
			ID:        id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return SignedToken{}, fmt.Errorf("%w: %v", ErrSigning, err)
	}
	entry := model.Token{ID: id, UserID: u.ID, Kind: kind, IssuedAt: now, ExpiresAt: exp}
	if err := s.ledger.Record(ctx, entry); err != nil {
		return SignedToken{}, fmt.Errorf("record token: %w", err)
	}
	return SignedToken{Token: signed, ID: id, ExpiresAt: exp}, nil
}

// Validate verifies a presented token end to end and resolves it to an
// identity. Checks run in a fixed order: signature, claims shape, kind,
// expiry, revocation ledger, then user lookup. Expiry is always judged
// against the injected clock, never a persisted flag. No side effects on
// success.
func (s *Service) Validate(ctx context.Context, raw, kind string) (Identity, error) {
	u, _, err := s.validateToken(ctx, raw, kind)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: u.ID, Email: u.Email, Role: Role(u.Role)}, nil
}

// validateToken runs the full validation pipeline and returns the live
// user plus the decoded claims, so Refresh can revoke the presented jti.
func (s *Service) validateToken(ctx context.Context, raw, kind string) (model.User, Claims, error) {
	claims, err := s.parseClaims(raw)
	if err != nil {
		return model.User{}, Claims{}, err
	}
	if claims.Kind != kind {
		return model.User{}, Claims{}, ErrWrongTokenKind
	}
	now := s.now().UTC()
	if !now.Before(claims.ExpiresAt.Time) {
		return model.User{}, Claims{}, ErrTokenExpired
	}
	active, err := s.ledger.IsActive(ctx, claims.ID, now)
	if err != nil {
		return model.User{}, Claims{}, fmt.Errorf("ledger lookup: %w", err)
	}
	if !active {
		// Unknown ids fail the same way: a token the ledger never saw is
		// as dead as an explicitly revoked one.
		return model.User{}, Claims{}, ErrTokenRevoked
	}
	uid, _ := strconv.ParseUint(claims.Subject, 10, 64)
	u, err := s.users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, Claims{}, ErrUserNotFound
		}
		return model.User{}, Claims{}, fmt.Errorf("load user: %w", err)
	}
	if !u.Enabled {
		return model.User{}, Claims{}, ErrUserDisabled
	}
	return u, claims, nil
}

// parseClaims verifies the signature and decodes the claims without any
// liveness checks. Expiry, kind and revocation stay under the caller's
// control so the checks keep their contractual order.
func (s *Service) parseClaims(raw string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	var claims Claims
	_, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenMalformed):
		return Claims{}, ErrMalformedToken
	default:
		// Signature mismatch, unexpected algorithm, anything tampered.
		return Claims{}, ErrInvalidSignature
	}
	if claims.ID == "" || claims.Kind == "" || claims.ExpiresAt == nil {
		return Claims{}, ErrMalformedToken
	}
	if _, err := strconv.ParseUint(claims.Subject, 10, 64); err != nil {
		return Claims{}, ErrMalformedToken
	}
	if _, ok := ParseRole(claims.Role); !ok {
		return Claims{}, ErrMalformedToken
	}
	return claims, nil
}
