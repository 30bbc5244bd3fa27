package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/library-management/internal/model"
	"github.com/iliyamo/library-management/internal/repository"
	"github.com/iliyamo/library-management/internal/utils"
)

// Clock supplies the current time. Injected so expiry behaviour is
// testable without sleeping.
type Clock func() time.Time

// UserStore is the credential store the auth core consumes. The MySQL
// implementation lives in internal/repository; tests supply fakes.
type UserStore interface {
	Create(ctx context.Context, u model.User) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
	UpdateRole(ctx context.Context, id uint64, role string) error
	SetEnabled(ctx context.Context, id uint64, enabled bool) error
	Delete(ctx context.Context, id uint64) error
}

// TokenLedger tracks every issued token by its unique id. Revocation is
// permanent: once a row is revoked it never becomes active again.
type TokenLedger interface {
	Record(ctx context.Context, t model.Token) error
	Revoke(ctx context.Context, tokenID string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
	IsActive(ctx context.Context, tokenID string, now time.Time) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Config carries the tunables for the auth service.
type Config struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	BcryptCost int
}

// Service coordinates registration, login, refresh, logout and the
// admin-only account operations on top of the credential store and the
// revocation ledger.
type Service struct {
	users      UserStore
	ledger     TokenLedger
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	bcryptCost int
	now        Clock
}

func NewService(users UserStore, ledger TokenLedger, cfg Config) *Service {
	return &Service{
		users:      users,
		ledger:     ledger,
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		bcryptCost: cfg.BcryptCost,
		now:        time.Now,
	}
}

// Register validates the input, hashes the password and persists a new
// enabled user. Accounts are usable immediately; no confirmation step.
// The returned user carries no password hash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	if v := validateRegister(in); v != nil {
		return model.User{}, v
	}
	role := RoleUser
	if in.Role != "" {
		role, _ = ParseRole(in.Role)
	}
	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := model.User{
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         string(role),
		Enabled:      true,
	}
	id, err := s.users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.User{}, ErrDuplicateEmail
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	u.ID = id
	u.PasswordHash = ""
	return u, nil
}

// Login checks the credentials and issues a fresh access+refresh pair.
// Unknown email and wrong password both surface as ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (model.User, TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return model.User{}, TokenPair{}, fmt.Errorf("load user: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, TokenPair{}, ErrInvalidCredentials
	}
	if !u.Enabled {
		return model.User{}, TokenPair{}, ErrAccountDisabled
	}
	pair, err := s.IssueSession(ctx, u)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}
	u.PasswordHash = ""
	return u, pair, nil
}

// IssueSession mints the access+refresh pair for an already resolved user.
func (s *Service) IssueSession(ctx context.Context, u model.User) (TokenPair, error) {
	access, err := s.Issue(ctx, u, model.TokenKindAccess, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.Issue(ctx, u, model.TokenKindRefresh, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh validates a refresh token, revokes it and issues a new pair.
// Rotation means a stolen refresh token stops working the moment its
// legitimate holder uses it.
func (s *Service) Refresh(ctx context.Context, rawRefresh string) (model.User, TokenPair, error) {
	u, claims, err := s.validateToken(ctx, rawRefresh, model.TokenKindRefresh)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}
	if err := s.ledger.Revoke(ctx, claims.ID); err != nil {
		return model.User{}, TokenPair{}, fmt.Errorf("revoke refresh token: %w", err)
	}
	pair, err := s.IssueSession(ctx, u)
	if err != nil {
		return model.User{}, TokenPair{}, err
	}
	u.PasswordHash = ""
	return u, pair, nil
}

// Logout revokes the presented token (access or refresh). Only the
// signature and claims are checked; revoking an already dead token is a
// no-op rather than an error.
func (s *Service) Logout(ctx context.Context, raw string) error {
	claims, err := s.parseClaims(raw)
	if err != nil {
		return err
	}
	return s.ledger.Revoke(ctx, claims.ID)
}

// LogoutAll revokes every token the user holds, across all devices.
func (s *Service) LogoutAll(ctx context.Context, userID uint64) error {
	return s.ledger.RevokeAllForUser(ctx, userID)
}

// ChangePassword verifies the current password, persists a new hash and
// revokes every existing token for the user. Forcing re-login everywhere
// after a password change is policy, not an accident.
func (s *Service) ChangePassword(ctx context.Context, userID uint64, current, newPassword, confirmPassword string) error {
	if v := validatePasswordChange(newPassword, confirmPassword); v != nil {
		return v
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	hash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return s.ledger.RevokeAllForUser(ctx, userID)
}

// ChangeRole moves a user to a new role. The actor must hold the admin
// update permission and strictly outrank the resulting role, so an admin
// can demote to MODERATOR or USER but nobody can mint a peer admin.
// All of the target's tokens are revoked so stale role claims die.
func (s *Service) ChangeRole(ctx context.Context, actor Identity, targetID uint64, newRole Role) error {
	if !HasPermission(actor.Role, PermAdminUpdate) {
		return ErrInsufficientPrivilege
	}
	// Normalize before ranking: an unnormalized variant must not slip past
	// the rank comparison or into the role column.
	role, ok := ParseRole(string(newRole))
	if !ok {
		v := &ValidationError{}
		v.add("role", "unknown role")
		return v
	}
	if Rank(actor.Role) <= Rank(role) {
		return ErrInsufficientPrivilege
	}
	if _, err := s.loadTarget(ctx, targetID); err != nil {
		return err
	}
	if err := s.users.UpdateRole(ctx, targetID, string(role)); err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return s.ledger.RevokeAllForUser(ctx, targetID)
}

// SetEnabled flips a user's enabled flag. Disabling revokes all tokens
// immediately instead of waiting for validation to notice the flag.
func (s *Service) SetEnabled(ctx context.Context, actor Identity, targetID uint64, enabled bool) error {
	if !HasPermission(actor.Role, PermAdminUpdate) {
		return ErrInsufficientPrivilege
	}
	target, err := s.loadTarget(ctx, targetID)
	if err != nil {
		return err
	}
	if Rank(actor.Role) <= Rank(Role(target.Role)) {
		return ErrInsufficientPrivilege
	}
	if err := s.users.SetEnabled(ctx, targetID, enabled); err != nil {
		return fmt.Errorf("set enabled: %w", err)
	}
	if !enabled {
		return s.ledger.RevokeAllForUser(ctx, targetID)
	}
	return nil
}

// DeleteUser hard-deletes an account. Token rows go with it via the
// foreign key cascade. Soft-disable is the normal path; this is the
// explicit admin action.
func (s *Service) DeleteUser(ctx context.Context, actor Identity, targetID uint64) error {
	if !HasPermission(actor.Role, PermAdminDelete) {
		return ErrInsufficientPrivilege
	}
	target, err := s.loadTarget(ctx, targetID)
	if err != nil {
		return err
	}
	if Rank(actor.Role) <= Rank(Role(target.Role)) {
		return ErrInsufficientPrivilege
	}
	return s.users.Delete(ctx, targetID)
}

// SweepExpired removes long-expired ledger rows. Housekeeping only;
// validation never trusts persisted state for expiry.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	return s.ledger.DeleteExpired(ctx, s.now().UTC())
}

func (s *Service) loadTarget(ctx context.Context, id uint64) (model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}
