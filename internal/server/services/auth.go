// Package services contains server-side business logic. AuthService owns
// registration, login, token verification and revocation.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/ledger"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/token"
)

// RevocationPolicy decides whether Verify consults the ledger.
type RevocationPolicy string

const (
	// PolicyLazy trusts signature and expiry alone; the ledger is only written.
	PolicyLazy RevocationPolicy = "lazy"
	// PolicyLedger additionally requires the token to still be in the ledger.
	PolicyLedger RevocationPolicy = "ledger"
)

func ParsePolicy(s string) (RevocationPolicy, error) {
	switch p := RevocationPolicy(s); p {
	case PolicyLazy, PolicyLedger:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown revocation policy %q", common.ErrorValidation, s)
}

// FailureReason explains an unsuccessful Register or Login.
type FailureReason string

const (
	ReasonNone               FailureReason = ""
	ReasonInvalidInput       FailureReason = "invalid_input"
	ReasonDuplicateIdentity  FailureReason = "duplicate_identity"
	ReasonInvalidCredentials FailureReason = "invalid_credentials"
)

type RegistrationResult struct {
	Success bool
	User    *models.PublicUser
	Reason  FailureReason
}

type LoginResult struct {
	Success   bool
	Token     string
	ExpiresAt time.Time
	Reason    FailureReason
}

// PasswordHasher is satisfied by *password.Hasher.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
	DummyVerify(plaintext string)
	NeedsRehash(digest string) bool
}

// AuthOptions carries the tunables of AuthService.
type AuthOptions struct {
	TokenTTL time.Duration
	Policy   RevocationPolicy
}

// AuthService is safe for concurrent use. Credential and token rejections
// come back as results; the error return is reserved for infrastructure
// failures (common.ErrStorageUnavailable, common.ErrHashing,
// common.ErrTokenIssuance).
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	ledger      ledger.Ledger
	hasher      PasswordHasher
	secret      []byte
	ttl         time.Duration
	policy      RevocationPolicy
	logger      logging.Logger
	now         func() time.Time
}

func NewAuthService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	l ledger.Ledger,
	hasher PasswordHasher,
	secret []byte,
	opts AuthOptions,
	logger logging.Logger,
) *AuthService {
	// exp is carried in whole seconds, so a fractional TTL would make the
	// ledger and LoginResult disagree with the token itself.
	if opts.TokenTTL < time.Second {
		opts.TokenTTL = token.DefaultTTL
	}
	if opts.Policy == "" {
		opts.Policy = PolicyLazy
	}
	return &AuthService{
		db:          db,
		repomanager: m,
		ledger:      l,
		hasher:      hasher,
		secret:      secret,
		ttl:         opts.TokenTTL.Truncate(time.Second),
		policy:      opts.Policy,
		logger:      logger.With("module", "auth"),
		now:         time.Now,
	}
}

// Register creates a user. A taken username or email, including one that
// loses a race with a concurrent registration, is ReasonDuplicateIdentity.
func (s *AuthService) Register(ctx context.Context, userName, plaintext, email string) (RegistrationResult, error) {
	userName = strings.TrimSpace(userName)
	email = strings.TrimSpace(email)
	if userName == "" || email == "" || plaintext == "" || !models.ValidIdentity(userName, email) {
		return RegistrationResult{Reason: ReasonInvalidInput}, nil
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.FindByUsernameOrEmail(ctx, userName, email)
	switch {
	case err == nil:
		s.logger.Info(ctx, "registration rejected: identity taken", "username", userName)
		return RegistrationResult{Reason: ReasonDuplicateIdentity}, nil
	case errors.Is(err, common.ErrorValidation):
		return RegistrationResult{Reason: ReasonInvalidInput}, nil
	case !errors.Is(err, common.ErrorNotFound):
		return RegistrationResult{}, storageErr(err)
	}

	digest, err := s.hasher.Hash(plaintext)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return RegistrationResult{Reason: ReasonInvalidInput}, nil
		}
		return RegistrationResult{}, err
	}

	user, err := repo.Create(ctx, &models.User{UserName: userName, Email: email, PasswordHash: digest})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			s.logger.Info(ctx, "registration rejected: identity taken", "username", userName)
			return RegistrationResult{Reason: ReasonDuplicateIdentity}, nil
		case errors.Is(err, common.ErrorValidation):
			return RegistrationResult{Reason: ReasonInvalidInput}, nil
		}
		return RegistrationResult{}, storageErr(err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "username", user.UserName)
	return RegistrationResult{Success: true, User: user.Public()}, nil
}

// Login checks the password and issues a token. Unknown users and wrong
// passwords are both ReasonInvalidCredentials and take the same time.
func (s *AuthService) Login(ctx context.Context, userName, plaintext string) (LoginResult, error) {
	userName = strings.TrimSpace(userName)
	if !models.ValidIdentity(userName, "") {
		return s.rejectUnknown(ctx, plaintext), nil
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByUsername(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorValidation) {
			return s.rejectUnknown(ctx, plaintext), nil
		}
		return LoginResult{}, storageErr(err)
	}

	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		s.logger.Warn(ctx, "login rejected", "username", userName)
		return LoginResult{Reason: ReasonInvalidCredentials}, nil
	}
	if s.hasher.NeedsRehash(user.PasswordHash) {
		s.logger.Info(ctx, "password digest uses outdated parameters", "user_id", user.ID)
	}

	issued, err := s.issue(ctx, user.ID)
	if err != nil {
		return LoginResult{}, err
	}

	s.logger.Info(ctx, "login accepted", "user_id", user.ID)
	return LoginResult{Success: true, Token: issued.Token, ExpiresAt: issued.ExpiresAt}, nil
}

// rejectUnknown answers a login for a user that cannot exist, spending the
// same hashing time as a wrong password.
func (s *AuthService) rejectUnknown(ctx context.Context, plaintext string) LoginResult {
	s.hasher.DummyVerify(plaintext)
	s.logger.Warn(ctx, "login rejected: unknown user")
	return LoginResult{Reason: ReasonInvalidCredentials}
}

// issue signs a token and records it in the ledger, superseding the user's
// previous one. The token is returned only if both steps succeed.
func (s *AuthService) issue(ctx context.Context, userID int64) (*models.IssuedToken, error) {
	now := s.now()

	tok, err := token.Issue(userID, s.secret, now, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrTokenIssuance, err)
	}

	entry := &models.IssuedToken{
		Token:     tok,
		UserID:    userID,
		ExpiresAt: time.Unix(now.Unix(), 0).Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.ledger.Supersede(ctx, entry); err != nil {
		s.logger.Error(ctx, "token ledger write failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrTokenIssuance, err)
	}
	return entry, nil
}

// Verify checks signature and expiry, and under PolicyLedger also that the
// token was not revoked. A ledger outage is an error, not a rejection.
func (s *AuthService) Verify(ctx context.Context, tok string) (token.Result, error) {
	res := token.Verify(tok, s.secret, s.now())
	if !res.Valid {
		s.logger.Debug(ctx, "token rejected", "reason", res.Reason)
		return res, nil
	}
	if s.policy != PolicyLedger {
		return res, nil
	}

	active, err := s.ledger.IsActive(ctx, tok)
	if err != nil {
		return token.Result{}, err
	}
	if !active {
		s.logger.Debug(ctx, "token rejected", "reason", token.ReasonRevoked, "user_id", res.Claims.UserID)
		return token.Result{Reason: token.ReasonRevoked}, nil
	}
	return res, nil
}

// RevokeAllForUser drops every ledger entry of userID.
func (s *AuthService) RevokeAllForUser(ctx context.Context, userID int64) (int64, error) {
	n, err := s.ledger.RevokeAll(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "tokens revoked", "user_id", userID, "count", n)
	return n, nil
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
}
