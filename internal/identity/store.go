// Package identity manages registered accounts and the device's current session.
//
// Accounts live under the "accounts" key as a JSON array and the active session
// under "currentSession". Every mutation is written through immediately.
package identity

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"

	"github.com/Veraticus/meu-bolso/internal/common"
	"github.com/Veraticus/meu-bolso/internal/model"
	"github.com/Veraticus/meu-bolso/internal/storage"
)

// ResetAcknowledgement is returned for every password reset request, whether
// or not the address belongs to an account.
const ResetAcknowledgement = "Se existe uma conta com este e-mail, você receberá as instruções para redefinir sua senha."

// Store is the identity store for one device.
type Store struct {
	kv       storage.Store
	now      func() time.Time
	newID    func() string
	latency  time.Duration
	hashCost int
}

// Option configures a Store.
type Option func(*Store)

// WithLatency delays login, signup and logout by d.
func WithLatency(d time.Duration) Option {
	return func(s *Store) {
		s.latency = d
	}
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithHashCost sets the bcrypt cost. Values outside bcrypt's range fall back
// to the default cost.
func WithHashCost(cost int) Option {
	return func(s *Store) {
		s.hashCost = cost
	}
}

// New returns an identity store backed by kv.
func New(kv storage.Store, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		now:      time.Now,
		newID:    uuid.NewString,
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hashCost < bcrypt.MinCost || s.hashCost > bcrypt.MaxCost {
		s.hashCost = bcrypt.DefaultCost
	}
	return s
}

// Register creates an account and makes it the current session.
func (s *Store) Register(ctx context.Context, email, password, name string) (model.Account, error) {
	email = strings.TrimSpace(email)
	if err := validateCredentials(email, password); err != nil {
		return model.Account{}, err
	}
	if err := s.wait(ctx); err != nil {
		return model.Account{}, err
	}

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return model.Account{}, err
	}
	if _, ok := findByEmail(accounts, email); ok {
		return model.Account{}, common.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to hash password: %w", err)
	}

	account := model.Account{
		ID:           s.newID(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}

	accounts = append(accounts, account)
	if err := storage.PutJSON(ctx, s.kv, storage.KeyAccounts, accounts); err != nil {
		return model.Account{}, fmt.Errorf("failed to save accounts: %w", err)
	}

	public := account.Public()
	if err := s.setSession(ctx, public); err != nil {
		return model.Account{}, err
	}

	slog.Info("Account registered", "account_id", account.ID)
	return public, nil
}

// Authenticate checks the credentials and makes the account the current session.
func (s *Store) Authenticate(ctx context.Context, email, password string) (model.Account, error) {
	email = strings.TrimSpace(email)
	if err := validateCredentials(email, password); err != nil {
		return model.Account{}, err
	}
	if err := s.wait(ctx); err != nil {
		return model.Account{}, err
	}

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return model.Account{}, err
	}

	idx, ok := findByEmail(accounts, email)
	if !ok {
		return model.Account{}, common.ErrInvalidCredentials
	}
	account := accounts[idx]

	switch {
	case account.PasswordHash != "":
		if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
			return model.Account{}, common.ErrInvalidCredentials
		}
	case account.LegacyPassword != "":
		if subtle.ConstantTimeCompare([]byte(account.LegacyPassword), []byte(password)) != 1 {
			return model.Account{}, common.ErrInvalidCredentials
		}
		if err := s.upgradeLegacy(ctx, accounts, idx, password); err != nil {
			// The login itself is still valid.
			common.LogWarn("Failed to upgrade legacy password", common.Fields{
				"account_id": account.ID,
				"error":      err.Error(),
			})
		}
	default:
		return model.Account{}, common.ErrInvalidCredentials
	}

	public := account.Public()
	if err := s.setSession(ctx, public); err != nil {
		return model.Account{}, err
	}

	slog.Info("Session started", "account_id", account.ID)
	return public, nil
}

// EndSession clears the current session. Ending an absent session is not an error.
func (s *Store) EndSession(ctx context.Context) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	if err := s.kv.Remove(ctx, storage.KeyCurrentSession); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	slog.Info("Session ended")
	return nil
}

// CurrentSession returns the persisted session account, or nil when there is
// none. A session blob that cannot be read counts as no session.
func (s *Store) CurrentSession(ctx context.Context) (*model.Account, error) {
	var account model.Account
	found, err := storage.GetJSON(ctx, s.kv, storage.KeyCurrentSession, &account)
	if errors.Is(err, common.ErrMalformedData) {
		common.LogWarn("Discarding unreadable session", common.Fields{"error": err.Error()})
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !found {
		return nil, nil
	}
	if err := account.Validate(); err != nil {
		common.LogWarn("Discarding invalid session", common.Fields{"error": err.Error()})
		return nil, nil
	}

	public := account.Public()
	return &public, nil
}

// RequestPasswordReset acknowledges a reset request. Nothing is sent; the
// answer is the same for known and unknown addresses.
func (s *Store) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if err := common.ValidateEmail(email); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	slog.Debug("Password reset requested")
	return ResetAcknowledgement, nil
}

// Accounts returns every stored account with credentials removed.
func (s *Store) Accounts(ctx context.Context) ([]model.Account, error) {
	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Account, len(accounts))
	for i, a := range accounts {
		out[i] = a.Public()
	}
	return out, nil
}

func (s *Store) upgradeLegacy(ctx context.Context, accounts []model.Account, idx int, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	accounts[idx].PasswordHash = string(hash)
	accounts[idx].LegacyPassword = ""
	if err := storage.PutJSON(ctx, s.kv, storage.KeyAccounts, accounts); err != nil {
		return fmt.Errorf("failed to save accounts: %w", err)
	}
	slog.Info("Upgraded legacy password", "account_id", accounts[idx].ID)
	return nil
}

func (s *Store) setSession(ctx context.Context, account model.Account) error {
	if err := storage.PutJSON(ctx, s.kv, storage.KeyCurrentSession, account); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// loadAccounts reads the account list. An unreadable list is treated as empty
// and invalid entries are skipped.
func (s *Store) loadAccounts(ctx context.Context) ([]model.Account, error) {
	var raw []model.Account
	_, err := storage.GetJSON(ctx, s.kv, storage.KeyAccounts, &raw)
	if errors.Is(err, common.ErrMalformedData) {
		common.LogWarn("Discarding unreadable account list", common.Fields{"error": err.Error()})
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	accounts := make([]model.Account, 0, len(raw))
	for _, a := range raw {
		if err := a.Validate(); err != nil {
			common.LogWarn("Skipping invalid account record", common.Fields{"error": err.Error()})
			continue
		}
		accounts = append(accounts, a)
	}
	slog.Debug("Loaded accounts", "count", len(accounts))
	return accounts, nil
}

func (s *Store) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func findByEmail(accounts []model.Account, email string) (int, bool) {
	want := foldEmail(email)
	for i, a := range accounts {
		if foldEmail(a.Email) == want {
			return i, true
		}
	}
	return -1, false
}

// foldEmail normalizes an address for comparison. A Caser keeps state, so
// each call gets its own.
func foldEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if err := common.ValidateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return common.NewValidationError("password", "informe sua senha")
	}
	return nil
}
