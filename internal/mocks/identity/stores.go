package identity

import (
	"context"
	"strings"
	"time"

	"github.com/gatehouse/gatehouse/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AccountStore = (*MemoryAccountStore)(nil)
	_ ports.TokenStore   = (*MemoryTokenStore)(nil)
)

// MemoryAccountStore is an in-memory account store for unit tests.
type MemoryAccountStore struct {
	byEmail map[string]ports.Account
}

// NewMemoryAccountStore creates an empty in-memory account store.
func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{byEmail: make(map[string]ports.Account)}
}

func (s *MemoryAccountStore) Create(_ context.Context, acct ports.Account) (ports.Account, error) {
	key := strings.ToLower(acct.User.Email)
	if _, exists := s.byEmail[key]; exists {
		// Same raw phrase a real provider reports for duplicate signups.
		return ports.Account{}, errDuplicateAccount
	}
	s.byEmail[key] = acct
	return acct, nil
}

func (s *MemoryAccountStore) GetByEmail(_ context.Context, email string) (ports.Account, error) {
	acct, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return ports.Account{}, ports.ErrAccountNotFound
	}
	return acct, nil
}

func (s *MemoryAccountStore) GetByID(_ context.Context, userID string) (ports.Account, error) {
	for _, acct := range s.byEmail {
		if acct.User.ID.String() == userID {
			return acct, nil
		}
	}
	return ports.Account{}, ports.ErrAccountNotFound
}

func (s *MemoryAccountStore) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	for key, acct := range s.byEmail {
		if acct.User.ID.String() == userID {
			acct.PasswordHash = passwordHash
			s.byEmail[key] = acct
			return nil
		}
	}
	return ports.ErrAccountNotFound
}

func (s *MemoryAccountStore) RecordSignIn(_ context.Context, userID string) error {
	for key, acct := range s.byEmail {
		if acct.User.ID.String() == userID {
			acct.User.LastSignInAt = time.Now()
			s.byEmail[key] = acct
			return nil
		}
	}
	return ports.ErrAccountNotFound
}

type duplicateAccountError struct{}

func (duplicateAccountError) Error() string { return "User already registered" }

var errDuplicateAccount error = duplicateAccountError{}

// MemoryTokenStore is an in-memory token store honoring TTLs, for unit tests.
type MemoryTokenStore struct {
	records map[string]tokenEntry
	// Now can be overridden to test expiry without sleeping.
	Now func() time.Time
}

type tokenEntry struct {
	rec       ports.TokenRecord
	expiresAt time.Time
}

// NewMemoryTokenStore creates an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{records: make(map[string]tokenEntry), Now: time.Now}
}

func (s *MemoryTokenStore) key(kind, token string) string { return kind + ":" + token }

func (s *MemoryTokenStore) Save(_ context.Context, kind string, rec ports.TokenRecord, ttl time.Duration) error {
	s.records[s.key(kind, rec.Token)] = tokenEntry{rec: rec, expiresAt: s.Now().Add(ttl)}
	return nil
}

func (s *MemoryTokenStore) Get(_ context.Context, kind, token string) (ports.TokenRecord, error) {
	entry, ok := s.records[s.key(kind, token)]
	if !ok || s.Now().After(entry.expiresAt) {
		return ports.TokenRecord{}, ports.ErrTokenNotFound
	}
	return entry.rec, nil
}

func (s *MemoryTokenStore) Delete(_ context.Context, kind, token string) error {
	delete(s.records, s.key(kind, token))
	return nil
}
