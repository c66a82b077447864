package memory

import (
	"context"
	"sync"
	"time"

	"gatekeeper/contexts/access-control/gateway-service/domain/entities"
	domainerrors "gatekeeper/contexts/access-control/gateway-service/domain/errors"
	"gatekeeper/contexts/access-control/gateway-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the whitelist repository,
// clock and id-generator ports. It is intended for tests and local
// development wiring and enforces the same address uniqueness as the
// postgres schema.
type Store struct {
	mu     sync.RWMutex
	grants map[string]entities.Grant
}

func NewStore() *Store {
	return &Store{
		grants: make(map[string]entities.Grant),
	}
}

func (s *Store) EnsureSchema(_ context.Context) error {
	return nil
}

func (s *Store) Contains(_ context.Context, address string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.grants[address]
	return ok, nil
}

func (s *Store) Insert(_ context.Context, grant ports.GrantInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.grants[grant.Address]; ok {
		return domainerrors.ErrDuplicateGrant
	}
	s.grants[grant.Address] = entities.Grant{
		GrantID:      grant.GrantID,
		IdentityName: grant.IdentityName,
		Address:      grant.Address,
		GrantedAt:    grant.GrantedAt,
	}
	return nil
}

// GrantCount reports how many grants exist for one address. Uniqueness makes
// this 0 or 1; tests assert on it.
func (s *Store) GrantCount(address string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.grants[address]; ok {
		return 1
	}
	return 0
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
