package state

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"defind/crypto"
	"defind/storage"
)

// Manager provides typed accessors over the raw key-value store. It is the
// single write path for ledger, index and registry state; engines hold narrow
// views of it.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

var (
	balancePrefix    = []byte("search/balance/")
	withdrawalPrefix = []byte("search/withdrawal/")
	sitePrefix       = []byte("search/site/")
	termPrefix       = []byte("search/term/")
	siteListPrefix   = []byte("search/sites/")
	descPrefix       = []byte("search/desc/")
	seedMarkerKey    = []byte("search/seeded")
)

func balanceKey(id crypto.Identity) []byte {
	return append(append([]byte{}, balancePrefix...), id[:]...)
}

func withdrawalKey(id crypto.Identity) []byte {
	return append(append([]byte{}, withdrawalPrefix...), id[:]...)
}

// siteKey composes the owner (fixed length) and the link, so links containing
// separator characters cannot collide across owners.
func siteKey(owner crypto.Identity, link string) []byte {
	buf := append(append([]byte{}, sitePrefix...), owner[:]...)
	return append(buf, []byte(link)...)
}

func termKey(term string) []byte {
	return append(append([]byte{}, termPrefix...), []byte(term)...)
}

func siteListKey(owner crypto.Identity) []byte {
	return append(append([]byte{}, siteListPrefix...), owner[:]...)
}

func descKey(owner crypto.Identity, link string) []byte {
	buf := append(append([]byte{}, descPrefix...), owner[:]...)
	return append(buf, []byte(link)...)
}

func (m *Manager) load(key []byte, out interface{}) (bool, error) {
	data, err := m.db.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, fmt.Errorf("state: decode %q: %w", key, err)
	}
	return true, nil
}

func (m *Manager) store(key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return fmt.Errorf("state: encode %q: %w", key, err)
	}
	return m.db.Put(key, encoded)
}

// BalanceGet returns the unstaked balance of an identity, zero if absent.
func (m *Manager) BalanceGet(id crypto.Identity) (uint64, error) {
	var balance uint64
	if _, err := m.load(balanceKey(id), &balance); err != nil {
		return 0, err
	}
	return balance, nil
}

// BalanceSet overwrites the unstaked balance of an identity. Zero balances
// are pruned to absent entries.
func (m *Manager) BalanceSet(id crypto.Identity, amount uint64) error {
	if amount == 0 {
		return m.db.Delete(balanceKey(id))
	}
	return m.store(balanceKey(id), amount)
}

// WithdrawalPending reports whether a withdrawal is in flight for the
// identity.
func (m *Manager) WithdrawalPending(id crypto.Identity) (bool, error) {
	_, err := m.db.Get(withdrawalKey(id))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SetWithdrawalPending marks a withdrawal as in flight for the identity.
func (m *Manager) SetWithdrawalPending(id crypto.Identity) error {
	return m.db.Put(withdrawalKey(id), []byte{1})
}

// ClearWithdrawalPending removes the in-flight withdrawal marker.
func (m *Manager) ClearWithdrawalPending(id crypto.Identity) error {
	return m.db.Delete(withdrawalKey(id))
}

// SeedApplied reports whether the seed catalog has already been loaded.
func (m *Manager) SeedApplied() (bool, error) {
	_, err := m.db.Get(seedMarkerKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// MarkSeedApplied records that the seed catalog has been loaded.
func (m *Manager) MarkSeedApplied() error {
	return m.db.Put(seedMarkerKey, []byte{1})
}
