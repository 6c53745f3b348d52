package state

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"defind/core/types"
	"defind/crypto"
	"defind/storage"
)

// storedStakeEntry is the RLP shape of a by-website index entry.
type storedStakeEntry struct {
	Amount uint64
	Term   string
}

// storedTermStake is the RLP shape of a by-term index entry.
type storedTermStake struct {
	Amount uint64
	Owner  [crypto.IdentityLength]byte
	Link   string
}

// StakesGet loads the by-website entries for a website in stored order.
func (m *Manager) StakesGet(website types.Website) ([]types.StakeEntry, bool, error) {
	var stored []storedStakeEntry
	ok, err := m.load(siteKey(website.Owner, website.Link), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	entries := make([]types.StakeEntry, 0, len(stored))
	for _, s := range stored {
		entries = append(entries, types.StakeEntry{Amount: s.Amount, Term: s.Term})
	}
	return entries, true, nil
}

// StakesPut replaces the by-website entries for a website. An empty slice
// removes the website key entirely.
func (m *Manager) StakesPut(website types.Website, entries []types.StakeEntry) error {
	key := siteKey(website.Owner, website.Link)
	if len(entries) == 0 {
		return m.db.Delete(key)
	}
	stored := make([]storedStakeEntry, 0, len(entries))
	for _, e := range entries {
		stored = append(stored, storedStakeEntry{Amount: e.Amount, Term: e.Term})
	}
	return m.store(key, stored)
}

// TermStakesGet loads the by-term entries for a normalized term in stored
// order.
func (m *Manager) TermStakesGet(term string) ([]types.TermStake, bool, error) {
	var stored []storedTermStake
	ok, err := m.load(termKey(term), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	entries := make([]types.TermStake, 0, len(stored))
	for _, s := range stored {
		entries = append(entries, types.TermStake{
			Amount:  s.Amount,
			Website: types.Website{Owner: crypto.Identity(s.Owner), Link: s.Link},
		})
	}
	return entries, true, nil
}

// CommitStakes applies the outcome of one stake transaction as a single
// atomic storage write: the owner's new balance, the website's by-website
// entries and the touched by-term sequences all land together or not at all.
// Zero balances and empty sequences become deletes, matching the pruning
// rules of the individual setters.
func (m *Manager) CommitStakes(owner crypto.Identity, balance uint64, website types.Website, entries []types.StakeEntry, terms map[string][]types.TermStake) error {
	batch := new(storage.Batch)

	if balance == 0 {
		batch.Delete(balanceKey(owner))
	} else if err := batchStore(batch, balanceKey(owner), balance); err != nil {
		return err
	}

	siteK := siteKey(website.Owner, website.Link)
	if len(entries) == 0 {
		batch.Delete(siteK)
	} else {
		stored := make([]storedStakeEntry, 0, len(entries))
		for _, e := range entries {
			stored = append(stored, storedStakeEntry{Amount: e.Amount, Term: e.Term})
		}
		if err := batchStore(batch, siteK, stored); err != nil {
			return err
		}
	}

	// Deterministic key order keeps batches reproducible.
	names := make([]string, 0, len(terms))
	for term := range terms {
		names = append(names, term)
	}
	sort.Strings(names)
	for _, term := range names {
		seq := terms[term]
		if len(seq) == 0 {
			batch.Delete(termKey(term))
			continue
		}
		stored := make([]storedTermStake, 0, len(seq))
		for _, e := range seq {
			stored = append(stored, storedTermStake{
				Amount: e.Amount,
				Owner:  e.Website.Owner,
				Link:   e.Website.Link,
			})
		}
		if err := batchStore(batch, termKey(term), stored); err != nil {
			return err
		}
	}

	return m.db.Write(batch)
}

func batchStore(batch *storage.Batch, key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return fmt.Errorf("state: encode %q: %w", key, err)
	}
	batch.Put(key, encoded)
	return nil
}

// TermStakesPut replaces the by-term entries for a normalized term. An empty
// slice removes the term key entirely.
func (m *Manager) TermStakesPut(term string, entries []types.TermStake) error {
	key := termKey(term)
	if len(entries) == 0 {
		return m.db.Delete(key)
	}
	stored := make([]storedTermStake, 0, len(entries))
	for _, e := range entries {
		stored = append(stored, storedTermStake{
			Amount: e.Amount,
			Owner:  e.Website.Owner,
			Link:   e.Website.Link,
		})
	}
	return m.store(key, stored)
}
