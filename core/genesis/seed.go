package genesis

import (
	"fmt"
	"math"
	"os"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"gopkg.in/yaml.v3"

	"defind/core/types"
	"defind/crypto"
)

// CreditUnit is one whole resource credit in base units. Seed stakes are
// specified in whole credits.
const CreditUnit uint64 = 1_000_000_000

// SeedStake is one (term, value) stake applied to a seeded website. Value is
// in whole credits.
type SeedStake struct {
	Term  string `yaml:"term"`
	Value uint64 `yaml:"value"`
}

// SeedEntry describes one website to register and stake at first boot. Owner
// is a bech32 identity; when empty, a deterministic identity is derived from
// the entry name.
type SeedEntry struct {
	Owner       string      `yaml:"owner,omitempty"`
	Name        string      `yaml:"name"`
	Link        string      `yaml:"link"`
	Description string      `yaml:"description"`
	Stakes      []SeedStake `yaml:"stakes"`
}

// Catalog is the full seed file shape.
type Catalog struct {
	Entries []SeedEntry `yaml:"entries"`
}

// LoadFile parses a YAML seed catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	catalog := &Catalog{}
	if err := yaml.Unmarshal(data, catalog); err != nil {
		return nil, fmt.Errorf("seed catalog %s: %w", path, err)
	}
	return catalog, nil
}

// Applier is the slice of node behavior the seed loader needs. Donated
// credits flow through the normal deposit and staking paths so seeded state
// obeys the same invariants as user-created state.
type Applier interface {
	Deposit(caller crypto.Identity, requestedMax uint64, attached uint64) (uint64, error)
	SetDescription(caller crypto.Identity, desc types.WebsiteDescription) error
	ApplyStakeDelta(caller crypto.Identity, link string, deltas []types.StakeDelta) ([]types.StakeEntry, error)
}

// Apply registers every entry: donate exactly the credits the stakes need,
// store the description, then stake the terms.
func (c *Catalog) Apply(app Applier) error {
	for _, entry := range c.Entries {
		owner, err := entry.owner()
		if err != nil {
			return err
		}
		needed := uint64(0)
		for _, s := range entry.Stakes {
			amount, err := stakeAmount(s)
			if err != nil {
				return fmt.Errorf("seed %q: %w", entry.Name, err)
			}
			if needed > math.MaxUint64-amount {
				return fmt.Errorf("seed %q: total stake overflows", entry.Name)
			}
			needed += amount
		}
		if _, err := app.Deposit(owner, needed, needed); err != nil {
			return fmt.Errorf("seed %q: donate: %w", entry.Name, err)
		}
		if err := app.SetDescription(owner, types.WebsiteDescription{
			Name:        entry.Name,
			Link:        entry.Link,
			Description: entry.Description,
		}); err != nil {
			return fmt.Errorf("seed %q: describe: %w", entry.Name, err)
		}
		deltas := make([]types.StakeDelta, 0, len(entry.Stakes))
		for _, s := range entry.Stakes {
			amount, err := stakeAmount(s)
			if err != nil {
				return fmt.Errorf("seed %q: %w", entry.Name, err)
			}
			deltas = append(deltas, types.StakeDelta{
				Op:    types.StakeDeltaAdd,
				Term:  s.Term,
				Value: int64(amount),
			})
		}
		if _, err := app.ApplyStakeDelta(owner, entry.Link, deltas); err != nil {
			return fmt.Errorf("seed %q: stake: %w", entry.Name, err)
		}
	}
	return nil
}

// stakeAmount converts a whole-credit seed value to base units, rejecting
// values that would wrap uint64 or exceed the int64 range of a stake delta.
func stakeAmount(s SeedStake) (uint64, error) {
	if s.Value > math.MaxUint64/CreditUnit {
		return 0, fmt.Errorf("stake %q: value %d overflows", s.Term, s.Value)
	}
	amount := s.Value * CreditUnit
	if amount > math.MaxInt64 {
		return 0, fmt.Errorf("stake %q: value %d overflows", s.Term, s.Value)
	}
	return amount, nil
}

func (e SeedEntry) owner() (crypto.Identity, error) {
	if e.Owner == "" {
		return DeriveIdentity(e.Name), nil
	}
	owner, err := crypto.DecodeIdentity(e.Owner)
	if err != nil {
		return crypto.Identity{}, fmt.Errorf("seed %q: owner: %w", e.Name, err)
	}
	return owner, nil
}

// DeriveIdentity maps a label to a stable identity, used for catalog entries
// that do not carry an explicit owner.
func DeriveIdentity(label string) crypto.Identity {
	hash := ethcrypto.Keccak256([]byte(label))
	var id crypto.Identity
	copy(id[:], hash[:crypto.IdentityLength])
	return id
}
