package types

import (
	"defind/crypto"
)

// Website uniquely identifies a staked or stakeable listing. The owner is
// fixed at creation; two owners staking the same link hold distinct websites.
type Website struct {
	Owner crypto.Identity `json:"owner"`
	Link  string          `json:"link"`
}

// StakeEntry is a single (term, amount) position held by a website. Terms are
// stored normalized (lowercase, trimmed) and amounts are always positive.
type StakeEntry struct {
	Amount uint64 `json:"amount"`
	Term   string `json:"term"`
}

// TermStake mirrors a StakeEntry from the term side of the dual index.
type TermStake struct {
	Amount  uint64  `json:"amount"`
	Website Website `json:"website"`
}

// WebsiteDescription is the public record shown for a website in search
// results.
type WebsiteDescription struct {
	Name        string `json:"name"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

// StakeDeltaOp distinguishes additions from removals in a stake batch.
type StakeDeltaOp uint8

const (
	// StakeDeltaAdd moves unstaked credits onto a term.
	StakeDeltaAdd StakeDeltaOp = iota
	// StakeDeltaRemove releases staked credits back to the unstaked balance.
	StakeDeltaRemove
)

// StakeDelta is one requested change inside an atomic stake batch. Value is
// signed on the wire; entries with a non-positive value are dropped silently.
type StakeDelta struct {
	Op    StakeDeltaOp `json:"op"`
	Term  string       `json:"term"`
	Value int64        `json:"value"`
}

// Event represents a structured state change emitted by the service.
type Event struct {
	Type       string
	Attributes map[string]string
}
