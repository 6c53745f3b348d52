package stake

import (
	"math"

	"defind/core/events"
	"defind/core/types"
	"defind/crypto"
	"defind/native/common"
)

type engineState interface {
	BalanceGet(id crypto.Identity) (uint64, error)
	StakesGet(website types.Website) ([]types.StakeEntry, bool, error)
	TermStakesGet(term string) ([]types.TermStake, bool, error)
	CommitStakes(owner crypto.Identity, balance uint64, website types.Website, entries []types.StakeEntry, terms map[string][]types.TermStake) error
}

// Engine maintains the dual stake index. The by-website and by-term views
// describe the same data and must stay in sync; both are only ever written by
// the commit step of ApplyDelta and by Retract.
type Engine struct {
	state   engineState
	emitter events.Emitter
}

// NewEngine constructs a stake engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter used by the engine.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(evt *types.Event) {
	if e == nil || evt == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(WrapEvent(evt))
}

// Stakes returns the by-website entries for a website, empty if none. Only
// the owner may inspect a website's stakes.
func (e *Engine) Stakes(caller crypto.Identity, website types.Website) ([]types.StakeEntry, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.RequireOwner(caller, website.Owner); err != nil {
		return nil, err
	}
	website.Link = NormalizeLink(website.Link)
	entries, _, err := e.state.StakesGet(website)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []types.StakeEntry{}
	}
	return entries, nil
}

// ApplyDelta applies a batch of stake changes for the website (caller, link)
// atomically. All computation happens on a local working copy; nothing is
// committed until every delta has been validated, so a failed batch leaves
// the ledger and both indices untouched. Removes run before adds so credits
// reclaimed within the batch are available to its additions. Deltas with a
// non-positive value are dropped silently.
func (e *Engine) ApplyDelta(caller crypto.Identity, link string, deltas []types.StakeDelta) ([]types.StakeEntry, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.RequireNonAnonymous(caller); err != nil {
		return nil, err
	}
	link = NormalizeLink(link)
	website := types.Website{Owner: caller, Link: link}

	current, _, err := e.state.StakesGet(website)
	if err != nil {
		return nil, err
	}
	working := make(map[string]uint64, len(current))
	order := make([]string, 0, len(current))
	for _, entry := range current {
		working[entry.Term] = entry.Amount
		order = append(order, entry.Term)
	}

	var adds, removes []types.StakeDelta
	for _, delta := range deltas {
		if delta.Value <= 0 {
			continue
		}
		switch delta.Op {
		case types.StakeDeltaAdd:
			adds = append(adds, delta)
		case types.StakeDeltaRemove:
			removes = append(removes, delta)
		}
	}

	touched := make(map[string]struct{})
	reclaimed := uint64(0)
	for _, delta := range removes {
		term := NormalizeTerm(delta.Term)
		value := uint64(delta.Value)
		if working[term] < value {
			return nil, &InsufficientStakeError{Term: term}
		}
		working[term] -= value
		reclaimed += value
		touched[term] = struct{}{}
	}

	balance, err := e.state.BalanceGet(caller)
	if err != nil {
		return nil, err
	}
	if balance > math.MaxUint64-reclaimed {
		return nil, ErrBalanceOverflow
	}
	available := reclaimed + balance
	if available == 0 && len(adds) > 0 {
		return nil, ErrInsufficientUnstakedBalance
	}
	for _, delta := range adds {
		term := NormalizeTerm(delta.Term)
		value := uint64(delta.Value)
		if available < value {
			return nil, &InsufficientCreditsError{Term: term}
		}
		if _, known := working[term]; !known {
			order = append(order, term)
		}
		working[term] += value
		available -= value
		touched[term] = struct{}{}
	}

	// Commit. Every delta has been validated; the working copy and the
	// touched by-term sequences are staged and written as one atomic batch,
	// so a storage failure cannot leave the ledger and the indices
	// disagreeing. Terms that dropped to zero still need their by-term
	// entry removed, so the mirror walks every touched term.
	entries := make([]types.StakeEntry, 0, len(order))
	for _, term := range order {
		if amount := working[term]; amount > 0 {
			entries = append(entries, types.StakeEntry{Amount: amount, Term: term})
		}
	}
	termUpdates := make(map[string][]types.TermStake, len(touched))
	for _, term := range order {
		if _, ok := touched[term]; !ok {
			continue
		}
		merged, err := e.mergedTermEntries(term, website, working[term])
		if err != nil {
			return nil, err
		}
		termUpdates[term] = merged
	}
	if err := e.state.CommitStakes(caller, available, website, entries, termUpdates); err != nil {
		return nil, err
	}
	e.emit(DeltaAppliedEvent(caller.String(), link, len(adds), len(removes), available))
	return entries, nil
}

// Retract removes a website from both indices and returns all staked credits
// to the owner's unstaked balance. Retracting an unknown website is a no-op;
// the credit is added to the balance, never overwritten, so retraction can
// never double-credit.
func (e *Engine) Retract(caller crypto.Identity, link string) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	if err := common.RequireNonAnonymous(caller); err != nil {
		return 0, err
	}
	link = NormalizeLink(link)
	website := types.Website{Owner: caller, Link: link}

	entries, ok, err := e.state.StakesGet(website)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	reclaimed := uint64(0)
	for _, entry := range entries {
		reclaimed += entry.Amount
	}
	balance, err := e.state.BalanceGet(caller)
	if err != nil {
		return 0, err
	}
	if balance > math.MaxUint64-reclaimed {
		return 0, ErrBalanceOverflow
	}
	termUpdates := make(map[string][]types.TermStake, len(entries))
	for _, entry := range entries {
		merged, err := e.mergedTermEntries(entry.Term, website, 0)
		if err != nil {
			return 0, err
		}
		termUpdates[entry.Term] = merged
	}
	if err := e.state.CommitStakes(caller, balance+reclaimed, website, nil, termUpdates); err != nil {
		return 0, err
	}
	e.emit(RetractedEvent(caller.String(), link, reclaimed))
	return reclaimed, nil
}

// mergedTermEntries computes the new by-term sequence for a single
// (term, website) amount without writing it: replace the existing entry,
// drop it when the amount is zero, or append a new one. The caller stages
// the result into the commit batch; an empty sequence deletes the term key.
func (e *Engine) mergedTermEntries(term string, website types.Website, amount uint64) ([]types.TermStake, error) {
	entries, _, err := e.state.TermStakesGet(term)
	if err != nil {
		return nil, err
	}
	updated := make([]types.TermStake, 0, len(entries)+1)
	replaced := false
	for _, entry := range entries {
		if entry.Website == website {
			replaced = true
			if amount > 0 {
				updated = append(updated, types.TermStake{Amount: amount, Website: website})
			}
			continue
		}
		updated = append(updated, entry)
	}
	if !replaced && amount > 0 {
		updated = append(updated, types.TermStake{Amount: amount, Website: website})
	}
	return updated, nil
}
