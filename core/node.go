package core

import (
	"context"
	"sync"

	"defind/core/events"
	"defind/core/state"
	"defind/core/types"
	"defind/crypto"
	"defind/native/ledger"
	"defind/native/registry"
	"defind/native/search"
	"defind/native/stake"
	"defind/storage"
)

// CreditTransfer moves resource credits to an external account. Transfer
// blocks until the external side confirms or rejects; it is the only
// suspension point in the service.
type CreditTransfer interface {
	Transfer(ctx context.Context, amount uint64, destination crypto.Identity) bool
}

// FailingTransfer rejects every transfer. It is the default when no external
// transfer mechanism is wired, degrading withdrawals to "0 credits sent".
type FailingTransfer struct{}

// Transfer implements CreditTransfer.
func (FailingTransfer) Transfer(context.Context, uint64, crypto.Identity) bool { return false }

// eventLogCap bounds the in-memory event log; older events are dropped.
const eventLogCap = 256

// Node owns the ledger, stake, search and registry engines and the state they
// share. A single mutex serializes requests: every operation runs start to
// finish under the lock, except the withdrawal transfer, which releases it
// while awaiting the external result so other requests can proceed.
type Node struct {
	stateMu sync.Mutex

	state    *state.Manager
	ledger   *ledger.Engine
	stakes   *stake.Engine
	searcher *search.Engine
	registry *registry.Engine
	transfer CreditTransfer
	emitter  events.Emitter
	eventLog []types.Event
}

type eventWithPayload interface {
	Event() *types.Event
}

// nodeEventSink receives every engine event, records it in the node's log and
// forwards it to the externally wired emitter. Engines only emit inside
// locked node operations, so the log needs no lock of its own.
type nodeEventSink struct {
	node *Node
}

func (s nodeEventSink) Emit(evt events.Event) {
	if s.node == nil || evt == nil {
		return
	}
	payload, ok := evt.(eventWithPayload)
	if !ok {
		return
	}
	event := payload.Event()
	if event == nil {
		return
	}
	s.node.eventLog = append(s.node.eventLog, *event)
	if overflow := len(s.node.eventLog) - eventLogCap; overflow > 0 {
		s.node.eventLog = append(s.node.eventLog[:0], s.node.eventLog[overflow:]...)
	}
	if s.node.emitter != nil {
		s.node.emitter.Emit(evt)
	}
}

// NodeOption customizes node construction.
type NodeOption func(*Node)

// WithTransfer wires the external credit transfer mechanism.
func WithTransfer(transfer CreditTransfer) NodeOption {
	return func(n *Node) {
		if transfer != nil {
			n.transfer = transfer
		}
	}
}

// WithEmitter forwards every engine event to an external emitter in addition
// to the node's own event log.
func WithEmitter(emitter events.Emitter) NodeOption {
	return func(n *Node) {
		n.emitter = emitter
	}
}

// NewNode assembles a node over the given database.
func NewNode(db storage.Database, opts ...NodeOption) *Node {
	manager := state.NewManager(db)
	n := &Node{
		state:    manager,
		ledger:   ledger.NewEngine(),
		stakes:   stake.NewEngine(),
		searcher: search.NewEngine(manager),
		registry: registry.NewEngine(),
		transfer: FailingTransfer{},
	}
	n.ledger.SetState(manager)
	n.stakes.SetState(manager)
	n.registry.SetState(manager)
	sink := nodeEventSink{node: n}
	n.ledger.SetEmitter(sink)
	n.stakes.SetEmitter(sink)
	n.registry.SetEmitter(sink)
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Events returns up to limit of the most recent events in chronological
// order. A zero limit returns the whole log.
func (n *Node) Events(limit int) []types.Event {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	log := n.eventLog
	if limit > 0 && limit < len(log) {
		log = log[len(log)-limit:]
	}
	return append([]types.Event(nil), log...)
}

// GetBalance returns the caller's unstaked balance.
func (n *Node) GetBalance(caller crypto.Identity) (uint64, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.ledger.Balance(caller)
}

// Deposit attaches up to requestedMax of the credits accompanying the request
// to the caller's balance and returns the amount actually accepted. The
// accepted amount may be anything from zero to requestedMax; a deposit never
// fails on amount.
func (n *Node) Deposit(caller crypto.Identity, requestedMax uint64, attached uint64) (uint64, error) {
	accepted := attached
	if requestedMax < accepted {
		accepted = requestedMax
	}
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	if _, err := n.ledger.Credit(caller, accepted); err != nil {
		return 0, err
	}
	return accepted, nil
}

// Withdraw runs the two-phase withdrawal protocol: reserve under the lock,
// transfer outside it, then commit or abort under the lock again. A failed
// transfer leaves the balance untouched and reports zero credits sent.
func (n *Node) Withdraw(ctx context.Context, caller crypto.Identity, maxAmount uint64, destination crypto.Identity) (uint64, error) {
	n.stateMu.Lock()
	reserve, err := n.ledger.BeginWithdraw(caller, maxAmount)
	n.stateMu.Unlock()
	if err != nil {
		return 0, err
	}
	if reserve == 0 {
		return 0, nil
	}

	// Suspension point: other requests may run while the transfer is in
	// flight. The in-flight marker set by BeginWithdraw keeps a second
	// withdrawal for the same identity from reserving the same funds.
	ok := n.transfer.Transfer(ctx, reserve, destination)

	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	if !ok {
		if err := n.ledger.AbortWithdraw(caller); err != nil {
			return 0, err
		}
		return 0, nil
	}
	if err := n.ledger.CompleteWithdraw(caller, reserve); err != nil {
		return 0, err
	}
	return reserve, nil
}

// GetStakes returns the caller's stakes on the given website.
func (n *Node) GetStakes(caller crypto.Identity, website types.Website) ([]types.StakeEntry, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.stakes.Stakes(caller, website)
}

// ApplyStakeDelta atomically applies a batch of stake changes to the
// caller's website identified by link.
func (n *Node) ApplyStakeDelta(caller crypto.Identity, link string, deltas []types.StakeDelta) ([]types.StakeEntry, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.stakes.ApplyDelta(caller, link, deltas)
}

// SetDescription creates or replaces the caller's website record.
func (n *Node) SetDescription(caller crypto.Identity, desc types.WebsiteDescription) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.registry.SetDescription(caller, desc)
}

// GetWebsites lists the caller's own website records.
func (n *Node) GetWebsites(caller crypto.Identity) ([]types.WebsiteDescription, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.registry.Websites(caller)
}

// RemoveWebsite deletes the caller's website record and unwinds any stake it
// still holds. The retraction runs in the same locked section as the record
// removal, so no request can observe a described website without its stakes
// or vice versa.
func (n *Node) RemoveWebsite(caller crypto.Identity, link string) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	if _, err := n.stakes.Retract(caller, link); err != nil {
		return err
	}
	_, err := n.registry.Remove(caller, link)
	return err
}

// Search ranks websites by their share of stake on the queried terms.
func (n *Node) Search(terms []string, page uint64, entriesPerPage uint64) ([]types.WebsiteDescription, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.searcher.Search(terms, page, entriesPerPage)
}
