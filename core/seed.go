package core

import "defind/core/genesis"

// ApplySeed loads the seed catalog exactly once per database. The returned
// flag reports whether the catalog was applied on this call. Seeding runs
// through the public node operations, so it can only happen before the node
// starts serving requests.
func (n *Node) ApplySeed(catalog *genesis.Catalog) (bool, error) {
	n.stateMu.Lock()
	applied, err := n.state.SeedApplied()
	n.stateMu.Unlock()
	if err != nil {
		return false, err
	}
	if applied || catalog == nil {
		return false, nil
	}
	if err := catalog.Apply(n); err != nil {
		return false, err
	}
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	if err := n.state.MarkSeedApplied(); err != nil {
		return false, err
	}
	return true, nil
}
