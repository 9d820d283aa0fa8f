package did

import "fmt"

// NetworkPolicy is an allow-list of ledger networks. An empty policy allows every network.
// Parse never consults it; callers apply it after parsing.
type NetworkPolicy struct {
	allowed map[string]struct{}
}

// NewNetworkPolicy creates a policy allowing the given networks.
func NewNetworkPolicy(networks ...string) *NetworkPolicy {
	p := &NetworkPolicy{allowed: make(map[string]struct{}, len(networks))}
	for _, n := range networks {
		if n != "" {
			p.allowed[n] = struct{}{}
		}
	}

	return p
}

// Allows reports whether the identifier's network is accepted.
func (p *NetworkPolicy) Allows(id *LedgerDID) bool {
	if p == nil || len(p.allowed) == 0 {
		return true
	}

	_, ok := p.allowed[id.Network()]

	return ok
}

// Check returns ErrNetworkNotAllowed when the identifier's network is rejected.
func (p *NetworkPolicy) Check(id *LedgerDID) error {
	if !p.Allows(id) {
		return newError(KindNetworkNotAllowed, id.String(), fmt.Sprintf("network %q is not allowed", id.Network()), nil)
	}

	return nil
}
