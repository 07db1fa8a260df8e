// Package network holds the chain metadata the wallet recognises. The
// resolver consults it before any account lookup so unsupported chains fail
// early with a user-facing message.
package network

import "strings"

// Settings describes one chain the wallet knows about.
type Settings struct {
	ID   string
	Name string
	// Supported gates disclosure resolution entirely. Known-but-retired
	// chains keep an entry so error messages can still name them.
	Supported bool
	// ContractAccounts reports whether hosted (MetaIdentityManager)
	// accounts can be created on this chain.
	ContractAccounts bool
}

// Registry maps chain ids to settings. Lookups are case-insensitive because
// clients are inconsistent about hex casing.
type Registry struct {
	byID map[string]Settings
}

// NewRegistry returns a registry seeded with the chains the wallet ships with.
func NewRegistry() *Registry {
	r := &Registry{byID: make(map[string]Settings)}
	for _, s := range []Settings{
		{ID: "0x1", Name: "mainnet", Supported: true, ContractAccounts: false},
		{ID: "0x3", Name: "ropsten", Supported: true, ContractAccounts: true},
		{ID: "0x4", Name: "rinkeby", Supported: true, ContractAccounts: true},
		{ID: "0x2a", Name: "kovan", Supported: true, ContractAccounts: true},
		{ID: "0x16b2", Name: "infuranet", Supported: false, ContractAccounts: false},
	} {
		r.byID[s.ID] = s
	}
	return r
}

// Settings returns the settings for a chain id, reporting whether it is known.
func (r *Registry) Settings(id string) (Settings, bool) {
	s, ok := r.byID[strings.ToLower(id)]
	return s, ok
}

// Name returns the human-readable chain name, falling back to the raw id for
// chains the wallet has never heard of.
func (r *Registry) Name(id string) string {
	if s, ok := r.Settings(id); ok {
		return s.Name
	}
	return id
}

// Supported reports whether disclosure requests may name this chain.
func (r *Registry) Supported(id string) bool {
	s, ok := r.Settings(id)
	return ok && s.Supported
}
