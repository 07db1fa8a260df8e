package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/jamesdigid/uport-mobile/pkg/platform/sentinel"
)

// InMemoryDirectory keeps identities and accounts in process. Accounts are
// held in an append-only slice per network so "first listed" is creation
// order, which the resolver relies on as its tie-break.
type InMemoryDirectory struct {
	mu         sync.RWMutex
	current    string
	identities map[string]Identity
	byNetwork  map[string][]Account
	byAddress  map[string]Account
}

func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{
		identities: make(map[string]Identity),
		byNetwork:  make(map[string][]Account),
		byAddress:  make(map[string]Account),
	}
}

// AddIdentity registers a root identity. The first identity added becomes the
// current one unless SetCurrent overrides it.
func (d *InMemoryDirectory) AddIdentity(ident Identity) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.identities[ident.Address] = ident
	if d.current == "" {
		d.current = ident.Address
	}
}

func (d *InMemoryDirectory) SetCurrent(address string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = address
}

// AddAccount appends a sub-account in creation order.
func (d *InMemoryDirectory) AddAccount(acct Account) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := strings.ToLower(acct.Network)
	d.byNetwork[key] = append(d.byNetwork[key], acct)
	d.byAddress[acct.Address] = acct
}

func (d *InMemoryDirectory) CurrentAddress(_ context.Context) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.current == "" {
		return "", sentinel.ErrNotFound
	}
	return d.current, nil
}

func (d *InMemoryDirectory) AccountsForNetwork(_ context.Context, networkID string) ([]Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	accounts := d.byNetwork[strings.ToLower(networkID)]
	return append([]Account{}, accounts...), nil
}

func (d *InMemoryDirectory) AccountForClientIDSignerTypeAndNetwork(_ context.Context, networkID, clientID string, signer SignerType) (*Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, acct := range d.byNetwork[strings.ToLower(networkID)] {
		if acct.ClientID == clientID && acct.SignerType == signer {
			found := acct
			return &found, nil
		}
	}
	return nil, nil
}

// NetworkForAddress returns the chain a root identity lives on, or "" for
// did: identities and unknown addresses.
func (d *InMemoryDirectory) NetworkForAddress(_ context.Context, address string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if ident, ok := d.identities[address]; ok {
		return ident.Network, nil
	}
	if acct, ok := d.byAddress[address]; ok {
		return acct.Network, nil
	}
	return "", nil
}

// ParentOf resolves the controlling root identity of an account, or "" when
// the address is itself a root.
func (d *InMemoryDirectory) ParentOf(_ context.Context, address string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if acct, ok := d.byAddress[address]; ok {
		return acct.Parent, nil
	}
	return "", nil
}

func (d *InMemoryDirectory) HasPublishedDID(_ context.Context, address string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ident, ok := d.identities[address]
	if !ok {
		return false, sentinel.ErrNotFound
	}
	return ident.PublishedDID, nil
}

func (d *InMemoryDirectory) PublicEncKey(_ context.Context, address string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ident, ok := d.identities[address]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return ident.EncPublicKey, nil
}
