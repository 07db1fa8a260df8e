// Package identity is the wallet's view of its own identities and the
// sub-accounts they control. The disclosure resolver only reads from it; all
// mutation happens through account creation flows outside this service.
package identity

// SignerType distinguishes how a sub-account signs transactions. The values
// are wire-visible and must match what account creation recorded.
type SignerType string

const (
	// SignerTypeMetaIdentityManager marks hosted smart-contract accounts.
	// Both app-specific (segregated) and externally created device-key
	// accounts are managed this way.
	SignerTypeMetaIdentityManager SignerType = "MetaIdentityManager"
	// SignerTypeKeyPair marks plain key-pair controlled accounts.
	SignerTypeKeyPair SignerType = "KeyPair"
)

// Account is a locally controlled account. Parent back-references the root
// identity that controls it; it is never mutated here, only read to pick a
// signing issuer.
type Account struct {
	Address    string
	Parent     string
	Network    string
	ClientID   string
	SignerType SignerType
	// Authorized marks the account as pre-approved for automatic
	// disclosure to its client.
	Authorized bool
}

// Identity is a root identity the wallet holds keys for. Network is empty for
// did: identities, which are not bound to a single chain.
type Identity struct {
	Address      string
	Network      string
	PublishedDID bool
	// EncPublicKey is the base64 curve25519 key advertised to clients that
	// want to encrypt push payloads to this identity.
	EncPublicKey string
}
