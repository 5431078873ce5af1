// Package minter issues attendance tokens on an external chain. Minting is
// a best-effort enhancement to a claim: the claim workflow treats any
// failure here as non-fatal.
package minter

import "context"

// Minter submits a mint for tokenURI to recipient and waits for
// confirmation before returning, so callers never poll separately.
type Minter interface {
	Mint(ctx context.Context, recipient, tokenURI string) (string, error)
}
