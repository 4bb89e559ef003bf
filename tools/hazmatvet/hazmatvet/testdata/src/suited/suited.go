// SPDX-License-Identifier: MPL-2.0

package suited

// Vault stores secrets. Any package may implement it; only this package
// can call its methods.
//
//hazmat:suit
type Vault interface {
	Store(key string, value []byte, cap VaultCap) error
	Fetch(key string, cap VaultCap) ([]byte, error)
}

// VaultCap is the capability required to call Vault methods.
type VaultCap interface{ isVaultCap() }

type vaultCap struct{}

func (vaultCap) isVaultCap() {}

// RoundTrip exercises a Vault with a real capability value.
func RoundTrip(v Vault) ([]byte, error) {
	if err := v.Store("k", []byte("v"), vaultCap{}); err != nil {
		return nil, err
	}
	return v.Fetch("k", vaultCap{})
}
