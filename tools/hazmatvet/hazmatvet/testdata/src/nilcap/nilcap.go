// SPDX-License-Identifier: MPL-2.0

// Package nilcap tries to call a guarded interface from outside its
// declaring package by passing nil capabilities.
package nilcap

import "suited"

// CallWithNil passes nil where the capability is required. The nil []byte
// argument is fine; only the capability slot is guarded.
func CallWithNil(v suited.Vault) error {
	return v.Store("k", nil, nil) // want `nil passed as capability VaultCap; only the declaring package can construct VaultCap values`
}

// Forge manufactures a typed nil capability via conversion.
func Forge() suited.VaultCap {
	return suited.VaultCap(nil) // want `nil passed as capability VaultCap`
}

// FetchWithNil covers the non-final argument position.
func FetchWithNil(v suited.Vault) ([]byte, error) {
	return v.Fetch("k", nil) // want `nil passed as capability VaultCap`
}
