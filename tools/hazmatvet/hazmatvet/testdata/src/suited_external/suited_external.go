// SPDX-License-Identifier: MPL-2.0

// Package suited_external implements a guarded interface from outside its
// declaring package. Implementing is always allowed; this package compiles
// and produces no findings.
package suited_external

import "suited"

// MapVault implements suited.Vault without being able to call it.
type MapVault struct {
	data map[string][]byte
}

var _ suited.Vault = (*MapVault)(nil)

func (m *MapVault) Store(key string, value []byte, cap suited.VaultCap) error {
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[key] = value
	return nil
}

func (m *MapVault) Fetch(key string, cap suited.VaultCap) ([]byte, error) {
	return m.data[key], nil
}
