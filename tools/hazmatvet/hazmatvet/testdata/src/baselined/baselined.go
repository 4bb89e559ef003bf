// SPDX-License-Identifier: MPL-2.0

// Package baselined has a known-stale interface whose findings are
// accepted in baselined.toml. No new findings should be reported.
package baselined

//hazmat:suit
type Reactor interface {
	Scram() error
}
