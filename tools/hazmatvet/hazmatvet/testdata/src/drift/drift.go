// SPDX-License-Identifier: MPL-2.0

// Package drift contains marked interfaces the rewriter has not fully
// processed.
package drift

// Pump has one suited method and one the rewriter never saw.
//
//hazmat:suit
type Pump interface {
	Start(cap PumpCap) error
	Stop() error // want `method Pump.Stop lacks capability parameter PumpCap; run 'hazmat suit -w'`
}

// PumpCap was hand-written as a struct, which any package can construct.
type PumpCap struct{} // want `capability type PumpCap does not restrict construction`

// Valve was marked but never rewritten at all.
//
//hazmat:suit
type Valve interface {
	Open() error  // want `method Valve.Open lacks capability parameter ValveCap`
	Close() error // want `method Valve.Close lacks capability parameter ValveCap`
}
