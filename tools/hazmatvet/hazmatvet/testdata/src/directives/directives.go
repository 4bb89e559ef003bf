// SPDX-License-Identifier: MPL-2.0

// Package directives misplaces //hazmat:suit on declarations it cannot guard.
package directives

// Assembler is a plain interface used as an implementation target below.
type Assembler interface {
	Assemble(parts int) error
}

//hazmat:suit
func Deploy() {} // want `//hazmat:suit cannot guard function Deploy; mark the interface or the implementing type instead`

//hazmat:suit
var counter int // want `//hazmat:suit cannot guard a var declaration`

//hazmat:suit
const limit = 8 // want `//hazmat:suit cannot guard a const declaration`

//hazmat:suit
type Widget struct{} // want `//hazmat:suit on Widget must name the interface being implemented`

//hazmat:suit Assembler
type Gadget interface { // want `//hazmat:suit on interface Gadget must not name an interface; the bare directive guards it`
	Fold() error
}

// Robot names its interface, which is the correct implementation marker.
//
//hazmat:suit Assembler
type Robot struct{}

func (Robot) Assemble(parts int) error { return nil }

func use() {
	Deploy()
	_ = counter
	_ = limit
	_ = Widget{}
	_ = Robot{}
}
