// SPDX-License-Identifier: MPL-2.0

package suit

import (
	"fmt"
	"go/token"
)

// Diagnostic category constants. These appear in CLI output and are the
// keys understood by `hazmat explain`.
const (
	// CategoryMisplacedDirective flags //hazmat:suit on something other
	// than an interface or concrete type declaration.
	CategoryMisplacedDirective = "misplaced-directive"
	// CategoryMalformedDirective flags a suit directive whose argument
	// does not fit the declaration it is attached to.
	CategoryMalformedDirective = "malformed-directive"
	// CategoryUnknownDirective flags //hazmat:<key> with an
	// unrecognized key.
	CategoryUnknownDirective = "unknown-directive"
	// CategoryUnknownInterface flags a suit directive on a concrete
	// type naming an interface the rewriter cannot resolve.
	CategoryUnknownInterface = "unknown-interface"
	// CategoryUnexportedInterface flags a suit directive on an
	// unexported interface, where guarding has no effect: the interface
	// cannot be implemented outside its package to begin with.
	CategoryUnexportedInterface = "unexported-interface"
)

// Diagnostic is a single finding produced while computing a rewrite.
// Diagnostics never abort processing of other declarations; a guarded
// declaration that produces a diagnostic is left unrewritten.
type Diagnostic struct {
	// Pos locates the offending directive or declaration.
	Pos token.Position
	// Category is one of the Category* constants.
	Category string
	// Message is the human-readable finding text.
	Message string
}

// String renders the diagnostic in file:line:col: category: message form.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Category, d.Message)
}

// Categories returns all diagnostic categories the rewriter can emit,
// in stable order. The `hazmat explain` registry documents every entry;
// its tests fail when a new category lands here without documentation.
func Categories() []string {
	return []string{
		CategoryMisplacedDirective,
		CategoryMalformedDirective,
		CategoryUnknownDirective,
		CategoryUnknownInterface,
		CategoryUnexportedInterface,
	}
}
