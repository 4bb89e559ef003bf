// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Explanation is the rendered documentation for one diagnostic category,
// shown by `hazmat explain <category>`.
type Explanation struct {
	// Category is the diagnostic category key, as printed by
	// `hazmat suit` and the hazmatvet analyzer.
	Category string
	// Summary is the one-line description used in listings.
	Summary string
	// Markdown is the full explanation, rendered with glamour.
	Markdown string
}

// Render renders the explanation's markdown for the terminal.
func (e *Explanation) Render() (string, error) {
	return render(e.Markdown)
}

// render is swappable in tests to avoid terminal detection.
var render = func(in string) (string, error) {
	return glamour.Render(in, "auto")
}

// Lookup returns the explanation for a category.
func Lookup(category string) (*Explanation, bool) {
	e, ok := explanations[category]
	return e, ok
}

// Categories lists every documented category in sorted order.
func Categories() []string {
	keys := maps.Keys(explanations)
	slices.Sort(keys)
	return keys
}

// Summary returns the one-line description for a category, or an empty
// string if the category is undocumented.
func Summary(category string) string {
	if e, ok := explanations[category]; ok {
		return e.Summary
	}
	return ""
}

var explanations = map[string]*Explanation{
	"misplaced-directive": {
		Category: "misplaced-directive",
		Summary:  "//hazmat:suit on a declaration that cannot be guarded",
		Markdown: `
# Misplaced directive

` + "`//hazmat:suit`" + ` applies to exactly two kinds of declarations:

1. An **interface type**, which becomes implement-only:
~~~go
//hazmat:suit
type Decrypter interface {
	Decrypt(ciphertext []byte) ([]byte, error)
}
~~~

2. A **concrete type** implementing a guarded interface:
~~~go
//hazmat:suit prim.Decrypter
type CardDecrypter struct{ /* ... */ }
~~~

Attaching the directive to a function, variable, constant, or import
declaration does nothing, so the tool reports it instead of silently
ignoring it. Move the directive to the type declaration you meant.`,
	},
	"malformed-directive": {
		Category: "malformed-directive",
		Summary:  "suit directive argument does not fit the declaration",
		Markdown: `
# Malformed directive

- On an **interface**, ` + "`//hazmat:suit`" + ` takes no argument.
- On a **concrete type**, it requires the guarded interface name:
  ` + "`//hazmat:suit Decrypter`" + ` or ` + "`//hazmat:suit prim.Decrypter`" + `.
- On a grouped ` + "`type (...)`" + ` block the directive is ambiguous;
  attach it to the individual type declarations instead.`,
	},
	"unknown-directive": {
		Category: "unknown-directive",
		Summary:  "//hazmat:<key> with an unrecognized key",
		Markdown: `
# Unknown directive

A comment starting with ` + "`//hazmat:`" + ` used a key the tool does not
recognize — usually a typo like ` + "`//hazmat:siut`" + `. The only
recognized key is ` + "`suit`" + `. Typos are reported rather than skipped
because a silently ignored directive would leave an interface unguarded.`,
	},
	"unknown-interface": {
		Category: "unknown-interface",
		Summary:  "suit directive names an interface that cannot be resolved",
		Markdown: `
# Unknown interface

A concrete type's ` + "`//hazmat:suit <iface>`" + ` directive named an
interface the rewriter cannot find.

## Things you can try
- For a same-package interface, check the spelling against the type
  declaration.
- For a qualified reference like ` + "`prim.Decrypter`" + `, make sure the
  file containing the directive imports the package, and that the
  qualifier matches the import name used in that file.
- Run the rewrite over a pattern that includes the defining package,
  e.g. ` + "`hazmat suit ./...`" + `, so its type information is loaded.`,
	},
	"unexported-interface": {
		Category: "unexported-interface",
		Summary:  "guarding an unexported interface has no effect",
		Markdown: `
# Unexported interface

An unexported interface cannot be implemented outside its package, so
making it implement-only changes nothing. Export the interface if you
want external implementations with in-package-only calls; otherwise
remove the directive.`,
	},
	"unsuited-method": {
		Category: "unsuited-method",
		Summary:  "guarded interface method missing its capability parameter",
		Markdown: `
# Unsuited method

An interface carries ` + "`//hazmat:suit`" + ` but at least one of its
methods lacks the capability parameter. The source drifted — typically a
method was added after the last rewrite. Re-run:

~~~
$ hazmat suit ./...
~~~`,
	},
	"missing-capability-type": {
		Category: "missing-capability-type",
		Summary:  "guarded interface without its capability type",
		Markdown: `
# Missing capability type

An interface carries ` + "`//hazmat:suit`" + ` but its capability type is
not declared in the package. Without the type, implementers cannot name
the parameter and the guard does not exist. Re-run:

~~~
$ hazmat suit ./...
~~~`,
	},
	"nil-capability": {
		Category: "nil-capability",
		Summary:  "guarded method called with a nil capability",
		Markdown: `
# Nil capability

A call passes ` + "`nil`" + ` where a guarded method expects a capability
value. The capability type is an interface, so ` + "`nil`" + ` satisfies
the compiler — this is the one hole Go's type system leaves open, and the
vet pass closes it.

A nil capability means the caller does not hold a real capability and is
circumventing the implement-only contract. Call the high-level API the
defining package exposes instead of the guarded primitive.`,
	},
}

// ExplainAll renders the category list with summaries, for
// `hazmat explain` without arguments.
func ExplainAll() string {
	out := ""
	for _, cat := range Categories() {
		out += fmt.Sprintf("%-24s %s\n", cat, explanations[cat].Summary)
	}
	return out
}
