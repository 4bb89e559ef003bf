// SPDX-License-Identifier: MPL-2.0

package suit

import (
	"go/ast"
	"strings"
)

// DirectiveName is the comment prefix that marks a declaration for the
// implement-only rewrite, e.g. //hazmat:suit.
const DirectiveName = "hazmat"

// knownDirectiveKeys enumerates the directive keys the rewriter accepts.
// Anything else after "hazmat:" is reported as an unknown directive so
// typos like //hazmat:siut are caught instead of silently ignored.
var knownDirectiveKeys = map[string]bool{
	"suit": true,
}

// Directive is one parsed //hazmat:<key> comment.
type Directive struct {
	// Key is the directive key ("suit"), or the raw unknown key.
	Key string
	// Arg is the text after the key. For //hazmat:suit on a concrete
	// type it names the guarded interface, optionally qualified with
	// the import name used in the file (e.g. "prim.Decrypter").
	Arg string
	// Known reports whether Key is a recognized directive key.
	Known bool
	// Comment is the comment that carried the directive, for positions.
	Comment *ast.Comment
}

// IsSuit reports whether d is a recognized //hazmat:suit directive.
func (d Directive) IsSuit() bool {
	return d.Known && d.Key == "suit"
}

// parseDirectives extracts //hazmat: directives from the given comment
// groups. The prefix must start the comment content (after // and
// optional whitespace); prose mentions like "see hazmat:suit for docs"
// are not directives.
func parseDirectives(groups ...*ast.CommentGroup) []Directive {
	var out []Directive
	for _, cg := range groups {
		if cg == nil {
			continue
		}
		for _, c := range cg.List {
			if d, ok := parseDirectiveComment(c); ok {
				out = append(out, d)
			}
		}
	}
	return out
}

// parseDirectiveComment parses a single comment as a hazmat directive.
func parseDirectiveComment(c *ast.Comment) (Directive, bool) {
	content := strings.TrimPrefix(c.Text, "//")
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, DirectiveName+":") {
		return Directive{}, false
	}
	rest := content[len(DirectiveName)+1:]

	// The convention for explanation suffixes is " -- reason".
	if sep := strings.Index(rest, " --"); sep >= 0 {
		rest = rest[:sep]
	}

	key, arg, _ := strings.Cut(rest, " ")
	key = strings.TrimSpace(key)
	arg = strings.TrimSpace(arg)
	if key == "" {
		return Directive{}, false
	}

	return Directive{
		Key:     key,
		Arg:     arg,
		Known:   knownDirectiveKeys[key],
		Comment: c,
	}, true
}

// suitDirective returns the first //hazmat:suit directive found in the
// given comment groups, if any.
func suitDirective(groups ...*ast.CommentGroup) (Directive, bool) {
	for _, d := range parseDirectives(groups...) {
		if d.IsSuit() {
			return d, true
		}
	}
	return Directive{}, false
}
