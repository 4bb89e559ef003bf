// SPDX-License-Identifier: MPL-2.0

// Package hazmatvet implements a go/analysis analyzer that enforces the
// implement-only contract of interfaces guarded by //hazmat:suit.
//
// The hazmat rewriter makes guarded methods require a capability value
// that only the declaring package can construct. The type system leaves
// one hole: a caller can pass a nil interface value instead of a real
// capability. hazmatvet closes that hole and keeps marked trees suited:
//
//   - nil-capability: nil passed where a capability value is required
//   - unsuited-method: marked interface methods missing the capability
//     parameter (the rewriter has not been run)
//   - missing-capability-type: a capability type that does not actually
//     restrict construction to the declaring package
//   - misplaced-directive: //hazmat:suit on declarations it cannot guard
//   - unknown-directive: unrecognized //hazmat: directives
//
// Known findings can be accepted via a TOML baseline file so CI only
// reports regressions.
package hazmatvet

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Diagnostic category constants for structured JSON output. These appear
// in the "category" field of analysis.Diagnostic when using -json mode.
const (
	CategoryMisplacedDirective    = "misplaced-directive"
	CategoryUnknownDirective      = "unknown-directive"
	CategoryUnsuitedMethod        = "unsuited-method"
	CategoryMissingCapabilityType = "missing-capability-type"
	CategoryNilCapability         = "nil-capability"
)

// Flag binding variables for the analyzer's flag set. These are populated
// by the go/analysis framework during flag parsing. run() reads them once
// via newRunConfig() into a local struct.
var (
	baselinePath string
	capSuffix    string
)

// Analyzer is the hazmatvet analysis pass. Use it with singlechecker
// or multichecker, or via go vet -vettool.
var Analyzer = &analysis.Analyzer{
	Name:     "hazmatvet",
	Doc:      "enforces the implement-only contract of //hazmat:suit interfaces",
	URL:      "https://github.com/hazmat-go/hazmat/tools/hazmatvet",
	Run:      run,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

func init() {
	Analyzer.Flags.StringVar(&baselinePath, "baseline", "",
		"path to baseline TOML file (suppress known findings, report only new ones)")
	Analyzer.Flags.StringVar(&capSuffix, "cap-suffix", "Cap",
		"suffix appended to interface names to form capability type names")
}

// runConfig holds the resolved flag values for a single run() invocation.
type runConfig struct {
	baselinePath string
	capSuffix    string
}

func newRunConfig() runConfig {
	rc := runConfig{
		baselinePath: baselinePath,
		capSuffix:    capSuffix,
	}
	if rc.capSuffix == "" {
		rc.capSuffix = "Cap"
	}
	return rc
}

func run(pass *analysis.Pass) (any, error) {
	rc := newRunConfig()

	bl, err := loadBaseline(rc.baselinePath)
	if err != nil {
		return nil, err
	}

	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	// Directive placement and suited-ness checks walk declarations.
	nodeFilter := []ast.Node{
		(*ast.GenDecl)(nil),
		(*ast.FuncDecl)(nil),
		(*ast.CallExpr)(nil),
	}

	insp.Preorder(nodeFilter, func(n ast.Node) {
		switch n := n.(type) {
		case *ast.GenDecl:
			inspectGenDecl(pass, n, rc, bl)
		case *ast.FuncDecl:
			inspectFuncDecl(pass, n, bl)
		case *ast.CallExpr:
			inspectCallForNilCapability(pass, n, bl)
		}
	})

	// Unknown directives can sit on any comment, not just declaration docs.
	reportUnknownDirectives(pass, bl)

	return nil, nil
}
