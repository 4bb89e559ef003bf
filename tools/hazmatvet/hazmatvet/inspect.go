// SPDX-License-Identifier: MPL-2.0

package hazmatvet

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// directivePrefix introduces hazmat directives in comments.
const directivePrefix = "//hazmat:"

// parseDirective extracts the key and argument from a hazmat directive
// comment. A trailing " -- reason" suffix is stripped from the argument.
// Returns ok=false when the comment is not a hazmat directive.
func parseDirective(text string) (key, arg string, ok bool) {
	if !strings.HasPrefix(text, directivePrefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(text, directivePrefix)
	if i := strings.Index(rest, " -- "); i >= 0 {
		rest = rest[:i]
	}
	rest = strings.TrimSpace(rest)
	key, arg, _ = strings.Cut(rest, " ")
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(arg), true
}

// suitDirectiveIn returns the argument of the first //hazmat:suit directive
// found in the given comment groups, preferring later groups (a spec doc
// overrides the enclosing declaration doc).
func suitDirectiveIn(groups ...*ast.CommentGroup) (arg string, found bool) {
	for _, group := range groups {
		if group == nil {
			continue
		}
		for _, c := range group.List {
			key, a, ok := parseDirective(c.Text)
			if ok && key == "suit" {
				arg, found = a, true
			}
		}
	}
	return arg, found
}

// inspectGenDecl checks //hazmat:suit directive placement on type, var,
// const, and import declarations, and verifies marked interfaces are suited.
func inspectGenDecl(pass *analysis.Pass, d *ast.GenDecl, rc runConfig, bl *BaselineConfig) {
	if d.Tok != token.TYPE {
		if _, found := suitDirectiveIn(d.Doc); found {
			reportMisplaced(pass, d, bl,
				fmt.Sprintf("//hazmat:suit cannot guard a %s declaration; it applies to interfaces and their implementations", d.Tok))
		}
		return
	}

	for _, spec := range d.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}

		docs := []*ast.CommentGroup{ts.Doc}
		if len(d.Specs) == 1 {
			docs = []*ast.CommentGroup{d.Doc, ts.Doc}
		}
		arg, found := suitDirectiveIn(docs...)
		if !found {
			continue
		}

		if iface, isIface := ts.Type.(*ast.InterfaceType); isIface {
			if arg != "" {
				reportMisplaced(pass, ts, bl,
					fmt.Sprintf("//hazmat:suit on interface %s must not name an interface; the bare directive guards it", ts.Name.Name))
				continue
			}
			checkSuitedInterface(pass, ts, iface, rc, bl)
			continue
		}

		// Non-interface types carry the directive to mark implementations
		// and must name the interface they implement.
		if arg == "" {
			reportMisplaced(pass, ts, bl,
				fmt.Sprintf("//hazmat:suit on %s must name the interface being implemented, e.g. //hazmat:suit pkg.Iface", ts.Name.Name))
		}
	}
}

// inspectFuncDecl reports //hazmat:suit directives on functions and methods.
// The directive belongs on the interface or implementing type, never on a
// single function.
func inspectFuncDecl(pass *analysis.Pass, fn *ast.FuncDecl, bl *BaselineConfig) {
	if _, found := suitDirectiveIn(fn.Doc); !found {
		return
	}
	reportMisplaced(pass, fn, bl,
		fmt.Sprintf("//hazmat:suit cannot guard function %s; mark the interface or the implementing type instead", fn.Name.Name))
}

// checkSuitedInterface verifies that every method of a marked interface
// carries the capability parameter and that the capability type actually
// restricts construction.
func checkSuitedInterface(pass *analysis.Pass, ts *ast.TypeSpec, iface *ast.InterfaceType, rc runConfig, bl *BaselineConfig) {
	capName := ts.Name.Name + rc.capSuffix

	for _, field := range iface.Methods.List {
		if len(field.Names) == 0 {
			// Embedded interfaces keep their own contract.
			continue
		}
		ft, ok := field.Type.(*ast.FuncType)
		if !ok {
			continue
		}
		if methodHasCapability(pass, ft, capName) {
			continue
		}

		methodName := field.Names[0].Name
		msg := fmt.Sprintf("method %s.%s lacks capability parameter %s; run 'hazmat suit -w'",
			ts.Name.Name, methodName, capName)
		findingID := StableFindingID(CategoryUnsuitedMethod, pass.Pkg.Path(), ts.Name.Name, methodName)
		if bl.ContainsFinding(CategoryUnsuitedMethod, findingID, msg) {
			continue
		}
		reportDiagnostic(pass, field.Pos(), CategoryUnsuitedMethod, findingID, msg)
	}

	// A capability type that any package can construct guards nothing.
	obj := pass.Pkg.Scope().Lookup(capName)
	if obj == nil {
		return
	}
	if isCapabilityType(obj.Type()) {
		return
	}
	msg := fmt.Sprintf("capability type %s does not restrict construction; want an interface with a single unexported marker method is%s()",
		capName, capName)
	findingID := StableFindingID(CategoryMissingCapabilityType, pass.Pkg.Path(), capName)
	if bl.ContainsFinding(CategoryMissingCapabilityType, findingID, msg) {
		return
	}
	reportDiagnostic(pass, obj.Pos(), CategoryMissingCapabilityType, findingID, msg)
}

// methodHasCapability reports whether one of the method's parameters has
// the capability type. The type-checked form is preferred; when type
// information is unavailable the parameter type text is compared instead.
func methodHasCapability(pass *analysis.Pass, ft *ast.FuncType, capName string) bool {
	if ft.Params == nil {
		return false
	}
	for _, field := range ft.Params.List {
		expr := field.Type
		if ell, ok := expr.(*ast.Ellipsis); ok {
			expr = ell.Elt
		}

		if t := pass.TypesInfo.TypeOf(expr); t != nil {
			if named, ok := t.(*types.Named); ok && named.Obj().Name() == capName {
				return true
			}
			continue
		}

		text := types.ExprString(expr)
		if text == capName || strings.HasSuffix(text, "."+capName) {
			return true
		}
	}
	return false
}

// isCapabilityType reports whether t has the shape the rewriter emits for
// capability tokens: a named interface with a single unexported marker
// method is<Name>() taking and returning nothing. Only the declaring
// package can implement such an interface, so only it can produce values.
func isCapabilityType(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	iface, ok := named.Underlying().(*types.Interface)
	if !ok {
		return false
	}
	if iface.NumEmbeddeds() != 0 || iface.NumExplicitMethods() != 1 {
		return false
	}
	m := iface.ExplicitMethod(0)
	if m.Exported() || m.Name() != "is"+named.Obj().Name() {
		return false
	}
	sig, ok := m.Type().(*types.Signature)
	if !ok {
		return false
	}
	return sig.Params().Len() == 0 && sig.Results().Len() == 0
}

// inspectCallForNilCapability reports nil passed where a capability value
// is required. The interface-based capability pattern leaves exactly this
// hole open in the type system; closing it here completes the guarantee.
func inspectCallForNilCapability(pass *analysis.Pass, call *ast.CallExpr, bl *BaselineConfig) {
	if tv, ok := pass.TypesInfo.Types[call.Fun]; ok && tv.IsType() {
		// Conversions like FooCap(nil) manufacture a typed nil capability.
		if isCapabilityType(tv.Type) && len(call.Args) == 1 && isNilExpr(pass, call.Args[0]) {
			reportNilCapability(pass, call.Args[0].Pos(), tv.Type, bl)
		}
		return
	}

	sig, ok := pass.TypesInfo.TypeOf(call.Fun).(*types.Signature)
	if !ok {
		return
	}

	for i, arg := range call.Args {
		if !isNilExpr(pass, arg) {
			continue
		}
		t := paramTypeAt(sig, i)
		if t == nil || !isCapabilityType(t) {
			continue
		}
		reportNilCapability(pass, arg.Pos(), t, bl)
	}
}

// paramTypeAt resolves the parameter type for argument index i, expanding
// the variadic tail.
func paramTypeAt(sig *types.Signature, i int) types.Type {
	n := sig.Params().Len()
	if n == 0 {
		return nil
	}
	if sig.Variadic() && i >= n-1 {
		if slice, ok := sig.Params().At(n - 1).Type().(*types.Slice); ok {
			return slice.Elem()
		}
		return nil
	}
	if i >= n {
		return nil
	}
	return sig.Params().At(i).Type()
}

// isNilExpr reports whether expr is the predeclared nil.
func isNilExpr(pass *analysis.Pass, expr ast.Expr) bool {
	tv, ok := pass.TypesInfo.Types[expr]
	return ok && tv.IsNil()
}

func reportNilCapability(pass *analysis.Pass, pos token.Pos, t types.Type, bl *BaselineConfig) {
	name := t.(*types.Named).Obj().Name()
	msg := fmt.Sprintf("nil passed as capability %s; only the declaring package can construct %s values", name, name)
	position := pass.Fset.Position(pos)
	findingID := StableFindingID(CategoryNilCapability, pass.Pkg.Path(), name, position.Filename, fmt.Sprint(position.Line))
	if bl.ContainsFinding(CategoryNilCapability, findingID, msg) {
		return
	}
	reportDiagnostic(pass, pos, CategoryNilCapability, findingID, msg)
}

// reportMisplaced emits a misplaced-directive finding for a declaration.
func reportMisplaced(pass *analysis.Pass, node ast.Node, bl *BaselineConfig, msg string) {
	position := pass.Fset.Position(node.Pos())
	findingID := StableFindingID(CategoryMisplacedDirective, pass.Pkg.Path(), position.Filename, fmt.Sprint(position.Line))
	if bl.ContainsFinding(CategoryMisplacedDirective, findingID, msg) {
		return
	}
	reportDiagnostic(pass, node.Pos(), CategoryMisplacedDirective, findingID, msg)
}

// reportUnknownDirectives scans every comment for //hazmat: directives
// with an unrecognized key.
func reportUnknownDirectives(pass *analysis.Pass, bl *BaselineConfig) {
	for _, file := range pass.Files {
		for _, group := range file.Comments {
			for _, c := range group.List {
				key, _, ok := parseDirective(c.Text)
				if !ok || key == "suit" {
					continue
				}
				msg := fmt.Sprintf("unknown directive //hazmat:%s; only //hazmat:suit is recognized", key)
				position := pass.Fset.Position(c.Pos())
				findingID := StableFindingID(CategoryUnknownDirective, pass.Pkg.Path(), key, position.Filename, fmt.Sprint(position.Line))
				if bl.ContainsFinding(CategoryUnknownDirective, findingID, msg) {
					continue
				}
				reportDiagnostic(pass, c.Pos(), CategoryUnknownDirective, findingID, msg)
			}
		}
	}
}
