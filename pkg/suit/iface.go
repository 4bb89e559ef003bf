// SPDX-License-Identifier: MPL-2.0

package suit

import (
	"fmt"
	"go/ast"
	"strings"
	"unicode"
	"unicode/utf8"
)

// guardInterface rewrites one directive-marked interface declaration:
// every method gains a capability parameter, and the capability type is
// emitted immediately before the interface unless it already exists.
func (rw *rewriter) guardInterface(fs *fileState, gen *ast.GenDecl, ts *ast.TypeSpec, it *ast.InterfaceType, dir Directive) {
	if dir.Arg != "" {
		rw.diag(fs, dir.Comment.Pos(), CategoryMalformedDirective,
			fmt.Sprintf("hazmat:suit on an interface takes no argument (got %q)", dir.Arg))
		return
	}
	if !ast.IsExported(ts.Name.Name) {
		rw.diag(fs, dir.Comment.Pos(), CategoryUnexportedInterface,
			fmt.Sprintf("interface %s is unexported and cannot be implemented outside this package; guarding it has no effect", ts.Name.Name))
		return
	}

	capName := ts.Name.Name + rw.opts.CapSuffix

	var methods []string
	for _, field := range it.Methods.List {
		ft, ok := field.Type.(*ast.FuncType)
		if !ok || len(field.Names) == 0 {
			// Embedded interface: its own declaration carries its own
			// directive, nothing to do here.
			continue
		}
		methods = append(methods, field.Names[0].Name)
		if !hasCapParam(fs, ft, capName) {
			rw.addCapParam(fs, ft, capName)
		}
	}

	if _, declared := rw.typeDecls[capName]; !declared && !rw.generatedCaps[capName] {
		rw.generatedCaps[capName] = true
		at := gen.Pos()
		if gen.Doc != nil {
			at = gen.Doc.Pos()
		}
		off := fs.offset(at)
		fs.edits = append(fs.edits, edit{start: off, end: off, text: capabilityDecls(ts.Name.Name, capName)})
	}

	rw.guarded = append(rw.guarded, GuardedInterface{
		Name:       ts.Name.Name,
		Capability: capName,
		Methods:    methods,
	})
}

// capabilityDecls renders the capability type block for one guarded
// interface: an exported interface that anyone can name, with a single
// unexported implementation that only the defining package can build.
func capabilityDecls(ifaceName, capName string) string {
	impl := unexportedName(capName)
	marker := "is" + capName

	return fmt.Sprintf(`// %[1]s is the capability required to call %[2]s methods. Any package
// can name %[1]s in a method signature, so %[2]s stays implementable
// everywhere, but only this package can construct %[1]s values, which
// keeps %[2]s methods callable only from here.
type %[1]s interface{ %[3]s() }

// %[4]s is the sole implementation of %[1]s. It is unexported: no other
// package can construct it.
type %[4]s struct{}

func (%[4]s) %[3]s() {}

`, capName, ifaceName, marker, impl)
}

// hasCapParam reports whether a signature already carries a parameter of
// the capability type, matching both unqualified and qualified spellings.
func hasCapParam(fs *fileState, ft *ast.FuncType, capName string) bool {
	if ft.Params == nil {
		return false
	}
	for _, field := range ft.Params.List {
		typ := field.Type
		if ell, ok := typ.(*ast.Ellipsis); ok {
			typ = ell.Elt
		}
		text := fs.text(typ)
		if text == capName || strings.HasSuffix(text, "."+capName) {
			return true
		}
	}
	return false
}

// addCapParam computes the edit appending the capability parameter to a
// signature. The parameter goes last, except before a variadic parameter
// (nothing may follow `...`). Named and unnamed parameter lists cannot
// be mixed in Go, so the inserted parameter follows the style already in
// use; empty lists get the named form.
func (rw *rewriter) addCapParam(fs *fileState, ft *ast.FuncType, capRef string) {
	params := ft.Params

	named := true
	hasParams := params != nil && len(params.List) > 0
	if hasParams {
		named = len(params.List[0].Names) > 0
	}

	decl := capRef
	if named {
		decl = rw.pickParamName(params) + " " + capRef
	}

	if hasParams {
		last := params.List[len(params.List)-1]
		if _, variadic := last.Type.(*ast.Ellipsis); variadic {
			off := fs.offset(last.Pos())
			fs.edits = append(fs.edits, edit{start: off, end: off, text: decl + ", "})
			return
		}
	}

	off := fs.offset(params.Closing)
	text := decl
	if hasParams {
		text = ", " + decl
	}
	fs.edits = append(fs.edits, edit{start: off, end: off, text: text})
}

// pickParamName returns the configured capability parameter name, or a
// derived one when an existing parameter already uses it.
func (rw *rewriter) pickParamName(params *ast.FieldList) string {
	taken := make(map[string]bool)
	if params != nil {
		for _, field := range params.List {
			for _, name := range field.Names {
				taken[name.Name] = true
			}
		}
	}

	name := rw.opts.ParamName
	for i := 1; taken[name]; i++ {
		name = fmt.Sprintf("%s%d", rw.opts.ParamName, i)
	}
	return name
}

// unexportedName lowercases the first rune of an exported identifier.
func unexportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[size:]
}
