// SPDX-License-Identifier: MPL-2.0

package suit

import (
	"fmt"
	"go/ast"
	"sort"
	"strconv"
	"strings"
)

// guardImplementation rewrites the methods of a concrete type marked
// with //hazmat:suit <interface>: every method named by the guarded
// interface gains the capability parameter.
func (rw *rewriter) guardImplementation(fs *fileState, ts *ast.TypeSpec, dir Directive) {
	if dir.Arg == "" {
		rw.diag(fs, dir.Comment.Pos(), CategoryMalformedDirective,
			fmt.Sprintf("hazmat:suit on concrete type %s requires the guarded interface name, e.g. //hazmat:suit prim.Decrypter", ts.Name.Name))
		return
	}

	qualifier, ifaceName, err := splitInterfaceRef(dir.Arg)
	if err != nil {
		rw.diag(fs, dir.Comment.Pos(), CategoryMalformedDirective, err.Error())
		return
	}

	var (
		methodNames []string
		importPath  string
	)
	if qualifier == "" {
		decl, ok := rw.typeDecls[ifaceName]
		if !ok {
			rw.diag(fs, dir.Comment.Pos(), CategoryUnknownInterface,
				fmt.Sprintf("interface %s is not declared in this package", ifaceName))
			return
		}
		it, ok := decl.spec.Type.(*ast.InterfaceType)
		if !ok {
			rw.diag(fs, dir.Comment.Pos(), CategoryUnknownInterface,
				fmt.Sprintf("%s is not an interface", ifaceName))
			return
		}
		methodNames = interfaceMethodNames(it)
	} else {
		importPath = importPathFor(fs.ast, qualifier)
		if importPath == "" {
			rw.diag(fs, dir.Comment.Pos(), CategoryUnknownInterface,
				fmt.Sprintf("file does not import a package named %q", qualifier))
			return
		}
		if rw.resolver == nil {
			rw.diag(fs, dir.Comment.Pos(), CategoryUnknownInterface,
				fmt.Sprintf("cannot resolve %s: no package resolver available", dir.Arg))
			return
		}
		methodNames, err = rw.resolver.InterfaceMethods(importPath, ifaceName)
		if err != nil {
			rw.diag(fs, dir.Comment.Pos(), CategoryUnknownInterface,
				fmt.Sprintf("cannot resolve %s: %v", dir.Arg, err))
			return
		}
	}

	capName := ifaceName + rw.opts.CapSuffix
	guarded := make(map[string]bool, len(methodNames))
	for _, name := range methodNames {
		guarded[name] = true
	}

	for _, md := range rw.methods[ts.Name.Name] {
		if !guarded[md.fn.Name.Name] {
			continue
		}
		if hasCapParam(md.file, md.fn.Type, capName) {
			continue
		}
		capRef := capName
		if qualifier != "" {
			capRef = rw.qualifiedCapRef(md.file, importPath, qualifier, capName)
		}
		rw.addCapParam(md.file, md.fn.Type, capRef)
	}
}

// qualifiedCapRef returns the capability reference for a method file,
// reusing the file's existing import name for the interface's package or
// scheduling a new import when the file lacks one.
func (rw *rewriter) qualifiedCapRef(fs *fileState, importPath, qualifier, capName string) string {
	for _, imp := range fs.ast.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil || path != importPath {
			continue
		}
		if imp.Name != nil {
			return imp.Name.Name + "." + capName
		}
		return importBaseName(path) + "." + capName
	}

	fs.imports[importPath] = qualifier
	return qualifier + "." + capName
}

// splitInterfaceRef parses a directive argument of the form "Iface" or
// "pkg.Iface".
func splitInterfaceRef(arg string) (qualifier, name string, err error) {
	switch parts := strings.Split(arg, "."); len(parts) {
	case 1:
		return "", parts[0], nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return "", "", fmt.Errorf("malformed interface reference %q", arg)
		}
		return parts[0], parts[1], nil
	default:
		return "", "", fmt.Errorf("malformed interface reference %q: want Iface or pkg.Iface", arg)
	}
}

// interfaceMethodNames lists the explicit methods of a source-level
// interface declaration, in source order.
func interfaceMethodNames(it *ast.InterfaceType) []string {
	var names []string
	for _, field := range it.Methods.List {
		if _, ok := field.Type.(*ast.FuncType); !ok || len(field.Names) == 0 {
			continue
		}
		names = append(names, field.Names[0].Name)
	}
	return names
}

// importPathFor finds the import path a file binds to the given local
// package name.
func importPathFor(f *ast.File, qualifier string) string {
	for _, imp := range f.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := importBaseName(path)
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == qualifier {
			return path
		}
	}
	return ""
}

// importBaseName guesses the package name of an import path: its last
// element, skipping version suffixes like /v2.
func importBaseName(path string) string {
	parts := strings.Split(path, "/")
	last := parts[len(parts)-1]
	if len(parts) > 1 && len(last) > 1 && last[0] == 'v' {
		if _, err := strconv.Atoi(last[1:]); err == nil {
			last = parts[len(parts)-2]
		}
	}
	return last
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
