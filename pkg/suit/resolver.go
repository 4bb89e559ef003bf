// SPDX-License-Identifier: MPL-2.0

package suit

import (
	"fmt"
	"go/types"

	"golang.org/x/tools/go/packages"
)

// Resolver supplies the method set of guarded interfaces declared
// outside the files being rewritten. Workspace runs use type information
// from go/packages; tests can supply a fixed table.
type Resolver interface {
	// InterfaceMethods returns the method names of the named interface
	// in the package with the given import path.
	InterfaceMethods(importPath, name string) ([]string, error)
}

// StaticResolver is a Resolver backed by a fixed table, keyed by
// "importPath.InterfaceName".
type StaticResolver map[string][]string

// InterfaceMethods implements Resolver.
func (s StaticResolver) InterfaceMethods(importPath, name string) ([]string, error) {
	methods, ok := s[importPath+"."+name]
	if !ok {
		return nil, fmt.Errorf("interface %s not found in %s", name, importPath)
	}
	return methods, nil
}

// packagesResolver resolves interfaces through go/packages type
// information, including everything in the load's dependency graph.
type packagesResolver struct {
	index map[string]*packages.Package
}

func newPackagesResolver(pkgs []*packages.Package) *packagesResolver {
	r := &packagesResolver{index: make(map[string]*packages.Package)}
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		r.index[p.PkgPath] = p
	})
	return r
}

// InterfaceMethods implements Resolver using the type checker's view of
// the interface, so embedded interfaces are already flattened.
func (r *packagesResolver) InterfaceMethods(importPath, name string) ([]string, error) {
	pkg, ok := r.index[importPath]
	if !ok || pkg.Types == nil {
		return nil, fmt.Errorf("package %s is not in the load graph", importPath)
	}
	obj := pkg.Types.Scope().Lookup(name)
	if obj == nil {
		return nil, fmt.Errorf("interface %s not found in %s", name, importPath)
	}
	tn, ok := obj.(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("%s.%s is not a type", importPath, name)
	}
	iface, ok := tn.Type().Underlying().(*types.Interface)
	if !ok {
		return nil, fmt.Errorf("%s.%s is not an interface", importPath, name)
	}

	methods := make([]string, 0, iface.NumMethods())
	for i := 0; i < iface.NumMethods(); i++ {
		methods = append(methods, iface.Method(i).Name())
	}
	return methods, nil
}
