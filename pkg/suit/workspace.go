// SPDX-License-Identifier: MPL-2.0

package suit

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

// loadMode requests syntax plus type information for the whole
// dependency graph, so qualified directives can resolve interfaces in
// other packages.
const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedImports |
	packages.NeedDeps |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo

// RewritePatterns loads the packages matched by the given go/packages
// patterns (e.g. "./...") and rewrites each of them. Exclude patterns
// are matched against the file base name and the path relative to the
// working directory.
//
// Type errors in loaded packages are tolerated: a tree in a half-suited
// state does not type-check until the rewrite completes, so only load
// failures that leave no syntax to work with are fatal.
func RewritePatterns(ctx context.Context, patterns []string, opts Options, exclude []string) (*Result, error) {
	cfg := &packages.Config{
		Mode:    loadMode,
		Context: ctx,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages matched %v", patterns)
	}

	// go/packages reports absolute file paths; exclude patterns are
	// written relative to the invocation directory.
	wd, err := os.Getwd()
	if err != nil {
		wd = ""
	}

	resolver := newPackagesResolver(pkgs)
	combined := &Result{}

	for _, pkg := range pkgs {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("rewrite canceled: %w", ctx.Err())
		default:
		}

		var files []SourceFile
		for _, name := range pkg.GoFiles {
			if excludedFile(name, wd, exclude) {
				continue
			}
			src, err := os.ReadFile(name)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", name, err)
			}
			files = append(files, SourceFile{Name: name, Src: src})
		}
		if len(files) == 0 {
			continue
		}

		res, err := Rewrite(files, resolver, opts)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", pkg.PkgPath, err)
		}

		for i := range res.Guarded {
			res.Guarded[i].Package = pkg.PkgPath
		}
		combined.Files = append(combined.Files, res.Files...)
		combined.Guarded = append(combined.Guarded, res.Guarded...)
		combined.Diagnostics = append(combined.Diagnostics, res.Diagnostics...)
		combined.Packages = append(combined.Packages, pkg.PkgPath)
	}

	return combined, nil
}

// excludedFile reports whether a file matches any exclude glob. Patterns
// are matched against the base name, the path relative to dir, and the
// full slashed path, so both "*_gen.go" and "internal/legacy/*" work
// against the absolute paths go/packages reports.
func excludedFile(name, dir string, exclude []string) bool {
	candidates := []string{filepath.Base(name), filepath.ToSlash(name)}
	if dir != "" {
		if rel, err := filepath.Rel(dir, name); err == nil && !strings.HasPrefix(rel, "..") {
			candidates = append(candidates, filepath.ToSlash(rel))
		}
	}
	for _, pattern := range exclude {
		for _, candidate := range candidates {
			if ok, _ := path.Match(pattern, candidate); ok {
				return true
			}
		}
	}
	return false
}
