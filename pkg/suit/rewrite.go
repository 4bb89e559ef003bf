// SPDX-License-Identifier: MPL-2.0

package suit

import (
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
)

type (
	// SourceFile is one Go file handed to the rewriter. All files of a
	// call should belong to the same package so that same-package
	// interface lookups and method collection work.
	SourceFile struct {
		// Name is the display path, used in diagnostics and results.
		Name string
		// Src is the raw file content.
		Src []byte
	}

	// FileResult is the rewrite outcome for one input file.
	FileResult struct {
		Name string
		// Output is the gofmt-formatted rewritten content. When
		// Changed is false it aliases the input bytes.
		Output []byte
		Changed bool
	}

	// GuardedInterface describes one interface the rewriter guards,
	// for manifest bookkeeping.
	GuardedInterface struct {
		// Package is the import path; filled by workspace-level
		// callers, empty when rewriting bare sources.
		Package string
		// Name is the interface name, Capability the token type name.
		Name       string
		Capability string
		// Methods lists the guarded method names in source order.
		Methods []string
	}

	// Result aggregates a rewrite run over one package's files.
	Result struct {
		Files       []FileResult
		Guarded     []GuardedInterface
		Diagnostics []Diagnostic
		// Packages lists the import paths of every package whose files
		// were processed. Workspace runs populate it so manifest updates
		// know which packages the run is authoritative for.
		Packages []string
	}
)

// Changed reports whether any file in the result was rewritten.
func (r *Result) Changed() bool {
	for _, f := range r.Files {
		if f.Changed {
			return true
		}
	}
	return false
}

// Rewrite applies the implement-only transform to one package's files.
// Directives that cannot be honored produce diagnostics and leave their
// declaration untouched; only parse failures and internal edit errors
// are returned as errors.
func Rewrite(files []SourceFile, resolver Resolver, opts Options) (*Result, error) {
	rw, err := newRewriter(files, resolver, opts)
	if err != nil {
		return nil, err
	}

	rw.collectDirectives()

	return rw.apply()
}

type (
	// rewriter holds per-run state: parsed files, the package-level
	// type index, and accumulated edits and findings.
	rewriter struct {
		opts     Options
		fset     *token.FileSet
		files    []*fileState
		resolver Resolver

		// typeDecls indexes package-level type declarations by name.
		typeDecls map[string]*typeDecl
		// methods indexes method declarations by receiver base type name.
		methods map[string][]*methodDecl
		// generatedCaps tracks capability types scheduled for emission
		// in this run, so two interfaces cannot collide on one name.
		generatedCaps map[string]bool

		diags   []Diagnostic
		guarded []GuardedInterface
	}

	fileState struct {
		name string
		src  []byte
		ast  *ast.File
		tok  *token.File

		edits []edit
		// imports records import paths this file must gain, keyed by
		// path, valued by the local name the rewrite used.
		imports map[string]string
	}

	typeDecl struct {
		file *fileState
		gen  *ast.GenDecl
		spec *ast.TypeSpec
	}

	methodDecl struct {
		file *fileState
		fn   *ast.FuncDecl
	}
)

func newRewriter(files []SourceFile, resolver Resolver, opts Options) (*rewriter, error) {
	rw := &rewriter{
		opts:          opts.withDefaults(),
		fset:          token.NewFileSet(),
		resolver:      resolver,
		typeDecls:     make(map[string]*typeDecl),
		methods:       make(map[string][]*methodDecl),
		generatedCaps: make(map[string]bool),
	}

	for _, sf := range files {
		f, err := parser.ParseFile(rw.fset, sf.Name, sf.Src, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", sf.Name, err)
		}
		fs := &fileState{
			name:    sf.Name,
			src:     sf.Src,
			ast:     f,
			tok:     rw.fset.File(f.Pos()),
			imports: make(map[string]string),
		}
		rw.files = append(rw.files, fs)
	}

	rw.index()

	return rw, nil
}

// index builds the package-level type and method indexes.
func (rw *rewriter) index() {
	for _, fs := range rw.files {
		for _, decl := range fs.ast.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}
				for _, spec := range d.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					rw.typeDecls[ts.Name.Name] = &typeDecl{file: fs, gen: d, spec: ts}
				}
			case *ast.FuncDecl:
				if d.Recv == nil || len(d.Recv.List) == 0 {
					continue
				}
				base := receiverBaseName(d.Recv.List[0].Type)
				if base == "" {
					continue
				}
				rw.methods[base] = append(rw.methods[base], &methodDecl{file: fs, fn: d})
			}
		}
	}
}

// collectDirectives walks every top-level declaration, reports stray and
// unknown directives, and dispatches suit directives to the interface or
// implementation rewrite.
func (rw *rewriter) collectDirectives() {
	for _, fs := range rw.files {
		for _, decl := range fs.ast.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				rw.reportUnknownDirectives(fs, d.Doc)
				if dir, ok := suitDirective(d.Doc); ok {
					rw.diag(fs, dir.Comment.Pos(), CategoryMisplacedDirective,
						"hazmat:suit applies to interface or concrete type declarations, not functions")
				}
			case *ast.GenDecl:
				rw.collectGenDecl(fs, d)
			}
		}
	}
}

func (rw *rewriter) collectGenDecl(fs *fileState, d *ast.GenDecl) {
	rw.reportUnknownDirectives(fs, d.Doc)

	if d.Tok != token.TYPE {
		if dir, ok := suitDirective(d.Doc); ok {
			rw.diag(fs, dir.Comment.Pos(), CategoryMisplacedDirective,
				fmt.Sprintf("hazmat:suit applies to type declarations, not %s declarations", d.Tok))
		}
		return
	}

	// A directive on a grouped `type (...)` block is ambiguous; require
	// it on the individual specs instead.
	if dir, ok := suitDirective(d.Doc); ok && len(d.Specs) > 1 {
		rw.diag(fs, dir.Comment.Pos(), CategoryMalformedDirective,
			"hazmat:suit on a grouped type block is ambiguous; attach it to a single type declaration")
		return
	}

	for _, spec := range d.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		rw.reportUnknownDirectives(fs, ts.Doc)
		dir, ok := suitDirective(d.Doc, ts.Doc)
		if !ok {
			continue
		}
		if it, isIface := ts.Type.(*ast.InterfaceType); isIface {
			rw.guardInterface(fs, d, ts, it, dir)
		} else {
			rw.guardImplementation(fs, ts, dir)
		}
	}
}

// reportUnknownDirectives flags //hazmat:<key> comments with keys the
// rewriter does not recognize, so typos never silently no-op.
func (rw *rewriter) reportUnknownDirectives(fs *fileState, groups ...*ast.CommentGroup) {
	for _, d := range parseDirectives(groups...) {
		if !d.Known {
			rw.diag(fs, d.Comment.Pos(), CategoryUnknownDirective,
				fmt.Sprintf("unknown directive key %q in hazmat directive", d.Key))
		}
	}
}

func (rw *rewriter) diag(fs *fileState, pos token.Pos, category, message string) {
	rw.diags = append(rw.diags, Diagnostic{
		Pos:      rw.fset.Position(pos),
		Category: category,
		Message:  message,
	})
}

// apply splices the accumulated edits and formats the results.
func (rw *rewriter) apply() (*Result, error) {
	res := &Result{
		Guarded:     rw.guarded,
		Diagnostics: rw.diags,
	}

	for _, fs := range rw.files {
		fr := FileResult{Name: fs.name, Output: fs.src}

		edits := fs.edits
		if imp := fs.importEdit(); imp != nil {
			edits = append(edits, *imp)
		}
		if len(edits) > 0 {
			spliced, err := applyEdits(fs.src, edits)
			if err != nil {
				return nil, fmt.Errorf("rewriting %s: %w", fs.name, err)
			}
			formatted, err := format.Source(spliced)
			if err != nil {
				return nil, fmt.Errorf("formatting rewritten %s: %w", fs.name, err)
			}
			fr.Output = formatted
			fr.Changed = true
		}

		res.Files = append(res.Files, fr)
	}

	return res, nil
}

// importEdit renders the imports a file must gain as a single edit. The
// new paths go in their own import declaration right after the package
// clause; gofmt keeps separate import declarations intact and goimports
// or a later manual pass may merge them.
func (fs *fileState) importEdit() *edit {
	if len(fs.imports) == 0 {
		return nil
	}

	text := "\n\nimport (\n"
	for _, path := range sortedKeys(fs.imports) {
		name := fs.imports[path]
		if name == importBaseName(path) {
			text += fmt.Sprintf("\t%q\n", path)
		} else {
			text += fmt.Sprintf("\t%s %q\n", name, path)
		}
	}
	text += ")\n"

	off := fs.offset(fs.ast.Name.End())
	return &edit{start: off, end: off, text: text}
}

func (fs *fileState) offset(pos token.Pos) int {
	return fs.tok.Offset(pos)
}

// text returns the original source text of a node.
func (fs *fileState) text(node ast.Node) string {
	return string(fs.src[fs.offset(node.Pos()):fs.offset(node.End())])
}

// receiverBaseName unwraps pointers and type parameter instantiations to
// the receiver's defined type name.
func receiverBaseName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.StarExpr:
		return receiverBaseName(e.X)
	case *ast.IndexExpr:
		return receiverBaseName(e.X)
	case *ast.IndexListExpr:
		return receiverBaseName(e.X)
	case *ast.ParenExpr:
		return receiverBaseName(e.X)
	}
	return ""
}
