// Package directive parses nominal method directives from Go source files.
//
// Directives are line comments in the doc comment of a function or method:
//
//	//nominal:static
//	//nominal:inline <code>
//
// The static directive marks a method as static. The inline directive
// replaces calls to the method with the given code template.
package directive

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"
)

const prefix = "//nominal:"

// Kind represents the type of directive.
type Kind string

const (
	KindStatic Kind = "static"
	KindInline Kind = "inline"
)

// Directive represents a parsed nominal directive.
type Directive struct {
	Kind     Kind           // static or inline
	Arg      string         // code template for inline directives
	FuncName string         // name of the function
	Pos      token.Position // source location
}

// Set is the combined effect of the directives on one function.
type Set struct {
	Static     bool
	InlineCode string
}

// Result maps function name positions to their directives.
type Result map[token.Pos]Set

// Lookup returns the directives of the function declared at pos.
func (r Result) Lookup(pos token.Pos) Set {
	return r[pos]
}

// ParseFiles scans files for nominal directives.
//
// Returns an error if:
//   - A directive kind is unknown
//   - An inline directive has no code
//   - A function carries more than one inline directive
//   - A directive is not immediately followed by a function declaration
func ParseFiles(fset *token.FileSet, files []*ast.File) (Result, error) {
	result := make(Result)
	for _, f := range files {
		directives, err := parseFile(fset, f)
		if err != nil {
			return nil, err
		}
		for pos, ds := range directives {
			var set Set
			for _, d := range ds {
				switch d.Kind {
				case KindStatic:
					set.Static = true
				case KindInline:
					if set.InlineCode != "" {
						return nil, fmt.Errorf("%s: multiple //nominal:inline directives on %s", d.Pos, d.FuncName)
					}
					set.InlineCode = d.Arg
				}
			}
			result[pos] = set
		}
	}
	return result, nil
}

// parseFile extracts directives from a single file, keyed by the position
// of the function name they apply to.
func parseFile(fset *token.FileSet, f *ast.File) (map[token.Pos][]Directive, error) {
	// Directives are matched to the function whose doc comment group
	// contains them.
	pendingByGroup := make(map[*ast.CommentGroup][]Directive)

	for _, cg := range f.Comments {
		for _, c := range cg.List {
			text, ok := strings.CutPrefix(c.Text, prefix)
			if !ok {
				continue
			}
			kind, arg, _ := strings.Cut(text, " ")
			arg = strings.TrimSpace(arg)
			pos := fset.Position(c.Pos())
			switch Kind(kind) {
			case KindStatic:
			case KindInline:
				if arg == "" {
					return nil, fmt.Errorf("%s: //nominal:inline requires a code template", pos)
				}
			default:
				return nil, fmt.Errorf("%s: unknown directive %s%s", pos, prefix, kind)
			}
			pendingByGroup[cg] = append(pendingByGroup[cg], Directive{Kind: Kind(kind), Arg: arg, Pos: pos})
		}
	}

	directives := make(map[token.Pos][]Directive)
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Doc == nil {
			continue
		}
		ds, ok := pendingByGroup[fn.Doc]
		if !ok {
			continue
		}
		for i := range ds {
			ds[i].FuncName = fn.Name.Name
		}
		directives[fn.Name.Pos()] = ds
		delete(pendingByGroup, fn.Doc)
	}

	for _, ds := range pendingByGroup {
		d := ds[0]
		return nil, fmt.Errorf("%s: %s%s directive must be followed by a function declaration", d.Pos, prefix, d.Kind)
	}

	return directives, nil
}
