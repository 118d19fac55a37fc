package directive

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"
)

func TestParseFiles(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    map[string]Set // keyed by function name
		wantErr string
	}{
		{
			name: "static method",
			src: `package zoo

type Keeper struct{}

// Count returns the number of keepers.
//
//nominal:static
func (Keeper) Count() int { return 0 }
`,
			want: map[string]Set{"Count": {Static: true}},
		},
		{
			name: "inline method",
			src: `package zoo

type Cat struct{}

//nominal:inline 'meow'
func (Cat) Speak() string { return "" }
`,
			want: map[string]Set{"Speak": {InlineCode: "'meow'"}},
		},
		{
			name: "static and inline",
			src: `package zoo

//nominal:static
//nominal:inline  Date.now()
func Now() int { return 0 }
`,
			want: map[string]Set{"Now": {Static: true, InlineCode: "Date.now()"}},
		},
		{
			name: "plain comments ignored",
			src: `package zoo

// Feed feeds the animals.
//go:noinline
func Feed() {}
`,
			want: map[string]Set{},
		},
		{
			name: "unknown directive",
			src: `package zoo

//nominal:virtual
func Feed() {}
`,
			wantErr: "unknown directive //nominal:virtual",
		},
		{
			name: "inline without code",
			src: `package zoo

//nominal:inline
func Feed() {}
`,
			wantErr: "requires a code template",
		},
		{
			name: "duplicate inline",
			src: `package zoo

//nominal:inline a()
//nominal:inline b()
func Feed() {}
`,
			wantErr: "multiple //nominal:inline directives on Feed",
		},
		{
			name: "directive on a type",
			src: `package zoo

//nominal:static
type Keeper struct{}
`,
			wantErr: "must be followed by a function declaration",
		},
		{
			name: "detached directive",
			src: `package zoo

//nominal:static

func Feed() {}
`,
			wantErr: "must be followed by a function declaration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fset := token.NewFileSet()
			f, err := parser.ParseFile(fset, "zoo.go", tt.src, parser.ParseComments)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}

			result, err := ParseFiles(fset, []*ast.File{f})
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := make(map[string]Set)
			for _, decl := range f.Decls {
				if fn, ok := decl.(*ast.FuncDecl); ok {
					if set, ok := result[fn.Name.Pos()]; ok {
						got[fn.Name.Name] = set
					}
				}
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d functions with directives, want %d: %v", len(got), len(tt.want), got)
			}
			for name, want := range tt.want {
				if got[name] != want {
					t.Errorf("%s = %+v, want %+v", name, got[name], want)
				}
			}
		})
	}
}

func TestResultLookup(t *testing.T) {
	r := Result{token.Pos(10): {Static: true}}
	if !r.Lookup(10).Static {
		t.Error("Lookup(10) should be static")
	}
	if r.Lookup(20) != (Set{}) {
		t.Error("Lookup of an unknown position should be empty")
	}
}
